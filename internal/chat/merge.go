package chat

// Merger appends items from one context into another, skipping items that are
// already present by ID. Repeated merges of the same history are no-ops.
type Merger struct{}

// NewMerger creates a new Merger
func NewMerger() *Merger {
	return &Merger{}
}

// Merge appends the items of src missing from dst and returns how many were added.
func (m *Merger) Merge(dst, src *Context) int {
	seen := make(map[string]bool, len(dst.items))
	for _, item := range dst.items {
		seen[item.ID] = true
	}

	added := 0
	for _, item := range src.items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		dst.items = append(dst.items, item)
		added++
	}
	return added
}
