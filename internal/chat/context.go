// Package chat holds the ordered conversational history an agent reasons over.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies what an Item carries.
type Kind string

const (
	KindMessage            Kind = "message"
	KindFunctionCall       Kind = "function_call"
	KindFunctionCallOutput Kind = "function_call_output"
)

// Role is the author of a message item.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Item is one entry of a chat context. IDs are stable across copies so that
// merged histories can be deduplicated.
type Item struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Role      Role      `json:"role,omitempty"`
	Content   string    `json:"content,omitempty"`
	CallID    string    `json:"call_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Arguments string    `json:"arguments,omitempty"`
	Output    string    `json:"output,omitempty"`
	IsError   bool      `json:"is_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsInstruction reports whether the item is a system message.
func (i Item) IsInstruction() bool {
	return i.Kind == KindMessage && i.Role == RoleSystem
}

// IsFunctionRecord reports whether the item is a function call or its output.
func (i Item) IsFunctionRecord() bool {
	return i.Kind == KindFunctionCall || i.Kind == KindFunctionCallOutput
}

// Context is an ordered list of items. It is not safe for concurrent use.
type Context struct {
	items []Item
}

// NewContext creates an empty chat context
func NewContext() *Context {
	return &Context{}
}

// Items returns a copy of the items in order.
func (c *Context) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Context) Len() int {
	return len(c.items)
}

// Append adds an item as-is, keeping its ID. Items without an ID get one.
func (c *Context) Append(item Item) Item {
	if item.ID == "" {
		item.ID = newID(item.Kind)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	c.items = append(c.items, item)
	return item
}

// AddMessage appends a message authored by role.
func (c *Context) AddMessage(role Role, content string) Item {
	return c.Append(Item{Kind: KindMessage, Role: role, Content: content})
}

// AddFunctionCall appends a record of the model calling a tool.
func (c *Context) AddFunctionCall(callID, name, arguments string) Item {
	return c.Append(Item{Kind: KindFunctionCall, CallID: callID, Name: name, Arguments: arguments})
}

// AddFunctionOutput appends the rendered result of a tool call.
func (c *Context) AddFunctionOutput(callID, name, output string, isError bool) Item {
	return c.Append(Item{Kind: KindFunctionCallOutput, CallID: callID, Name: name, Output: output, IsError: isError})
}

// Contains reports whether an item with id is present.
func (c *Context) Contains(id string) bool {
	for _, item := range c.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// CopyOptions filters items during Copy.
type CopyOptions struct {
	ExcludeInstructions  bool
	ExcludeFunctionCalls bool
}

// Copy returns a new context holding the filtered items. Item IDs are preserved.
func (c *Context) Copy(opts CopyOptions) *Context {
	out := &Context{items: make([]Item, 0, len(c.items))}
	for _, item := range c.items {
		if opts.ExcludeInstructions && item.IsInstruction() {
			continue
		}
		if opts.ExcludeFunctionCalls && item.IsFunctionRecord() {
			continue
		}
		out.items = append(out.items, item)
	}
	return out
}

// Truncate keeps the last maxItems items in place. The kept window never
// starts with a function call or output, and a leading system message
// survives truncation.
func (c *Context) Truncate(maxItems int) *Context {
	if maxItems <= 0 || len(c.items) <= maxItems {
		return c
	}

	var instructions *Item
	for i := range c.items {
		if c.items[i].IsInstruction() {
			inst := c.items[i]
			instructions = &inst
			break
		}
	}

	kept := c.items[len(c.items)-maxItems:]
	for len(kept) > 0 && kept[0].IsFunctionRecord() {
		kept = kept[1:]
	}

	items := make([]Item, 0, len(kept)+1)
	if instructions != nil && !containsID(kept, instructions.ID) {
		items = append(items, *instructions)
	}
	c.items = append(items, kept...)
	return c
}

func containsID(items []Item, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func newID(kind Kind) string {
	prefix := "item_"
	switch kind {
	case KindFunctionCall:
		prefix = "fnc_"
	case KindFunctionCallOutput:
		prefix = "fnc_out_"
	}
	return prefix + uuid.NewString()
}
