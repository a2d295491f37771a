package internal

import "fmt"

// StorageError represents errors accessing a backing store
type StorageError struct {
	Path string
	Op   string // "open", "migrate", "query", "insert", "ping"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError represents missing or invalid configuration
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ConversationError represents a failure while driving a conversation
type ConversationError struct {
	Demo  string
	Agent string
	Err   error
}

func (e *ConversationError) Error() string {
	return fmt.Sprintf("conversation error [%s/%s]: %v", e.Demo, e.Agent, e.Err)
}

func (e *ConversationError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
