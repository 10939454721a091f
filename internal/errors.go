package internal

import (
	"errors"
	"fmt"
)

// ErrMissingQuery is returned when a search is requested without a query
// string. No storage is touched in that case.
var ErrMissingQuery = errors.New("search query is required")

// StorageError represents errors accessing storage files
type StorageError struct {
	Path string
	Op   string // "open", "read"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding a single persisted record
type ParseError struct {
	Source string // "globalStorage", "workspaceStorage"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
