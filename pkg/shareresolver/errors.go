package shareresolver

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNoContentResolver indicates a content URI arrived but no provider is configured
	ErrNoContentResolver = errors.New("no content resolver configured")

	// ErrContentNotFound indicates the provider has no content for the URI
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidContentURI indicates a content URI without authority or path
	ErrInvalidContentURI = errors.New("invalid content uri")

	// ErrEmptyPath indicates resolution produced no usable path
	ErrEmptyPath = errors.New("resolved path is empty")

	// ErrNotImplemented is returned for method calls the channel does not serve
	ErrNotImplemented = errors.New("method not implemented")
)

// ResolveError represents a failed URI resolution
type ResolveError struct {
	URI    string
	Scheme string
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s uri %q failed: %v", e.Scheme, e.URI, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// CopyError represents a failed copy-out step
type CopyError struct {
	URI    string
	Target string
	Op     string // "open", "create", "copy", "close"
	Err    error
}

func (e *CopyError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("copy-out %s failed for %s: %v", e.Op, e.URI, e.Err)
	}
	return fmt.Sprintf("copy-out %s failed for %s -> %s: %v", e.Op, e.URI, e.Target, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
