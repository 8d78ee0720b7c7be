package shareresolver

import (
	"context"
	"io"
)

// ContentResolver reads content referenced by opaque "content" URIs
type ContentResolver interface {
	// DisplayName returns the human-readable name of the content, or "" when unknown
	DisplayName(ctx context.Context, uri string) (string, error)

	// Open returns a stream over the content's bytes
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// FileCopier is implemented by providers that write content directly into a
// file at arbitrary offsets. The resolver prefers it over Open when present.
type FileCopier interface {
	CopyToFile(ctx context.Context, uri string, dst io.WriterAt) (int64, error)
}

// Messenger pushes calls to the application layer
type Messenger interface {
	// Attached reports whether the application layer is listening
	Attached() bool

	// InvokeMethod sends a fire-and-forget call to the application layer
	InvokeMethod(ctx context.Context, method string, arguments interface{}) error
}

// PendingStore persists the pending path of each channel
type PendingStore interface {
	// Load returns the pending path and whether one is set
	Load(ctx context.Context, channel string) (string, bool, error)

	// Store overwrites the pending path
	Store(ctx context.Context, channel, path string) error

	// Clear removes the pending path; clearing an empty slot is not an error
	Clear(ctx context.Context, channel string) error
}

// EventSink receives notifications about handled events
type EventSink interface {
	// ShareIgnored is fired when an event is not a recognized request
	ShareIgnored(ctx context.Context, outcome Outcome) error

	// ShareResolved is fired when a path was resolved and stored
	ShareResolved(ctx context.Context, outcome Outcome) error

	// ShareFailed is fired when resolution failed
	ShareFailed(ctx context.Context, outcome Outcome) error

	// ShareDelivered is fired when a push reached the application layer
	ShareDelivered(ctx context.Context, outcome Outcome) error
}
