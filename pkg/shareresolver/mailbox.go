package shareresolver

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Mailbox holds at most one pending path for a channel. All operations are
// serialized so a Put never interleaves with a Peek or Clear.
type Mailbox struct {
	mu      sync.Mutex
	channel string
	store   PendingStore
}

// NewMailbox creates a mailbox for channel backed by store
func NewMailbox(channel string, store PendingStore) *Mailbox {
	return &Mailbox{
		channel: channel,
		store:   store,
	}
}

// Put overwrites the pending path
func (m *Mailbox) Put(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Store(ctx, m.channel, path); err != nil {
		return fmt.Errorf("failed to store pending path: %w", err)
	}
	return nil
}

// Peek returns the pending path without clearing it
func (m *Mailbox) Peek(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, ok, err := m.store.Load(ctx, m.channel)
	if err != nil {
		return "", false, fmt.Errorf("failed to load pending path: %w", err)
	}
	return path, ok, nil
}

// Clear drops the pending path, if any
func (m *Mailbox) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(ctx, m.channel); err != nil {
		return fmt.Errorf("failed to clear pending path: %w", err)
	}
	return nil
}

// Close releases the backing store when it holds resources
func (m *Mailbox) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if closer, ok := m.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
