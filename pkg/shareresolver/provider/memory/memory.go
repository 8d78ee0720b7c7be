package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tendant/share-resolver/pkg/shareresolver"
)

type entry struct {
	displayName string
	data        []byte
}

// Provider is an in-memory implementation of the shareresolver.ContentResolver interface
type Provider struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a new in-memory content provider
func New() *Provider {
	return &Provider{
		entries: make(map[string]entry),
	}
}

// Put registers content under uri. An empty displayName is reported as unknown.
func (p *Provider) Put(uri, displayName string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries[uri] = entry{
		displayName: displayName,
		data:        append([]byte(nil), data...),
	}
}

// Remove drops the content registered under uri
func (p *Provider) Remove(uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, uri)
}

func (p *Provider) DisplayName(ctx context.Context, uri string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.entries[uri]
	if !ok {
		return "", shareresolver.ErrContentNotFound
	}
	return e.displayName, nil
}

func (p *Provider) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.entries[uri]
	if !ok {
		return nil, shareresolver.ErrContentNotFound
	}
	return io.NopCloser(bytes.NewReader(e.data)), nil
}
