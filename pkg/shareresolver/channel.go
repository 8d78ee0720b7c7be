package shareresolver

import (
	"context"
	"log/slog"
	"sync"

	pendingmemory "github.com/tendant/share-resolver/pkg/shareresolver/pending/memory"
)

// Channel is the native end of a named method channel. It owns the pending
// path and, when a consumer is attached, pushes new paths to it.
type Channel struct {
	name    string
	mailbox *Mailbox
	logger  *slog.Logger

	mu        sync.RWMutex
	messenger Messenger
}

// ChannelOption configures a Channel
type ChannelOption func(*channelConfig)

type channelConfig struct {
	store     PendingStore
	messenger Messenger
	logger    *slog.Logger
}

// WithPendingStore sets where the pending path is kept
func WithPendingStore(store PendingStore) ChannelOption {
	return func(c *channelConfig) {
		c.store = store
	}
}

// WithMessenger attaches a messenger at construction time
func WithMessenger(m Messenger) ChannelOption {
	return func(c *channelConfig) {
		c.messenger = m
	}
}

// WithChannelLogger sets the logger used for swallowed push failures
func WithChannelLogger(logger *slog.Logger) ChannelOption {
	return func(c *channelConfig) {
		c.logger = logger
	}
}

// NewChannel creates a channel. Without WithPendingStore the pending path is
// kept in process memory.
func NewChannel(name string, opts ...ChannelOption) *Channel {
	cfg := channelConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if name == "" {
		name = DefaultChannelName
	}
	if cfg.store == nil {
		cfg.store = pendingmemory.New()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Channel{
		name:      name,
		mailbox:   NewMailbox(name, cfg.store),
		logger:    cfg.logger,
		messenger: cfg.messenger,
	}
}

// Name returns the channel name
func (c *Channel) Name() string {
	return c.name
}

// Attach sets the messenger used for pushes, replacing any previous one
func (c *Channel) Attach(m Messenger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messenger = m
}

// Detach drops the messenger; pending paths wait for a pull
func (c *Channel) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messenger = nil
}

// Attached reports whether pushes currently have a listener
func (c *Channel) Attached() bool {
	m := c.currentMessenger()
	return m != nil && m.Attached()
}

func (c *Channel) currentMessenger() Messenger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.messenger
}

// Close detaches the consumer and releases the pending store
func (c *Channel) Close() error {
	c.Detach()
	return c.mailbox.Close()
}

// Deliver stores path as pending and pushes it when a consumer is attached.
// It reports whether the push happened. Push failures leave the path pending
// and are not returned; only a failure to store the path is.
func (c *Channel) Deliver(ctx context.Context, path string) (bool, error) {
	if err := c.mailbox.Put(ctx, path); err != nil {
		return false, err
	}

	m := c.currentMessenger()
	if m == nil || !m.Attached() {
		return false, nil
	}
	if err := m.InvokeMethod(ctx, MethodOnNewIntent, path); err != nil {
		c.logger.Debug("Push failed, path stays pending", "channel", c.name, "path", path, "error", err)
		return false, nil
	}
	return true, nil
}

// InitialPath returns the pending path without consuming it
func (c *Channel) InitialPath(ctx context.Context) (string, bool, error) {
	return c.mailbox.Peek(ctx)
}

// ConsumePendingPath clears the pending path
func (c *Channel) ConsumePendingPath(ctx context.Context) error {
	return c.mailbox.Clear(ctx)
}

// HandleMethodCall serves calls made by the application layer. The result is
// the pending path (or nil) for the get methods and nil for the consume methods.
func (c *Channel) HandleMethodCall(ctx context.Context, call MethodCall) (interface{}, error) {
	switch call.Method {
	case MethodGetInitialPath, MethodGetInitialIntent:
		path, ok, err := c.InitialPath(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return path, nil
	case MethodConsumePendingPath, MethodConsumeInitialIntent:
		if err := c.ConsumePendingPath(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, ErrNotImplemented
	}
}
