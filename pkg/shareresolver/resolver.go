package shareresolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Resolver resolves share events to local paths and delivers them on a Channel
type Resolver struct {
	channel  *Channel
	content  ContentResolver
	cacheDir string
	now      func() time.Time
	events   EventSink
	logger   *slog.Logger

	// serializes copy-outs so collision checks and file creation do not race
	copyMu sync.Mutex
}

// Option represents a functional option for configuring the resolver
type Option func(*Resolver)

// WithChannel sets the channel paths are delivered on
func WithChannel(ch *Channel) Option {
	return func(r *Resolver) {
		r.channel = ch
	}
}

// WithContentResolver sets the provider used for "content" URIs
func WithContentResolver(cr ContentResolver) Option {
	return func(r *Resolver) {
		r.content = cr
	}
}

// WithCacheDir sets the directory copied content is written to
func WithCacheDir(dir string) Option {
	return func(r *Resolver) {
		r.cacheDir = dir
	}
}

// WithClock overrides the time source used to disambiguate file names
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithEventSink sets the event sink for the resolver
func WithEventSink(sink EventSink) Option {
	return func(r *Resolver) {
		r.events = sink
	}
}

// WithLogger sets the logger for the resolver
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver. A cache directory is required; it is created when missing.
func New(options ...Option) (*Resolver, error) {
	r := &Resolver{
		now: time.Now,
	}
	for _, option := range options {
		option(r)
	}

	if r.cacheDir == "" {
		return nil, errors.New("cache directory is required")
	}
	abs, err := filepath.Abs(r.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	r.cacheDir = abs

	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.channel == nil {
		r.channel = NewChannel(DefaultChannelName, WithChannelLogger(r.logger))
	}
	if r.events == nil {
		r.events = NewNoopEventSink()
	}

	return r, nil
}

// Channel returns the channel the resolver delivers on
func (r *Resolver) Channel() *Channel {
	return r.channel
}

// CacheDir returns the absolute cache directory
func (r *Resolver) CacheDir() string {
	return r.cacheDir
}

// Handle resolves ev and delivers the resulting path. It never fails: an
// unrecognized event is reported as ignored, a failed resolution as failed
// with the cause in Outcome.Err, and the pending path is left untouched in
// both cases.
func (r *Resolver) Handle(ctx context.Context, ev Event) Outcome {
	out := Outcome{
		EventID: uuid.New(),
		URI:     ev.URI(),
	}

	if !ev.Action.Recognized() || out.URI == "" {
		out.Status = OutcomeIgnored
		r.logger.Debug("Share event ignored", "event_id", out.EventID, "action", ev.Action)
		r.fire(ctx, r.events.ShareIgnored, out)
		return out
	}

	path, err := r.Resolve(ctx, out.URI)
	if err != nil {
		out.Status = OutcomeFailed
		out.Err = err
		r.logger.Warn("Share resolution failed", "event_id", out.EventID, "uri", out.URI, "error", err)
		r.fire(ctx, r.events.ShareFailed, out)
		return out
	}

	delivered, err := r.channel.Deliver(ctx, path)
	if err != nil {
		out.Status = OutcomeFailed
		out.Err = err
		r.logger.Error("Failed to store pending path", "event_id", out.EventID, "path", path, "error", err)
		r.fire(ctx, r.events.ShareFailed, out)
		return out
	}

	out.Status = OutcomeResolved
	out.Path = path
	out.Delivered = delivered
	r.logger.Debug("Share resolved", "event_id", out.EventID, "path", path, "delivered", delivered)
	r.fire(ctx, r.events.ShareResolved, out)
	if delivered {
		r.fire(ctx, r.events.ShareDelivered, out)
	}
	return out
}

// Close releases the channel's pending store and the content provider when
// either holds resources, such as a database pool.
func (r *Resolver) Close() error {
	var errs []error
	if err := r.channel.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
	}
	if closer, ok := r.content.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close content provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (r *Resolver) fire(ctx context.Context, hook func(context.Context, Outcome) error, out Outcome) {
	if err := hook(ctx, out); err != nil {
		r.logger.Debug("Event sink error", "event_id", out.EventID, "error", err)
	}
}

// Resolve maps a URI to a local path. "file" URIs and unknown schemes yield
// the URI's path with no I/O; "content" URIs are copied into the cache directory.
func (r *Resolver) Resolve(ctx context.Context, rawURI string) (string, error) {
	scheme, path := splitURI(rawURI)

	switch scheme {
	case SchemeContent:
		target, err := r.copyOut(ctx, rawURI)
		if err != nil {
			return "", &ResolveError{URI: rawURI, Scheme: scheme, Err: err}
		}
		return target, nil
	default:
		if path == "" {
			return "", &ResolveError{URI: rawURI, Scheme: scheme, Err: ErrEmptyPath}
		}
		return path, nil
	}
}

func (r *Resolver) copyOut(ctx context.Context, uri string) (string, error) {
	if r.content == nil {
		return "", ErrNoContentResolver
	}

	r.copyMu.Lock()
	defer r.copyMu.Unlock()

	name, err := r.content.DisplayName(ctx, uri)
	if err != nil {
		return "", &CopyError{URI: uri, Op: "query", Err: err}
	}
	target := r.targetPath(safeName(name))

	if copier, ok := r.content.(FileCopier); ok {
		if err := r.copyWithCopier(ctx, copier, uri, target); err != nil {
			return "", err
		}
		return target, nil
	}

	src, err := r.content.Open(ctx, uri)
	if err != nil {
		return "", &CopyError{URI: uri, Op: "open", Err: err}
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", &CopyError{URI: uri, Target: target, Op: "create", Err: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", &CopyError{URI: uri, Target: target, Op: "copy", Err: err}
	}
	if err := dst.Close(); err != nil {
		return "", &CopyError{URI: uri, Target: target, Op: "close", Err: err}
	}
	return target, nil
}

func (r *Resolver) copyWithCopier(ctx context.Context, copier FileCopier, uri, target string) error {
	dst, err := os.Create(target)
	if err != nil {
		return &CopyError{URI: uri, Target: target, Op: "create", Err: err}
	}
	if _, err := copier.CopyToFile(ctx, uri, dst); err != nil {
		dst.Close()
		return &CopyError{URI: uri, Target: target, Op: "copy", Err: err}
	}
	if err := dst.Close(); err != nil {
		return &CopyError{URI: uri, Target: target, Op: "close", Err: err}
	}
	return nil
}

// targetPath picks the cache file for name. An existing file with the same
// name is kept and the new one is prefixed with the current Unix millisecond
// timestamp; two copies within the same millisecond still collide.
func (r *Resolver) targetPath(name string) string {
	base := filepath.Join(r.cacheDir, name)
	if _, err := os.Stat(base); err != nil {
		return base
	}
	return filepath.Join(r.cacheDir, fmt.Sprintf("%d_%s", r.now().UnixMilli(), name))
}

// safeName reduces a display name to a single path element
func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return FallbackDisplayName
	}
	return name
}
