package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/share-resolver/pkg/shareresolver"
	pendingpg "github.com/tendant/share-resolver/pkg/shareresolver/pending/postgres"
	fsprovider "github.com/tendant/share-resolver/pkg/shareresolver/provider/fs"
	memoryprovider "github.com/tendant/share-resolver/pkg/shareresolver/provider/memory"
	s3provider "github.com/tendant/share-resolver/pkg/shareresolver/provider/s3"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Environment:        "development",
		ChannelName:        shareresolver.DefaultChannelName,
		CacheDir:           "./data/cache",
		ProviderURL:        "memory://",
		DatabaseURL:        "memory",
		EnableEventLogging: true,
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Config represents configuration for the share resolver service. The
// listen address is not part of it: the chi-demo app reads HOST and PORT.
type Config struct {
	Environment string `env:"ENVIRONMENT" env-description:"development, production, testing"`

	ChannelName string `env:"CHANNEL_NAME" env-description:"method channel name"`
	CacheDir    string `env:"CACHE_DIR" env-description:"directory copied content is written to"`

	// ProviderURL selects the content provider: memory://, file:///root?authority=name or s3://[bucket,...]
	ProviderURL string `env:"PROVIDER_URL" env-description:"content provider URL"`

	// DatabaseURL selects the pending path store: memory or postgres://...
	DatabaseURL string `env:"DATABASE_URL" env-description:"pending path store (memory or postgres URL)"`

	APIKeySHA256       string `env:"API_KEY_SHA256" env-description:"SHA-256 of the API key guarding /api routes"`
	EnableEventLogging bool   `env:"ENABLE_EVENT_LOGGING" env-description:"log every handled share event"`

	S3 S3Config

	// Extra filesystem roots added programmatically, authority -> directory
	FSRoots map[string]string

	// Display name overrides for the fs provider, content URI -> name
	FSDisplayNames map[string]string
}

// S3Config holds credentials for the s3:// provider
type S3Config struct {
	Region          string `env:"AWS_REGION" env-description:"AWS region"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-description:"AWS access key ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-description:"AWS secret access key"`
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-description:"S3-compatible endpoint"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-description:"use path-style addressing"`
}

// ProviderSpec is the parsed form of ProviderURL
type ProviderSpec struct {
	Type    string // "memory", "fs", "s3"
	Roots   map[string]string
	Buckets []string
}

// Provider parses ProviderURL and merges programmatic filesystem roots
func (c *Config) Provider() (ProviderSpec, error) {
	raw := strings.TrimSpace(c.ProviderURL)
	if raw == "" || raw == "memory" || raw == "memory://" {
		if len(c.FSRoots) > 0 {
			return ProviderSpec{Type: "fs", Roots: copyMap(c.FSRoots)}, nil
		}
		return ProviderSpec{Type: "memory"}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ProviderSpec{}, fmt.Errorf("invalid PROVIDER_URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return ProviderSpec{}, errors.New("filesystem path cannot be empty in PROVIDER_URL")
		}
		authority := u.Query().Get("authority")
		if authority == "" {
			authority = "files"
		}
		roots := copyMap(c.FSRoots)
		roots[authority] = u.Path
		return ProviderSpec{Type: "fs", Roots: roots}, nil
	case "s3":
		var buckets []string
		for _, b := range strings.Split(u.Host, ",") {
			if b = strings.TrimSpace(b); b != "" {
				buckets = append(buckets, b)
			}
		}
		return ProviderSpec{Type: "s3", Buckets: buckets}, nil
	default:
		return ProviderSpec{}, fmt.Errorf("unsupported PROVIDER_URL format: %s (use 'memory://', 'file://...', or 's3://...')", raw)
	}
}

// DatabaseType returns "memory" or "postgres" based on DatabaseURL
func (c *Config) DatabaseType() (string, error) {
	dbURL := strings.TrimSpace(c.DatabaseURL)
	switch {
	case dbURL == "" || dbURL == "memory":
		return "memory", nil
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return errors.New("cache_dir is required")
	}
	if c.ChannelName == "" {
		return errors.New("channel_name is required")
	}
	if _, err := c.Provider(); err != nil {
		return err
	}
	if _, err := c.DatabaseType(); err != nil {
		return err
	}
	return nil
}

// BuildResolver creates a Resolver, with its channel, provider and pending
// store, from the configuration
func (c *Config) BuildResolver(ctx context.Context, logger *slog.Logger) (*shareresolver.Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := c.buildProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to build content provider: %w", err)
	}

	store, err := c.buildPendingStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build pending store: %w", err)
	}

	channel := shareresolver.NewChannel(c.ChannelName,
		shareresolver.WithPendingStore(store),
		shareresolver.WithChannelLogger(logger),
	)

	options := []shareresolver.Option{
		shareresolver.WithCacheDir(c.CacheDir),
		shareresolver.WithChannel(channel),
		shareresolver.WithContentResolver(provider),
		shareresolver.WithLogger(logger),
	}
	if c.EnableEventLogging {
		options = append(options, shareresolver.WithEventSink(shareresolver.NewLoggingEventSink(logger)))
	}

	return shareresolver.New(options...)
}

func (c *Config) buildPendingStore(ctx context.Context) (shareresolver.PendingStore, error) {
	dbType, err := c.DatabaseType()
	if err != nil {
		return nil, err
	}

	switch dbType {
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		store := pendingpg.NewWithPool(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		// nil selects the channel's in-memory store
		return nil, nil
	}
}

func (c *Config) buildProvider() (shareresolver.ContentResolver, error) {
	spec, err := c.Provider()
	if err != nil {
		return nil, err
	}

	switch spec.Type {
	case "fs":
		return fsprovider.New(fsprovider.Config{
			Roots:        spec.Roots,
			DisplayNames: copyMap(c.FSDisplayNames),
		})
	case "s3":
		return s3provider.New(s3provider.Config{
			Region:          c.S3.Region,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
			Buckets:         spec.Buckets,
		})
	default:
		return memoryprovider.New(), nil
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
