package config

import (
	"fmt"
)

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *Config) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithChannelName sets the method channel name
func WithChannelName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("channel name cannot be empty")
		}
		c.ChannelName = name
		return nil
	}
}

// WithCacheDir sets the directory copied content is written to
func WithCacheDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return fmt.Errorf("cache directory cannot be empty")
		}
		c.CacheDir = dir
		return nil
	}
}

// WithProviderURL selects the content provider by URL
func WithProviderURL(providerURL string) Option {
	return func(c *Config) error {
		c.ProviderURL = providerURL
		return nil
	}
}

// WithFilesystemRoot maps a content URI authority to a directory
func WithFilesystemRoot(authority, dir string) Option {
	return func(c *Config) error {
		if authority == "" || dir == "" {
			return fmt.Errorf("filesystem root needs an authority and a directory")
		}
		if c.FSRoots == nil {
			c.FSRoots = make(map[string]string)
		}
		c.FSRoots[authority] = dir
		return nil
	}
}

// WithFilesystemDisplayName overrides the display name the fs provider reports
// for one content URI
func WithFilesystemDisplayName(uri, name string) Option {
	return func(c *Config) error {
		if uri == "" || name == "" {
			return fmt.Errorf("display name override needs a uri and a name")
		}
		if c.FSDisplayNames == nil {
			c.FSDisplayNames = make(map[string]string)
		}
		c.FSDisplayNames[uri] = name
		return nil
	}
}

// WithDatabaseURL selects the pending path store
func WithDatabaseURL(dbURL string) Option {
	return func(c *Config) error {
		c.DatabaseURL = dbURL
		return nil
	}
}

// WithS3 sets S3 connection settings for the s3:// provider
func WithS3(s3 S3Config) Option {
	return func(c *Config) error {
		if s3.Region == "" {
			s3.Region = c.S3.Region
		}
		c.S3 = s3
		return nil
	}
}

// WithAPIKeySHA256 guards the HTTP API with an API key
func WithAPIKeySHA256(sum string) Option {
	return func(c *Config) error {
		c.APIKeySHA256 = sum
		return nil
	}
}

// WithEventLogging toggles logging of every handled share event
func WithEventLogging(enabled bool) Option {
	return func(c *Config) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
