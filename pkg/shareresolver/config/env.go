package config

import (
	"fmt"
	"io"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv applies environment variable overrides.
//
// Variables:
//
//	ENVIRONMENT             - development, production, testing
//	CHANNEL_NAME            - method channel name
//	CACHE_DIR               - where copied content is written
//	PROVIDER_URL            - memory:// (default), file:///root?authority=name, s3://bucket[,bucket]
//	DATABASE_URL            - memory (default) or postgres://... for the pending store
//	API_KEY_SHA256          - guards the HTTP API when set
//	ENABLE_EVENT_LOGGING    - log every handled share event
//	AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_S3_ENDPOINT, AWS_S3_USE_PATH_STYLE
//
// Unset variables keep the value already in the config. HOST and PORT are
// read by the chi-demo app, not here.
func WithEnv() Option {
	return func(c *Config) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// LoadFromEnv loads configuration from defaults plus the environment
func LoadFromEnv(opts ...Option) (*Config, error) {
	return Load(append([]Option{WithEnv()}, opts...)...)
}

// Usage writes a description of every environment variable to w
func Usage(w io.Writer) error {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
