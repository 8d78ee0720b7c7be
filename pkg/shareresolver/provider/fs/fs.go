package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tendant/share-resolver/pkg/shareresolver"
)

// Provider is a filesystem implementation of the shareresolver.ContentResolver
// interface. Each URI authority maps to a root directory and the URI path is
// resolved beneath it.
type Provider struct {
	roots        map[string]string
	displayNames map[string]string
}

// Config options for the filesystem provider
type Config struct {
	Roots        map[string]string // authority -> root directory
	DisplayNames map[string]string // optional uri -> display name overrides
}

// New creates a new filesystem content provider
func New(config Config) (*Provider, error) {
	if len(config.Roots) == 0 {
		return nil, errors.New("at least one authority root is required")
	}

	roots := make(map[string]string, len(config.Roots))
	for authority, dir := range config.Roots {
		if authority == "" || dir == "" {
			return nil, fmt.Errorf("invalid root %q -> %q", authority, dir)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root for %s: %w", authority, err)
		}
		roots[authority] = abs
	}

	names := make(map[string]string, len(config.DisplayNames))
	for uri, name := range config.DisplayNames {
		names[uri] = name
	}

	return &Provider{
		roots:        roots,
		displayNames: names,
	}, nil
}

// filePath maps uri to a file beneath its authority's root
func (p *Provider) filePath(uri string) (string, error) {
	authority, objectPath, err := shareresolver.ParseContentURI(uri)
	if err != nil {
		return "", err
	}
	root, ok := p.roots[authority]
	if !ok {
		return "", fmt.Errorf("unknown authority %q: %w", authority, shareresolver.ErrContentNotFound)
	}
	// ParseContentURI already cleaned the path, so the join cannot leave root
	return filepath.Join(root, filepath.FromSlash(objectPath)), nil
}

// DisplayName returns the configured override or the file's base name
func (p *Provider) DisplayName(ctx context.Context, uri string) (string, error) {
	filePath, err := p.filePath(uri)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return "", shareresolver.ErrContentNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", uri, shareresolver.ErrContentNotFound)
	}

	if name, ok := p.displayNames[uri]; ok {
		return name, nil
	}
	return info.Name(), nil
}

// Open opens the file behind uri for reading
func (p *Provider) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	filePath, err := p.filePath(uri)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, shareresolver.ErrContentNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
