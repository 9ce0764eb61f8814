package directory

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/cache"
	"github.com/ppiankov/legisref/internal/model"
)

// ErrNoDirectory is returned by Open when no directory path is configured
var ErrNoDirectory = errors.New("no legislator directory configured")

const (
	KindYAML   = "yaml"
	KindSQLite = "sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InferKind guesses the directory kind from a file extension
func InferKind(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("cannot infer directory kind from %q (set directory.kind)", path)
	}
}

// Open builds the configured directory, wrapped with throttling and caching
// as requested. The returned closer releases the underlying store.
func Open(dirCfg model.DirectoryConfig, cacheCfg model.CacheConfig, logger *zap.Logger) (Finder, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dirCfg.Path == "" {
		return nil, nil, ErrNoDirectory
	}

	kind := strings.ToLower(dirCfg.Kind)
	if kind == "" {
		var err error
		if kind, err = InferKind(dirCfg.Path); err != nil {
			return nil, nil, err
		}
	}

	var (
		base   Finder
		closer io.Closer = nopCloser{}
	)
	switch kind {
	case KindYAML:
		legislators, err := LoadYAML(dirCfg.Path)
		if err != nil {
			return nil, nil, err
		}
		base = NewMemory(legislators)
		logger.Debug("loaded YAML directory",
			zap.String("path", dirCfg.Path),
			zap.Int("legislators", len(legislators)),
		)
	case KindSQLite:
		store, err := OpenSQLite(dirCfg.Path)
		if err != nil {
			return nil, nil, err
		}
		base, closer = store, store
		logger.Debug("opened SQLite directory", zap.String("path", dirCfg.Path))
	default:
		return nil, nil, fmt.Errorf("unknown directory kind: %q (expected yaml or sqlite)", dirCfg.Kind)
	}

	finder := base
	if dirCfg.LookupsPerSecond > 0 {
		finder = NewThrottled(finder, dirCfg.LookupsPerSecond, dirCfg.Burst)
	}

	if cacheCfg.Enabled {
		var c cache.Cache
		if cacheCfg.Dir != "" {
			c = cache.NewLayeredCache(cacheCfg.TTL, cacheCfg.Dir, cacheCfg.TTL)
		} else {
			c = cache.NewMemoryCache(cacheCfg.TTL, 10*time.Minute)
		}
		finder = NewCached(finder, c, cacheCfg.TTL, logger)
	}

	return finder, closer, nil
}
