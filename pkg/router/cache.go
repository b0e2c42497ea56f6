package router

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/Qwerty0x64/Slim/pkg/pattern"
	"go.uber.org/zap"
)

// SetCacheFile configures a file for persisting compiled route data across
// process startups. If the file exists and is readable, compiled data is
// loaded from it and Map skips recompiling patterns found there; otherwise
// routes compile normally and the compiled table is written to the file when
// the pipeline freezes.
//
// The cache content is a pure function of the registered routes at the time
// of writing. A stale cache after route changes is the operator's
// responsibility: delete the file to force a recompile. SetCacheFile must be
// called before any route is registered.
func (r *Router) SetCacheFile(path string) error {
	if r.frozen.Load() {
		return common.NewConfigurationError("cannot set cache file: pipeline already frozen")
	}
	if len(r.routes) != 0 {
		return common.NewConfigurationError("cannot set cache file: routes already registered")
	}

	cached, err := loadCache(path)
	if err != nil {
		return &common.ConfigurationError{Msg: "cannot read route cache " + path, Err: err}
	}

	r.cacheFile = path
	r.cached = cached
	r.writeCache = cached == nil

	if cached != nil {
		r.logger.Debug("Route cache loaded",
			zap.String("file", path),
			zap.Int("patterns", len(cached)),
		)
	}
	return nil
}

// compile produces the matcher for a full pattern, preferring the loaded
// cache over a fresh compilation.
func (r *Router) compile(full string) (*pattern.Compiled, error) {
	if d, ok := r.cached[full]; ok {
		return pattern.FromData(d)
	}
	return pattern.Compile(full)
}

// saveCache persists the compiled form of every registered route.
func (r *Router) saveCache() error {
	table := make(map[string]pattern.Data, len(r.routes))
	for _, rt := range r.routes {
		table[rt.pattern] = rt.compiled.Data()
	}

	f, err := os.Create(r.cacheFile)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadCache reads a cache artifact. A missing file is not an error; it
// simply means the cache has not been written yet.
func loadCache(path string) (map[string]pattern.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var table map[string]pattern.Data
	if err := gob.NewDecoder(f).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode route cache: %w", err)
	}
	return table, nil
}
