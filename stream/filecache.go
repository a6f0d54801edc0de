package stream

import (
	"fmt"
	"os"

	"github.com/goburrow/cache"

	"github.com/stewi1014/hsstream/encio"
)

// DefaultCachedFiles is the number of files a FileCache holds when no limit is given.
const DefaultCachedFiles = 16

// FileCache preloads whole files into memory and serves them as ReadOnly streams.
// Loaded files are kept, least recently used first out, until the cache is full.
// It is safe for concurrent use; the returned streams are not.
type FileCache struct {
	config *Config
	files  cache.LoadingCache
}

// NewFileCache returns a FileCache holding up to maxFiles files.
func NewFileCache(maxFiles int, config *Config) *FileCache {
	if maxFiles <= 0 {
		maxFiles = DefaultCachedFiles
	}

	fc := &FileCache{
		config: config.copyAndFill(),
	}
	fc.files = cache.NewLoadingCache(fc.load, cache.WithMaximumSize(maxFiles))
	return fc
}

func (fc *FileCache) load(key cache.Key) (cache.Value, error) {
	name, ok := key.(string)
	if !ok {
		return nil, encio.NewError(encio.ErrOpenFailed, fmt.Sprintf("bad cache key %T", key), "")
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, encio.NewIOError(fmt.Errorf("%w: %w", encio.ErrOpenFailed, err), "preloading "+name)
	}
	return data, nil
}

// Open returns a ReadOnly stream over the content of name, loading it on first use.
func (fc *FileCache) Open(name string) (*ReadOnly, error) {
	v, err := fc.files.Get(name)
	if err != nil {
		return nil, err
	}
	return NewReadOnly(v.([]byte), fc.config), nil
}

// Invalidate drops name from the cache, so the next Open reads it again.
func (fc *FileCache) Invalidate(name string) {
	fc.files.Invalidate(name)
}

// Stats returns the cache's hit, miss and load counts.
func (fc *FileCache) Stats() cache.Stats {
	var stats cache.Stats
	fc.files.Stats(&stats)
	return stats
}

// Close releases all cached files.
func (fc *FileCache) Close() error {
	return fc.files.Close()
}
