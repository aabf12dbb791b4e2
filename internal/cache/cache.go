package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/adilg123/huffman-compression-tool/internal/config"
	"github.com/adilg123/huffman-compression-tool/internal/metrics"
	"github.com/allegro/bigcache"
	"github.com/rs/zerolog"
)

// ResultCache keeps recent compress/decompress results keyed by the
// operation, its options and a digest of the input. Encoding is
// deterministic, so a hit is byte-identical to a fresh run.
type ResultCache struct {
	logger zerolog.Logger
	cache  *bigcache.BigCache
}

// New returns nil when caching is disabled; a nil *ResultCache is a valid
// cache that never hits.
func New(cfg config.CacheConfig, logger zerolog.Logger) (*ResultCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	shards := cfg.Shards
	if shards <= 0 || shards&(shards-1) != 0 {
		shards = 64
	}

	_cacheConfig := bigcache.Config{
		// number of shards (must be a power of 2)
		Shards: shards,

		// time after which entry can be evicted
		LifeWindow: cfg.LifeWindow,

		// bigcache has a one second resolution
		CleanWindow: cfg.LifeWindow,

		MaxEntriesInWindow: 1024,

		// max entry size in bytes, used only in initial memory allocation
		MaxEntrySize: 4096,

		// cache will not allocate more memory than this limit, value in MB
		HardMaxCacheSize: cfg.SizeMB,
	}

	cache, err := bigcache.NewBigCache(_cacheConfig)
	if err != nil {
		return nil, err
	}

	logger.Info().Msgf("Result cache size: %d MB", _cacheConfig.HardMaxCacheSize)

	return &ResultCache{
		logger: logger.With().Str("name", "cache").Logger(),
		cache:  cache,
	}, nil
}

// Key identifies one operation over one input.
func Key(operation, algorithm string, blockSize int, data []byte) string {
	sum := sha256.Sum256(data)
	return operation + ":" + algorithm + ":" + strconv.Itoa(blockSize) + ":" + hex.EncodeToString(sum[:])
}

func (c *ResultCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	v, err := c.cache.Get(key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return v, true
}

func (c *ResultCache) Set(key string, value []byte) {
	if c == nil {
		return
	}
	if err := c.cache.Set(key, value); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Int("size", len(value)).Msg("Failed to cache result")
	}
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
