package api

import (
	"github.com/algorand/go-deadlock"

	"github.com/algorand/abicodec/abi"
	"github.com/algorand/abicodec/util/metrics"
)

// DefaultTypeCacheSize bounds the number of parsed types kept per generation.
const DefaultTypeCacheSize = 1024

// typeCache memoizes parsed type strings. Entries live in two generations:
// when the current one is full it becomes the previous one and a new current
// generation starts. Hits in the previous generation are promoted.
type typeCache struct {
	mu       deadlock.RWMutex
	size     int
	current  map[string]abi.Type
	previous map[string]abi.Type
	resolve  func(string) (abi.Type, error)
}

func makeTypeCache(size int, resolve func(string) (abi.Type, error)) *typeCache {
	if size < 1 {
		size = DefaultTypeCacheSize
	}
	return &typeCache{
		size:     size,
		current:  make(map[string]abi.Type),
		previous: make(map[string]abi.Type),
		resolve:  resolve,
	}
}

// get returns the parsed type, parsing and caching it on a miss. Invalid type
// strings are not cached.
func (c *typeCache) get(s string) (abi.Type, error) {
	c.mu.RLock()
	typ, ok := c.current[s]
	c.mu.RUnlock()
	if ok {
		metrics.TypeCacheHits.Inc()
		return typ, nil
	}

	c.mu.Lock()
	typ, ok = c.previous[s]
	if ok {
		c.insertLocked(s, typ)
		c.mu.Unlock()
		metrics.TypeCacheHits.Inc()
		return typ, nil
	}
	c.mu.Unlock()

	metrics.TypeCacheMisses.Inc()
	typ, err := c.resolve(s)
	if err != nil {
		return abi.Type{}, err
	}
	c.mu.Lock()
	c.insertLocked(s, typ)
	c.mu.Unlock()
	return typ, nil
}

func (c *typeCache) insertLocked(s string, typ abi.Type) {
	if len(c.current) >= c.size {
		c.previous = c.current
		c.current = make(map[string]abi.Type, c.size)
	}
	c.current[s] = typ
}

func (c *typeCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.current) + len(c.previous)
}
