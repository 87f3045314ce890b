// Package cache provides an optional cross-operation memoization layer so
// a long-lived caller doesn't have to reparse the whole project for every
// refactoring request.
package cache

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// key identifies a cached entry by the file stat fields that change
// whenever the file's content changes, so a stale cache entry can never
// be mistaken for a fresh one.
type key struct {
	path  string
	size  int64
	mtime int64
}

// FileCache memoizes an arbitrary per-file value (symtab uses it for
// *symtab.FileSymbols) keyed by path + mtime + size.
type FileCache struct {
	lru *lru.Cache[key, any]
}

// New creates a FileCache holding up to capacity entries.
func New(capacity int) (*FileCache, error) {
	l, err := lru.New[key, any](capacity)
	if err != nil {
		return nil, err
	}
	return &FileCache{lru: l}, nil
}

// Get returns the cached value for path if the file's current mtime/size
// match what was stored, and false otherwise (including on a stat error,
// which is treated as a cache miss rather than surfaced to the caller).
func (c *FileCache) Get(path string) (any, bool) {
	if c == nil {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	k := key{path: path, size: info.Size(), mtime: info.ModTime().UnixNano()}
	v, ok := c.lru.Get(k)
	if !ok {
		return nil, false
	}
	return v, true
}

// Put stores value for path under its current mtime/size, so a later
// change to the file naturally misses the cache instead of invalidating
// it explicitly.
func (c *FileCache) Put(path string, value any) {
	if c == nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	k := key{path: path, size: info.Size(), mtime: info.ModTime().UnixNano()}
	c.lru.Add(k, value)
}
