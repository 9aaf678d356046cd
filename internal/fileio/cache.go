package fileio

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"agentshell/internal/system"
)

// cacheEntry pins the result of a prior ReadFile call against the mtime and
// size it was read at, so a later request for the same path+range can be
// answered without touching disk as long as neither has changed.
type cacheEntry struct {
	result  FileResult
	modTime int64
	size    int64
}

// cacheKey identifies one exact request shape: a cache hit requires not
// just the same path but the same resolved range and formatting, since a
// cached narrow read cannot safely answer a wider one without re-reading.
type cacheKey struct {
	path            string
	start, end      int
	showLineNumbers bool
}

// Cache is a small in-memory file-read cache keyed by the exact request
// shape. A fsnotify watcher proactively drops a path's entries on write
// events, in addition to the mtime/size check performed on every lookup.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	byPath  map[string][]cacheKey
	watcher *fsnotify.Watcher
}

// NewCache starts a filesystem watcher goroutine and returns a ready Cache.
// If the watcher cannot be created (e.g. inotify instances exhausted), the
// cache still works correctly, just without proactive invalidation — the
// mtime/size check on lookup remains authoritative.
func NewCache() *Cache {
	c := &Cache{entries: make(map[cacheKey]cacheEntry), byPath: make(map[string][]cacheKey)}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		system.Logger.Warn("file cache watcher unavailable, falling back to mtime checks only", "err", err)
		return c
	}
	c.watcher = w
	go c.watchLoop()
	return c
}

func (c *Cache) watchLoop() {
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.invalidate(ev.Name)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			system.Logger.Warn("file cache watcher error", "err", err)
		}
	}
}

func (c *Cache) invalidate(path string) {
	c.mu.Lock()
	for _, k := range c.byPath[path] {
		delete(c.entries, k)
	}
	delete(c.byPath, path)
	c.mu.Unlock()
}

// Get returns a cached FileResult for the exact request shape (path, range,
// formatting) if the file's mtime/size match what was cached.
func (c *Cache) Get(spec PathSpec, showLineNumbers bool) (FileResult, bool) {
	info, err := os.Stat(spec.Path)
	if err != nil {
		return FileResult{}, false
	}

	key := cacheKey{path: spec.Path, start: spec.Start, end: spec.End, showLineNumbers: showLineNumbers}
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return FileResult{}, false
	}
	if entry.modTime != info.ModTime().UnixNano() || entry.size != info.Size() {
		c.invalidate(spec.Path)
		return FileResult{}, false
	}
	return entry.result, true
}

// Put records result for the given request shape, and (best-effort)
// registers the path with the filesystem watcher so a later write
// invalidates every cached shape for it proactively.
func (c *Cache) Put(spec PathSpec, showLineNumbers bool, result FileResult) {
	info, err := os.Stat(spec.Path)
	if err != nil {
		return
	}
	key := cacheKey{path: spec.Path, start: spec.Start, end: spec.End, showLineNumbers: showLineNumbers}
	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, modTime: info.ModTime().UnixNano(), size: info.Size()}
	c.byPath[spec.Path] = append(c.byPath[spec.Path], key)
	c.mu.Unlock()

	if c.watcher != nil {
		_ = c.watcher.Add(spec.Path)
	}
}

// Invalidate drops every cached shape for path unconditionally, called
// after a successful write through internal/edit.
func (c *Cache) Invalidate(path string) {
	c.invalidate(path)
}

// Close stops the watcher goroutine.
func (c *Cache) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}
