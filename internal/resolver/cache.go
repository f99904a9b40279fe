package resolver

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lucasols/vindur-sub001/internal/evaluator"
)

// EventKind names a FunctionCache event.
type EventKind string

const (
	EventCompiled EventKind = "compiled"
	EventCacheHit EventKind = "cache-hit"
)

// Event is reported for every compiled function and every cache hit.
type Event struct {
	Kind EventKind
	Path string
	Name string
}

// FunctionEntry is the cached result of compiling one exported helper.
// Err is set when the helper does not qualify; it is returned every time the
// helper is requested.
type FunctionEntry struct {
	Spec *evaluator.CallableSpec
	Err  error
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Files    int
	Compiled int64
	Hits     int64
}

// CacheOption configures a FunctionCache.
type CacheOption func(*FunctionCache)

// WithObserver registers fn to receive every cache event. fn may be called
// from several goroutines at once.
func WithObserver(fn func(Event)) CacheOption {
	return func(c *FunctionCache) { c.observer = fn }
}

// WithCacheLogger logs cache events at debug level.
func WithCacheLogger(log *zap.Logger) CacheOption {
	return func(c *FunctionCache) {
		if log != nil {
			c.log = log.Named("function-cache")
		}
	}
}

// FunctionCache holds compiled helpers of imported files, keyed by absolute
// path and export name. It is owned by the host and shared by every
// compilation of a build session. A file's helpers are compiled at most once:
// the per-path entry is inserted under the lock and filled exactly once.
type FunctionCache struct {
	mu       sync.Mutex
	files    map[string]*cacheEntry
	observer func(Event)
	log      *zap.Logger

	compiled atomic.Int64
	hits     atomic.Int64
}

type cacheEntry struct {
	once sync.Once
	done atomic.Bool
	fns  map[string]FunctionEntry
}

// NewFunctionCache returns an empty cache.
func NewFunctionCache(opts ...CacheOption) *FunctionCache {
	c := &FunctionCache{
		files: make(map[string]*cacheEntry),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *FunctionCache) entry(path string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.files[path]
	if !ok {
		e = &cacheEntry{}
		c.files[path] = e
	}
	return e
}

// Cached returns the entry for (path, name) if the file has already been
// compiled. It never compiles anything.
func (c *FunctionCache) Cached(path, name string) (FunctionEntry, bool) {
	c.mu.Lock()
	e, ok := c.files[path]
	c.mu.Unlock()
	if !ok || !e.done.Load() {
		return FunctionEntry{}, false
	}
	fn, ok := e.fns[name]
	if ok {
		c.emit(EventCacheHit, path, name)
	}
	return fn, ok
}

// Lookup returns the entry for (path, name), calling compile to fill the
// whole file entry if this is the first request for path. compile returns
// every exported helper of the file keyed by export name.
func (c *FunctionCache) Lookup(path, name string, compile func() map[string]FunctionEntry) (FunctionEntry, bool) {
	e := c.entry(path)
	filled := false
	e.once.Do(func() {
		e.fns = compile()
		if e.fns == nil {
			e.fns = map[string]FunctionEntry{}
		}
		e.done.Store(true)
		filled = true

		names := make([]string, 0, len(e.fns))
		for n := range e.fns {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			c.emit(EventCompiled, path, n)
		}
	})
	fn, ok := e.fns[name]
	if ok && !filled {
		c.emit(EventCacheHit, path, name)
	}
	return fn, ok
}

// Invalidate drops every helper of path. Entries are never mutated in place;
// the next Lookup compiles the file again.
func (c *FunctionCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.files, path)
	c.mu.Unlock()
	c.log.Debug("invalidated", zap.String("path", path))
}

// Stats returns the current counters.
func (c *FunctionCache) Stats() CacheStats {
	c.mu.Lock()
	files := len(c.files)
	c.mu.Unlock()
	return CacheStats{Files: files, Compiled: c.compiled.Load(), Hits: c.hits.Load()}
}

func (c *FunctionCache) emit(kind EventKind, path, name string) {
	switch kind {
	case EventCompiled:
		c.compiled.Add(1)
	case EventCacheHit:
		c.hits.Add(1)
	}
	c.log.Debug(string(kind), zap.String("path", path), zap.String("function", name))
	if c.observer != nil {
		c.observer(Event{Kind: kind, Path: path, Name: name})
	}
}
