// Package modcache implements C8: a process-lifetime cache of module
// Contexts, keyed by module id, so that a module compiled once is
// never re-registered into a fresh symbols.Context on a later import.
// Grounded on the teacher's symbols.GetPrelude singleton-with-
// sync.Once pattern, generalized from "exactly one prelude" to a
// keyed cache with the same init-on-first-use discipline (spec.md
// §9 "Global mutable state").
package modcache

import (
	"sync"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/google/uuid"
)

// Module-id allocation scheme named in DESIGN.md: builtin is
// always 0 (the prelude), main is always 1 (the entry module); every
// further import gets the next sequential id.
const (
	BuiltinModuleID = 0
	MainModuleID    = 1
)

// Entry is one cached module: its id, the path it was loaded from,
// its shared Context, and the typed AST once the checker has produced
// one (nil before that point — the cache is also the module-loading
// queue's bookkeeping, not just a post-check artifact store).
type Entry struct {
	ID       int
	Path     string
	Scope    *symbols.Context
	Program  *ast.Program
	Imports  []int // module ids this entry depends on
}

// Cache is the shared, interior-mutable module cache. Writes only
// happen during module loading, which the caller must serialize
// (spec.md §9); reads (GetByID/GetByPath) are safe to call from
// concurrently dispatched language-server requests, which only see
// completed entries.
type Cache struct {
	mu       sync.RWMutex
	byPath   map[string]*Entry
	byID     map[int]*Entry
	nextID   int
	sessions map[string]string // uuid session id -> originating module path, for REPL artifact naming
}

var (
	once     sync.Once
	instance *Cache
)

// Get returns the process-lifetime shared cache, creating it (and
// seeding the builtin prelude entry) on first use.
func Get() *Cache {
	once.Do(func() {
		instance = newCache()
	})
	return instance
}

// Reset is exposed for tests that need a pristine cache; production
// code never calls it.
func Reset() {
	once = sync.Once{}
}

func newCache() *Cache {
	c := &Cache{
		byPath:   make(map[string]*Entry),
		byID:     make(map[int]*Entry),
		sessions: make(map[string]string),
		nextID:   MainModuleID + 1,
	}
	prelude := symbols.GetPrelude()
	c.byID[BuiltinModuleID] = &Entry{ID: BuiltinModuleID, Path: "<builtin>", Scope: prelude}
	c.byPath["<builtin>"] = c.byID[BuiltinModuleID]
	return c
}

// LoadOrCreate returns the existing entry for path if one was already
// registered, or allocates a fresh id and Context (child of the
// prelude) otherwise. The second return value reports whether an
// existing entry was reused.
func (c *Cache) LoadOrCreate(path string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.byPath[path]; ok {
		return e, true
	}

	id := c.nextID
	if path == "<main>" {
		id = MainModuleID
	} else {
		c.nextID++
	}
	e := &Entry{ID: id, Path: path, Scope: symbols.NewModuleContext(path)}
	c.byPath[path] = e
	c.byID[id] = e
	return e, false
}

// GetByID/GetByPath are read-only lookups safe for concurrent callers
// (the language server) once an entry has finished loading.
func (c *Cache) GetByID(id int) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[id]
	return e, ok
}

func (c *Cache) GetByPath(path string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byPath[path]
	return e, ok
}

// SetProgram attaches a completed typed AST to an existing entry —
// called once, at the end of module loading, by internal/checker.
func (c *Cache) SetProgram(id int, prog *ast.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byID[id]; ok {
		e.Program = prog
	}
}

// NewSession allocates a fresh uuid for a REPL session and records
// which module path it is attached to. internal/pybridge does not use
// these ids; a Bridge draws its own uuid for its temp-artifact name.
func (c *Cache) NewSession(path string) string {
	id := uuid.NewString()
	c.mu.Lock()
	c.sessions[id] = path
	c.mu.Unlock()
	return id
}

func (c *Cache) SessionModule(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.sessions[id]
	return p, ok
}
