package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vdelta/vdelta/logger"
)

// DefaultPriority is the order in which known backends are probed when
// nothing else decides the resolution.
var DefaultPriority = []string{
	"vdelta/xdelta3",
	"vdelta/bsdiff",
	"vdelta/fdelta",
	"vdelta/binarydist",
}

// Default is the registry the package-level functions and the vdelta façade
// operate on. Backend packages register themselves here on import.
var Default = NewRegistry(DefaultPriority...)

// A Registry resolves which backend services a call and caches the result.
// All methods are safe for concurrent use.
//
// Resolution order, first match wins:
//  1. the explicit override, whose load failure is fatal;
//  2. a backend already loaded in this process, reserved test identifiers
//     excluded, ties broken lexicographically;
//  3. the first loadable backend in the priority list.
//
// The resolved backend is cached until the override changes.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	priority  []string
	loaded    map[string]Backend
	override  string
	active    Backend
}

// NewRegistry returns an empty registry probing the given identifiers, in
// order, when resolution falls through to probing.
func NewRegistry(priority ...string) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		priority:  priority,
		loaded:    make(map[string]Backend),
	}
}

// Register makes a backend available for loading under id. Registering is
// not loading: the factory runs only when resolution or an override asks
// for it.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[id]; dup {
		logger.Warningf("backend %q registered twice", id)
	}
	r.factories[id] = f
}

// Adopt records an externally instantiated backend as loaded, making it a
// candidate for already-loaded detection. It does not make it active.
func (r *Registry) Adopt(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[b.Name()] = b
}

// SetOverride forces resolution to the named backend on the next call. An
// empty id clears the override. Either way the cached resolution is
// invalidated, so the next call re-resolves.
func (r *Registry) SetOverride(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = id
	r.active = nil
}

// WithOverride runs fn with the named backend forced, then restores the
// previous override and the previously resolved backend, on error paths
// included. Restoring the resolution itself (and not only the override
// string) keeps a backend loaded inside the scope from winning
// already-loaded detection right after it.
func (r *Registry) WithOverride(id string, fn func() error) error {
	r.mu.Lock()
	prevOverride, prevActive := r.override, r.active
	r.override = id
	r.active = nil
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.override = prevOverride
		r.active = prevActive
		r.mu.Unlock()
	}()
	return fn()
}

// Override returns the current override identifier, or "".
func (r *Registry) Override() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.override
}

// Backends returns the registered identifiers, sorted.
func (r *Registry) Backends() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the active backend, resolving it first if needed.
func (r *Registry) Resolve() (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked()
}

// Which returns the active backend's identifier, resolving it first if
// needed.
func (r *Registry) Which() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.resolveLocked()
	if err != nil {
		return "", err
	}
	return b.Name(), nil
}

func (r *Registry) resolveLocked() (Backend, error) {
	if r.active != nil {
		return r.active, nil
	}
	if r.override != "" {
		b, err := r.loadLocked(r.override)
		if err != nil {
			return nil, &LoadError{ID: r.override, Err: err}
		}
		logger.Debugf("backend: using overridden %s", b.Name())
		r.active = b
		return b, nil
	}
	if b := r.adoptedLocked(); b != nil {
		logger.Debugf("backend: using already loaded %s", b.Name())
		r.active = b
		return b, nil
	}
	for _, id := range r.priority {
		b, err := r.loadLocked(id)
		if err != nil {
			logger.Debugf("backend: %s unavailable: %s", id, err)
			continue
		}
		logger.Debugf("backend: using %s", b.Name())
		r.active = b
		return b, nil
	}
	return nil, ErrNoBackend
}

// adoptedLocked picks among the backends already loaded in this process.
// Reserved test identifiers never qualify. The lexicographically smallest
// identifier wins, so the pick is stable across runs, not only within one.
func (r *Registry) adoptedLocked() Backend {
	ids := make([]string, 0, len(r.loaded))
	for id := range r.loaded {
		if reserved(id) {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	return r.loaded[ids[0]]
}

func (r *Registry) loadLocked(id string) (Backend, error) {
	if b, ok := r.loaded[id]; ok {
		return b, nil
	}
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("unknown backend")
	}
	b, err := f()
	if err != nil {
		return nil, err
	}
	r.loaded[id] = b
	return b, nil
}

// Register registers a backend factory with the default registry.
func Register(id string, f Factory) {
	Default.Register(id, f)
}

// Resolve resolves the default registry's active backend.
func Resolve() (Backend, error) {
	return Default.Resolve()
}

// Which returns the default registry's active backend identifier.
func Which() (string, error) {
	return Default.Which()
}
