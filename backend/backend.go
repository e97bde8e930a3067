// Package backend defines the codec contract every delta backend satisfies
// and the registry that picks which backend services a call.
//
// A backend is registered under a namespaced identifier such as
// "vdelta/bsdiff" by its package's init function, so importing a backend
// package is how a backend gets installed:
//
//	import _ "github.com/vdelta/vdelta/backend/bsdiff"
//
// Identifiers under the "test/" namespace are reserved for test-support
// backends and are never picked up by already-loaded detection.
package backend

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// A Backend produces and applies binary deltas. Implementations must be
// safe for repeated use; the registry instantiates each at most once per
// process and never unloads it.
type Backend interface {
	// Name returns the backend's namespaced identifier.
	Name() string
	// Format names the wire format of the deltas this backend produces
	// and consumes. Deltas are interchangeable exactly between backends
	// reporting the same format.
	Format() string
	// Diff encodes a delta from source to target into patch.
	Diff(source io.Reader, target io.Reader, patch io.Writer) error
	// Patch applies the delta read from patch to source, writing the
	// reconstructed data to target.
	Patch(source io.Reader, target io.Writer, patch io.Reader) error
}

// A Factory instantiates a backend, or reports why it is unavailable on
// this system (e.g. a required binary is not installed).
type Factory func() (Backend, error)

// ErrNoBackend is returned when no override is set, no backend has been
// loaded, and no candidate in the priority list could be loaded.
var ErrNoBackend = errors.New("backend: no delta backend available: import at least one backend package")

// A LoadError reports that an explicitly requested backend failed to load.
// No fallback is attempted.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("backend: cannot load %q: %s", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// reservedNamespace prefixes identifiers internal to the test-support code.
const reservedNamespace = "test/"

func reserved(id string) bool {
	return strings.HasPrefix(id, reservedNamespace)
}
