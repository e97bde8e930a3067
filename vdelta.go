/*
Package vdelta is a backend-agnostic façade for binary delta compression.

Diff encodes a compact delta from a source/target pair and Patch rebuilds
the target from the source and that delta. The encoding itself is done by
whichever backend the registry resolves; importing a backend package
installs it:

	import (
		"github.com/vdelta/vdelta"
		"github.com/vdelta/vdelta/endpoint"

		_ "github.com/vdelta/vdelta/backend/bsdiff"
	)

	delta, err := vdelta.Diff(
		endpoint.FromBuffer(source),
		endpoint.FromBuffer(target),
	)

Every argument can independently be an in-memory buffer or a file-backed
stream, see package endpoint. The façade adds no buffering or chunking of
its own: backend errors reach the caller unwrapped, and the only errors of
its own are the registry's resolution errors.
*/
package vdelta

import (
	"github.com/vdelta/vdelta/backend"
	"github.com/vdelta/vdelta/endpoint"
)

// A Codec dispatches diff and patch calls through one registry. The zero
// value is not usable; use New, or the package-level functions which
// dispatch through backend.Default.
type Codec struct {
	registry *backend.Registry
}

// New returns a Codec resolving backends from reg.
func New(reg *backend.Registry) *Codec {
	return &Codec{registry: reg}
}

// Diff encodes a delta from source to target and returns it.
func (c *Codec) Diff(source, target endpoint.Endpoint) ([]byte, error) {
	b, err := c.registry.Resolve()
	if err != nil {
		return nil, err
	}
	return backend.Diff(b, source, target)
}

// DiffTo encodes a delta from source to target, writing it incrementally
// to output.
func (c *Codec) DiffTo(source, target, output endpoint.Endpoint) error {
	b, err := c.registry.Resolve()
	if err != nil {
		return err
	}
	return backend.DiffTo(b, source, target, output)
}

// Patch applies delta to source and returns the reconstructed target.
func (c *Codec) Patch(source, delta endpoint.Endpoint) ([]byte, error) {
	b, err := c.registry.Resolve()
	if err != nil {
		return nil, err
	}
	return backend.Patch(b, source, delta)
}

// PatchTo applies delta to source, writing the reconstructed target
// incrementally to output.
func (c *Codec) PatchTo(source, delta, output endpoint.Endpoint) error {
	b, err := c.registry.Resolve()
	if err != nil {
		return err
	}
	return backend.PatchTo(b, source, delta, output)
}

// Which returns the identifier of the backend serving this codec's calls,
// resolving it first if needed.
func (c *Codec) Which() (string, error) {
	return c.registry.Which()
}

// SetBackend forces all subsequent calls to use exactly the named backend.
// If it cannot be loaded the calls fail with a *backend.LoadError, without
// falling back to other candidates. An empty id restores automatic
// resolution.
func (c *Codec) SetBackend(id string) {
	c.registry.SetOverride(id)
}

// WithBackend runs fn with the named backend forced, restoring the
// previous override and the previously resolved backend on return, on
// error paths included.
func (c *Codec) WithBackend(id string, fn func() error) error {
	return c.registry.WithOverride(id, fn)
}

var defaultCodec = New(backend.Default)

// Diff encodes a delta from source to target with the default registry's
// backend and returns it.
func Diff(source, target endpoint.Endpoint) ([]byte, error) {
	return defaultCodec.Diff(source, target)
}

// DiffTo encodes a delta from source to target with the default registry's
// backend, writing it incrementally to output.
func DiffTo(source, target, output endpoint.Endpoint) error {
	return defaultCodec.DiffTo(source, target, output)
}

// Patch applies delta to source with the default registry's backend and
// returns the reconstructed target.
func Patch(source, delta endpoint.Endpoint) ([]byte, error) {
	return defaultCodec.Patch(source, delta)
}

// PatchTo applies delta to source with the default registry's backend,
// writing the reconstructed target incrementally to output.
func PatchTo(source, delta, output endpoint.Endpoint) error {
	return defaultCodec.PatchTo(source, delta, output)
}

// Which returns the identifier of the default registry's active backend.
func Which() (string, error) {
	return defaultCodec.Which()
}

// SetBackend forces the default registry to the named backend. An empty id
// restores automatic resolution.
func SetBackend(id string) {
	defaultCodec.SetBackend(id)
}

// WithBackend runs fn with the named backend forced on the default
// registry, restoring the previous override and resolution on return.
func WithBackend(id string, fn func() error) error {
	return defaultCodec.WithBackend(id, fn)
}
