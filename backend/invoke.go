package backend

import (
	"bytes"

	"github.com/vdelta/vdelta/endpoint"
)

// Diff encodes a delta from source to target with b and returns it as a
// buffer.
func Diff(b Backend, source, target endpoint.Endpoint) ([]byte, error) {
	var buf bytes.Buffer
	if err := DiffTo(b, source, target, endpoint.FromWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DiffTo encodes a delta from source to target with b, writing it
// incrementally to output. Codec errors pass through unwrapped.
func DiffTo(b Backend, source, target, output endpoint.Endpoint) error {
	src, err := source.AsSource()
	if err != nil {
		return err
	}
	tgt, err := target.Reader()
	if err != nil {
		return err
	}
	out, err := output.Writer()
	if err != nil {
		return err
	}
	return b.Diff(src, tgt, out)
}

// Patch applies delta to source with b and returns the reconstructed data
// as a buffer.
func Patch(b Backend, source, delta endpoint.Endpoint) ([]byte, error) {
	var buf bytes.Buffer
	if err := PatchTo(b, source, delta, endpoint.FromWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PatchTo applies delta to source with b, writing the reconstructed data
// incrementally to output. Codec errors pass through unwrapped.
func PatchTo(b Backend, source, delta, output endpoint.Endpoint) error {
	src, err := source.AsSource()
	if err != nil {
		return err
	}
	del, err := delta.Reader()
	if err != nil {
		return err
	}
	out, err := output.Writer()
	if err != nil {
		return err
	}
	return b.Patch(src, out, del)
}
