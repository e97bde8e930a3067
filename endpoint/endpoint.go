// Package endpoint models a delta operation argument as either an in-memory
// byte buffer or a borrowed stream handle.
//
// Every operation takes three arguments: a source, a target or delta input,
// and an output. Each of them can independently be buffer-backed or
// stream-backed, so a single operation has 2^3 valid shapes. All shapes
// produce the same bytes, they only differ in peak memory and I/O pattern.
//
// A stream used in the source role must be randomly addressable, because
// delta codecs revisit earlier source offsets while scanning the target.
// Input and output streams are consumed strictly in order, so pipes and
// sockets are fine there.
package endpoint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrUnsuitableSource is returned when a source-role stream does not support
// random access (e.g. a pipe or a socket).
var ErrUnsuitableSource = errors.New("endpoint: source stream does not support random access")

// Role tags the position an endpoint takes in an operation.
type Role int

const (
	// Source is the reference data both diff and patch read from. Streams
	// in this role must be seekable.
	Source Role = iota
	// Input is the target of a diff or the delta of a patch, read once
	// from start to end.
	Input
	// Output receives the produced delta or target, written once from
	// start to end.
	Output
)

func (r Role) String() string {
	switch r {
	case Source:
		return "source"
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Kind discriminates the two endpoint variants.
type Kind int

const (
	Buffer Kind = iota
	Stream
)

// An Endpoint is one argument of a diff or patch operation. The zero value
// is an empty source buffer; use the constructors.
//
// Buffer endpoints own their bytes. Stream endpoints borrow their handle for
// the duration of one call and never close it: the caller opens the handle
// before the call and closes it after, on every exit path.
type Endpoint struct {
	kind Kind
	role Role
	buf  []byte
	r    io.Reader
	w    io.Writer
}

// FromBuffer builds a buffer endpoint. Buffer endpoints are valid in the
// source and input roles.
func FromBuffer(b []byte) Endpoint {
	return Endpoint{kind: Buffer, buf: b}
}

// FromReader builds a stream endpoint around r for the given readable role
// (Source or Input). A Source stream must support random access: handles
// implementing io.ReaderAt are accepted as is, otherwise a relative seek
// probe must succeed. Pipes and sockets fail the probe with
// ErrUnsuitableSource.
func FromReader(r io.Reader, role Role) (Endpoint, error) {
	if role == Output {
		return Endpoint{}, fmt.Errorf("endpoint: reader endpoint cannot take the output role")
	}
	if role == Source {
		if err := checkRandomAccess(r); err != nil {
			return Endpoint{}, err
		}
	}
	return Endpoint{kind: Stream, role: role, r: r}, nil
}

// FromWriter builds a stream endpoint for the output role.
func FromWriter(w io.Writer) Endpoint {
	return Endpoint{kind: Stream, role: Output, w: w}
}

// checkRandomAccess verifies that a handle can serve random reads. For a
// seekable handle the position-preserving seek probe decides: on a pipe or
// socket the kernel rejects it (ESPIPE), which is exactly the failure mode
// to catch before a codec hangs or corrupts its output. The probe must run
// even when the handle also implements io.ReaderAt, since *os.File always
// has the method regardless of what the descriptor supports. A bare
// io.ReaderAt without Seek qualifies as is.
func checkRandomAccess(r io.Reader) error {
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekCurrent); err != nil {
			return ErrUnsuitableSource
		}
		return nil
	}
	if _, ok := r.(io.ReaderAt); ok {
		return nil
	}
	return ErrUnsuitableSource
}

// Kind returns the endpoint variant.
func (e Endpoint) Kind() Kind {
	return e.kind
}

// Reader returns the endpoint's data as a reader. It fails on output
// endpoints.
func (e Endpoint) Reader() (io.Reader, error) {
	switch e.kind {
	case Buffer:
		return bytes.NewReader(e.buf), nil
	case Stream:
		if e.r == nil {
			return nil, fmt.Errorf("endpoint: %s endpoint is not readable", e.role)
		}
		return e.r, nil
	}
	return nil, fmt.Errorf("endpoint: unknown kind %d", e.kind)
}

// Writer returns the underlying writer of an output endpoint.
func (e Endpoint) Writer() (io.Writer, error) {
	if e.kind != Stream || e.w == nil {
		return nil, fmt.Errorf("endpoint: not an output endpoint")
	}
	return e.w, nil
}

// AsSource revalidates the endpoint for the source role. Buffer endpoints
// always qualify.
func (e Endpoint) AsSource() (io.Reader, error) {
	if e.kind == Buffer {
		return bytes.NewReader(e.buf), nil
	}
	if e.r == nil {
		return nil, fmt.Errorf("endpoint: %s endpoint cannot take the source role", e.role)
	}
	if err := checkRandomAccess(e.r); err != nil {
		return nil, err
	}
	return e.r, nil
}
