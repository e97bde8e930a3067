// Package bsdiff provides the delta backend backed by the pure-Go bsdiff
// port. Deltas use the bzip2-compressed BSDIFF40 wire format.
package bsdiff

import (
	"io"

	gobsdiff "github.com/gabstv/go-bsdiff/pkg/bsdiff"
	gobspatch "github.com/gabstv/go-bsdiff/pkg/bspatch"
	"github.com/vdelta/vdelta/backend"
)

// ID is the backend's registered identifier.
const ID = "vdelta/bsdiff"

func init() {
	backend.Register(ID, func() (backend.Backend, error) {
		return Bsdiff{}, nil
	})
}

type Bsdiff struct{}

func (Bsdiff) Name() string   { return ID }
func (Bsdiff) Format() string { return "bsdiff40" }

func (Bsdiff) Diff(source io.Reader, target io.Reader, patch io.Writer) error {
	return gobsdiff.Reader(source, target, patch)
}

func (Bsdiff) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	return gobspatch.Reader(source, target, patch)
}
