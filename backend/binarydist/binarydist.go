// Package binarydist provides the delta backend backed by kr/binarydist,
// an independent implementation of the BSDIFF40 wire format.
package binarydist

import (
	"io"

	krbinarydist "github.com/kr/binarydist"
	"github.com/vdelta/vdelta/backend"
)

// ID is the backend's registered identifier.
const ID = "vdelta/binarydist"

func init() {
	backend.Register(ID, func() (backend.Backend, error) {
		return Binarydist{}, nil
	})
}

type Binarydist struct{}

func (Binarydist) Name() string   { return ID }
func (Binarydist) Format() string { return "bsdiff40" }

func (Binarydist) Diff(source io.Reader, target io.Reader, patch io.Writer) error {
	return krbinarydist.Diff(source, target, patch)
}

func (Binarydist) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	return krbinarydist.Patch(source, target, patch)
}
