// Package fdelta provides the delta backend backed by the Fossil delta
// format. The codec works on whole buffers, so both endpoints are read
// fully into memory.
package fdelta

import (
	"fmt"
	"io"

	mdvanfdelta "github.com/mdvan/fdelta"
	"github.com/vdelta/vdelta/backend"
)

// ID is the backend's registered identifier.
const ID = "vdelta/fdelta"

func init() {
	backend.Register(ID, func() (backend.Backend, error) {
		return Fdelta{}, nil
	})
}

type Fdelta struct{}

func (Fdelta) Name() string   { return ID }
func (Fdelta) Format() string { return "fossil" }

func (Fdelta) Diff(source io.Reader, target io.Reader, patch io.Writer) error {
	sourceBuf, err := io.ReadAll(source)
	if err != nil {
		return fmt.Errorf("source read all: %s", err)
	}
	targetBuf, err := io.ReadAll(target)
	if err != nil {
		return fmt.Errorf("target read all: %s", err)
	}
	_, err = patch.Write(mdvanfdelta.Create(sourceBuf, targetBuf))
	return err
}

func (Fdelta) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	sourceBuf, err := io.ReadAll(source)
	if err != nil {
		return fmt.Errorf("source read all: %s", err)
	}
	patchBuf, err := io.ReadAll(patch)
	if err != nil {
		return fmt.Errorf("patch read all: %s", err)
	}
	targetBuf, err := mdvanfdelta.Apply(sourceBuf, patchBuf)
	if err != nil {
		return fmt.Errorf("apply patch: %s", err)
	}
	_, err = target.Write(targetBuf)
	return err
}
