package compat

import (
	"io"

	"github.com/vdelta/vdelta/backend"
)

// MockID is the reserved identifier of the test-support backend. The
// registry never adopts it as already loaded; only an explicit override
// selects it.
const MockID = "test/mock"

func init() {
	backend.Register(MockID, func() (backend.Backend, error) {
		return &Mock{}, nil
	})
}

// Mock is a test-support backend whose delta is a verbatim copy of the
// target. It counts calls so dispatch tests can tell which backend served
// them.
type Mock struct {
	Diffs   int
	Patches int
}

func (m *Mock) Name() string   { return MockID }
func (m *Mock) Format() string { return "copy" }

func (m *Mock) Diff(source io.Reader, target io.Reader, patch io.Writer) error {
	m.Diffs++
	// drain the source so stream endpoints behave the same as with a
	// real codec
	if _, err := io.Copy(io.Discard, source); err != nil {
		return err
	}
	_, err := io.Copy(patch, target)
	return err
}

func (m *Mock) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	m.Patches++
	if _, err := io.Copy(io.Discard, source); err != nil {
		return err
	}
	_, err := io.Copy(target, patch)
	return err
}
