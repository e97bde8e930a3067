// Package xdelta3 provides the delta backend backed by the system xdelta3
// binary, producing standard VCDIFF (RFC 3284) deltas. The factory fails
// to load when the binary is not on PATH, so resolution falls through to
// the next candidate.
package xdelta3

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vdelta/vdelta/backend"
)

// ID is the backend's registered identifier.
const ID = "vdelta/xdelta3"

func init() {
	backend.Register(ID, Load)
}

// Load locates the xdelta3 binary and returns the backend bound to it.
func Load() (backend.Backend, error) {
	bin, err := exec.LookPath("xdelta3")
	if err != nil {
		return nil, fmt.Errorf("xdelta3 binary not found: %s", err)
	}
	return &Xdelta3{bin: bin}, nil
}

type Xdelta3 struct {
	bin string
}

func (x *Xdelta3) Name() string   { return ID }
func (x *Xdelta3) Format() string { return "vcdiff" }

func (x *Xdelta3) Diff(source io.Reader, target io.Reader, patch io.Writer) error {
	return x.run("-e", source, target, patch)
}

func (x *Xdelta3) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	return x.run("-d", source, patch, target)
}

// run spools the source to a file, which xdelta3 requires for random
// access, and streams input through stdin and output through stdout.
func (x *Xdelta3) run(mode string, source io.Reader, input io.Reader, output io.Writer) error {
	dir, err := os.MkdirTemp("", "vdelta-xdelta3-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	srcPath := filepath.Join(dir, "source")
	srcFile, err := os.Create(srcPath)
	if err != nil {
		return err
	}
	_, err = io.Copy(srcFile, source)
	if cerr := srcFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("spool source: %s", err)
	}
	var stderr bytes.Buffer
	cmd := exec.Command(x.bin, mode, "-c", "-f", "-s", srcPath)
	cmd.Stdin = input
	cmd.Stdout = output
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("xdelta3 %s: %s: %s", mode, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}
