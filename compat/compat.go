// Package compat verifies delta backends against a shared corpus.
//
// Two properties are checked. Round-trip correctness: patching a source
// with the delta diffed from it reproduces the target, whichever mixture
// of buffer and stream endpoints either call uses. Cross-backend
// compatibility: a delta produced by one backend applies correctly under
// every other backend sharing its wire format.
package compat

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vdelta/vdelta/backend"
	"github.com/vdelta/vdelta/endpoint"
)

// A Case is one (source, target) pair of the shared corpus.
type Case struct {
	Source []byte
	Target []byte
	Label  string
}

// combos are the endpoint shapes of one call, one letter per argument
// (source, target-or-delta, output): b for buffer, s for stream.
var combos = []string{"bbb", "bbs", "bsb", "bss", "sbb", "sbs", "ssb", "sss"}

// RoundTrip checks patch(S, diff(S, T)) == T for b over the whole corpus,
// crossing every endpoint shape of the diff call with every shape of the
// patch call. Each (case, shape) pair runs as its own subtest.
func RoundTrip(t *testing.T, b backend.Backend) {
	for _, c := range Corpus() {
		c := c
		for _, dc := range combos {
			for _, pc := range combos {
				dc, pc := dc, pc
				t.Run(fmt.Sprintf("%s/diff=%s/patch=%s", c.Label, dc, pc), func(t *testing.T) {
					delta := runDiff(t, b, c.Source, c.Target, dc)
					got := runPatch(t, b, c.Source, delta, pc)
					if !bytes.Equal(c.Target, got) {
						t.Errorf("round trip mismatch (-target +patched):\n%s", cmp.Diff(c.Target, got))
					}
				})
			}
		}
	}
}

// CrossBackends checks that for every ordered pair of distinct backends
// sharing a wire format, a delta diffed by the first applies correctly
// under the second. It skips when no such pair exists.
func CrossBackends(t *testing.T, backends []backend.Backend) {
	type pair struct{ differ, patcher backend.Backend }
	var pairs []pair
	for _, a := range backends {
		for _, b := range backends {
			if a.Name() != b.Name() && a.Format() == b.Format() {
				pairs = append(pairs, pair{a, b})
			}
		}
	}
	if len(pairs) == 0 {
		t.Skip("cross-backend compatibility needs two backends sharing a wire format")
	}
	for _, p := range pairs {
		p := p
		for _, c := range Corpus() {
			c := c
			t.Run(fmt.Sprintf("%s->%s/%s", p.differ.Name(), p.patcher.Name(), c.Label), func(t *testing.T) {
				delta, err := backend.Diff(p.differ, endpoint.FromBuffer(c.Source), endpoint.FromBuffer(c.Target))
				if err != nil {
					t.Fatal("diff:", err)
				}
				got, err := backend.Patch(p.patcher, endpoint.FromBuffer(c.Source), endpoint.FromBuffer(delta))
				if err != nil {
					t.Fatal("patch:", err)
				}
				if !bytes.Equal(c.Target, got) {
					t.Errorf("cross-backend mismatch (-target +patched):\n%s", cmp.Diff(c.Target, got))
				}
			})
		}
	}
}

func runDiff(t *testing.T, b backend.Backend, source, target []byte, combo string) []byte {
	t.Helper()
	src := readEndpoint(t, source, combo[0], endpoint.Source)
	tgt := readEndpoint(t, target, combo[1], endpoint.Input)
	if combo[2] == 'b' {
		delta, err := backend.Diff(b, src, tgt)
		if err != nil {
			t.Fatal("diff:", err)
		}
		return delta
	}
	return collectStream(t, func(out endpoint.Endpoint) error {
		return backend.DiffTo(b, src, tgt, out)
	})
}

func runPatch(t *testing.T, b backend.Backend, source, delta []byte, combo string) []byte {
	t.Helper()
	src := readEndpoint(t, source, combo[0], endpoint.Source)
	del := readEndpoint(t, delta, combo[1], endpoint.Input)
	if combo[2] == 'b' {
		got, err := backend.Patch(b, src, del)
		if err != nil {
			t.Fatal("patch:", err)
		}
		return got
	}
	return collectStream(t, func(out endpoint.Endpoint) error {
		return backend.PatchTo(b, src, del, out)
	})
}

// readEndpoint materializes data as a buffer endpoint or as a freshly
// written temporary file opened for reading.
func readEndpoint(t *testing.T, data []byte, kind byte, role endpoint.Role) endpoint.Endpoint {
	t.Helper()
	if kind == 'b' {
		return endpoint.FromBuffer(data)
	}
	p := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(p, data, 0664); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	e, err := endpoint.FromReader(f, role)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// collectStream runs fn against a file-backed output endpoint and returns
// the bytes written to it.
func collectStream(t *testing.T, fn func(endpoint.Endpoint) error) []byte {
	t.Helper()
	p := filepath.Join(t.TempDir(), "out")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := fn(endpoint.FromWriter(f)); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	out, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return out
}
