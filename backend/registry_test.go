package backend_test

import (
	"errors"
	"io"
	"testing"

	"github.com/vdelta/vdelta/backend"
)

// fake is a trivial codec whose "delta" is the target itself.
type fake struct {
	id string
}

func (f fake) Name() string   { return f.id }
func (f fake) Format() string { return "fake" }

func (f fake) Diff(source io.Reader, target io.Reader, patch io.Writer) error {
	_, err := io.Copy(patch, target)
	return err
}

func (f fake) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	_, err := io.Copy(target, patch)
	return err
}

func register(r *backend.Registry, ids ...string) {
	for _, id := range ids {
		id := id
		r.Register(id, func() (backend.Backend, error) { return fake{id}, nil })
	}
}

func assertWhich(t *testing.T, r *backend.Registry, expected string) {
	t.Helper()
	id, err := r.Which()
	if err != nil {
		t.Fatal(err)
	}
	if id != expected {
		t.Errorf("resolved backend expected: %s, actual: %s", expected, id)
	}
}

func TestProbeOrder(t *testing.T) {
	r := backend.NewRegistry("fake/b", "fake/a")
	register(r, "fake/a", "fake/b")
	assertWhich(t, r, "fake/b")
}

func TestProbeSkipsUnavailable(t *testing.T) {
	r := backend.NewRegistry("fake/a", "fake/b")
	r.Register("fake/a", func() (backend.Backend, error) {
		return nil, errors.New("not installed")
	})
	register(r, "fake/b")
	assertWhich(t, r, "fake/b")
}

func TestExhausted(t *testing.T) {
	r := backend.NewRegistry("fake/unregistered")
	if _, err := r.Resolve(); !errors.Is(err, backend.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, actual: %v", err)
	}
	if _, err := r.Which(); !errors.Is(err, backend.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, actual: %v", err)
	}
}

func TestResolutionIsCached(t *testing.T) {
	loads := 0
	r := backend.NewRegistry("fake/a")
	r.Register("fake/a", func() (backend.Backend, error) {
		loads++
		return fake{"fake/a"}, nil
	})
	b1, err := r.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	b2, err := r.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Error("repeated resolution returned different backends")
	}
	if loads != 1 {
		t.Errorf("factory runs expected: 1, actual: %d", loads)
	}
}

func TestOverridePrecedence(t *testing.T) {
	r := backend.NewRegistry("fake/a", "fake/b")
	register(r, "fake/a", "fake/b")
	assertWhich(t, r, "fake/a")
	r.SetOverride("fake/b")
	assertWhich(t, r, "fake/b")
	r.SetOverride("")
	assertWhich(t, r, "fake/a")
}

func TestOverrideLoadFailureHasNoFallback(t *testing.T) {
	r := backend.NewRegistry("fake/a")
	register(r, "fake/a")
	r.SetOverride("fake/missing")
	_, err := r.Resolve()
	var le *backend.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected a LoadError, actual: %v", err)
	}
	if le.ID != "fake/missing" {
		t.Errorf("LoadError id expected: fake/missing, actual: %s", le.ID)
	}
	// still no fallback on later calls
	if _, err := r.Which(); !errors.As(err, &le) {
		t.Errorf("expected a LoadError, actual: %v", err)
	}
}

func TestOverrideFactoryFailure(t *testing.T) {
	cause := errors.New("binary not found")
	r := backend.NewRegistry()
	r.Register("fake/broken", func() (backend.Backend, error) { return nil, cause })
	r.SetOverride("fake/broken")
	_, err := r.Resolve()
	var le *backend.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected a LoadError, actual: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("LoadError should wrap the factory error, actual: %v", err)
	}
}

func TestWithOverrideRestoresResolution(t *testing.T) {
	r := backend.NewRegistry("fake/b", "fake/a")
	register(r, "fake/a", "fake/b")
	assertWhich(t, r, "fake/b")
	err := r.WithOverride("fake/a", func() error {
		assertWhich(t, r, "fake/a")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// fake/a is now loaded and sorts before fake/b, but the resolution
	// from before the scope must win again
	assertWhich(t, r, "fake/b")
}

func TestWithOverrideRestoresOnError(t *testing.T) {
	r := backend.NewRegistry("fake/a")
	register(r, "fake/a")
	fail := errors.New("fn failed")
	err := r.WithOverride("fake/missing", func() error { return fail })
	if !errors.Is(err, fail) {
		t.Fatalf("expected fn's error, actual: %v", err)
	}
	assertWhich(t, r, "fake/a")
}

func TestAdoptedTieBreakIsLexicographic(t *testing.T) {
	r := backend.NewRegistry()
	r.Adopt(fake{"fake/b"})
	r.Adopt(fake{"fake/a"})
	assertWhich(t, r, "fake/a")
	// determinism within the process
	assertWhich(t, r, "fake/a")
}

func TestAdoptedBeatsProbing(t *testing.T) {
	r := backend.NewRegistry("fake/a")
	register(r, "fake/a")
	r.Adopt(fake{"fake/b"})
	assertWhich(t, r, "fake/b")
}

func TestAdoptionSkipsReservedNames(t *testing.T) {
	r := backend.NewRegistry()
	r.Adopt(fake{"test/mock"})
	if _, err := r.Resolve(); !errors.Is(err, backend.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, actual: %v", err)
	}
}

func TestOverrideMayNameReservedBackend(t *testing.T) {
	r := backend.NewRegistry()
	register(r, "test/mock")
	r.SetOverride("test/mock")
	assertWhich(t, r, "test/mock")
}

func TestBackends(t *testing.T) {
	r := backend.NewRegistry()
	register(r, "fake/b", "fake/a")
	ids := r.Backends()
	if len(ids) != 2 || ids[0] != "fake/a" || ids[1] != "fake/b" {
		t.Errorf("registered ids expected: [fake/a fake/b], actual: %v", ids)
	}
}
