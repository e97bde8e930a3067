package xdelta3_test

import (
	"testing"

	"github.com/vdelta/vdelta/backend/xdelta3"
	"github.com/vdelta/vdelta/compat"
)

func TestRoundTrip(t *testing.T) {
	x, err := xdelta3.Load()
	if err != nil {
		t.Skip("xdelta3 not installed:", err)
	}
	compat.RoundTrip(t, x)
}

func TestLoadWithoutBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := xdelta3.Load(); err == nil {
		t.Error("expected a load error with no xdelta3 on PATH")
	}
}
