package bsdiff_test

import (
	"testing"

	"github.com/vdelta/vdelta/backend/bsdiff"
	"github.com/vdelta/vdelta/compat"
)

func TestRoundTrip(t *testing.T) {
	compat.RoundTrip(t, bsdiff.Bsdiff{})
}
