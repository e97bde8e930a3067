package binarydist_test

import (
	"testing"

	"github.com/vdelta/vdelta/backend/binarydist"
	"github.com/vdelta/vdelta/compat"
)

func TestRoundTrip(t *testing.T) {
	compat.RoundTrip(t, binarydist.Binarydist{})
}
