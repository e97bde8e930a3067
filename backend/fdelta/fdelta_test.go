package fdelta_test

import (
	"testing"

	"github.com/vdelta/vdelta/backend/fdelta"
	"github.com/vdelta/vdelta/compat"
)

func TestRoundTrip(t *testing.T) {
	compat.RoundTrip(t, fdelta.Fdelta{})
}
