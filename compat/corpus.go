package compat

import (
	"bytes"
	"math/rand"

	"github.com/chmduquesne/rollinghash/rabinkarp64"
	"github.com/vdelta/vdelta/logger"
)

// Corpus returns the shared fixed corpus every backend is verified
// against. The synthetic case is regenerated on each call but is fully
// deterministic.
func Corpus() []Case {
	return []Case{
		{[]byte("hello"), []byte("hello world"), "append"},
		{[]byte(""), []byte("hello world"), "empty source"},
		{[]byte("hello world"), []byte(""), "empty target"},
		{[]byte("hello world"), []byte("hello world"), "identical"},
		{
			[]byte("The quick brown fox jumps over the lazy dog"),
			[]byte("Pack my box with five dozen liquor jugs"),
			"disjoint",
		},
		synthetic(),
	}
}

const (
	syntheticSize = 32 << 10
	cdcWindow     = 64
	cdcMask       = 1<<10 - 1
	cdcMin        = 256
)

// synthetic builds a pseudo-random source and derives the target by
// editing it chunk-wise: chunk boundaries come from a rabinkarp64 rolling
// hash, and chunks are kept, dropped, duplicated or mutated in a fixed
// rotation. This mimics the insert/delete/shift pattern real delta
// workloads have.
func synthetic() Case {
	src := make([]byte, syntheticSize)
	rnd := rand.New(rand.NewSource(42))
	rnd.Read(src)
	var tgt bytes.Buffer
	for i, b := range chunkBounds(src) {
		part := src[b.start:b.end]
		switch i % 5 {
		case 1:
			// dropped
		case 2:
			tgt.Write(part)
			tgt.Write(part)
		case 3:
			mut := append([]byte(nil), part...)
			for j := 0; j < len(mut); j += 128 {
				mut[j] ^= 0xff
			}
			tgt.Write(mut)
		default:
			tgt.Write(part)
		}
	}
	// a moved copy of the prefix
	tgt.Write(src[:cdcMin])
	return Case{src, tgt.Bytes(), "synthetic"}
}

type bound struct {
	start, end int
}

// chunkBounds splits data at content-defined boundaries: positions where
// the rolling hash of the trailing window has its low bits zeroed, with a
// minimum chunk size.
func chunkBounds(data []byte) []bound {
	if len(data) <= cdcWindow {
		return []bound{{0, len(data)}}
	}
	pol, err := rabinkarp64.RandomPolynomial(1)
	if err != nil {
		logger.Panicf("random polynomial: %s", err)
	}
	hasher := rabinkarp64.NewFromPol(pol)
	hasher.Write(data[:cdcWindow])
	var bounds []bound
	start := 0
	for i := cdcWindow; i < len(data); i++ {
		hasher.Roll(data[i])
		if i+1-start >= cdcMin && hasher.Sum64()&cdcMask == 0 {
			bounds = append(bounds, bound{start, i + 1})
			start = i + 1
		}
	}
	if start < len(data) {
		bounds = append(bounds, bound{start, len(data)})
	}
	return bounds
}
