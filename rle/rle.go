// Package rle implements the run-length scheme shared by every pixel stream
// in a cart: frame interiors, keyframes, dictionary tiles and the map tile
// blob all pass through here.
//
// One byte carries a color index in its top bitDepth bits and a run field in
// the remaining bits. A run field of all ones is an escape: the true field
// value arrives in the next byte. The stored field is always the run length
// minus one, so at bit depth 4 this degenerates to the classic nibble RLE.
package rle

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
)

// Decode reads a run stream from cur until at least pixelCount pixels have
// been produced, and returns exactly pixelCount of them. The final run may
// overshoot; the excess is discarded, as encoders only guarantee that the
// cumulative run length reaches pixelCount.
//
// bitDepth must be between 1 and 4 inclusive.
func Decode(cur *cart.Cursor, pixelCount, bitDepth int) ([]uint8, error) {
	if bitDepth < 1 || bitDepth > 4 {
		return nil, errors.Errorf("rle: bit depth %d; want 1..4", bitDepth)
	}
	runBits := uint(8 - bitDepth)
	runMask := uint8(1<<runBits - 1)
	colorMask := uint8(1<<bitDepth - 1)

	out := make([]uint8, 0, pixelCount)
	for len(out) < pixelCount {
		b, err := cur.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "rle: stream ends %d pixels short", pixelCount-len(out))
		}
		color := b >> runBits & colorMask
		run := int(b & runMask)
		if b&runMask == runMask {
			ext, err := cur.ReadU8()
			if err != nil {
				return nil, errors.Wrap(err, "rle: stream ends mid-escape")
			}
			run = int(runMask) + int(ext)
		}
		run++ // the field stores run length minus one
		glog.V(3).Infof("rle: %d x color %d", run, color)
		for i := 0; i < run && len(out) < pixelCount; i++ {
			out = append(out, color)
		}
	}
	return out, nil
}

// Encode is the inverse of Decode. It splits each run into chunks the field
// (plus one escape byte where needed) can carry, longest first.
func Encode(pixels []uint8, bitDepth int) ([]byte, error) {
	if bitDepth < 1 || bitDepth > 4 {
		return nil, errors.Errorf("rle: bit depth %d; want 1..4", bitDepth)
	}
	runBits := uint(8 - bitDepth)
	runMask := int(uint8(1)<<runBits - 1)
	colorMask := uint8(1<<bitDepth - 1)
	maxRun := runMask + 256 // escaped runs carry the field in a full byte

	out := []byte{}
	for i := 0; i < len(pixels); {
		color := pixels[i]
		if color > colorMask {
			return nil, errors.Errorf("rle: color %d does not fit in %d bits", color, bitDepth)
		}
		run := 1
		for i+run < len(pixels) && pixels[i+run] == color {
			run++
		}
		i += run
		for run > 0 {
			n := run
			if n > maxRun {
				n = maxRun
			}
			if n-1 < runMask {
				out = append(out, color<<runBits|uint8(n-1))
			} else {
				out = append(out, color<<runBits|uint8(runMask), uint8(n-1-runMask))
			}
			run -= n
		}
	}
	return out, nil
}
