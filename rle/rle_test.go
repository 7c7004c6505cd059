package rle

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
)

func decodeBytes(t *testing.T, stream []byte, n, depth int) []uint8 {
	t.Helper()
	px, err := Decode(cart.FromBytes(stream).Cursor(0), n, depth)
	if err != nil {
		t.Fatalf("Decode(% x, %d, %d): %s", stream, n, depth, err)
	}
	return px
}

func TestDecodeDepth2(t *testing.T) {
	got := decodeBytes(t, []byte{2, 64, 128, 192, 1}, 8, 2)
	want := []uint8{0, 0, 0, 1, 2, 3, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestDecodeDepth1(t *testing.T) {
	got := decodeBytes(t, []byte{2, 128, 0, 129}, 7, 1)
	want := []uint8{0, 0, 0, 1, 0, 1, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestDecodeEscape(t *testing.T) {
	// Depth 4: field 15 escapes; ext 0 means a run of 16.
	got := decodeBytes(t, []byte{0x3F, 0x00}, 16, 4)
	for i, c := range got {
		if c != 3 {
			t.Fatalf("pixel %d = %d; want 3", i, c)
		}
	}

	// ext 255 is literal at this tier: run of 15+255+1 = 271.
	got = decodeBytes(t, []byte{0x1F, 0xFF}, 271, 4)
	if len(got) != 271 {
		t.Fatalf("len = %d; want 271", len(got))
	}
	for i, c := range got {
		if c != 1 {
			t.Fatalf("pixel %d = %d; want 1", i, c)
		}
	}
}

func TestDecodeOvershootRetained(t *testing.T) {
	// A run of 16 ones decoded as 10 pixels: trailing 6 are discarded.
	got := decodeBytes(t, []byte{0x1F, 0x00}, 10, 4)
	if len(got) != 10 {
		t.Fatalf("len = %d; want 10", len(got))
	}
	for i, c := range got {
		if c != 1 {
			t.Fatalf("pixel %d = %d; want 1", i, c)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	cur := cart.FromBytes([]byte{0x10}).Cursor(0) // 2 pixels, then nothing
	if _, err := Decode(cur, 8, 4); !errors.Is(err, cart.ErrOutOfRange) {
		t.Errorf("err = %v; want ErrOutOfRange", err)
	}

	cur = cart.FromBytes([]byte{0x1F}).Cursor(0) // escape with no extension
	if _, err := Decode(cur, 8, 4); !errors.Is(err, cart.ErrOutOfRange) {
		t.Errorf("mid-escape err = %v; want ErrOutOfRange", err)
	}
}

func TestDecodeBadDepth(t *testing.T) {
	for _, d := range []int{0, 5, -1, 8} {
		if _, err := Decode(cart.FromBytes([]byte{0}).Cursor(0), 1, d); err == nil {
			t.Errorf("depth %d: no error; want one", d)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for depth := 1; depth <= 4; depth++ {
		colorMask := uint8(1<<uint(depth) - 1)
		for trial := 0; trial < 20; trial++ {
			n := 1 + rnd.Intn(2000)
			px := make([]uint8, n)
			c := uint8(rnd.Intn(int(colorMask) + 1))
			for i := range px {
				// Biased toward long runs, the shape real frames have.
				if rnd.Intn(10) == 0 {
					c = uint8(rnd.Intn(int(colorMask) + 1))
				}
				px[i] = c
			}

			enc, err := Encode(px, depth)
			if err != nil {
				t.Fatalf("depth %d trial %d: Encode: %s", depth, trial, err)
			}
			dec, err := Decode(cart.FromBytes(enc).Cursor(0), n, depth)
			if err != nil {
				t.Fatalf("depth %d trial %d: Decode: %s", depth, trial, err)
			}
			if !bytes.Equal(dec, px) {
				t.Fatalf("depth %d trial %d: round trip mismatch", depth, trial)
			}
		}
	}
}

func TestEncodeLongRun(t *testing.T) {
	// 600 pixels of one color at depth 4 needs three chunks (271+271+58).
	px := make([]uint8, 600)
	for i := range px {
		px[i] = 7
	}
	enc, err := Encode(px, 4)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	want := []byte{0x7F, 0xFF, 0x7F, 0xFF, 0x7F, 0x2A}
	if !bytes.Equal(enc, want) {
		t.Errorf("Encode = % x; want % x", enc, want)
	}
}

func TestEncodeColorRange(t *testing.T) {
	if _, err := Encode([]uint8{4}, 2); err == nil {
		t.Error("color 4 at depth 2: no error; want one")
	}
}
