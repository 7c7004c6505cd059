package assets

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/cel"
	"badc0de.net/pkg/go-cart/lvl"
	"badc0de.net/pkg/go-cart/rle"
	"badc0de.net/pkg/go-cart/ttesting"
	"badc0de.net/pkg/go-cart/xmls"
)

func u16(v int) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

// testAnimationChunk builds one per-frame animation: a 2x1 box of two
// solid pixels, plus an empty frame.
func testAnimationChunk(t *testing.T) []byte {
	t.Helper()
	stream, err := rle.Encode([]uint8{5, 5}, 4)
	if err != nil {
		t.Fatalf("rle.Encode: %s", err)
	}
	f0 := append([]byte{1, 1, 2, 1}, stream...)

	block := []byte{2, cel.TagPerFrame}
	block = append(block, u16(0)...)
	block = append(block, u16(len(f0))...)
	block = append(block, f0...)
	block = append(block, 0, 0, 0, 0)

	chunk := []byte{1, 4, 3} // one animation, 4x3 cells
	chunk = append(chunk, u16(0)...)
	return append(chunk, block...)
}

// testMapChunk builds a 2x1 map with one solid tile and one entity.
func testMapChunk(t *testing.T) []byte {
	t.Helper()
	px := make([]uint8, lvl.TilePixels)
	for i := range px {
		px[i] = 7
	}
	blob, err := rle.Encode(px, 4)
	if err != nil {
		t.Fatalf("rle.Encode: %s", err)
	}

	chunk := []byte{1, 1} // one tile, one layer
	chunk = append(chunk, u16(2)...)
	chunk = append(chunk, u16(1)...)
	chunk = append(chunk, u16(0)...)
	chunk = append(chunk, u16(0)...)
	chunk = append(chunk, u16(len(blob))...)
	chunk = append(chunk, lvl.ModeRunPairs)
	chunk = append(chunk, blob...)
	chunk = append(chunk, 1, 1, 0, 1) // cells: tile 1, empty
	chunk = append(chunk, 1, 3, 1, 0, 2)
	return chunk
}

func TestLoad(t *testing.T) {
	c, err := Load(cart.FromBytes(testAnimationChunk(t)), cart.FromBytes(testMapChunk(t)))
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	ttesting.AssertEqualInt(t, "correct animation count", c.Animations(), 1)
	ttesting.AssertEqualInt(t, "correct frame count", c.AnimationLen(0), 2)
	ttesting.AssertEqualInt(t, "correct cell width", c.CellW, 4)
	ttesting.AssertEqualInt(t, "correct cell height", c.CellH, 3)

	f, err := c.Frame(0, 0)
	if err != nil {
		t.Fatalf("Frame(0,0): %s", err)
	}
	if f.W != 2 || f.H != 1 || f.OriginX != 1 || f.OriginY != 1 {
		t.Errorf("frame box = (%d,%d) %dx%d; want (1,1) 2x1", f.OriginX, f.OriginY, f.W, f.H)
	}

	img, err := c.FrameImage(0, 0)
	if err != nil {
		t.Fatalf("FrameImage(0,0): %s", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("image bounds = %v; want 4x3 cell", img.Bounds())
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a == 0 {
		t.Error("frame pixel transparent in pre-rendered image")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("cell padding opaque in pre-rendered image")
	}

	empty, err := c.Frame(0, 1)
	if err != nil {
		t.Fatalf("Frame(0,1): %s", err)
	}
	if !empty.Empty() {
		t.Error("sentinel frame not Empty")
	}

	ttesting.AssertEqualUint8(t, "correct map cell", c.Map().LayerCell(0, 0, 0), 1)
	ents := c.Entities()
	if len(ents) != 1 || ents[0].Type != 3 {
		t.Errorf("entities = %v", ents)
	}

	if _, err := c.Frame(5, 0); err == nil {
		t.Error("Frame(5,0): no error; want one")
	}
	if _, err := c.FrameImage(0, 9); err == nil {
		t.Error("FrameImage(0,9): no error; want one")
	}
}

func TestLoadFromLiteral(t *testing.T) {
	raw := testAnimationChunk(t)
	lit := ""
	for _, b := range raw {
		switch {
		case b == '"':
			lit += "\\\""
		case b == '\\':
			lit += "\\\\"
		case b >= 32 && b < 127:
			lit += string(rune(b))
		default:
			lit += "\\" + string([]byte{'0' + b/100, '0' + b/10%10, '0' + b%10})
		}
	}
	src, err := cart.FromLiteral(lit)
	if err != nil {
		t.Fatalf("FromLiteral: %s", err)
	}

	c, err := Load(src, cart.FromBytes(testMapChunk(t)))
	if err != nil {
		t.Fatalf("Load from literal: %s", err)
	}
	if c.AnimationLen(0) != 2 {
		t.Errorf("literal transport decoded %d frames; want 2", c.AnimationLen(0))
	}
}

func TestTileFlags(t *testing.T) {
	c, err := Load(cart.FromBytes(testAnimationChunk(t)), cart.FromBytes(testMapChunk(t)))
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	tf, err := xmls.ReadTileFlags(strings.NewReader(
		`<tileflags><tile id="1" solid="1" oneway="1"/></tileflags>`))
	if err != nil {
		t.Fatalf("ReadTileFlags: %s", err)
	}
	c.SetFlags(tf.Table())

	if got := c.TileFlags(1); got != xmls.FlagSolid|xmls.FlagOneWay {
		t.Errorf("TileFlags(1) = %#x; want solid|oneway", got)
	}
	if got := c.TileFlags(2); got != 0 {
		t.Errorf("TileFlags(2) = %#x; want 0", got)
	}
	if got := c.TileFlags(999); got != 0 {
		t.Errorf("TileFlags(999) = %#x; want 0", got)
	}
}

func TestArenaPhaseOrder(t *testing.T) {
	a := NewArena()
	if _, err := a.StageMap(cart.FromBytes([]byte{0})); !errors.Is(err, ErrPhaseOrder) {
		t.Errorf("StageMap first err = %v; want ErrPhaseOrder", err)
	}

	if _, err := a.StageAnimations(cart.FromBytes([]byte{0})); err != nil {
		t.Fatalf("StageAnimations: %s", err)
	}
	if _, err := a.StageAnimations(cart.FromBytes([]byte{0})); !errors.Is(err, ErrPhaseOrder) {
		t.Errorf("StageAnimations twice err = %v; want ErrPhaseOrder", err)
	}

	if _, err := a.StageMap(cart.FromBytes([]byte{0})); err != nil {
		t.Errorf("StageMap after animations: %s", err)
	}
}

func TestArenaRegionLimits(t *testing.T) {
	a := NewArena()
	if _, err := a.StageAnimations(cart.FromBytes(make([]byte, 8193))); err == nil {
		t.Error("oversized animation chunk accepted")
	}

	a = NewArena()
	if _, err := a.StageAnimations(cart.FromBytes([]byte{0})); err != nil {
		t.Fatalf("StageAnimations: %s", err)
	}
	if _, err := a.StageMap(cart.FromBytes(make([]byte, 4097))); err == nil {
		t.Error("oversized map chunk accepted")
	}
}
