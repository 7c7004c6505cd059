// Package cel implements a reader for the animation chunk of a cart: a
// directory of animations, each holding a run of character cells compressed
// under one of four encodings.
//
// Tag 0 stores a few full keyframes plus sparse per-frame pixel overrides;
// tag 1 stores every frame as an independent run-length stream with its own
// bounding box; tag 2 is tag 1 with an explicit palette table and bit depth;
// tag 3 stores a dictionary of unique tiles and a grid of dictionary
// indices composing one large image. The tag set is closed; there is no
// extension mechanism.
package cel

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
)

// Decode failure conditions. Decoding is all or nothing; when either of
// these comes back, no partial animation state is retained.
var (
	ErrMalformedHeader = errors.New("cel: malformed header")
	ErrTruncatedStream = errors.New("cel: truncated stream")
)

// Frames under tags 0 and 1 are packed at the console's native depth.
const fixedBitDepth = 4

// Animation encoding tags. The tag fully determines the shape of everything
// that follows it in the block.
const (
	TagKeyDelta  = 0
	TagPerFrame  = 1
	TagPaletted  = 2
	TagTileDedup = 3
)

// Directory is a parsed animation chunk header: cell geometry plus the
// location of every animation block. Frame data is decoded on demand.
type Directory struct {
	src *cart.Source

	// CellW and CellH are the nominal size of one character cell; every
	// frame's bounding box is expressed inside it.
	CellW, CellH int

	offsets []int // absolute block offsets, one per animation
}

// Open parses the chunk header and offset table of the animation chunk in
// src.
func Open(src *cart.Source) (*Directory, error) {
	cur := src.Cursor(0)

	animCount, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for header")
	}
	cellW, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for header")
	}
	cellH, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for header")
	}

	d := &Directory{
		src:     src,
		CellW:   int(cellW),
		CellH:   int(cellH),
		offsets: make([]int, animCount),
	}
	for i := range d.offsets {
		off, err := cur.ReadU16()
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedHeader, "offset table ends at entry %d of %d", i, animCount)
		}
		d.offsets[i] = int(off)
	}
	// Offsets are relative to the byte right after the offset table.
	base := cur.Pos()
	for i := range d.offsets {
		d.offsets[i] += base
		if d.offsets[i] >= src.Len() {
			return nil, errors.Wrapf(ErrMalformedHeader, "animation %d offset %d past end of chunk (%d)", i, d.offsets[i], src.Len())
		}
	}

	glog.V(1).Infof("cel.Open: %d animations, cell %dx%d", animCount, cellW, cellH)
	return d, nil
}

// Len returns the number of animations in the directory.
func (d *Directory) Len() int {
	return len(d.offsets)
}

// Animation decodes all frames of one animation block.
func (d *Directory) Animation(id int) ([]*Frame, error) {
	if id < 0 || id >= len(d.offsets) {
		return nil, errors.Errorf("cel: animation %d out of range [0,%d)", id, len(d.offsets))
	}
	cur := d.src.Cursor(d.offsets[id])

	frameCount, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrapf(ErrTruncatedStream, "animation %d header", id)
	}
	tag, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrapf(ErrTruncatedStream, "animation %d header", id)
	}

	glog.V(2).Infof("cel: animation %d: %d frames, tag %d", id, frameCount, tag)
	switch tag {
	case TagKeyDelta:
		return d.decodeKeyDelta(cur, int(frameCount))
	case TagPerFrame:
		return d.decodeBoxedFrames(cur, int(frameCount), fixedBitDepth, nil)
	case TagPaletted:
		return d.decodePaletted(cur, int(frameCount))
	case TagTileDedup:
		return d.decodeTileDedup(cur, int(frameCount))
	default:
		return nil, errors.Wrapf(ErrMalformedHeader, "animation %d: encoding tag %d", id, tag)
	}
}

// DecodeAll decodes every animation in the directory. The returned mapping
// is owned by the caller; nothing is cached inside the Directory.
func (d *Directory) DecodeAll() (map[int][]*Frame, error) {
	out := make(map[int][]*Frame, len(d.offsets))
	for id := range d.offsets {
		frames, err := d.Animation(id)
		if err != nil {
			return nil, errors.Wrapf(err, "animation %d", id)
		}
		out[id] = frames
	}
	return out, nil
}
