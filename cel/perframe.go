package cel

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/rle"
)

// decodeBoxedFrames handles the frame-location scheme shared by tags 1 and
// 2: a table of 16-bit offsets into a frame-data segment, then per frame a
// 4-byte bounding box and a run stream of exactly bw*bh pixels. A zero
// width or height is the explicit "empty frame" sentinel.
//
// When palette is non-nil, every decoded index is substituted through it
// before storage (tag 2); otherwise indices are stored as-is (tag 1).
func (d *Directory) decodeBoxedFrames(cur *cart.Cursor, frameCount, bitDepth int, palette []uint8) ([]*Frame, error) {
	frameOff := make([]int, frameCount)
	for f := range frameOff {
		off, err := cur.ReadU16()
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedStream, "frame offset table")
		}
		frameOff[f] = int(off)
	}
	base := cur.Pos()

	frames := make([]*Frame, frameCount)
	for f := 0; f < frameCount; f++ {
		fc := d.src.Cursor(base + frameOff[f])
		box, err := fc.ReadBytes(4)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedStream, "frame %d box", f)
		}
		bx, by, bw, bh := int(box[0]), int(box[1]), int(box[2]), int(box[3])
		if bw == 0 || bh == 0 {
			frames[f] = &Frame{}
			continue
		}

		px, err := rle.Decode(fc, bw*bh, bitDepth)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedStream, "frame %d: %s", f, err)
		}
		if palette != nil {
			for i, ci := range px {
				if int(ci) >= len(palette) {
					return nil, errors.Wrapf(ErrMalformedHeader, "frame %d: color index %d outside palette of %d", f, ci, len(palette))
				}
				px[i] = palette[ci]
			}
		}
		frames[f] = &Frame{Pix: px, OriginX: bx, OriginY: by, W: bw, H: bh}
	}
	return frames, nil
}

// decodePaletted handles tag 2: the tag-1 layout preceded by an explicit
// bit depth and a palette table mapping stream indices to final console
// colors. A few distinct colors can then ride in fewer bits per pixel than
// the native depth.
func (d *Directory) decodePaletted(cur *cart.Cursor, frameCount int) ([]*Frame, error) {
	bitDepth, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "paletted header")
	}
	if bitDepth < 1 || bitDepth > 4 {
		return nil, errors.Wrapf(ErrMalformedHeader, "paletted: bit depth %d", bitDepth)
	}
	nc, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "paletted header")
	}
	if nc == 0 || int(nc) > 1<<bitDepth {
		return nil, errors.Wrapf(ErrMalformedHeader, "paletted: %d colors at depth %d", nc, bitDepth)
	}
	palette, err := cur.ReadBytes(int(nc))
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "paletted palette")
	}
	return d.decodeBoxedFrames(cur, frameCount, int(bitDepth), palette)
}
