package cel

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/rle"
)

// decodeKeyDelta handles tag 0: a handful of full keyframes plus, per
// frame, a sparse list of pixel overrides against an assigned keyframe.
// All frames share one animation-wide bounding box and the native bit
// depth.
//
// Layout after the tag byte: keyframe count, box, per-frame keyframe
// assignment, per-keyframe byte size, per-frame delta offset, then the
// shared data segment. Keyframe streams occupy the front of the segment
// and are consumed strictly sequentially; the declared sizes must land
// exactly on the next stream. Delta offsets are relative to the start of
// the same segment.
func (d *Directory) decodeKeyDelta(cur *cart.Cursor, frameCount int) ([]*Frame, error) {
	nk, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "keydelta header")
	}
	if nk == 0 {
		return nil, errors.Wrap(ErrMalformedHeader, "keydelta: zero keyframes")
	}
	box, err := cur.ReadBytes(4)
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "keydelta box")
	}
	bx, by, bw, bh := int(box[0]), int(box[1]), int(box[2]), int(box[3])

	assign, err := cur.ReadBytes(frameCount)
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "keydelta assignments")
	}
	for f, a := range assign {
		if a >= nk {
			return nil, errors.Wrapf(ErrMalformedHeader, "frame %d assigned keyframe %d of %d", f, a, nk)
		}
	}

	keySize := make([]int, nk)
	for k := range keySize {
		sz, err := cur.ReadU16()
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedStream, "keydelta key sizes")
		}
		keySize[k] = int(sz)
	}
	deltaOff := make([]int, frameCount)
	for f := range deltaOff {
		off, err := cur.ReadU16()
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedStream, "keydelta delta offsets")
		}
		deltaOff[f] = int(off)
	}

	dataBase := cur.Pos()

	// Keyframes sit back to back at the front of the data segment. A size
	// that does not land exactly on the end of its stream desynchronizes
	// every later read, so that is checked here rather than trusted.
	keys := make([][]uint8, nk)
	keyStart := dataBase
	for k := range keys {
		kc := d.src.Cursor(keyStart)
		px, err := rle.Decode(kc, bw*bh, fixedBitDepth)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedStream, "keyframe %d: %s", k, err)
		}
		if consumed := kc.Pos() - keyStart; consumed != keySize[k] {
			return nil, errors.Wrapf(ErrTruncatedStream, "keyframe %d: stream is %d bytes, header says %d", k, consumed, keySize[k])
		}
		keys[k] = px
		keyStart += keySize[k]
	}
	glog.V(2).Infof("cel: keydelta %d keys, box %dx%d at (%d,%d)", nk, bw, bh, bx, by)

	frames := make([]*Frame, frameCount)
	for f := 0; f < frameCount; f++ {
		pix := make([]uint8, bw*bh)
		copy(pix, keys[assign[f]])
		if err := applyDeltaList(d.src.Cursor(dataBase+deltaOff[f]), pix); err != nil {
			return nil, errors.Wrapf(err, "frame %d deltas", f)
		}
		frames[f] = &Frame{Pix: pix, OriginX: bx, OriginY: by, W: bw, H: bh}
	}
	return frames, nil
}

// applyDeltaList overwrites individual pixels of a copied keyframe buffer.
// The first override carries an absolute 1-indexed position and a literal
// color byte; every later one packs a skip distance and a color into one
// byte, with the skip field escaping first to a byte and then to a 16-bit
// count.
func applyDeltaList(cur *cart.Cursor, pix []uint8) error {
	count8, err := cur.ReadU8()
	if err != nil {
		return errors.Wrap(ErrTruncatedStream, "delta count")
	}
	count := int(count8)
	if count8 == 255 {
		count16, err := cur.ReadU16()
		if err != nil {
			return errors.Wrap(ErrTruncatedStream, "wide delta count")
		}
		count = int(count16)
	}
	if count == 0 {
		return nil
	}

	pos16, err := cur.ReadU16()
	if err != nil {
		return errors.Wrap(ErrTruncatedStream, "first delta position")
	}
	color, err := cur.ReadU8()
	if err != nil {
		return errors.Wrap(ErrTruncatedStream, "first delta color")
	}
	pos := int(pos16) // 1-indexed
	if pos < 1 || pos > len(pix) {
		return errors.Wrapf(ErrMalformedHeader, "delta position %d outside box of %d pixels", pos, len(pix))
	}
	pix[pos-1] = color

	for j := 1; j < count; j++ {
		b, err := cur.ReadU8()
		if err != nil {
			return errors.Wrapf(ErrTruncatedStream, "delta op %d", j)
		}
		skip := int(b >> 4)
		color := b & 0x0F
		if skip == 15 {
			ext, err := cur.ReadU8()
			if err != nil {
				return errors.Wrapf(ErrTruncatedStream, "delta op %d extension", j)
			}
			if ext == 255 {
				wide, err := cur.ReadU16()
				if err != nil {
					return errors.Wrapf(ErrTruncatedStream, "delta op %d wide skip", j)
				}
				skip = int(wide)
			} else {
				skip = 15 + int(ext)
			}
		}
		pos += skip + 1
		if pos > len(pix) {
			return errors.Wrapf(ErrMalformedHeader, "delta position %d outside box of %d pixels", pos, len(pix))
		}
		pix[pos-1] = color
	}
	return nil
}
