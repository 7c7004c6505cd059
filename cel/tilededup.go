package cel

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/rle"
)

// decodeTileDedup handles tag 3: a dictionary of unique tile images plus a
// grid of dictionary indices, composing into one synthetic frame. Tile art
// repeats heavily, so a large static image pays only once per distinct
// tile.
func (d *Directory) decodeTileDedup(cur *cart.Cursor, frameCount int) ([]*Frame, error) {
	if frameCount != 1 {
		return nil, errors.Wrapf(ErrMalformedHeader, "tilededup: %d frames; want 1", frameCount)
	}

	hdr, err := cur.ReadBytes(6)
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "tilededup header")
	}
	tileW, tileH := int(hdr[0]), int(hdr[1])
	gridCols, gridRows := int(hdr[2]), int(hdr[3])
	bitDepth, nc := int(hdr[4]), int(hdr[5])
	if tileW == 0 || tileH == 0 || gridCols == 0 || gridRows == 0 {
		return nil, errors.Wrapf(ErrMalformedHeader, "tilededup: degenerate geometry %dx%d grid %dx%d", tileW, tileH, gridCols, gridRows)
	}
	if bitDepth < 1 || bitDepth > 4 {
		return nil, errors.Wrapf(ErrMalformedHeader, "tilededup: bit depth %d", bitDepth)
	}
	if nc == 0 || nc > 1<<uint(bitDepth) {
		return nil, errors.Wrapf(ErrMalformedHeader, "tilededup: %d colors at depth %d", nc, bitDepth)
	}
	palette, err := cur.ReadBytes(nc)
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "tilededup palette")
	}

	nu, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "tilededup tile count")
	}
	if nu == 0 {
		return nil, errors.Wrap(ErrMalformedHeader, "tilededup: empty dictionary")
	}
	tileDataSize, err := cur.ReadU16()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "tilededup data size")
	}
	tileOff := make([]int, nu)
	for i := range tileOff {
		off, err := cur.ReadU16()
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedStream, "tilededup offset table")
		}
		tileOff[i] = int(off)
	}
	tileBase := cur.Pos()

	// Tile streams are laid out back to back; each one must end exactly
	// where the next offset (or the declared segment size) says it does.
	tiles := make([][]uint8, nu)
	for i := range tiles {
		tc := d.src.Cursor(tileBase + tileOff[i])
		px, err := rle.Decode(tc, tileW*tileH, bitDepth)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedStream, "tile %d: %s", i, err)
		}
		end := int(tileDataSize)
		if i+1 < len(tileOff) {
			end = tileOff[i+1]
		}
		if consumed := tc.Pos() - tileBase; consumed != end {
			return nil, errors.Wrapf(ErrTruncatedStream, "tile %d: stream ends at %d, next begins at %d", i, consumed, end)
		}
		for j, ci := range px {
			if int(ci) >= len(palette) {
				return nil, errors.Wrapf(ErrMalformedHeader, "tile %d: color index %d outside palette of %d", i, ci, len(palette))
			}
			px[j] = palette[ci]
		}
		tiles[i] = px
	}

	grid, err := d.src.Bytes(tileBase+int(tileDataSize), gridRows*gridCols)
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "tilededup index grid")
	}

	w, h := gridCols*tileW, gridRows*tileH
	pix := make([]uint8, w*h)
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			ti := grid[row*gridCols+col]
			if int(ti) >= len(tiles) {
				return nil, errors.Wrapf(ErrMalformedHeader, "grid cell (%d,%d): tile index %d of %d", col, row, ti, len(tiles))
			}
			src := tiles[ti]
			dst := row * tileH * w
			for y := 0; y < tileH; y++ {
				copy(pix[dst+y*w+col*tileW:dst+y*w+col*tileW+tileW], src[y*tileW:(y+1)*tileW])
			}
		}
	}
	glog.V(2).Infof("cel: tilededup %d tiles %dx%d composed to %dx%d", nu, tileW, tileH, w, h)

	return []*Frame{{Pix: pix, W: w, H: h}}, nil
}
