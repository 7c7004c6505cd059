package lvl

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
)

// decodeRunPairs handles mode 0: (cell, run) byte pairs written row-major,
// wrapping to the next row as rows fill up. Some encoders emit a final run
// that overshoots the grid; the excess is clamped off rather than treated
// as an error.
func decodeRunPairs(cur *cart.Cursor, grid []uint8) error {
	idx := 0
	for idx < len(grid) {
		cell, err := cur.ReadU8()
		if err != nil {
			return errors.Wrapf(ErrTruncatedStream, "run pairs end %d cells short", len(grid)-idx)
		}
		run, err := cur.ReadU8()
		if err != nil {
			return errors.Wrap(ErrTruncatedStream, "run pair missing length")
		}
		if run == 0 {
			return errors.Wrap(ErrMalformedHeader, "zero-length run")
		}
		for i := 0; i < int(run) && idx < len(grid); i++ {
			grid[idx] = cell
			idx++
		}
	}
	return nil
}

// decodeTiledFill handles mode 1: a small pattern stamped repeatedly over a
// rectangular region of the grid. Cells outside the region keep the
// pre-filled 0.
func decodeTiledFill(cur *cart.Cursor, grid []uint8, mapW, mapH int) error {
	pw, err := cur.ReadU8()
	if err != nil {
		return errors.Wrap(ErrTruncatedStream, "tiled fill header")
	}
	ph, err := cur.ReadU8()
	if err != nil {
		return errors.Wrap(ErrTruncatedStream, "tiled fill header")
	}
	if pw == 0 || ph == 0 {
		return errors.Wrapf(ErrMalformedHeader, "tiled fill: %dx%d pattern", pw, ph)
	}
	geo := make([]int, 4) // destX, destY, regionW, regionH
	for i := range geo {
		v, err := cur.ReadU16()
		if err != nil {
			return errors.Wrap(ErrTruncatedStream, "tiled fill header")
		}
		geo[i] = int(v)
	}
	destX, destY, regionW, regionH := geo[0], geo[1], geo[2], geo[3]

	pattern, err := cur.ReadBytes(int(pw) * int(ph))
	if err != nil {
		return errors.Wrap(ErrTruncatedStream, "tiled fill pattern")
	}

	for ry := 0; ry < regionH; ry++ {
		y := destY + ry
		if y >= mapH {
			break
		}
		for rx := 0; rx < regionW; rx++ {
			x := destX + rx
			if x >= mapW {
				break
			}
			grid[y*mapW+x] = pattern[(ry%int(ph))*int(pw)+rx%int(pw)]
		}
	}
	return nil
}

// decodePackBits handles mode 2: control bytes alternating literal runs
// (control < 128, control+1 bytes follow verbatim) and repeat runs
// (control >= 128, control-125 copies of the one following byte). The
// stream must land exactly on the cell count.
func decodePackBits(cur *cart.Cursor, grid []uint8) error {
	idx := 0
	for idx < len(grid) {
		control, err := cur.ReadU8()
		if err != nil {
			return errors.Wrapf(ErrTruncatedStream, "pack-bits ends %d cells short", len(grid)-idx)
		}
		if control < 128 {
			n := int(control) + 1
			if idx+n > len(grid) {
				return errors.Wrapf(ErrMalformedHeader, "literal run of %d overruns grid at %d/%d", n, idx, len(grid))
			}
			lit, err := cur.ReadBytes(n)
			if err != nil {
				return errors.Wrap(ErrTruncatedStream, "pack-bits literal run")
			}
			copy(grid[idx:], lit)
			idx += n
		} else {
			n := int(control) - 125
			if idx+n > len(grid) {
				return errors.Wrapf(ErrMalformedHeader, "repeat run of %d overruns grid at %d/%d", n, idx, len(grid))
			}
			cell, err := cur.ReadU8()
			if err != nil {
				return errors.Wrap(ErrTruncatedStream, "pack-bits repeat run")
			}
			for i := 0; i < n; i++ {
				grid[idx] = cell
				idx++
			}
		}
	}
	return nil
}
