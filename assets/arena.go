package assets

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
)

// The console has one fixed scratch region of image memory. The animation
// chunk's bytes occupy it while frames are materialized; once every frame
// has been copied into its own buffer, ownership of the region transfers to
// the map chunk. The two datasets never coexist in it.
const (
	ArenaSize       = 12288
	animationRegion = 8192
	mapRegion       = 4096
)

// Arena phases. Transitions only ever move forward.
const (
	phaseIdle = iota
	phaseAnimations
	phaseMap
)

// ErrPhaseOrder is returned when the scratch region is claimed out of
// order.
var ErrPhaseOrder = errors.New("assets: arena phase violation")

// Arena models the shared scratch region and enforces the strict phase
// ordering between the two decode passes.
type Arena struct {
	buf   [ArenaSize]byte
	phase int
}

func NewArena() *Arena {
	return &Arena{}
}

// StageAnimations copies the animation chunk into the scratch region and
// returns a source reading from it. It must be the first claim on the
// arena.
func (a *Arena) StageAnimations(src *cart.Source) (*cart.Source, error) {
	if a.phase != phaseIdle {
		return nil, errors.Wrap(ErrPhaseOrder, "animation chunk staged twice")
	}
	if src.Len() > animationRegion {
		return nil, errors.Errorf("assets: animation chunk is %d bytes; region holds %d", src.Len(), animationRegion)
	}
	b, err := src.Bytes(0, src.Len())
	if err != nil {
		return nil, err
	}
	copy(a.buf[:], b)
	a.phase = phaseAnimations
	return cart.FromBytes(a.buf[:len(b)]), nil
}

// StageMap copies the map chunk into the scratch region, overwriting the
// animation bytes. Callers must have finished materializing every frame
// first; sources returned by StageAnimations are dead after this.
func (a *Arena) StageMap(src *cart.Source) (*cart.Source, error) {
	if a.phase != phaseAnimations {
		return nil, errors.Wrap(ErrPhaseOrder, "map chunk staged before animations were materialized")
	}
	if src.Len() > mapRegion {
		return nil, errors.Errorf("assets: map chunk is %d bytes; region holds %d", src.Len(), mapRegion)
	}
	b, err := src.Bytes(0, src.Len())
	if err != nil {
		return nil, err
	}
	copy(a.buf[:], b)
	a.phase = phaseMap
	return cart.FromBytes(a.buf[:len(b)]), nil
}
