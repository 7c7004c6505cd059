// Package assets loads a cart's decoded data for game logic and rendering:
// every animation frame materialized eagerly, the map with its tile art and
// entities, and the externally configured tile flags table.
//
// Loading is a one-shot, strictly ordered sequence (animations first, then
// the map) because both chunks pass through the same scratch region; see
// Arena.
package assets

import (
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/cel"
	"badc0de.net/pkg/go-cart/lvl"
)

// Cache holds everything decoded from a cart. It is immutable after Load
// except for the flags table, which arrives separately as config.
type Cache struct {
	CellW, CellH int

	frames map[int][]*cel.Frame
	images map[int][]*image.RGBA

	m *lvl.Map

	flags [256]uint8
}

// Load runs both decode passes in their required order and materializes
// every frame up front, with palette and transparency applied once.
func Load(celSrc, lvlSrc *cart.Source) (*Cache, error) {
	arena := NewArena()

	staged, err := arena.StageAnimations(celSrc)
	if err != nil {
		return nil, err
	}
	dir, err := cel.Open(staged)
	if err != nil {
		return nil, errors.Wrap(err, "animation chunk")
	}
	frames, err := dir.DecodeAll()
	if err != nil {
		return nil, errors.Wrap(err, "animation chunk")
	}

	c := &Cache{
		CellW:  dir.CellW,
		CellH:  dir.CellH,
		frames: frames,
		images: make(map[int][]*image.RGBA, len(frames)),
	}
	for id, fs := range frames {
		imgs := make([]*image.RGBA, len(fs))
		for i, f := range fs {
			imgs[i] = f.CellImage(c.CellW, c.CellH, cel.ConsolePalette, cel.TransparentIndex)
		}
		c.images[id] = imgs
	}

	// Every frame now owns its pixels; the scratch region is free for the
	// map pass.
	stagedMap, err := arena.StageMap(lvlSrc)
	if err != nil {
		return nil, err
	}
	if c.m, err = lvl.Decode(stagedMap); err != nil {
		return nil, errors.Wrap(err, "map chunk")
	}

	glog.Infof("assets.Load: %d animations, %dx%d map, %d entities",
		len(frames), c.m.W, c.m.H, len(c.m.Entities()))
	return c, nil
}

// Animations returns the number of loaded animations.
func (c *Cache) Animations() int {
	return len(c.frames)
}

// AnimationLen returns the frame count of one animation, 0 for unknown ids.
func (c *Cache) AnimationLen(anim int) int {
	return len(c.frames[anim])
}

// Frame returns one decoded frame.
func (c *Cache) Frame(anim, idx int) (*cel.Frame, error) {
	fs, ok := c.frames[anim]
	if !ok {
		return nil, errors.Errorf("assets: no animation %d", anim)
	}
	if idx < 0 || idx >= len(fs) {
		return nil, errors.Errorf("assets: animation %d has %d frames; frame %d requested", anim, len(fs), idx)
	}
	return fs[idx], nil
}

// FrameImage returns the pre-rendered cell image for one frame.
func (c *Cache) FrameImage(anim, idx int) (*image.RGBA, error) {
	imgs, ok := c.images[anim]
	if !ok {
		return nil, errors.Errorf("assets: no animation %d", anim)
	}
	if idx < 0 || idx >= len(imgs) {
		return nil, errors.Errorf("assets: animation %d has %d frames; frame %d requested", anim, len(imgs), idx)
	}
	return imgs[idx], nil
}

// Map returns the decoded map chunk.
func (c *Cache) Map() *lvl.Map {
	return c.m
}

// Entities returns the map's entity records.
func (c *Cache) Entities() []lvl.Entity {
	return c.m.Entities()
}

// SetFlags installs the externally configured tile flags table.
func (c *Cache) SetFlags(table [256]uint8) {
	c.flags = table
}

// TileFlags returns the behavior bitmask for a tile id; unknown ids carry
// no flags.
func (c *Cache) TileFlags(id int) uint8 {
	if id < 0 || id > 255 {
		return 0
	}
	return c.flags[id]
}
