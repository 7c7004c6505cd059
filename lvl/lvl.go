// Package lvl implements a reader for the map chunk of a cart: one
// compressed blob of tile pixel art, a stack of map layer grids, and a flat
// list of entity placements.
//
// Layer grids come in three encodings chosen per layer by the encoder:
// plain cell/run pairs, a tiled pattern fill, and pack-bits. All of them
// produce the same thing, a mapW by mapH grid of tile ids with 0 meaning
// empty.
package lvl

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/rle"
)

// Decode failure conditions, mirroring the animation chunk's.
var (
	ErrMalformedHeader = errors.New("lvl: malformed header")
	ErrTruncatedStream = errors.New("lvl: truncated stream")
)

// Tiles are 16x16 at the console's native depth.
const (
	TileSize   = 16
	TilePixels = TileSize * TileSize

	tileBitDepth = 4
)

// Layer grid encodings.
const (
	ModeRunPairs  = 0
	ModeTiledFill = 1
	ModePackBits  = 2
)

// NoSpawn is the on-wire marker for "this map has no spawn point".
const NoSpawn = 0xFFFF

// Entity is one placed map object. The codec only carries it; meaning is
// assigned by game logic.
type Entity struct {
	Type, TileX, TileY, Group uint8
}

// Map is a fully decoded map chunk.
type Map struct {
	W, H int

	tileCount int
	tiles     []uint8 // tileCount*TilePixels, fixed stride
	layers    [][]uint8
	entities  []Entity

	spawnX, spawnY int // -1 when absent
}

// Decode materializes the whole map chunk in src. Like the animation side,
// it either succeeds completely or returns an error with no partial state.
func Decode(src *cart.Source) (*Map, error) {
	cur := src.Cursor(0)

	tileCount, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for header")
	}
	layerCount, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for header")
	}
	if layerCount == 0 {
		return nil, errors.Wrap(ErrMalformedHeader, "zero layers")
	}
	hdr := make([]uint16, 5) // mapW, mapH, spawnX, spawnY, blobSize
	for i := range hdr {
		if hdr[i], err = cur.ReadU16(); err != nil {
			return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for header")
		}
	}
	mapW, mapH := int(hdr[0]), int(hdr[1])
	if mapW == 0 || mapH == 0 {
		return nil, errors.Wrapf(ErrMalformedHeader, "degenerate map %dx%d", mapW, mapH)
	}
	modes, err := cur.ReadBytes(int(layerCount))
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHeader, "chunk too small for layer modes")
	}

	m := &Map{
		W:         mapW,
		H:         mapH,
		tileCount: int(tileCount),
		spawnX:    -1,
		spawnY:    -1,
	}
	if hdr[2] != NoSpawn && hdr[3] != NoSpawn {
		m.spawnX, m.spawnY = int(hdr[2]), int(hdr[3])
	}

	// One run stream covers every tile's pixels back to back; consumers
	// slice it by fixed stride. The declared blob size must land exactly
	// on the first layer grid or every later read desynchronizes.
	blobBase := cur.Pos()
	blobSize := int(hdr[4])
	m.tiles, err = rle.Decode(cur, m.tileCount*TilePixels, tileBitDepth)
	if err != nil {
		return nil, errors.Wrapf(ErrTruncatedStream, "tile blob: %s", err)
	}
	if consumed := cur.Pos() - blobBase; consumed != blobSize {
		return nil, errors.Wrapf(ErrTruncatedStream, "tile blob is %d bytes, header says %d", consumed, blobSize)
	}

	m.layers = make([][]uint8, layerCount)
	for l, mode := range modes {
		grid := make([]uint8, mapW*mapH)
		switch mode {
		case ModeRunPairs:
			err = decodeRunPairs(cur, grid)
		case ModeTiledFill:
			err = decodeTiledFill(cur, grid, mapW, mapH)
		case ModePackBits:
			err = decodePackBits(cur, grid)
		default:
			return nil, errors.Wrapf(ErrMalformedHeader, "layer %d: grid mode %d", l, mode)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", l)
		}
		m.layers[l] = grid
	}

	entityCount, err := cur.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "entity count")
	}
	m.entities = make([]Entity, entityCount)
	for i := range m.entities {
		rec, err := cur.ReadBytes(4)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedStream, "entity %d", i)
		}
		m.entities[i] = Entity{Type: rec[0], TileX: rec[1], TileY: rec[2], Group: rec[3]}
	}

	glog.V(1).Infof("lvl.Decode: %dx%d, %d tiles, %d layers, %d entities",
		mapW, mapH, tileCount, layerCount, entityCount)
	return m, nil
}

// Layers returns the number of layer grids.
func (m *Map) Layers() int {
	return len(m.layers)
}

// LayerCell returns the tile id at (x, y) of the given layer; 0 means
// empty. Out-of-range coordinates read as empty.
func (m *Map) LayerCell(layer, x, y int) uint8 {
	if layer < 0 || layer >= len(m.layers) || x < 0 || x >= m.W || y < 0 || y >= m.H {
		return 0
	}
	return m.layers[layer][y*m.W+x]
}

// TileCount returns the number of tile images in the blob.
func (m *Map) TileCount() int {
	return m.tileCount
}

// Tile returns the 256-pixel slice for a 1-based tile id, as referenced
// from layer cells. Id 0 (empty) and out-of-range ids return nil.
func (m *Map) Tile(id int) []uint8 {
	if id < 1 || id > m.tileCount {
		return nil
	}
	return m.tiles[(id-1)*TilePixels : id*TilePixels]
}

// Entities returns the decoded entity records.
func (m *Map) Entities() []Entity {
	return m.entities
}

// Spawn returns the spawn tile, if the map declares one.
func (m *Map) Spawn() (x, y int, ok bool) {
	if m.spawnX < 0 {
		return 0, 0, false
	}
	return m.spawnX, m.spawnY, true
}
