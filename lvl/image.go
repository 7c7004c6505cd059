package lvl

import (
	"image"
	"image/color"
)

// TileImage renders one tile's pixel art. Id 0 and out-of-range ids return
// nil.
func (m *Map) TileImage(id int, pal color.Palette, transparent uint8) *image.RGBA {
	px := m.Tile(id)
	if px == nil {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			ci := px[y*TileSize+x]
			if ci == transparent {
				continue
			}
			img.Set(x, y, pal[int(ci)%len(pal)])
		}
	}
	return img
}

// Image composes one full layer into an RGBA image, each cell rendered as
// its 16x16 tile. Empty cells stay transparent.
func (m *Map) Image(layer int, pal color.Palette, transparent uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.W*TileSize, m.H*TileSize))
	if layer < 0 || layer >= len(m.layers) {
		return img
	}
	for cy := 0; cy < m.H; cy++ {
		for cx := 0; cx < m.W; cx++ {
			px := m.Tile(int(m.layers[layer][cy*m.W+cx]))
			if px == nil {
				continue
			}
			for y := 0; y < TileSize; y++ {
				for x := 0; x < TileSize; x++ {
					ci := px[y*TileSize+x]
					if ci == transparent {
						continue
					}
					img.Set(cx*TileSize+x, cy*TileSize+y, pal[int(ci)%len(pal)])
				}
			}
		}
	}
	return img
}
