package cel

import (
	"image"
	"image/color"
)

// TransparentIndex is the console color reserved as the transparency key.
// Encoders use it for "no pixel here"; it never survives into rendered
// output.
const TransparentIndex = 14

// ConsolePalette is the console's fixed 16-color palette. Decoded frames
// store palette indices; this maps them to displayable colors.
var ConsolePalette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xFF}, // 0 black
	color.RGBA{0x1D, 0x2B, 0x53, 0xFF}, // 1 dark blue
	color.RGBA{0x7E, 0x25, 0x53, 0xFF}, // 2 dark purple
	color.RGBA{0x00, 0x87, 0x51, 0xFF}, // 3 dark green
	color.RGBA{0xAB, 0x52, 0x36, 0xFF}, // 4 brown
	color.RGBA{0x5F, 0x57, 0x4F, 0xFF}, // 5 dark grey
	color.RGBA{0xC2, 0xC3, 0xC7, 0xFF}, // 6 light grey
	color.RGBA{0xFF, 0xF1, 0xE8, 0xFF}, // 7 white
	color.RGBA{0xFF, 0x00, 0x4D, 0xFF}, // 8 red
	color.RGBA{0xFF, 0xA3, 0x00, 0xFF}, // 9 orange
	color.RGBA{0xFF, 0xEC, 0x27, 0xFF}, // 10 yellow
	color.RGBA{0x00, 0xE4, 0x36, 0xFF}, // 11 green
	color.RGBA{0x29, 0xAD, 0xFF, 0xFF}, // 12 blue
	color.RGBA{0x83, 0x76, 0x9C, 0xFF}, // 13 lavender
	color.RGBA{0xFF, 0x77, 0xA8, 0xFF}, // 14 pink (transparency key)
	color.RGBA{0xFF, 0xCC, 0xAA, 0xFF}, // 15 peach
}

// Frame is one decoded animation cell: a flat row-major array of palette
// indices covering the frame's bounding box, plus the box's position inside
// the cell.
//
// An empty frame (W == 0 or H == 0) carries no pixel data and draws nothing.
type Frame struct {
	Pix              []uint8
	OriginX, OriginY int
	W, H             int
}

// Empty reports whether the frame is the "nothing to draw" sentinel.
func (f *Frame) Empty() bool {
	return f.W == 0 || f.H == 0
}

// At returns the palette index at (x, y) in box-local coordinates.
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*f.W+x]
}

// Image renders the frame's bounding box as an RGBA image. Pixels holding
// the transparent index become fully transparent.
func (f *Frame) Image(pal color.Palette, transparent uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	if f.Empty() {
		return img
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			ci := f.At(x, y)
			if ci == transparent {
				continue
			}
			img.Set(x, y, pal[int(ci)%len(pal)])
		}
	}
	return img
}

// CellImage renders the frame positioned inside a full cellW by cellH cell,
// the way the renderer would draw it.
func (f *Frame) CellImage(cellW, cellH int, pal color.Palette, transparent uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cellW, cellH))
	if f.Empty() {
		return img
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			ci := f.At(x, y)
			if ci == transparent {
				continue
			}
			img.Set(f.OriginX+x, f.OriginY+y, pal[int(ci)%len(pal)])
		}
	}
	return img
}
