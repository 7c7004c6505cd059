// Package imageprint prints decoded cart frames and map renders on the
// terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"

	"github.com/gookit/color"
)

type dumper interface {
	Printf(s string, arg ...interface{})
}
type fmtDumperT struct{}

func (fmtDumperT) Printf(s string, arg ...interface{}) {
	fmt.Printf(s, arg...)
}

var fmtDumper fmtDumperT

// cell prints one pixel as a two-column terminal cell. Cart pixels are
// chunky; two columns per pixel keeps the aspect roughly square.
func cell(col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Printf("\x1b[0m  ")
		return
	}

	var d dumper
	if noColor {
		d = &fmtDumper
	} else if escapesTrueColor {
		fmt.Printf("\x1b[48;2;%d;%d;%dm", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
		d = &fmtDumper
	} else {
		d = color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)
	}
	if blanks {
		d.Printf("  ")
	} else {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			d.Printf("..")
		case a < 64:
			d.Printf("--")
		case a < 128:
			d.Printf("==")
		default:
			d.Printf("##")
		}
	}
	if escapesTrueColor {
		fmt.Printf("\x1b[0m")
	}
}

func printWith(i image.Image, escapesTrueColor, blanks, noColor bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			cell(i.At(x, y), escapesTrueColor, blanks, noColor)
		}
		if !noColor {
			fmt.Printf("\x1b[0m")
		}
		fmt.Printf("\n")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(i image.Image, blanks bool) {
	printWith(i, false, blanks, false)
}

// Print24bit draws an image using 24bit color escape sequences by changing
// background.
func Print24bit(i image.Image, blanks bool) {
	printWith(i, true, blanks, false)
}

// PrintNoColor draws an image without color escape sequences. Only makes
// sense with blanks=false.
func PrintNoColor(i image.Image, blanks bool) {
	printWith(i, true, blanks, true)
}

// PrintPaletted draws a raw index buffer directly, without building an
// intermediate image. Handy for dumping frames and tiles mid-decode.
func PrintPaletted(pix []uint8, w, h int, pal ic.Palette, transparent uint8, blanks bool) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := pix[y*w+x]
			if ci == transparent {
				fmt.Printf("\x1b[0m  ")
				continue
			}
			cell(pal[int(ci)%len(pal)], true, blanks, false)
		}
		fmt.Printf("\x1b[0m\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	fmt.Printf("\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n",
		name, len(b.String()), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}
