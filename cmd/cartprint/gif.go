package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
)

// gifDelay is in 1/100ths of a second per frame.
const gifDelay = 8

func gifHandler(anim int, path string) {
	n := ch.AnimationLen(anim)
	if n == 0 {
		glog.Errorf("no such animation: %d", anim)
		return
	}

	q := quantize.MedianCutQuantizer{}
	g := &gif.GIF{}
	for i := 0; i < n; i++ {
		img, err := ch.FrameImage(anim, i)
		if err != nil {
			glog.Errorf("error decoding animation %d frame %d: %v", anim, i, err)
			return
		}
		pal := image.NewPaletted(img.Bounds(), q.Quantize(make(color.Palette, 0, 255), img))
		draw.Draw(pal, pal.Bounds(), img, img.Bounds().Min, draw.Src)
		g.Image = append(g.Image, pal)
		g.Delay = append(g.Delay, gifDelay)
	}

	f, err := os.Create(path)
	if err != nil {
		glog.Errorf("error creating %s: %v", path, err)
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		glog.Errorf("error encoding gif: %v", err)
	}
}
