package main

import (
	"image"
	"image/draw"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-cart/cel"
	"badc0de.net/pkg/go-cart/lvl"
)

func mapHandler(layer int) {
	m := ch.Map()
	if m == nil {
		glog.Errorln("no map loaded")
		return
	}

	if layer >= 0 {
		if layer >= m.Layers() {
			glog.Errorf("layer %d out of range, map has %d layers", layer, m.Layers())
			return
		}
		out(m.Image(layer, cel.ConsolePalette, cel.TransparentIndex))
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, m.W*lvl.TileSize, m.H*lvl.TileSize))
	for l := 0; l < m.Layers(); l++ {
		li := m.Image(l, cel.ConsolePalette, cel.TransparentIndex)
		draw.Draw(img, img.Bounds(), li, image.ZP, draw.Over)
	}
	out(img)
}
