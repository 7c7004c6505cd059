// Command cartprint decodes a cart's animation and map chunks and prints
// frames or map layers to the terminal.
package main

import (
	"flag"
	"io"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"

	"badc0de.net/pkg/go-cart/assets"
	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/datafiles"
	"badc0de.net/pkg/go-cart/paths"
	"badc0de.net/pkg/go-cart/xmls"

	"github.com/golang/glog"
)

var (
	animID   = flag.Int("anim", -1, "animation to print")
	frameIdx = flag.Int("frame", 0, "frame of the animation to print")
	mapOut   = flag.Bool("map", false, "whether to print the map")
	layerIdx = flag.Int("layer", -1, "map layer to print; all composed if negative")
	gifOut   = flag.String("gif", "", "write the animation as a GIF to this path instead of printing")
	col      = flag.Bool("col", true, "whether to print in color at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to autodetect kitty, iterm or sixels and use those")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to fit the image to the terminal size")

	celPath   string
	lvlPath   string
	flagsPath string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("game.cel", "cel_path", &celPath)
	paths.SetupFilePathFlag("game.lvl", "lvl_path", &lvlPath)
	paths.SetupFilePathFlag("tileflags.xml", "tile_flags_path", &flagsPath)
}

func cacheOpen() *assets.Cache {
	celSrc, err := cart.Open(celPath)
	if err != nil {
		glog.Errorln("opening animation chunk", err)
		return nil
	}
	lvlSrc, err := cart.Open(lvlPath)
	if err != nil {
		glog.Errorln("opening map chunk", err)
		return nil
	}

	c, err := assets.Load(celSrc, lvlSrc)
	if err != nil {
		glog.Errorln("loading cart data", err)
		return nil
	}

	var flagsSrc io.Reader
	if flagsPath != "" {
		f, err := os.Open(flagsPath)
		if err != nil {
			glog.Errorln("opening tile flags config", err)
			return c
		}
		defer f.Close()
		flagsSrc = f
	} else {
		flagsSrc = strings.NewReader(datafiles.TileFlagsXML())
	}
	tf, err := xmls.ReadTileFlags(flagsSrc)
	if err != nil {
		glog.Errorln("parsing tile flags config", err)
		return c
	}
	c.SetFlags(tf.Table())

	return c
}

var ch *assets.Cache

func animHandler(anim, frame int) {
	img, err := ch.FrameImage(anim, frame)
	if err != nil {
		glog.Errorf("error decoding animation %d frame %d: %v", anim, frame, err)
		return
	}

	out(img)
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	ch = cacheOpen()
	if ch == nil {
		return
	}

	if *animID >= 0 {
		if *gifOut != "" {
			gifHandler(*animID, *gifOut)
		} else {
			animHandler(*animID, *frameIdx)
		}
	}
	if *mapOut {
		mapHandler(*layerIdx)
	}
}
