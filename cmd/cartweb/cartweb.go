// Command cartweb serves cart previews over HTTP: individual animation
// frames, animated GIFs, composed map layers and a sprite sheet.
package main

import (
	"flag"
	"io"
	"net/http"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"

	"badc0de.net/pkg/go-cart/assets"
	"badc0de.net/pkg/go-cart/cart"
	"badc0de.net/pkg/go-cart/datafiles"
	"badc0de.net/pkg/go-cart/paths"
	"badc0de.net/pkg/go-cart/web"
	"badc0de.net/pkg/go-cart/xmls"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/net/trace" // registers /debug/requests on the default mux
)

var (
	listenAddress      = flag.String("listen_address", ":8080", "http listen address for cartweb")
	debugListenAddress = flag.String("debug_listen_address", "", "where the debug server will listen; disabled if empty")

	celPath   string
	lvlPath   string
	flagsPath string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("game.cel", "cel_path", &celPath)
	paths.SetupFilePathFlag("game.lvl", "lvl_path", &lvlPath)
	paths.SetupFilePathFlag("tileflags.xml", "tile_flags_path", &flagsPath)
}

func cacheOpen() (*assets.Cache, error) {
	celSrc, err := cart.Open(celPath)
	if err != nil {
		return nil, err
	}
	lvlSrc, err := cart.Open(lvlPath)
	if err != nil {
		return nil, err
	}

	c, err := assets.Load(celSrc, lvlSrc)
	if err != nil {
		return nil, err
	}

	var flagsSrc io.Reader
	if flagsPath != "" {
		f, err := os.Open(flagsPath)
		if err != nil {
			glog.Errorln("opening tile flags config", err)
			return c, nil
		}
		defer f.Close()
		flagsSrc = f
	} else {
		flagsSrc = strings.NewReader(datafiles.TileFlagsXML())
	}
	tf, err := xmls.ReadTileFlags(flagsSrc)
	if err != nil {
		glog.Errorln("parsing tile flags config", err)
		return c, nil
	}
	c.SetFlags(tf.Table())

	return c, nil
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()

	figure.NewFigure("cartweb", "", true).Print()

	c, err := cacheOpen()
	if err != nil {
		glog.Fatalln("loading cart data:", err)
	}

	r := mux.NewRouter()
	h := web.NewHandler(c)
	h.RegisterRoutes(r)
	registerSitemap(r, c)

	var g errgroup.Group
	g.Go(func() error {
		glog.Infof("cartweb now listening on %s", *listenAddress)
		return http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stderr, r))
	})
	if *debugListenAddress != "" {
		g.Go(func() error {
			glog.Infof("cartweb debug server now listening on %s", *debugListenAddress)
			return http.ListenAndServe(*debugListenAddress, nil)
		})
	}
	glog.Fatal(g.Wait())
}
