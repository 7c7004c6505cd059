// Package web serves decoded cart data over HTTP for previewing: single
// frames and whole animations, composed map layers, and a sprite sheet
// overview.
package web

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"
	"net/http"
	"strconv"
	"sync"

	"github.com/andybons/gogif"
	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-cart/assets"
	"badc0de.net/pkg/go-cart/cel"
	"badc0de.net/pkg/go-cart/lvl"
)

// generation is baked into ETags; bump it when the way images are produced
// changes.
const generation = 1

// Handler serves preview routes for one loaded cart.
type Handler struct {
	renderLock sync.Mutex
	cache      *assets.Cache
}

// NewHandler constructs a web handler for an already-loaded cart.
func NewHandler(c *assets.Cache) *Handler {
	return &Handler{cache: c}
}

func (h *Handler) serveETagged(w http.ResponseWriter, r *http.Request, etag string, render func() (image.Image, error)) {
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	img, err := render()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func muxInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, fmt.Errorf("%s not a number", name)
	}
	return v, nil
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	anim, err := muxInt(r, "anim")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	frame, err := muxInt(r, "frame")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	etag := fmt.Sprintf(`W/"frame:%d:%d:%d"`, generation, anim, frame)
	h.serveETagged(w, r, etag, func() (image.Image, error) {
		return h.cache.FrameImage(anim, frame)
	})
}

func (h *Handler) frameDataURLHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	anim, err := muxInt(r, "anim")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	frame, err := muxInt(r, "frame")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := h.cache.FrameImage(anim, frame)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, dataurl.New(buf.Bytes(), "image/png").String())
}

// animGIFHandler renders a whole animation as a looping GIF. The per-frame
// delay in 1/100ths of a second comes from the "delay" query parameter.
func (h *Handler) animGIFHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	anim, err := muxInt(r, "anim")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	delay := 8
	if d, err := strconv.Atoi(r.FormValue("delay")); err == nil && d > 0 {
		delay = d
	}

	n := h.cache.AnimationLen(anim)
	if n == 0 {
		http.Error(w, "no such animation", http.StatusNotFound)
		return
	}

	out := &gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // up to 255 colors plus 1 space for transparency
	for i := 0; i < n; i++ {
		img, err := h.cache.FrameImage(anim, i)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		pal := image.NewPaletted(img.Bounds(), nil)
		quantizer.Quantize(pal, img.Bounds(), img, image.ZP)
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "public; max-age=3600")
	if err := gif.EncodeAll(w, out); err != nil {
		glog.Errorf("encoding animation %d gif: %s", anim, err)
	}
}

func (h *Handler) mapHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	m := h.cache.Map()
	layer := -1 // all layers composed
	if v, ok := mux.Vars(r)["layer"]; ok {
		l, err := strconv.Atoi(v)
		if err != nil || l < 0 || l >= m.Layers() {
			http.Error(w, "bad layer", http.StatusBadRequest)
			return
		}
		layer = l
	}

	etag := fmt.Sprintf(`W/"map:%d:%d"`, generation, layer)
	h.serveETagged(w, r, etag, func() (image.Image, error) {
		if layer >= 0 {
			return m.Image(layer, cel.ConsolePalette, cel.TransparentIndex), nil
		}
		img := image.NewRGBA(image.Rect(0, 0, m.W*lvl.TileSize, m.H*lvl.TileSize))
		for l := range iter.N(m.Layers()) {
			li := m.Image(l, cel.ConsolePalette, cel.TransparentIndex)
			draw.Draw(img, img.Bounds(), li, image.ZP, draw.Over)
		}
		return img, nil
	})
}

// sheetHandler renders the first frame of every animation in one row per
// animation, a quick overview of the whole chunk.
func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	etag := fmt.Sprintf(`W/"sheet:%d:%d"`, generation, h.cache.Animations())
	h.serveETagged(w, r, etag, func() (image.Image, error) {
		cols := 0
		for a := range iter.N(h.cache.Animations()) {
			if n := h.cache.AnimationLen(a); n > cols {
				cols = n
			}
		}
		img := image.NewRGBA(image.Rect(0, 0, cols*h.cache.CellW, h.cache.Animations()*h.cache.CellH))
		for a := range iter.N(h.cache.Animations()) {
			for f := range iter.N(h.cache.AnimationLen(a)) {
				fi, err := h.cache.FrameImage(a, f)
				if err != nil {
					return nil, err
				}
				cell := image.Rect(f*h.cache.CellW, a*h.cache.CellH, (f+1)*h.cache.CellW, (a+1)*h.cache.CellH)
				draw.Draw(img, cell, fi, image.ZP, draw.Over)
			}
		}
		return img, nil
	})
}

// RegisterRoutes attaches all preview routes to the passed router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/anim/{anim:[0-9]+}/{frame:[0-9]+}", h.frameHandler)
	r.HandleFunc("/anim/{anim:[0-9]+}/{frame:[0-9]+}.dataurl", h.frameDataURLHandler)
	r.HandleFunc("/anim/{anim:[0-9]+}.gif", h.animGIFHandler)
	r.HandleFunc("/map", h.mapHandler)
	r.HandleFunc("/map/{layer:[0-9]+}", h.mapHandler)
	r.HandleFunc("/sheet", h.sheetHandler)
}
