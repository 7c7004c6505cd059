package main

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-cart/assets"
)

type SitemapURLImage struct {
	Loc string `xml:"image:loc"` // image is the namespace 'http://www.google.com/schemas/sitemap-image/1.1'
}

type SitemapURL struct {
	XMLName  xml.Name `xml:"url"`
	Loc      string   `xml:"loc"`
	Priority float32  `xml:"priority,omitempty"` // 0.0-1.0, default if unspecified is 0.5

	Image []SitemapURLImage `xml:"image:image,omitempty"`
}

type SitemapURLSet struct {
	XMLName    xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URL        []SitemapURL `xml:"url,omitempty"` // up to 50k entries
}

func (e *SitemapURLSet) Write(w http.ResponseWriter, r *http.Request) {
	e.XMLNSImage = "http://www.google.com/schemas/sitemap-image/1.1"

	w.Header().Set("Content-Type", "application/xml")

	fmt.Fprintf(w, "%s", xml.Header)
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	err := enc.Encode(e)
	if err != nil {
		http.Error(w, "<error>could not encode sitemap</error>", http.StatusInternalServerError)
		return
	}
}

// registerSitemap serves a sitemap listing every animation's frames plus the
// composed map, so crawlers can find each preview image.
func registerSitemap(r *mux.Router, c *assets.Cache) {
	r.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, req *http.Request) {
		base := "http://" + req.Host
		set := &SitemapURLSet{}
		for a := 0; a < c.Animations(); a++ {
			u := SitemapURL{Loc: fmt.Sprintf("%s/anim/%d.gif", base, a)}
			for f := 0; f < c.AnimationLen(a); f++ {
				u.Image = append(u.Image, SitemapURLImage{Loc: fmt.Sprintf("%s/anim/%d/%d", base, a, f)})
			}
			set.URL = append(set.URL, u)
		}
		set.URL = append(set.URL, SitemapURL{
			Loc:      base + "/map",
			Priority: 0.8,
			Image:    []SitemapURLImage{{Loc: base + "/map"}},
		})
		set.Write(w, req)
	})
}
