// +build go1.16

// Package datafiles carries data shipped with the module. Cart chunk images
// are looked up on disk via the paths package; only the tile flags config is
// small enough to embed as a fallback.
package datafiles

import _ "embed"

//go:embed tileflags.xml
var tileFlagsXMLEmbed string

// TileFlagsXML returns the bundled tile flags config, used when no
// tileflags.xml is found next to the cart data.
func TileFlagsXML() string {
	return tileFlagsXMLEmbed
}
