// Package xmls contains functionality for reading the XML config files that
// accompany a cart. The tile flags table lives here: it is external config
// consumed by game logic, not part of the binary chunk formats.
package xmls

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Tile flag bits, as game logic interprets them.
const (
	FlagSolid        = 1 << 0
	FlagOneWay       = 1 << 1
	FlagDestructible = 1 << 2
)

// TileFlags is the parsed <tileflags> document.
type TileFlags struct {
	XMLName xml.Name        `xml:"tileflags"`
	Tiles   []TileFlagEntry `xml:"tile"`
}

// TileFlagEntry assigns behavior bits to one tile id.
type TileFlagEntry struct {
	ID           int `xml:"id,attr"`
	Solid        int `xml:"solid,attr"`
	OneWay       int `xml:"oneway,attr"`
	Destructible int `xml:"destructible,attr"`
}

// ReadTileFlags parses a tile flags XML document.
func ReadTileFlags(r io.Reader) (*TileFlags, error) {
	var tf TileFlags
	if err := xml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("parsing tile flags xml: %s", err)
	}
	for _, e := range tf.Tiles {
		if e.ID < 0 || e.ID > 255 {
			return nil, fmt.Errorf("tile flags xml: tile id %d out of range", e.ID)
		}
	}
	return &tf, nil
}

// Table flattens the document into a dense id-indexed bitmask table.
// Unlisted tiles carry no flags.
func (tf *TileFlags) Table() [256]uint8 {
	var table [256]uint8
	for _, e := range tf.Tiles {
		var f uint8
		if e.Solid != 0 {
			f |= FlagSolid
		}
		if e.OneWay != 0 {
			f |= FlagOneWay
		}
		if e.Destructible != 0 {
			f |= FlagDestructible
		}
		table[e.ID] = f
	}
	return table
}
