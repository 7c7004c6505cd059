//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package main

import (
	"golang.org/x/crypto/ssh/terminal"
)

type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

// GetTermSize reports the terminal size in cells. Pixel sizes are not
// available here, so the image-capable renderers print at native size.
func GetTermSize() (TermSize, error) {
	var err error
	var w, h int
	if w, h, err = terminal.GetSize(0); err == nil {
		return TermSize{WSRow: uint(w), WSCol: uint(h)}, nil
	}
	return TermSize{}, err
}
