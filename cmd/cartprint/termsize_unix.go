//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

var csiWinSizeRE = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

// GetTermSize reports the terminal size in cells and, where the terminal
// fills them in, in pixels. Pixel sizes matter for the image-capable
// renderers; cell counts are enough for the text ones.
func GetTermSize() (TermSize, error) {
	var err error
	var f *os.File
	if f, err = os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666); err == nil {
		defer f.Close()
		var sz *unix.Winsize
		if sz, err = unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil {
			if sz.Xpixel == 0 && sz.Ypixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
				// kitty leaves the pixel fields zeroed; ask with the CSI t
				// escape instead and parse the <ESC>[4;<height>;<width>t reply.
				state, err := terminal.MakeRaw(int(f.Fd()))
				if err == nil {
					defer terminal.Restore(int(f.Fd()), state) // ignoring error
					fmt.Printf("\033[14t")
					b := make([]byte, 1)
					_, err := os.Stdin.Read(b)
					if err == nil && b[0] == 033 {
						reader := bufio.NewReader(os.Stdin)
						s, err := reader.ReadString('t')
						if err == nil {
							matches := csiWinSizeRE.FindStringSubmatch(s)
							if len(matches) == 3 {
								height, errH := strconv.Atoi(matches[1])
								width, errW := strconv.Atoi(matches[2])
								if errH == nil && errW == nil {
									sz.Xpixel = uint16(width)
									sz.Ypixel = uint16(height)
								}
							}
						}
					}
				}
			}
			return TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}, nil
		}
	}
	var w, h int
	if w, h, err = terminal.GetSize(0); err == nil {
		return TermSize{WSRow: uint(w), WSCol: uint(h)}, nil
	}
	return TermSize{}, err
}
