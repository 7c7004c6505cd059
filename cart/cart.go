// Package cart provides access to the raw bytes of a cart chunk.
//
// A chunk may arrive as a raw addressable buffer, as a file on disk, or
// packed into a printable string literal with decimal escapes. All decoders
// in this module read through a Source so they never care which one it was.
package cart

import (
	"io/ioutil"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrOutOfRange is returned (wrapped) by any read that would leave the
// bounds of the underlying buffer.
var ErrOutOfRange = errors.New("read out of range")

// Source is an immutable, randomly addressable byte store holding one chunk.
type Source struct {
	b []byte
}

// FromBytes wraps an in-memory buffer. The buffer is not copied; callers
// must not mutate it while decoders read from it.
func FromBytes(b []byte) *Source {
	return &Source{b: b}
}

// Open reads the whole file at path into memory and wraps it.
//
// The codec always materializes a chunk eagerly, so there is no streaming
// variant.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "go-cart/cart.Open(%q)", path)
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "go-cart/cart.Open(%q): read", path)
	}
	glog.V(2).Infof("cart.Open(%q): %d bytes", path, len(b))
	return &Source{b: b}, nil
}

// Len returns the chunk size in bytes.
func (s *Source) Len() int {
	return len(s.b)
}

// U8 returns the byte at off.
func (s *Source) U8(off int) (uint8, error) {
	if off < 0 || off >= len(s.b) {
		return 0, errors.Wrapf(ErrOutOfRange, "u8 at %d of %d", off, len(s.b))
	}
	return s.b[off], nil
}

// U16 returns the little-endian 16-bit value at off.
func (s *Source) U16(off int) (uint16, error) {
	if off < 0 || off+2 > len(s.b) {
		return 0, errors.Wrapf(ErrOutOfRange, "u16 at %d of %d", off, len(s.b))
	}
	return uint16(s.b[off]) | uint16(s.b[off+1])<<8, nil
}

// Bytes returns n bytes starting at off. The returned slice aliases the
// source; callers must not mutate it.
func (s *Source) Bytes(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(s.b) {
		return nil, errors.Wrapf(ErrOutOfRange, "%d bytes at %d of %d", n, off, len(s.b))
	}
	return s.b[off : off+n], nil
}

// Cursor returns a sequential reader positioned at off.
func (s *Source) Cursor(off int) *Cursor {
	return &Cursor{src: s, pos: off}
}
