package cart

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// FromLiteral decodes a chunk that was transported inside a printable text
// literal. Non-printable bytes are escaped as a backslash followed by
// exactly three decimal digits; `"` and `\` are escaped as `\"` and `\\`.
// Every other character stands for itself.
//
// The decoded source is interchangeable with one built from raw bytes.
func FromLiteral(s string) (*Source, error) {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			b = append(b, ch)
			continue
		}
		if i+1 >= len(s) {
			return nil, errors.Errorf("literal ends mid-escape at %d", i)
		}
		switch s[i+1] {
		case '\\', '"':
			b = append(b, s[i+1])
			i++
		default:
			if i+3 >= len(s) {
				return nil, errors.Errorf("literal ends mid-escape at %d", i)
			}
			v := 0
			for j := 1; j <= 3; j++ {
				d := s[i+j]
				if d < '0' || d > '9' {
					return nil, errors.Errorf("bad decimal escape %q at %d", s[i:i+4], i)
				}
				v = v*10 + int(d-'0')
			}
			if v > 255 {
				return nil, errors.Errorf("decimal escape %q at %d out of byte range", s[i:i+4], i)
			}
			b = append(b, byte(v))
			i += 3
		}
	}
	glog.V(2).Infof("cart.FromLiteral: %d chars -> %d bytes", len(s), len(b))
	return &Source{b: b}, nil
}
