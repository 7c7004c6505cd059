// Package paths locates cart data files (chunk images, flags config) in the
// places they usually live, so tools can run from a source checkout, a test
// runner, or an installed location without per-machine flags.
package paths

import (
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// getPossiblePaths returns candidate locations for the passed datafile
// shortname, most specific first.
func getPossiblePaths(fileName string) []string {
	var paths []string
	if dir := os.Getenv("CARTDATA_PATH"); dir != "" {
		paths = append(paths, filepath.Join(dir, fileName))
	}
	paths = append(paths,
		filepath.Join("datafiles", fileName),
		filepath.Join(os.Args[0]+".runfiles", "go_cart", "datafiles", fileName),
		fileName,
	)
	return paths
}

// Find locates the passed datafile shortname and returns a path it can be
// opened at, or an empty string if no candidate location holds it.
//
// For example, for "game.cel" it may return "datafiles/game.cel".
func Find(fileName string) string {
	for _, path := range getPossiblePaths(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it. If Find returns an empty string, an error is returned.
func Open(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	path := Find(fileName)
	if path == "" {
		return nil, errors.Errorf("go-cart/paths.Open(%q): not found in any candidate location", fileName)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "go-cart/paths.Open(%q)", fileName)
	}
	return f, nil
}
