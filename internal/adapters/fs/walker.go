// Package fs provides the file system adapters: directory preparation,
// post-install file operations, tree walking and configuration fingerprints.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Entry is one node of a walked tree.
type Entry struct {
	// Path is the full path, starting with the walked root.
	Path string
	// Rel is Path relative to the walked root, slash separated.
	Rel  string
	Info fs.FileInfo
}

// Walker provides tree walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields every directory, file and symlink below root in lexical order,
// root itself excluded. Symlinks are reported, never followed. The first
// error ends the walk.
func (w *Walker) Walk(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", path)
			}
			if path == root {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to stat entry"), "path", path)
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
			}

			if !yield(Entry{Path: path, Rel: filepath.ToSlash(rel), Info: info}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, err)
		}
	}
}
