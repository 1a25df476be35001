//go:build !unix

package fs

import (
	"os"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/zerr"
)

// RelativeSymlink is not available without directory descriptors.
func (f *FileSystem) RelativeSymlink(dir, _, _ string) error {
	return zerr.With(zerr.Wrap(domain.ErrSymlinkUnsupported, "failed to create symlink"), "dir", dir)
}

func writable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 == 0 {
		return os.ErrPermission
	}
	return nil
}
