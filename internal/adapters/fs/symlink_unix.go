//go:build unix

package fs

import (
	"errors"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// RelativeSymlink creates dir/name -> target. The link is made through a
// descriptor of dir so target is resolved relative to it.
func (f *FileSystem) RelativeSymlink(dir, target, name string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open directory"), "path", dir)
	}
	defer unix.Close(fd) //nolint:errcheck // Directory descriptor

	if err := unix.Unlinkat(fd, name, 0); err != nil && !errors.Is(err, unix.ENOENT) {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to remove existing link"), "dir", dir), "name", name)
	}
	if err := unix.Symlinkat(target, fd, name); err != nil {
		if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EOPNOTSUPP) {
			return zerr.With(zerr.Wrap(domain.ErrSymlinkUnsupported, "failed to create symlink"), "dir", dir)
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to create symlink"), "dir", dir), "name", name)
	}
	return nil
}

func writable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
