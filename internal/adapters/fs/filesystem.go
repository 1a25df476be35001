package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

const dirPerm = 0o755

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// Prepare creates root and its subdirectories. With clean set, root is
// removed first. Every directory is checked for write access afterwards.
func (f *FileSystem) Prepare(root string, subdirs []string, clean bool) error {
	if clean {
		if err := os.RemoveAll(root); err != nil {
			return zerr.With(errors.Join(domain.ErrDirectoryClean, err), "path", root)
		}
	}

	dirs := append([]string{root}, subdirs...)
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return zerr.With(errors.Join(domain.ErrDirectoryCreate, err), "path", dir)
		}
		if err := writable(dir); err != nil {
			return zerr.With(errors.Join(domain.ErrDirectoryAccess, err), "path", dir)
		}
	}
	return nil
}

// CopyFile copies src to dst, replacing dst and keeping the source mode.
func (f *FileSystem) CopyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Read-only file

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat source file"), "path", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Gone after a successful rename

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to set file mode"), "path", dst)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", dst)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to move file into place"), "path", dst)
	}
	return nil
}
