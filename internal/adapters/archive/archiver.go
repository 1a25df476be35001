// Package archive packages install trees as compressed tarballs.
package archive

import (
	"archive/tar"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"
	"go.trai.ch/xtc/internal/adapters/fs"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
	"lukechampine.com/blake3"
)

var _ ports.Archiver = (*Archiver)(nil)

// ChecksumExtension is appended to an archive path to name its BLAKE3 sidecar.
const ChecksumExtension = ".b3"

// Archiver implements ports.Archiver. Entries are stored under a top-level
// directory named after the label and owned by root.
type Archiver struct {
	walker   *fs.Walker
	progress io.Writer
}

// NewArchiver creates a new Archiver. A nil progress writer disables the progress bar.
func NewArchiver(walker *fs.Walker, progress io.Writer) *Archiver {
	return &Archiver{walker: walker, progress: progress}
}

// Archive writes <destDir>/<label><ext> and its checksum sidecar.
func (a *Archiver) Archive(ctx context.Context, srcDir, destDir, label string, format domain.ArchiveFormat) (domain.Artifact, error) {
	if _, err := domain.ParseArchiveFormat(string(format)); err != nil {
		return domain.Artifact{}, zerr.With(zerr.Wrap(err, "cannot archive"), "format", string(format))
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return domain.Artifact{}, failed(err, destDir)
	}

	dest := filepath.Join(destDir, label+format.Extension())
	tmp, err := os.CreateTemp(destDir, "."+label+".*")
	if err != nil {
		return domain.Artifact{}, failed(err, dest)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Gone after a successful rename

	hasher := blake3.New(32, nil)
	counter := &countingWriter{w: io.MultiWriter(tmp, hasher)}

	if err := a.write(ctx, counter, srcDir, label, format); err != nil {
		_ = tmp.Close()
		return domain.Artifact{}, failed(err, dest)
	}
	if err := tmp.Close(); err != nil {
		return domain.Artifact{}, failed(err, dest)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return domain.Artifact{}, failed(err, dest)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	sidecar := fmt.Sprintf("%s  %s\n", sum, filepath.Base(dest))
	if err := os.WriteFile(dest+ChecksumExtension, []byte(sidecar), 0o644); err != nil { //nolint:gosec // Published alongside the archive
		return domain.Artifact{}, failed(err, dest+ChecksumExtension)
	}

	return domain.Artifact{Path: dest, Checksum: sum, Size: counter.n}, nil
}

func (a *Archiver) write(ctx context.Context, w io.Writer, srcDir, label string, format domain.ArchiveFormat) error {
	cw, err := compressor(w, format)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			_ = cw.Close()
		}
	}()

	bar, err := a.progressBar(srcDir, label)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(cw)
	if err := tw.WriteHeader(dirHeader(label)); err != nil {
		return err
	}

	for entry, err := range a.walker.Walk(srcDir) {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addEntry(tw, entry, label, bar); err != nil {
			return zerr.With(err, "path", entry.Path)
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	closed = true
	return cw.Close()
}

func addEntry(tw *tar.Writer, entry fs.Entry, label string, bar *progressbar.ProgressBar) error {
	var link string
	if entry.Info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(entry.Path)
		if err != nil {
			return err
		}
		link = target
	}

	hdr, err := tar.FileInfoHeader(entry.Info, link)
	if err != nil {
		return err
	}
	hdr.Name = path.Join(label, entry.Rel)
	if entry.Info.IsDir() {
		hdr.Name += "/"
	}
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "root", "root"

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !entry.Info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(entry.Path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var dst io.Writer = tw
	if bar != nil {
		dst = io.MultiWriter(tw, bar)
	}
	_, err = io.Copy(dst, f)
	return err
}

// progressBar sizes a bar to the regular file bytes under srcDir. It returns
// nil when progress is disabled.
func (a *Archiver) progressBar(srcDir, label string) (*progressbar.ProgressBar, error) {
	if a.progress == nil {
		return nil, nil
	}

	var total int64
	for entry, err := range a.walker.Walk(srcDir) {
		if err != nil {
			return nil, err
		}
		if entry.Info.Mode().IsRegular() {
			total += entry.Info.Size()
		}
	}

	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(a.progress),
		progressbar.OptionSetDescription("Packaging "+label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	), nil
}

func compressor(w io.Writer, format domain.ArchiveFormat) (io.WriteCloser, error) {
	switch format {
	case domain.ArchiveXZ:
		return xz.NewWriter(w)
	case domain.ArchiveZstd:
		return zstd.NewWriter(w)
	case domain.ArchiveGzip:
		return pgzip.NewWriter(w), nil
	default:
		return nil, domain.ErrUnsupportedArchive
	}
}

func dirHeader(name string) *tar.Header {
	return &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     0o755,
		Uname:    "root",
		Gname:    "root",
	}
}

func failed(err error, p string) error {
	return zerr.With(errors.Join(domain.ErrArchiveFailed, err), "path", p)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
