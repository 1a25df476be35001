package archive_test

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"go.trai.ch/xtc/internal/adapters/archive"
	"go.trai.ch/xtc/internal/adapters/fs"
	"go.trai.ch/xtc/internal/core/domain"
	"lukechampine.com/blake3"
)

func installTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "riscv32-unknown-elf", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "riscv32-unknown-elf-gcc"), []byte("#!/bin/sh\necho gcc\n"), 0o755)) //nolint:gosec // Executable stub
	require.NoError(t, os.WriteFile(filepath.Join(root, "riscv32-unknown-elf", "lib", "libc.a"), []byte("!<arch>\n"), 0o644))       //nolint:gosec // Library stub
	require.NoError(t, os.Symlink("riscv32-unknown-elf-gcc", filepath.Join(root, "bin", "riscv32-unknown-elf-cc")))
	return root
}

func decompress(t *testing.T, format domain.ArchiveFormat, r io.Reader) io.Reader {
	t.Helper()
	switch format {
	case domain.ArchiveXZ:
		xr, err := xz.NewReader(r)
		require.NoError(t, err)
		return xr
	case domain.ArchiveZstd:
		zr, err := zstd.NewReader(r)
		require.NoError(t, err)
		t.Cleanup(zr.Close)
		return zr
	case domain.ArchiveGzip:
		gr, err := pgzip.NewReader(r)
		require.NoError(t, err)
		return gr
	}
	t.Fatalf("unexpected format %q", format)
	return nil
}

func TestArchiver_Archive(t *testing.T) {
	for _, format := range []domain.ArchiveFormat{domain.ArchiveXZ, domain.ArchiveZstd, domain.ArchiveGzip} {
		t.Run(string(format), func(t *testing.T) {
			src := installTree(t)
			dest := filepath.Join(t.TempDir(), "dist")
			a := archive.NewArchiver(fs.NewWalker(), nil)

			art, err := a.Archive(context.Background(), src, dest, "xtc-riscv32-gcc", format)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dest, "xtc-riscv32-gcc"+format.Extension()), art.Path)

			data, err := os.ReadFile(art.Path)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), art.Size)

			sum := blake3.Sum256(data)
			assert.Equal(t, hex.EncodeToString(sum[:]), art.Checksum)

			sidecar, err := os.ReadFile(art.Path + archive.ChecksumExtension)
			require.NoError(t, err)
			assert.Equal(t, art.Checksum+"  xtc-riscv32-gcc"+format.Extension()+"\n", string(sidecar))

			entries := map[string]*tar.Header{}
			contents := map[string]string{}
			tr := tar.NewReader(decompress(t, format, bytes.NewReader(data)))
			for {
				hdr, err := tr.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				entries[hdr.Name] = hdr
				if hdr.Typeflag == tar.TypeReg {
					b, err := io.ReadAll(tr)
					require.NoError(t, err)
					contents[hdr.Name] = string(b)
				}
			}

			require.Contains(t, entries, "xtc-riscv32-gcc/")
			require.Contains(t, entries, "xtc-riscv32-gcc/bin/")
			require.Contains(t, entries, "xtc-riscv32-gcc/riscv32-unknown-elf/lib/libc.a")
			assert.Equal(t, "!<arch>\n", contents["xtc-riscv32-gcc/riscv32-unknown-elf/lib/libc.a"])

			gcc := entries["xtc-riscv32-gcc/bin/riscv32-unknown-elf-gcc"]
			require.NotNil(t, gcc)
			assert.Equal(t, int64(0o755), gcc.Mode&0o777)
			assert.Equal(t, "root", gcc.Uname)
			assert.Zero(t, gcc.Uid)

			link := entries["xtc-riscv32-gcc/bin/riscv32-unknown-elf-cc"]
			require.NotNil(t, link)
			assert.Equal(t, byte(tar.TypeSymlink), link.Typeflag)
			assert.Equal(t, "riscv32-unknown-elf-gcc", link.Linkname)
		})
	}
}

func TestArchiver_Progress(t *testing.T) {
	var progress bytes.Buffer
	a := archive.NewArchiver(fs.NewWalker(), &progress)

	_, err := a.Archive(context.Background(), installTree(t), t.TempDir(), "tc", domain.ArchiveGzip)
	require.NoError(t, err)
	assert.NotEmpty(t, progress.String())
}

func TestArchiver_UnsupportedFormat(t *testing.T) {
	a := archive.NewArchiver(fs.NewWalker(), nil)
	_, err := a.Archive(context.Background(), installTree(t), t.TempDir(), "tc", domain.ArchiveFormat("rar"))
	require.ErrorIs(t, err, domain.ErrUnsupportedArchive)
}

func TestArchiver_MissingSource(t *testing.T) {
	dest := t.TempDir()
	a := archive.NewArchiver(fs.NewWalker(), nil)

	_, err := a.Archive(context.Background(), filepath.Join(dest, "missing"), dest, "tc", domain.ArchiveZstd)
	require.ErrorIs(t, err, domain.ErrArchiveFailed)

	leftovers, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestArchiver_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := t.TempDir()

	_, err := archive.NewArchiver(fs.NewWalker(), nil).Archive(ctx, installTree(t), dest, "tc", domain.ArchiveXZ)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, domain.ErrArchiveFailed)
	assert.NoFileExists(t, filepath.Join(dest, "tc.tar.xz"))
}
