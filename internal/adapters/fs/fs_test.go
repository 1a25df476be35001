package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/internal/adapters/fs"
	"go.trai.ch/xtc/internal/core/domain"
)

func TestFileSystem_Prepare_CreatesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build-riscv32")
	subdirs := []string{filepath.Join(root, "binutils"), filepath.Join(root, "gcc-stage-1")}

	require.NoError(t, fs.NewFileSystem().Prepare(root, subdirs, false))

	for _, dir := range append([]string{root}, subdirs...) {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileSystem_Prepare_Clean(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "binutils", "config.status")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o600))

	fsys := fs.NewFileSystem()

	t.Run("kept without clean", func(t *testing.T) {
		require.NoError(t, fsys.Prepare(root, []string{filepath.Join(root, "binutils")}, false))
		assert.FileExists(t, stale)
	})

	t.Run("removed with clean", func(t *testing.T) {
		require.NoError(t, fsys.Prepare(root, []string{filepath.Join(root, "binutils")}, true))
		assert.NoFileExists(t, stale)
		assert.DirExists(t, filepath.Join(root, "binutils"))
	})
}

func TestFileSystem_Prepare_CreateFailure(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "build")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := fs.NewFileSystem().Prepare(blocker, nil, false)
	require.ErrorIs(t, err, domain.ErrDirectoryCreate)
}

func TestFileSystem_Prepare_NotWritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}
	root := filepath.Join(t.TempDir(), "install")
	require.NoError(t, os.Mkdir(root, 0o500)) //nolint:gosec // Read-only on purpose
	t.Cleanup(func() { _ = os.Chmod(root, 0o700) })

	err := fs.NewFileSystem().Prepare(root, nil, false)
	require.ErrorIs(t, err, domain.ErrDirectoryAccess)
}

func TestFileSystem_CopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libc.a")
	dst := filepath.Join(dir, "libc_nano.a")
	require.NoError(t, os.WriteFile(src, []byte("!<arch>\n"), 0o640))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o600))

	require.NoError(t, fs.NewFileSystem().CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "!<arch>\n", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestFileSystem_CopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := fs.NewFileSystem().CopyFile(filepath.Join(dir, "missing.a"), filepath.Join(dir, "out.a"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out.a"))
}

func TestFileSystem_RelativeSymlink(t *testing.T) {
	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "clang"), []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // Executable stub

	fsys := fs.NewFileSystem()
	require.NoError(t, fsys.RelativeSymlink(bin, "clang", "riscv32-unknown-elf-clang"))
	// A second call replaces the existing link.
	require.NoError(t, fsys.RelativeSymlink(bin, "clang", "riscv32-unknown-elf-clang"))

	target, err := os.Readlink(filepath.Join(bin, "riscv32-unknown-elf-clang"))
	require.NoError(t, err)
	assert.Equal(t, "clang", target)
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "share", "info"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "clang"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "share", "info", "dir"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "clang.tmp"), []byte("x"), 0o600))
	require.NoError(t, os.Symlink("clang", filepath.Join(root, "bin", "clang++")))

	var rels []string
	for entry, err := range fs.NewWalker().Walk(root) {
		require.NoError(t, err)
		rels = append(rels, entry.Rel)
		if entry.Rel == "bin/clang++" {
			assert.NotZero(t, entry.Info.Mode()&os.ModeSymlink)
		}
	}

	assert.Equal(t, []string{"bin", "bin/clang", "bin/clang++", "bin/clang.tmp", "share", "share/info", "share/info/dir"}, rels)
}

func TestWalker_Walk_MissingRoot(t *testing.T) {
	var errs int
	for _, err := range fs.NewWalker().Walk(filepath.Join(t.TempDir(), "missing")) {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestHasher_Fingerprint(t *testing.T) {
	root := t.TempDir()
	profile, ok := domain.LookupTarget("riscv32-unknown-elf")
	require.True(t, ok)

	base := domain.BuildParameters{
		Triplet:  profile.Triplet,
		Profile:  profile,
		Family:   domain.FamilyGNU,
		Layout:   domain.NewLayout(root, "build", "install", "logs"),
		Timeouts: domain.DefaultTimeouts(),
		Jobs:     4,
	}
	hasher := fs.NewHasher()

	fp, err := hasher.Fingerprint(base)
	require.NoError(t, err)
	assert.Len(t, fp, 16)

	t.Run("stable", func(t *testing.T) {
		again, err := hasher.Fingerprint(base)
		require.NoError(t, err)
		assert.Equal(t, fp, again)
	})

	t.Run("ignores execution knobs", func(t *testing.T) {
		p := base
		p.Jobs = 64
		p.Clean = true
		p.Timeouts.Build *= 2
		got, err := hasher.Fingerprint(p)
		require.NoError(t, err)
		assert.Equal(t, fp, got)
	})

	t.Run("changes with profile", func(t *testing.T) {
		p := base
		p.Profile.CPU = "sifive-e31"
		got, err := hasher.Fingerprint(p)
		require.NoError(t, err)
		assert.NotEqual(t, fp, got)
	})

	t.Run("changes with family", func(t *testing.T) {
		p := base
		p.Family = domain.FamilyLLVM
		got, err := hasher.Fingerprint(p)
		require.NoError(t, err)
		assert.NotEqual(t, fp, got)
	})

	t.Run("changes with checked out revision", func(t *testing.T) {
		gitDir := filepath.Join(root, "gnu", "gcc", ".git")
		require.NoError(t, os.MkdirAll(gitDir, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("0123abcd\n"), 0o600))
		got, err := hasher.Fingerprint(base)
		require.NoError(t, err)
		assert.NotEqual(t, fp, got)
	})
}

func TestHasher_FingerprintFollowsBranch(t *testing.T) {
	root := t.TempDir()
	profile, ok := domain.LookupTarget("arm-none-eabi")
	require.True(t, ok)
	params := domain.BuildParameters{
		Triplet: profile.Triplet,
		Profile: profile,
		Family:  domain.FamilyGNU,
		Layout:  domain.NewLayout(root, "build", "install", "logs"),
	}
	hasher := fs.NewHasher()
	fingerprint := func() string {
		t.Helper()
		fp, err := hasher.Fingerprint(params)
		require.NoError(t, err)
		return fp
	}

	gitDir := filepath.Join(params.Layout.RepoDir(domain.RepoGCC), ".git")
	branch := filepath.Join(gitDir, "refs", "heads", "releases", "gcc-13")
	require.NoError(t, os.MkdirAll(filepath.Dir(branch), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/releases/gcc-13\n"), 0o600))

	require.NoError(t, os.WriteFile(branch, []byte("1111111111111111111111111111111111111111\n"), 0o600))
	first := fingerprint()

	require.NoError(t, os.WriteFile(branch, []byte("2222222222222222222222222222222222222222\n"), 0o600))
	second := fingerprint()
	assert.NotEqual(t, first, second, "new commit on the checked out branch")

	require.NoError(t, os.Remove(branch))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "packed-refs"), []byte(
		"# pack-refs with: peeled fully-peeled sorted\n"+
			"1111111111111111111111111111111111111111 refs/heads/master\n"+
			"2222222222222222222222222222222222222222 refs/heads/releases/gcc-13\n",
	), 0o600))
	assert.Equal(t, second, fingerprint(), "packed ref resolves to the same commit")

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("2222222222222222222222222222222222222222\n"), 0o600))
	assert.Equal(t, second, fingerprint(), "detached HEAD at the same commit")
}
