package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints build configurations.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint hashes the parts of params that change the produced toolchain.
// Parallelism, timeouts and the clean flag only change how it is built and are left out.
func (h *Hasher) Fingerprint(params domain.BuildParameters) (string, error) {
	hasher := xxhash.New()

	h.hashProfile(params.Profile, hasher)
	writeField(hasher, string(params.Family))

	// Layout
	writeField(hasher, params.Layout.Root)
	writeField(hasher, params.Layout.InstallDir)
	for _, repo := range []string{domain.RepoBinutils, domain.RepoGCC, domain.RepoNewlib, domain.RepoAVRLibC, domain.RepoLLVM} {
		writeField(hasher, sourceRevision(params.Layout.RepoDir(repo)))
	}
	_, _ = hasher.Write([]byte{0})

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashProfile(p domain.TargetProfile, hasher *xxhash.Digest) {
	for _, v := range []string{
		p.Triplet, p.Arch, p.ABI, p.CPU, p.ISASpec, p.Mode, p.Float, p.Endian,
		string(p.LibC), p.LLVMArch, p.TargetCFlags,
	} {
		writeField(hasher, v)
	}
	if p.Experimental {
		writeField(hasher, "experimental")
	}
	_, _ = hasher.Write([]byte{0}) // Section separator
}

// sourceRevision reads the checked out commit of a git working tree without
// running git. A symbolic HEAD is resolved through the loose ref file, then
// packed-refs. Missing or unreadable trees contribute an empty field.
func sourceRevision(repoDir string) string {
	gitDir := filepath.Join(repoDir, ".git")
	// Worktrees and submodules carry a .git file pointing at the real directory.
	if link, err := os.ReadFile(gitDir); err == nil { //nolint:gosec // Path is built from the layout
		if dir, ok := strings.CutPrefix(strings.TrimSpace(string(link)), "gitdir: "); ok {
			gitDir = dir
			if !filepath.IsAbs(dir) {
				gitDir = filepath.Join(repoDir, dir)
			}
		}
	}

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD")) //nolint:gosec // Path is built from the layout
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(head))
	ref, ok := strings.CutPrefix(line, "ref: ")
	if !ok {
		return line
	}

	if id, err := os.ReadFile(filepath.Join(gitDir, filepath.FromSlash(ref))); err == nil { //nolint:gosec // Path is built from the layout
		return strings.TrimSpace(string(id))
	}
	packed, err := os.ReadFile(filepath.Join(gitDir, "packed-refs")) //nolint:gosec // Path is built from the layout
	if err != nil {
		return line
	}
	for entry := range strings.Lines(string(packed)) {
		id, name, ok := strings.Cut(strings.TrimSpace(entry), " ")
		if ok && name == ref {
			return id
		}
	}
	return line
}

func writeField(hasher *xxhash.Digest, v string) {
	_, _ = hasher.WriteString(v)
	_, _ = hasher.Write([]byte{0})
}
