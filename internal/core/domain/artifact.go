package domain

import "strings"

// ArchiveFormat is the compression applied to a packaged install tree.
type ArchiveFormat string

const (
	ArchiveXZ   ArchiveFormat = "xz"
	ArchiveZstd ArchiveFormat = "zst"
	ArchiveGzip ArchiveFormat = "gz"
)

// ParseArchiveFormat accepts a format name or its common aliases.
func ParseArchiveFormat(s string) (ArchiveFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "xz", "tar.xz":
		return ArchiveXZ, nil
	case "zst", "zstd", "tar.zst":
		return ArchiveZstd, nil
	case "gz", "gzip", "tar.gz", "tgz":
		return ArchiveGzip, nil
	default:
		return "", ErrUnsupportedArchive
	}
}

// Extension is the file suffix of an archive in this format.
func (f ArchiveFormat) Extension() string {
	return ".tar." + string(f)
}

// Artifact is a packaged install tree.
type Artifact struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
}
