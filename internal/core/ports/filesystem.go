package ports

// FileSystem prepares directory trees and performs the few file operations
// post-install steps need.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Prepare creates root and every subdirectory, removing root first when clean is set.
	// Each directory must end up writable.
	Prepare(root string, subdirs []string, clean bool) error
	// CopyFile copies src to dst, preserving the file mode.
	CopyFile(src, dst string) error
	// RelativeSymlink creates dir/name pointing at target, relative to dir,
	// replacing an existing link of that name.
	RelativeSymlink(dir, target, name string) error
}
