package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownTarget is returned when a triplet has no entry in the target catalog.
	ErrUnknownTarget = zerr.New("unrecognized target triplet")

	// ErrUnsupportedLibC is returned when a C library kind is not one xtc can build.
	ErrUnsupportedLibC = zerr.New("unsupported C library")

	// ErrUnsupportedFamily is returned when a compiler family is neither gnu nor llvm.
	ErrUnsupportedFamily = zerr.New("unsupported compiler family")

	// ErrDirectoryCreate is returned when a build, install or log directory cannot be created.
	ErrDirectoryCreate = zerr.New("unable to create directory")

	// ErrDirectoryClean is returned when an existing build directory cannot be removed.
	ErrDirectoryClean = zerr.New("unable to clean directory")

	// ErrDirectoryAccess is returned when a directory exists but is not writable.
	ErrDirectoryAccess = zerr.New("unable to write to directory")

	// ErrEmptyCommand is returned when a command has no program to run.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrCommandFailed is returned when an external command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandTimedOut is returned when an external command exceeds its stage timeout.
	ErrCommandTimedOut = zerr.New("command timed out")

	// ErrPostInstallHook is returned when a component's post-install step fails.
	ErrPostInstallHook = zerr.New("post-install step failed")

	// ErrSymlinkUnsupported is returned when the platform cannot create directory-relative links.
	ErrSymlinkUnsupported = zerr.New("directory-relative symbolic links are not supported")

	// ErrCheckoutFailed is returned when a source revision cannot be checked out.
	ErrCheckoutFailed = zerr.New("source checkout failed")

	// ErrEmptyCatalog is returned when a batch run has nothing to build.
	ErrEmptyCatalog = zerr.New("build catalog is empty")

	// ErrUnknownCatalogEntry is returned when a batch label filter names no catalog entry.
	ErrUnknownCatalogEntry = zerr.New("unknown catalog entry")

	// ErrUnsupportedArchive is returned for an archive format other than xz, zst or gz.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrArchiveFailed is returned when the install tree cannot be packaged.
	ErrArchiveFailed = zerr.New("failed to archive install tree")

	// ErrInvalidPublishURL is returned when a publish destination is not an s3:// URL.
	ErrInvalidPublishURL = zerr.New("invalid publish destination")

	// ErrRunNotFound is returned when no recorded run matches a history lookup.
	ErrRunNotFound = zerr.New("run not found")

	// ErrPublishFailed is returned when an archive cannot be uploaded.
	ErrPublishFailed = zerr.New("failed to publish archive")
)
