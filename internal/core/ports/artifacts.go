package ports

import (
	"context"

	"go.trai.ch/xtc/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=artifacts.go -destination=mocks/mock_artifacts.go -package=mocks

// Archiver packages an install tree.
type Archiver interface {
	// Archive writes srcDir as a compressed tarball into destDir, named after label.
	Archive(ctx context.Context, srcDir, destDir, label string, format domain.ArchiveFormat) (domain.Artifact, error)
}

// Publisher uploads packaged artifacts.
type Publisher interface {
	// Publish uploads the artifact and its checksum to dest and returns the object URL.
	Publish(ctx context.Context, artifact domain.Artifact, dest string) (string, error)
}
