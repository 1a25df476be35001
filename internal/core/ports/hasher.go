package ports

import "go.trai.ch/xtc/internal/core/domain"

// Hasher fingerprints build configurations.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns a stable digest of everything that shapes the produced toolchain.
	Fingerprint(params domain.BuildParameters) (string, error)
}
