package ports

import "go.trai.ch/flock/internal/core/domain"

// SnapshotStore keeps flattened sheets addressed by their digest.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SnapshotStore interface {
	// Put stores the snapshot and returns its digest.
	Put(snap *domain.Snapshot) (string, error)

	// Get returns the stored JSON document for digest.
	// Returns nil, nil if not found.
	Get(digest string) ([]byte, error)
}
