package ports

import "go.trai.ch/flock/internal/core/domain"

// SheetStore reads and writes character sheet files.
//
//go:generate mockgen -source=sheet.go -destination=mocks/mock_sheet.go -package=mocks
type SheetStore interface {
	// Load reads the sheet at path into plain values ready for flock.FromMap.
	Load(path string) (map[string]any, error)

	// Save writes the snapshot to path.
	Save(path string, snap *domain.Snapshot) error

	// Marshal renders the snapshot in the sheet file format.
	Marshal(snap *domain.Snapshot) ([]byte, error)
}
