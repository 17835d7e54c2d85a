package ports

import "go.trai.ch/flock/internal/core/domain"

// TableSource provides the attribute bonus table.
//
//go:generate mockgen -source=table.go -destination=mocks/mock_table.go -package=mocks
type TableSource interface {
	// Table returns the parsed table. Implementations load it at most once.
	Table() (*domain.AttributeTable, error)
}
