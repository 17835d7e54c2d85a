package ports

import (
	"context"
	"iter"
)

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// WatchEvent reports the files that changed during one debounce window.
type WatchEvent struct {
	Paths []string
}

// Watcher observes a sheet file for changes.
type Watcher interface {
	// Start begins watching path. Events stop when ctx is canceled or Stop is called.
	Start(ctx context.Context, path string) error
	// Stop stops watching and releases resources.
	Stop() error
	// Events yields debounced change events.
	Events() iter.Seq[WatchEvent]
}
