package domain

import "path/filepath"

const (
	// FlockDirName is the name of the internal workspace directory.
	FlockDirName = ".flock"

	// StoreDirName is the name of the snapshot store directory.
	StoreDirName = "store"

	// SnapshotExt is the file extension of stored snapshots.
	SnapshotExt = ".json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the snapshot store.
// It joins .flock and store.
func DefaultStorePath() string {
	return filepath.Join(FlockDirName, StoreDirName)
}
