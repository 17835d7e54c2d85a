// Package cas implements a content addressed store for flattened sheets.
package cas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
)

var digestPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Store implements ports.SnapshotStore with one JSON file per digest.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates a Store rooted at dir. The directory is created on first Put.
func NewStore(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

func (s *Store) path(digest string) string {
	return filepath.Join(s.root, digest+domain.SnapshotExt)
}

// Put writes snap under its digest. Storing the same contents twice is a no-op.
func (s *Store) Put(snap *domain.Snapshot) (string, error) {
	data, err := snap.MarshalJSON()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	digest := sum(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", s.root)
	}

	path := s.path(digest)
	if _, err := os.Stat(path); err == nil {
		return digest, nil
	}

	tmp, err := os.CreateTemp(s.root, digest+".*.tmp")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return digest, nil
}

// Get returns the stored document for digest, or nil, nil when there is none.
// Contents that no longer match their digest are reported as a read failure.
func (s *Store) Get(digest string) ([]byte, error) {
	if !digestPattern.MatchString(digest) {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, "malformed digest"), "digest", digest)
	}

	data, err := os.ReadFile(s.path(digest))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "digest", digest)
	}

	if got := sum(data); got != digest {
		err := zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, "digest mismatch"), "digest", digest)
		return nil, zerr.With(err, "actual", got)
	}
	return data, nil
}

func sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
