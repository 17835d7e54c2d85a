// Package sheet reads and writes character sheets as YAML.
package sheet

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Store implements ports.SheetStore on the local filesystem.
type Store struct {
	validate *validator.Validate
}

// NewStore creates a sheet Store.
func NewStore() *Store {
	return &Store{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Load reads, decodes and validates the sheet at path.
func (s *Store) Load(path string) (map[string]any, error) {
	//nolint:gosec // path is given by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSheetReadFailed.Error()), "path", path)
	}

	sh, err := s.Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return sh.Values(), nil
}

// Decode parses and validates sheet YAML.
func (s *Store) Decode(data []byte) (*Sheet, error) {
	var sh Sheet
	if err := yaml.Unmarshal(data, &sh); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSheetParseFailed.Error())
	}
	if err := s.validate.Struct(&sh); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSheetInvalid.Error())
	}
	return &sh, nil
}

// Marshal renders snap as YAML with two-space indentation.
func (s *Store) Marshal(snap *domain.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSheetMarshalFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSheetMarshalFailed.Error())
	}
	return buf.Bytes(), nil
}

// Save writes snap to path, creating parent directories.
func (s *Store) Save(path string, snap *domain.Snapshot) error {
	data, err := s.Marshal(snap)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSheetWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // path is given by the user on the command line
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSheetWriteFailed.Error()), "path", path)
	}
	return nil
}
