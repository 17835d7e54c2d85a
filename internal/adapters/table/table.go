// Package table loads the attribute bonus table from CSV.
//
// The file has two header rows: the attribute whose score selects a row, and the bonus the
// column provides. The first column holds the score. Cells are fractions ("9/4"),
// percentages ("26%"), or rates ("4/day", "5/hour"); all are read as float64.
package table

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed attribute_tables.csv
var defaultTable []byte

// Source implements ports.TableSource. The table is read on first use and kept for the
// life of the process.
type Source struct {
	path string
	load func() (*domain.AttributeTable, error)
}

// NewSource creates a Source reading path, or the embedded table when path is empty.
func NewSource(path string) *Source {
	s := &Source{path: path}
	s.load = sync.OnceValues(s.read)
	return s
}

// Table returns the parsed table.
func (s *Source) Table() (*domain.AttributeTable, error) {
	return s.load()
}

func (s *Source) read() (*domain.AttributeTable, error) {
	if s.path == "" {
		return Parse(bytes.NewReader(defaultTable))
	}

	//nolint:gosec // path comes from the operator's environment
	f, err := os.Open(s.path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTableReadFailed.Error()), "path", s.path)
	}
	defer func() { _ = f.Close() }()

	t, err := Parse(f)
	if err != nil {
		return nil, zerr.With(err, "path", s.path)
	}
	return t, nil
}

// Parse reads a table from r.
func Parse(r io.Reader) (*domain.AttributeTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	attributes, err := cr.Read()
	if err != nil {
		return nil, invalid(err, "missing attribute header", 1)
	}
	bonuses, err := cr.Read()
	if err != nil {
		return nil, invalid(err, "missing bonus header", 2)
	}
	if len(attributes) != len(bonuses) || len(attributes) < 2 {
		return nil, invalid(nil, "header rows differ in length", 2)
	}

	t := &domain.AttributeTable{Rows: make(map[domain.TableColumn]map[int]any)}
	for i := 1; i < len(attributes); i++ {
		col := domain.TableColumn{
			Attribute: strings.TrimSpace(attributes[i]),
			Bonus:     strings.TrimSpace(bonuses[i]),
		}
		t.Columns = append(t.Columns, col)
		t.Rows[col] = make(map[int]any)
	}

	for line := 3; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid(err, "malformed row", line)
		}

		score, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, invalid(err, "score is not an integer", line)
		}
		for i, col := range t.Columns {
			cell := strings.TrimSpace(record[i+1])
			if cell == "" {
				continue
			}
			v, err := ParseValue(cell)
			if err != nil {
				return nil, zerr.With(invalid(err, "unreadable cell", line), "column", col.Attribute)
			}
			t.Rows[col][score] = v
		}
	}

	return t, nil
}

// ParseValue reads one table cell.
func ParseValue(cell string) (float64, error) {
	if r, ok := new(big.Rat).SetString(cell); ok {
		f, _ := r.Float64()
		return f, nil
	}

	var scale float64 = 1
	num := cell
	switch {
	case strings.HasSuffix(cell, "%"):
		num, scale = strings.TrimSuffix(cell, "%"), 100
	case strings.HasSuffix(cell, "/day"):
		num = strings.TrimSuffix(cell, "/day")
	case strings.HasSuffix(cell, "/hour"):
		num = strings.TrimSuffix(cell, "/hour")
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(domain.ErrTableInvalid, "unknown cell format"), "cell", cell)
	}
	return f / scale, nil
}

func invalid(err error, msg string, line int) error {
	wrapped := zerr.Wrap(domain.ErrTableInvalid, msg)
	if err != nil {
		wrapped = zerr.Wrap(errors.Join(domain.ErrTableInvalid, err), msg)
	}
	return zerr.With(wrapped, "line", line)
}
