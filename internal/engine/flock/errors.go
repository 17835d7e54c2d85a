package flock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.trai.ch/flock/internal/core/domain"
)

// dumper renders offending values deterministically for error messages.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// CalculationError reports a rule that failed while resolving Key.
// The key stays set and uncached; the next read retries the rule.
type CalculationError struct {
	Key any
	// Path is the key path, relative to the flattened container, at which a flatten walk
	// met the failure. It is empty for direct reads.
	Path []any
	Err  error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s: %v: %v", domain.ErrCalculationFailed, e.Key, e.Err)
}

// Unwrap exposes both ErrCalculationFailed and the cause.
func (e *CalculationError) Unwrap() []error {
	return []error{domain.ErrCalculationFailed, e.Err}
}

// calculationError wraps err unless it already is a rule failure raised further down.
func calculationError(key any, err error) error {
	var calc *CalculationError
	if errors.As(err, &calc) {
		return err
	}
	return &CalculationError{Key: key, Err: err}
}

// atPath prefixes key to the path of a rule failure surfacing at key.
// Other errors are returned unchanged.
func atPath(key any, err error) error {
	calc, ok := err.(*CalculationError)
	if !ok {
		return err
	}
	out := *calc
	out.Path = append([]any{key}, calc.Path...)
	return &out
}

// AggregationError reports a reducer that could not combine the values collected for Key.
type AggregationError struct {
	Key any
	// Sources holds the index of the source each value came from.
	Sources []int
	Values  []any
	Err     error
}

func (e *AggregationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v: %v", domain.ErrAggregationFailed, e.Key, e.Err)
	for i, v := range e.Values {
		fmt.Fprintf(&b, "\nsource %d: %s", e.Sources[i], strings.TrimSpace(dumper.Sdump(v)))
	}
	return b.String()
}

// Unwrap exposes both ErrAggregationFailed and the cause.
func (e *AggregationError) Unwrap() []error {
	return []error{domain.ErrAggregationFailed, e.Err}
}
