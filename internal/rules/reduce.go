package rules

import (
	"fmt"
	"math"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/zerr"
)

// Sum adds numeric values. The result is an int when every value is an integer and a
// float64 otherwise. An empty input sums to 0.
func Sum(values []any) (any, error) {
	var (
		ints    int64
		floats  float64
		isFloat bool
	)
	for _, v := range values {
		i, f, ok := domain.Number(v)
		if !ok {
			return nil, unsupported("sum", v)
		}
		if i == nil {
			isFloat = true
		} else {
			ints += *i
		}
		floats += f
	}
	if isFloat {
		return floats, nil
	}
	return int(ints), nil
}

// CrossTotal combines the values of a key across sources. A single value is returned as
// is. Numbers are summed. Mappings are merged key by key, combining the values of a shared
// key with CrossTotal again.
func CrossTotal(values []any) (any, error) {
	switch len(values) {
	case 0:
		return 0, nil
	case 1:
		return values[0], nil
	}
	if allNumbers(values) {
		return Sum(values)
	}

	grouped := make(map[any][]any)
	var order []any
	for _, v := range values {
		m, err := mapping(v)
		if err != nil {
			return nil, err
		}
		for k, e := range m {
			if _, seen := grouped[k]; !seen {
				order = append(order, k)
			}
			grouped[k] = append(grouped[k], e)
		}
	}

	out := make(map[any]any, len(order))
	for _, k := range order {
		total, err := CrossTotal(grouped[k])
		if err != nil {
			return nil, zerr.With(err, "key", k)
		}
		out[k] = total
	}
	return out, nil
}

func allNumbers(values []any) bool {
	for _, v := range values {
		if _, _, ok := domain.Number(v); !ok {
			return false
		}
	}
	return true
}

// mapping resolves v into a plain map, flattening containers.
func mapping(v any) (map[any]any, error) {
	if r, ok := v.(flock.Reader); ok {
		flat, err := r.Flatten(false)
		if err != nil {
			return nil, err
		}
		v = flat
	}
	switch x := v.(type) {
	case *domain.Snapshot:
		return x.Plain(), nil
	case map[any]any:
		return x, nil
	case map[string]any:
		out := make(map[any]any, len(x))
		for k, e := range x {
			out[k] = domain.PlainValue(e)
		}
		return out, nil
	default:
		return nil, unsupported("merge", v)
	}
}

// Float converts any Go number into a float64.
func Float(v any) (float64, error) {
	_, f, ok := domain.Number(v)
	if !ok {
		return 0, unsupported("float", v)
	}
	return f, nil
}

// Int converts an integer, or a float without a fractional part, into an int.
func Int(v any) (int, error) {
	i, f, ok := domain.Number(v)
	switch {
	case !ok:
		return 0, unsupported("int", v)
	case i != nil:
		return int(*i), nil
	case f == math.Trunc(f) && !math.IsInf(f, 0):
		return int(f), nil
	default:
		return 0, zerr.With(unsupported("int", v), "value", f)
	}
}

func unsupported(op string, v any) error {
	return zerr.With(zerr.Wrap(domain.ErrUnsupportedOperand, op), "type", typeName(v))
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
