package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	rankBool = iota
	rankNumber
	rankString
	rankOther
)

// CompareKeys orders container keys canonically. Booleans sort first, then numbers compared
// by value and then by Go type, then strings, then any other key ordered by its type
// name and printed form. The order does not depend on insertion order or map iteration.
func CompareKeys(a, b any) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankBool:
		return cmp.Compare(boolOrd(a.(bool)), boolOrd(b.(bool)))
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	default:
		if c := strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)); c != 0 {
			return c
		}
		return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
	}
}

// SortKeys sorts keys in place using CompareKeys.
func SortKeys(keys []any) {
	slices.SortStableFunc(keys, CompareKeys)
}

func keyRank(k any) int {
	switch k.(type) {
	case bool:
		return rankBool
	case string:
		return rankString
	}
	if _, _, ok := Number(k); ok {
		return rankNumber
	}
	return rankOther
}

func boolOrd(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareNumbers orders by value. Equal values of different types, such as 1 and 1.0,
// are ordered by type name so that they never compare equal.
func compareNumbers(a, b any) int {
	ai, af, _ := Number(a)
	bi, bf, _ := Number(b)
	var c int
	if ai != nil && bi != nil {
		c = cmp.Compare(*ai, *bi)
	} else {
		c = cmp.Compare(af, bf)
	}
	if c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

// Number reports whether v is a Go numeric value. Integers that fit in an int64 are returned
// through i as well as through f; floats only set f.
func Number(v any) (i *int64, f float64, ok bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		return unsigned(uint64(x))
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		return unsigned(x)
	case float32:
		return nil, float64(x), true
	case float64:
		return nil, x, true
	default:
		return nil, 0, false
	}
	return &n, float64(n), true
}

func unsigned(u uint64) (*int64, float64, bool) {
	if u > math.MaxInt64 {
		return nil, float64(u), true
	}
	n := int64(u)
	return &n, float64(n), true
}
