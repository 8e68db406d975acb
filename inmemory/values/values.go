// Package values classifies and orders the raw values read off items.
// Property values arrive as `any`, so every helper here dispatches on the
// reflect.Kind rather than on concrete types; named types (type Age int)
// behave like their underlying kind.
package values

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	timeType = reflect.TypeOf(time.Time{})

	// Decimal notation only: no hex, no underscores, no NaN or Inf.
	numericString = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// IsNull reports whether v is nil, including typed nils held in an interface.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// IsScalar reports whether v is a bool, number or string.
func IsScalar(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsPrimitive reports whether v is null or a scalar.
func IsPrimitive(v any) bool {
	return IsNull(v) || IsScalar(v)
}

// Number is a numeric value normalised to the widest Go representation of its kind.
type Number struct {
	kind reflect.Kind
	i    int64
	u    uint64
	f    float64
}

// AsNumber converts any integer or float kind. Strings are never coerced.
func AsNumber(v any) (Number, bool) {
	if v == nil {
		return Number{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return Number{kind: reflect.Float64, f: rv.Float()}, true
	}
	return Number{}, false
}

// ParseNumber is AsNumber that also reads numeric strings. Surrounding
// whitespace is ignored.
func ParseNumber(v any) (Number, bool) {
	if v == nil {
		return Number{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return AsNumber(v)
	}
	s := strings.TrimSpace(rv.String())
	if !numericString.MatchString(s) {
		return Number{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Number{kind: reflect.Int64, i: i}, true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Number{kind: reflect.Uint64, u: u}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}, false
	}
	return Number{kind: reflect.Float64, f: f}, true
}

func (n Number) IsNaN() bool {
	return n.kind == reflect.Float64 && math.IsNaN(n.f)
}

// Float returns the number as float64, losing precision past 2^53.
func (n Number) Float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	}
	return n.f
}

// CompareNumbers orders two numbers exactly when both are integers of the
// same signedness and through float64 otherwise. NaN sorts before every other
// number; callers that need IEEE semantics check IsNaN first.
func CompareNumbers(a, b Number) int {
	switch {
	case a.kind == reflect.Int64 && b.kind == reflect.Int64:
		return cmp.Compare(a.i, b.i)
	case a.kind == reflect.Uint64 && b.kind == reflect.Uint64:
		return cmp.Compare(a.u, b.u)
	case a.kind == reflect.Int64 && b.kind == reflect.Uint64:
		if a.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.i), b.u)
	case a.kind == reflect.Uint64 && b.kind == reflect.Int64:
		return -CompareNumbers(b, a)
	}
	return cmp.Compare(a.Float(), b.Float())
}

// AsTime accepts time.Time, *time.Time and named types over time.Time.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	if v == nil {
		return time.Time{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().ConvertibleTo(timeType) && rv.Kind() == reflect.Struct {
		return rv.Convert(timeType).Interface().(time.Time), true
	}
	return time.Time{}, false
}

// Compare is a total three-way ordering used for sorting.
// Null sorts before everything else. Values of different families fall back
// to comparing their fmt representation.
func Compare(a, b any) int {
	aNull, bNull := IsNull(a), IsNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}

	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			return CompareNumbers(an, bn)
		}
	}
	if at, ok := AsTime(a); ok {
		if bt, ok := AsTime(b); ok {
			return at.Compare(bt)
		}
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.String && bv.Kind() == reflect.String {
		return strings.Compare(av.String(), bv.String())
	}
	if av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool {
		return compareBool(av.Bool(), bv.Bool())
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
