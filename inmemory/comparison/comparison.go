// Package comparison builds reusable predicates for criteria.
//
// Every predicate is a total function: a value of the wrong type makes it
// report false, it never panics or errors.
package comparison

import (
	"reflect"
	"time"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/matching"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/values"
)

// Predicate tests a property value. The matcher is the repository's
// ValueMatcher so equality-based predicates honour custom matching rules.
type Predicate func(value any, matcher matching.ValueMatcher) bool

func Not(p Predicate) Predicate {
	return func(value any, matcher matching.ValueMatcher) bool {
		return !p(value, matcher)
	}
}

// And holds when every predicate holds. An empty And is true.
func And(predicates ...Predicate) Predicate {
	return func(value any, matcher matching.ValueMatcher) bool {
		for _, p := range predicates {
			if !p(value, matcher) {
				return false
			}
		}
		return true
	}
}

// Or holds when any predicate holds. An empty Or is false.
func Or(predicates ...Predicate) Predicate {
	return func(value any, matcher matching.ValueMatcher) bool {
		for _, p := range predicates {
			if p(value, matcher) {
				return true
			}
		}
		return false
	}
}

// Satisfy wraps a callback that does not need the matcher.
func Satisfy(fn func(value any) bool) Predicate {
	return func(value any, _ matching.ValueMatcher) bool {
		return fn(value)
	}
}

func IsNull() Predicate {
	return func(value any, _ matching.ValueMatcher) bool {
		return values.IsNull(value)
	}
}

func NotNull() Predicate {
	return Not(IsNull())
}

func Equals(reference any) Predicate {
	return func(value any, matcher matching.ValueMatcher) bool {
		return matcher.Match(value, reference)
	}
}

func GreaterThan(reference float64) Predicate {
	return number(func(c int) bool { return c > 0 }, reference)
}

func GreaterThanOrEqual(reference float64) Predicate {
	return number(func(c int) bool { return c >= 0 }, reference)
}

func LessThan(reference float64) Predicate {
	return number(func(c int) bool { return c < 0 }, reference)
}

func LessThanOrEqual(reference float64) Predicate {
	return number(func(c int) bool { return c <= 0 }, reference)
}

// Between is inclusive on both ends.
func Between(min, max float64) Predicate {
	return And(GreaterThanOrEqual(min), LessThanOrEqual(max))
}

// number reads numeric strings as numbers. NaN on either side fails.
func number(accept func(int) bool, reference float64) Predicate {
	ref, _ := values.AsNumber(reference)
	return func(value any, _ matching.ValueMatcher) bool {
		n, ok := values.ParseNumber(value)
		if !ok || n.IsNaN() || ref.IsNaN() {
			return false
		}
		return accept(values.CompareNumbers(n, ref))
	}
}

func DateGreaterThan(reference time.Time) Predicate {
	return date(func(c int) bool { return c > 0 }, reference)
}

func DateGreaterThanOrEqual(reference time.Time) Predicate {
	return date(func(c int) bool { return c >= 0 }, reference)
}

func DateLessThan(reference time.Time) Predicate {
	return date(func(c int) bool { return c < 0 }, reference)
}

func DateLessThanOrEqual(reference time.Time) Predicate {
	return date(func(c int) bool { return c <= 0 }, reference)
}

// DateBetween is inclusive on both ends.
func DateBetween(min, max time.Time) Predicate {
	return And(DateGreaterThanOrEqual(min), DateLessThanOrEqual(max))
}

func date(accept func(int) bool, reference time.Time) Predicate {
	return func(value any, _ matching.ValueMatcher) bool {
		t, ok := values.AsTime(value)
		if !ok {
			return false
		}
		return accept(t.Compare(reference))
	}
}

// IsInArray holds when the value matches any of the references.
func IsInArray(references []any) Predicate {
	return func(value any, matcher matching.ValueMatcher) bool {
		for _, reference := range references {
			if matcher.Match(value, reference) {
				return true
			}
		}
		return false
	}
}

// ArrayContains holds when the value is a slice, array or map and one of its
// elements matches the reference.
func ArrayContains(reference any) Predicate {
	return func(value any, matcher matching.ValueMatcher) bool {
		if values.IsNull(value) {
			return false
		}
		v := reflect.ValueOf(value)
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < v.Len(); i++ {
				if matcher.Match(v.Index(i).Interface(), reference) {
					return true
				}
			}
		case reflect.Map:
			iter := v.MapRange()
			for iter.Next() {
				if matcher.Match(iter.Value().Interface(), reference) {
					return true
				}
			}
		}
		return false
	}
}
