package matching

import (
	"reflect"
	"strconv"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/values"
)

// TypeSensitiveEquals requires identical dynamic types and equal values.
type TypeSensitiveEquals struct{}

func (TypeSensitiveEquals) Match(value1, value2 any) bool {
	if value1 == nil || value2 == nil {
		return value1 == nil && value2 == nil
	}
	if reflect.TypeOf(value1) != reflect.TypeOf(value2) {
		return false
	}
	if t1, ok := values.AsTime(value1); ok {
		t2, _ := values.AsTime(value2)
		return t1.Equal(t2)
	}
	if reflect.TypeOf(value1).Comparable() {
		return safeEqual(value1, value2)
	}
	return reflect.DeepEqual(value1, value2)
}

// safeEqual guards against interface-typed struct fields holding
// non-comparable values, which make == panic at runtime.
func safeEqual(value1, value2 any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = reflect.DeepEqual(value1, value2)
		}
	}()
	return value1 == value2
}

// Equals is loose equality. Both operands must agree on being primitive
// (null or scalar) or composite, so null never equals 0 or "". NaN equals
// nothing, itself included.
type Equals struct{}

func (Equals) Match(value1, value2 any) bool {
	return (&looseComparer{}).equal(value1, value2)
}

// visit is a pair of composites already under comparison. Revisiting one
// means the graph is cyclic and the pair is assumed equal, as
// reflect.DeepEqual does.
type visit struct {
	p1, p2 uintptr
	typ    reflect.Type
}

type looseComparer struct {
	visited map[visit]struct{}
}

func (c *looseComparer) equal(value1, value2 any) bool {
	if values.IsPrimitive(value1) != values.IsPrimitive(value2) {
		return false
	}
	if values.IsPrimitive(value1) {
		return looseScalarEqual(value1, value2)
	}
	return c.composite(reflect.ValueOf(value1), reflect.ValueOf(value2))
}

func looseScalarEqual(value1, value2 any) bool {
	null1, null2 := values.IsNull(value1), values.IsNull(value2)
	if null1 || null2 {
		return null1 && null2
	}

	v1, v2 := reflect.ValueOf(value1), reflect.ValueOf(value2)
	if v1.Kind() == reflect.Bool || v2.Kind() == reflect.Bool {
		return truthy(v1) == truthy(v2)
	}

	n1, isNum1 := values.ParseNumber(value1)
	n2, isNum2 := values.ParseNumber(value2)
	if (isNum1 && n1.IsNaN()) || (isNum2 && n2.IsNaN()) {
		return false
	}
	switch {
	case isNum1 && isNum2:
		return values.CompareNumbers(n1, n2) == 0
	case isNum1 || isNum2:
		return strconv.FormatFloat(numberOf(n1, n2, isNum1).Float(), 'f', -1, 64) == stringOf(v1, v2, isNum1)
	}
	return v1.String() == v2.String()
}

func numberOf(n1, n2 values.Number, first bool) values.Number {
	if first {
		return n1
	}
	return n2
}

func stringOf(v1, v2 reflect.Value, numberFirst bool) string {
	if numberFirst {
		return v2.String()
	}
	return v1.String()
}

func truthy(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		s := v.String()
		return s != "" && s != "0"
	}
	if n, ok := values.AsNumber(v.Interface()); ok {
		return n.Float() != 0
	}
	return true
}

// seen records the pair and reports whether it was already recorded.
func (c *looseComparer) seen(v1, v2 reflect.Value) bool {
	switch v1.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
	default:
		return false
	}
	key := visit{p1: v1.Pointer(), p2: v2.Pointer(), typ: v1.Type()}
	if c.visited == nil {
		c.visited = map[visit]struct{}{}
	}
	if _, ok := c.visited[key]; ok {
		return true
	}
	c.visited[key] = struct{}{}
	return false
}

func (c *looseComparer) composite(v1, v2 reflect.Value) bool {
	if t1, ok := values.AsTime(v1.Interface()); ok {
		t2, ok := values.AsTime(v2.Interface())
		return ok && t1.Equal(t2)
	}
	if v1.Kind() != v2.Kind() {
		return false
	}
	if c.seen(v1, v2) {
		return true
	}
	switch v1.Kind() {
	case reflect.Ptr:
		if v1.Pointer() == v2.Pointer() {
			return true
		}
		return v1.Type() == v2.Type() && c.equal(v1.Elem().Interface(), v2.Elem().Interface())
	case reflect.Map:
		if v1.Len() != v2.Len() {
			return false
		}
		iter := v1.MapRange()
		for iter.Next() {
			key := iter.Key()
			if !key.Type().AssignableTo(v2.Type().Key()) {
				return false
			}
			other := v2.MapIndex(key)
			if !other.IsValid() || !c.equal(iter.Value().Interface(), other.Interface()) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if v1.Len() != v2.Len() {
			return false
		}
		for i := 0; i < v1.Len(); i++ {
			if !c.equal(v1.Index(i).Interface(), v2.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Struct:
		if v1.Type() != v2.Type() {
			return false
		}
		unexported := false
		for i := 0; i < v1.NumField(); i++ {
			if !v1.Type().Field(i).IsExported() {
				unexported = true
				continue
			}
			if !c.equal(v1.Field(i).Interface(), v2.Field(i).Interface()) {
				return false
			}
		}
		return !unexported || reflect.DeepEqual(unexportedPart(v1), unexportedPart(v2))
	}
	return reflect.DeepEqual(v1.Interface(), v2.Interface())
}

// unexportedPart copies a struct with its exported fields zeroed, leaving
// only the state loose comparison cannot reach field by field.
func unexportedPart(v reflect.Value) any {
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	for i := 0; i < cp.NumField(); i++ {
		if v.Type().Field(i).IsExported() {
			cp.Field(i).SetZero()
		}
	}
	return cp.Interface()
}

// Callback adapts a plain function to a MatchingStrategy.
type Callback func(value1, value2 any) bool

func (c Callback) Match(value1, value2 any) bool {
	return c(value1, value2)
}
