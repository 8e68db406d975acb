package propertyaccess

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
)

// FieldAccessor reads and writes the exported fields a struct declares itself.
// A property name resolves against the json tag first, then the Go field name,
// then the capitalized property name.
type FieldAccessor struct{}

func NewFieldAccessor() FieldAccessor {
	return FieldAccessor{}
}

func (FieldAccessor) Supports(item any) bool {
	_, ok := structValue(item)
	return ok
}

func (a FieldAccessor) Get(item any, name string) (option.Option[any], error) {
	v, ok := structValue(item)
	if !ok {
		return option.Nothing[any](), unsupported("field", item)
	}
	i, found := fieldIndex(v.Type(), name)
	if !found {
		return option.Nothing[any](), nil
	}
	return option.Some(v.Field(i).Interface()), nil
}

// Set writes through a pointer in place. A struct held by value is copied and
// the copy is returned.
func (a FieldAccessor) Set(item any, name string, value any) (any, bool, error) {
	v, ok := structValue(item)
	if !ok {
		return item, false, unsupported("field", item)
	}
	i, found := fieldIndex(v.Type(), name)
	if !found {
		return item, false, nil
	}
	newValue, assignable := assignableValue(value, v.Type().Field(i).Type)
	if !assignable {
		return item, false, nil
	}
	if reflect.ValueOf(item).Kind() == reflect.Ptr {
		v.Field(i).Set(newValue)
		return item, true, nil
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	cp.Field(i).Set(newValue)
	return cp.Interface(), true, nil
}

func structValue(item any) (reflect.Value, bool) {
	if item == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag := sf.Tag.Get("json"); tag != "" {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == name {
				return i, true
			}
		}
	}
	for _, candidate := range []string{name, capitalize(name)} {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.IsExported() && sf.Name == candidate {
				return i, true
			}
		}
	}
	return 0, false
}

// assignableValue converts value to typ when Go would allow the assignment,
// plus numeric conversions between integer and float kinds.
func assignableValue(value any, typ reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch typ.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
			return reflect.Zero(typ), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(typ) {
		return v, true
	}
	if isNumericKind(v.Kind()) && isNumericKind(typ.Kind()) {
		return v.Convert(typ), true
	}
	if v.Kind() == typ.Kind() && v.Type().ConvertibleTo(typ) {
		return v.Convert(typ), true
	}
	return reflect.Value{}, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
