package propertyaccess

import (
	"reflect"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
)

// MapAccessor reads string-keyed maps and Indexer items.
// It never writes: a map held by value inside another item would not see the
// change, so whole-item replacement is left to the caller.
type MapAccessor struct{}

func NewMapAccessor() MapAccessor {
	return MapAccessor{}
}

func (MapAccessor) Supports(item any) bool {
	if _, ok := item.(Indexer); ok {
		return true
	}
	if item == nil {
		return false
	}
	t := reflect.TypeOf(item)
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

func (a MapAccessor) Get(item any, name string) (option.Option[any], error) {
	if !a.Supports(item) {
		return option.Nothing[any](), unsupported("map", item)
	}
	if idx, ok := item.(Indexer); ok {
		return option.Of(idx.Index(name)), nil
	}
	if m, ok := item.(map[string]any); ok {
		v, found := m[name]
		return option.Of(v, found), nil
	}
	rv := reflect.ValueOf(item)
	value := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	if !value.IsValid() {
		return option.Nothing[any](), nil
	}
	return option.Some(value.Interface()), nil
}

func (a MapAccessor) Set(item any, name string, value any) (any, bool, error) {
	if !a.Supports(item) {
		return item, false, unsupported("map", item)
	}
	return item, false, nil
}
