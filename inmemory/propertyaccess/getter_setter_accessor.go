package propertyaccess

import (
	"reflect"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/values"
)

var getterPrefixes = []string{"Get", "Is"}

// GetterSetterAccessor goes through accessor methods: GetName then IsName
// for reads and SetName for writes. Other methods are never called.
type GetterSetterAccessor struct{}

func NewGetterSetterAccessor() GetterSetterAccessor {
	return GetterSetterAccessor{}
}

func (GetterSetterAccessor) Supports(item any) bool {
	if values.IsNull(item) {
		return false
	}
	t := reflect.TypeOf(item)
	return t.NumMethod() > 0 || reflect.PointerTo(t).NumMethod() > 0
}

func (a GetterSetterAccessor) Get(item any, name string) (option.Option[any], error) {
	if !a.Supports(item) {
		return option.Nothing[any](), unsupported("getter/setter", item)
	}
	receiver := addressable(item)
	for _, prefix := range getterPrefixes {
		m := receiver.MethodByName(prefix + capitalize(name))
		if !m.IsValid() {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 {
			continue
		}
		return option.Some(m.Call(nil)[0].Interface()), nil
	}
	return option.Nothing[any](), nil
}

// Set calls SetName on the item. Items held by value get a copy with the
// setter applied, which is returned.
func (a GetterSetterAccessor) Set(item any, name string, value any) (any, bool, error) {
	if !a.Supports(item) {
		return item, false, unsupported("getter/setter", item)
	}
	receiver := addressable(item)
	m := receiver.MethodByName("Set" + capitalize(name))
	if !m.IsValid() || m.Type().NumIn() != 1 {
		return item, false, nil
	}
	arg, ok := assignableValue(value, m.Type().In(0))
	if !ok {
		return item, false, nil
	}
	m.Call([]reflect.Value{arg})
	if reflect.ValueOf(item).Kind() == reflect.Ptr {
		return item, true, nil
	}
	return receiver.Elem().Interface(), true, nil
}

// addressable returns a pointer receiver so both value and pointer methods
// are visible. Non-pointer items are copied first.
func addressable(item any) reflect.Value {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Ptr {
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}
