package propertyaccess

import (
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/values"
)

// PropertyAccess tries its accessors in registration order.
type PropertyAccess struct {
	accessors []PropertyAccessor
}

func New(accessors ...PropertyAccessor) *PropertyAccess {
	return &PropertyAccess{accessors: accessors}
}

// DefaultAccessors returns the built-in chain: maps, struct fields, accessor methods.
func DefaultAccessors() []PropertyAccessor {
	return []PropertyAccessor{
		NewMapAccessor(),
		NewFieldAccessor(),
		NewGetterSetterAccessor(),
	}
}

func Default() *PropertyAccess {
	return New(DefaultAccessors()...)
}

// WithCustom places custom accessors ahead of the defaults so they can
// override behaviour for specific item shapes.
func WithCustom(custom ...PropertyAccessor) *PropertyAccess {
	accessors := make([]PropertyAccessor, 0, len(custom)+3)
	accessors = append(accessors, custom...)
	accessors = append(accessors, DefaultAccessors()...)
	return New(accessors...)
}

// GetPropertyValue returns the first non-null value any supporting accessor
// yields. A supporting accessor that finds nothing does not stop the search,
// which lets field and getter access coexist on the same struct.
func (a *PropertyAccess) GetPropertyValue(item any, name string) (option.Option[any], error) {
	for _, accessor := range a.accessors {
		if !accessor.Supports(item) {
			continue
		}
		value, err := accessor.Get(item, name)
		if err != nil {
			return option.Nothing[any](), errors.Wrapf(err, "unable to read property \"%s\"", name)
		}
		if v, ok := value.Get(); ok && !values.IsNull(v) {
			return value, nil
		}
	}
	return option.Nothing[any](), nil
}

// SetPropertyValue stops at the first accessor that performs the write and
// returns the item it produced.
func (a *PropertyAccess) SetPropertyValue(item any, name string, value any) (any, error) {
	for _, accessor := range a.accessors {
		if !accessor.Supports(item) {
			continue
		}
		newItem, ok, err := accessor.Set(item, name, value)
		if err != nil {
			return item, errors.Wrapf(err, "unable to write property \"%s\"", name)
		}
		if ok {
			return newItem, nil
		}
	}
	return item, &PropertyWriteFailedError{Property: name}
}
