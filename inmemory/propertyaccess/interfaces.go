package propertyaccess

import "github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"

// PropertyAccessor reads and writes a named property on one kind of item shape.
// Get and Set must only be called for items Supports accepts; otherwise they
// return ErrUnsupportedItemShape.
type PropertyAccessor interface {
	Supports(item any) bool
	Get(item any, name string) (option.Option[any], error)
	// Set returns the item that carries the new value. For by-value items it
	// is a modified copy, so callers must replace the original with it.
	// ok is false when this accessor cannot write the property.
	Set(item any, name string, value any) (newItem any, ok bool, err error)
}

// Indexer is implemented by items that expose keyed access without being a Go map.
type Indexer interface {
	Index(name string) (any, bool)
}
