package query

import "github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"

// PropertyAccess is satisfied by *propertyaccess.PropertyAccess.
type PropertyAccess interface {
	GetPropertyValue(item any, name string) (option.Option[any], error)
	SetPropertyValue(item any, name string, value any) (any, error)
}

// Operator reads, writes and matches properties on items.
type Operator interface {
	GetValue(item any, name string) (option.Option[any], error)
	// SetValue returns the item holding the new value; it differs from the
	// input for by-value items and must then replace it in storage.
	SetValue(item any, name string, value any) (any, error)
	MatchingItems(items []any, criteria Criteria) *Matches
}
