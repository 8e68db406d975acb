package storage

import "github.com/oklog/ulid/v2"

// Handle identifies a slot in the item storage. It stays valid until the
// slot is removed; replacing the item keeps the handle.
type Handle = ulid.ULID

// Entry is an item together with its slot handle.
type Entry struct {
	Handle Handle
	Item   any
}

type ItemStorage interface {
	AddItem(item any) Handle
	ContainsItem(item any) bool
	// Entries returns a snapshot of every slot in insertion order.
	Entries() []Entry
	GetAllItems() []any
	ReplaceItem(handle Handle, newItem any) error
	RemoveItem(handle Handle) error
	// RemoveMatching removes the first slot holding the identical item.
	RemoveMatching(item any) bool
}

type NamedStorage interface {
	SetNamedItem(name string, item any)
	// GetNamedItem returns nil when no item carries the name.
	GetNamedItem(name string) any
	NamedItemExists(name string) bool
	NamedEntry(name string) (Entry, bool)
	RemoveNamedItem(name string) bool
}

type DataStorage interface {
	ItemStorage
	NamedStorage
}
