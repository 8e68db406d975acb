package storage

import (
	"slices"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

type slot struct {
	handle Handle
	name   string
	named  bool
	item   any
}

// ArrayStorage keeps items in insertion order. Named items share the same
// slots, so they are visible through GetAllItems and ContainsItem too.
// It is not safe for concurrent use.
type ArrayStorage struct {
	slots    []*slot
	byHandle map[Handle]*slot
	names    map[string]*slot
}

func NewArrayStorage() *ArrayStorage {
	return &ArrayStorage{
		byHandle: make(map[Handle]*slot),
		names:    make(map[string]*slot),
	}
}

func (s *ArrayStorage) AddItem(item any) Handle {
	return s.add(&slot{item: item})
}

func (s *ArrayStorage) add(sl *slot) Handle {
	sl.handle = ulid.Make()
	s.slots = append(s.slots, sl)
	s.byHandle[sl.handle] = sl
	return sl.handle
}

func (s *ArrayStorage) ContainsItem(item any) bool {
	return s.indexOfItem(item) >= 0
}

func (s *ArrayStorage) Entries() []Entry {
	entries := make([]Entry, len(s.slots))
	for i, sl := range s.slots {
		entries[i] = Entry{Handle: sl.handle, Item: sl.item}
	}
	return entries
}

func (s *ArrayStorage) GetAllItems() []any {
	items := make([]any, len(s.slots))
	for i, sl := range s.slots {
		items[i] = sl.item
	}
	return items
}

func (s *ArrayStorage) ReplaceItem(handle Handle, newItem any) error {
	sl, ok := s.byHandle[handle]
	if !ok {
		return errors.Wrapf(ErrHandleNotFound, "replace %s", handle)
	}
	sl.item = newItem
	return nil
}

func (s *ArrayStorage) RemoveItem(handle Handle) error {
	i := s.indexOfHandle(handle)
	if i < 0 {
		return errors.Wrapf(ErrHandleNotFound, "remove %s", handle)
	}
	s.removeAt(i)
	return nil
}

func (s *ArrayStorage) RemoveMatching(item any) bool {
	i := s.indexOfItem(item)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

func (s *ArrayStorage) SetNamedItem(name string, item any) {
	if sl, ok := s.names[name]; ok {
		sl.item = item
		return
	}
	sl := &slot{name: name, named: true, item: item}
	s.names[name] = sl
	s.add(sl)
}

func (s *ArrayStorage) GetNamedItem(name string) any {
	if sl, ok := s.names[name]; ok {
		return sl.item
	}
	return nil
}

func (s *ArrayStorage) NamedItemExists(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *ArrayStorage) NamedEntry(name string) (Entry, bool) {
	sl, ok := s.names[name]
	if !ok {
		return Entry{}, false
	}
	return Entry{Handle: sl.handle, Item: sl.item}, true
}

func (s *ArrayStorage) RemoveNamedItem(name string) bool {
	sl, ok := s.names[name]
	if !ok {
		return false
	}
	return s.RemoveItem(sl.handle) == nil
}

func (s *ArrayStorage) removeAt(i int) {
	sl := s.slots[i]
	if sl.named {
		delete(s.names, sl.name)
	}
	delete(s.byHandle, sl.handle)
	s.slots = slices.Delete(s.slots, i, i+1)
}

func (s *ArrayStorage) indexOfHandle(handle Handle) int {
	if _, ok := s.byHandle[handle]; !ok {
		return -1
	}
	return slices.IndexFunc(s.slots, func(sl *slot) bool { return sl.handle == handle })
}

func (s *ArrayStorage) indexOfItem(item any) int {
	for i, sl := range s.slots {
		if Same(sl.item, item) {
			return i
		}
	}
	return -1
}
