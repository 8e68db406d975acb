package repository

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/query"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/storage"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/values"
)

// DataRepository is the query surface over a DataStorage.
// Every criteria operation is a full scan over a snapshot of the storage.
// It is not safe for concurrent use.
type DataRepository struct {
	storage      storage.DataStorage
	operator     query.Operator
	logger       *log.Logger
	strictGet    bool
	strictUpdate bool
	strictRemove bool
	defaultLimit int
}

func NewDataRepository(dataStorage storage.DataStorage, operator query.Operator, options Options) *DataRepository {
	r := &DataRepository{
		storage:      dataStorage,
		operator:     operator,
		logger:       discardLogger(),
		defaultLimit: NoLimit,
	}
	r.SetOptions(options)
	return r
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func (r *DataRepository) SetOptions(options Options) {
	r.strictGet = options&OptionStrictGet != 0
	r.strictUpdate = options&OptionStrictUpdate != 0
	r.strictRemove = options&OptionStrictRemove != 0
}

func (r *DataRepository) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = discardLogger()
	}
	r.logger = logger
}

// =============================================================================
// Items
// =============================================================================

func (r *DataRepository) AddItem(item any) {
	r.storage.AddItem(item)
}

func (r *DataRepository) ContainsItem(item any) bool {
	return r.storage.ContainsItem(item)
}

func (r *DataRepository) GetAllItems() []any {
	return r.storage.GetAllItems()
}

// SliceItems returns up to limit items starting at offset. A negative offset
// counts from the end; NoLimit returns everything after offset.
func (r *DataRepository) SliceItems(items []any, offset, limit int) []any {
	return page(items, offset, limit)
}

func (r *DataRepository) RemoveItem(item any) error {
	if !r.storage.RemoveMatching(item) && r.strictRemove {
		return r.notFound(itemNotFound(item))
	}
	return nil
}

// =============================================================================
// Named items
// =============================================================================

func (r *DataRepository) SetNamedItem(name string, item any) {
	r.storage.SetNamedItem(name, item)
}

func (r *DataRepository) NamedItemExists(name string) bool {
	return r.storage.NamedItemExists(name)
}

// GetNamedItem returns nil for an unknown name unless strict get is enabled.
func (r *DataRepository) GetNamedItem(name string) (any, error) {
	if r.strictGet && !r.storage.NamedItemExists(name) {
		return nil, r.notFound(namedItemNotFound(name))
	}
	return r.storage.GetNamedItem(name), nil
}

func (r *DataRepository) ReplaceNamedItem(name string, newItem any) error {
	if r.strictUpdate && !r.storage.NamedItemExists(name) {
		return r.notFound(namedItemNotFound(name))
	}
	r.storage.SetNamedItem(name, newItem)
	return nil
}

func (r *DataRepository) RemoveNamedItem(name string) error {
	if !r.storage.RemoveNamedItem(name) && r.strictRemove {
		return r.notFound(namedItemNotFound(name))
	}
	return nil
}

// =============================================================================
// Criteria
// =============================================================================

func (r *DataRepository) GetAllItemsByCriteria(criteria query.Criteria) ([]any, error) {
	entries, err := r.find(criteria, nil, NoLimit)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("get all items by criteria", "criteria", criteria, "matched", len(entries))
	return itemsOf(entries), nil
}

// GetOneItemByCriteria returns the first match, or nil when nothing matches
// and strict get is disabled.
func (r *DataRepository) GetOneItemByCriteria(criteria query.Criteria) (any, error) {
	entries, err := r.find(criteria, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		if r.strictGet {
			return nil, r.notFound(criteriaNotFound(criteria))
		}
		return nil, nil
	}
	return entries[0].Item, nil
}

func (r *DataRepository) UpdateAllItemsByCriteria(criteria query.Criteria, updates query.Updates) error {
	entries, err := r.find(criteria, nil, NoLimit)
	if err != nil {
		return err
	}
	r.logger.Debug("update all items by criteria", "criteria", criteria, "matched", len(entries))
	return r.updateEntries(entries, updates)
}

func (r *DataRepository) UpdateOneByCriteria(criteria query.Criteria, updates query.Updates) error {
	entries, err := r.find(criteria, nil, 1)
	if err != nil {
		return err
	}
	if len(entries) == 0 && r.strictUpdate {
		return r.notFound(criteriaNotFound(criteria))
	}
	return r.updateEntries(entries, updates)
}

func (r *DataRepository) RemoveAllItemsByCriteria(criteria query.Criteria) error {
	entries, err := r.find(criteria, nil, NoLimit)
	if err != nil {
		return err
	}
	r.logger.Debug("remove all items by criteria", "criteria", criteria, "matched", len(entries))
	return r.removeEntries(entries)
}

func (r *DataRepository) RemoveOneItemByCriteria(criteria query.Criteria) error {
	entries, err := r.find(criteria, nil, 1)
	if err != nil {
		return err
	}
	if len(entries) == 0 && r.strictRemove {
		return r.notFound(criteriaNotFound(criteria))
	}
	return r.removeEntries(entries)
}

// SortItemsByPropertyValue returns a stably sorted copy of items. Absent and
// null values sort first in ascending order. items need not come from this
// repository.
func (r *DataRepository) SortItemsByPropertyValue(items []any, property string, order SortOrder) ([]any, error) {
	return r.sortItems(items, []SortField{{Property: property, Order: order}})
}

func (r *DataRepository) sortItems(items []any, fields []SortField) ([]any, error) {
	order, err := r.sortedIndexes(items, fields)
	if err != nil {
		return nil, err
	}
	result := make([]any, len(items))
	for i, j := range order {
		result[i] = items[j]
	}
	return result, nil
}

func (r *DataRepository) sortedIndexes(items []any, fields []SortField) ([]int, error) {
	keys := make([][]any, len(items))
	for i, item := range items {
		keys[i] = make([]any, len(fields))
		for j, field := range fields {
			value, err := r.operator.GetValue(item, field.Property)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to sort by \"%s\"", field.Property)
			}
			keys[i][j] = value.UnwrapOrZero()
		}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		for j, field := range fields {
			c := values.Compare(keys[a][j], keys[b][j])
			if field.Order == SortDesc {
				c = values.Compare(keys[b][j], keys[a][j])
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return order, nil
}

// =============================================================================
// Internals
// =============================================================================

// find scans a snapshot of the storage and returns at most limit matching
// entries. where, when set, is an additional whole-item filter.
func (r *DataRepository) find(criteria query.Criteria, where func(item any) bool, limit int) ([]storage.Entry, error) {
	return r.match(r.storage.Entries(), criteria, where, limit)
}

func (r *DataRepository) match(entries []storage.Entry, criteria query.Criteria, where func(item any) bool, limit int) ([]storage.Entry, error) {
	matches := r.operator.MatchingItems(itemsOf(entries), criteria)

	var found []storage.Entry
	for (limit < 0 || len(found) < limit) && matches.Next() {
		if where != nil && !where(matches.Item()) {
			continue
		}
		found = append(found, entries[matches.Index()])
	}
	if err := matches.Err(); err != nil {
		return nil, errors.Wrapf(err, "unable to match criteria %s", criteria)
	}
	return found, nil
}

// updateEntries applies every assignment in order. When a write produces a
// different item (by-value items) the slot is replaced with it.
func (r *DataRepository) updateEntries(entries []storage.Entry, updates query.Updates) error {
	for _, entry := range entries {
		item := entry.Item
		for _, assignment := range updates {
			newItem, err := r.operator.SetValue(item, assignment.Property, assignment.Value)
			if err != nil {
				return err
			}
			if storage.Same(newItem, item) {
				continue
			}
			if err := r.storage.ReplaceItem(entry.Handle, newItem); err != nil {
				return err
			}
			item = newItem
		}
	}
	return nil
}

func (r *DataRepository) removeEntries(entries []storage.Entry) error {
	for _, entry := range entries {
		if err := r.storage.RemoveItem(entry.Handle); err != nil {
			return err
		}
	}
	return nil
}

func (r *DataRepository) notFound(err *ItemNotFoundError) error {
	r.logger.Warn("strict lookup found nothing", "error", err)
	return err
}

func itemsOf(entries []storage.Entry) []any {
	items := make([]any, len(entries))
	for i, entry := range entries {
		items[i] = entry.Item
	}
	return items
}
