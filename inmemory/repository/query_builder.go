package repository

import (
	"fmt"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/comparison"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/query"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/storage"
)

// QueryBuilder composes criteria, an item filter, sorting and paging into a
// single query. Terminal methods (GetAll, GetOne, Count, Update, Remove) run
// it against the current storage contents; a builder may be run repeatedly.
type QueryBuilder struct {
	repo     *DataRepository
	name     string
	named    bool
	criteria query.Criteria
	where    []func(item any) bool
	sort     []SortField
	offset   int
	limit    int
}

// Query starts a query limited by the repository's default limit.
func (r *DataRepository) Query() *QueryBuilder {
	return &QueryBuilder{repo: r, limit: r.defaultLimit}
}

// NameIs restricts the query to the item registered under name.
func (q *QueryBuilder) NameIs(name string) *QueryBuilder {
	q.name = name
	q.named = true
	return q
}

// Where adds a filter over the whole item.
func (q *QueryBuilder) Where(fn func(item any) bool) *QueryBuilder {
	q.where = append(q.where, fn)
	return q
}

func (q *QueryBuilder) Field(property string) *FieldQueryBuilder {
	return &FieldQueryBuilder{builder: q, property: property}
}

// Matches adds a raw criterion; condition is a predicate or a literal.
func (q *QueryBuilder) Matches(property string, condition any) *QueryBuilder {
	q.criteria = q.criteria.And(property, condition)
	return q
}

// Sort adds a sort key. Keys apply in the order they were added.
func (q *QueryBuilder) Sort(property string, order SortOrder) *QueryBuilder {
	q.sort = append(q.sort, SortField{Property: property, Order: order})
	return q
}

// Skip drops the first n results; a negative n keeps the last -n.
func (q *QueryBuilder) Skip(n int) *QueryBuilder {
	q.offset = n
	return q
}

// Limit caps the result count; NoLimit removes the cap.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

func (q *QueryBuilder) GetAll() ([]any, error) {
	entries, err := q.run(q.limit)
	if err != nil {
		return nil, err
	}
	return itemsOf(entries), nil
}

// GetAllKeyedBy indexes the results by the formatted value of property.
// Later items win on key collisions.
func (q *QueryBuilder) GetAllKeyedBy(property string) (map[string]any, error) {
	entries, err := q.run(q.limit)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any, len(entries))
	for _, entry := range entries {
		key, err := q.repo.operator.GetValue(entry.Item, property)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to key by \"%s\"", property)
		}
		result[fmt.Sprint(key.UnwrapOrZero())] = entry.Item
	}
	return result, nil
}

// GetOne returns the first result and fails with ErrItemNotFound when there
// is none, regardless of the strict get option.
func (q *QueryBuilder) GetOne() (any, error) {
	entries, err := q.run(q.firstLimit())
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, q.repo.notFound(q.notFound())
	}
	return entries[0].Item, nil
}

func (q *QueryBuilder) GetOneOrNil() (any, error) {
	item, err := q.GetOne()
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	return item, err
}

func (q *QueryBuilder) Count() (int, error) {
	entries, err := q.run(q.limit)
	return len(entries), err
}

func (q *QueryBuilder) Update(updates query.Updates) error {
	entries, err := q.run(q.limit)
	if err != nil {
		return err
	}
	q.repo.logger.Debug("query update", "criteria", q.criteria, "matched", len(entries))
	return q.repo.updateEntries(entries, updates)
}

func (q *QueryBuilder) Remove() error {
	entries, err := q.run(q.limit)
	if err != nil {
		return err
	}
	q.repo.logger.Debug("query remove", "criteria", q.criteria, "matched", len(entries))
	return q.repo.removeEntries(entries)
}

func (q *QueryBuilder) firstLimit() int {
	if q.limit == 0 {
		return 0
	}
	return 1
}

func (q *QueryBuilder) notFound() *ItemNotFoundError {
	if q.named && len(q.criteria) == 0 && len(q.where) == 0 {
		return namedItemNotFound(q.name)
	}
	return criteriaNotFound(q.criteria)
}

func (q *QueryBuilder) run(limit int) ([]storage.Entry, error) {
	candidates, err := q.candidates()
	if err != nil {
		return nil, err
	}

	// Without sorting the scan can stop as soon as the page is full.
	scanLimit := NoLimit
	if len(q.sort) == 0 && q.offset >= 0 && limit >= 0 {
		scanLimit = q.offset + limit
	}
	entries, err := q.repo.match(candidates, q.criteria, q.filter, scanLimit)
	if err != nil {
		return nil, err
	}

	if len(q.sort) > 0 {
		order, err := q.repo.sortedIndexes(itemsOf(entries), q.sort)
		if err != nil {
			return nil, err
		}
		sorted := make([]storage.Entry, len(entries))
		for i, j := range order {
			sorted[i] = entries[j]
		}
		entries = sorted
	}
	return page(entries, q.offset, limit), nil
}

func (q *QueryBuilder) candidates() ([]storage.Entry, error) {
	if !q.named {
		return q.repo.storage.Entries(), nil
	}
	entry, ok := q.repo.storage.NamedEntry(q.name)
	if !ok {
		return nil, nil
	}
	return []storage.Entry{entry}, nil
}

func (q *QueryBuilder) filter(item any) bool {
	for _, fn := range q.where {
		if !fn(item) {
			return false
		}
	}
	return true
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = max(len(items)+offset, 0)
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return slices.Clone(items[offset:end])
}

// FieldQueryBuilder adds conditions on a single property. Every method
// returns the parent QueryBuilder.
type FieldQueryBuilder struct {
	builder  *QueryBuilder
	property string
}

func (f *FieldQueryBuilder) add(predicate comparison.Predicate) *QueryBuilder {
	return f.builder.Matches(f.property, predicate)
}

func (f *FieldQueryBuilder) IsNull() *QueryBuilder {
	return f.add(comparison.IsNull())
}

func (f *FieldQueryBuilder) NotNull() *QueryBuilder {
	return f.add(comparison.NotNull())
}

func (f *FieldQueryBuilder) EqualTo(value any) *QueryBuilder {
	return f.add(comparison.Equals(value))
}

func (f *FieldQueryBuilder) NotEqualTo(value any) *QueryBuilder {
	return f.add(comparison.Not(comparison.Equals(value)))
}

func (f *FieldQueryBuilder) LessThan(value float64) *QueryBuilder {
	return f.add(comparison.LessThan(value))
}

func (f *FieldQueryBuilder) LessThanOrEqualTo(value float64) *QueryBuilder {
	return f.add(comparison.LessThanOrEqual(value))
}

func (f *FieldQueryBuilder) GreaterThan(value float64) *QueryBuilder {
	return f.add(comparison.GreaterThan(value))
}

func (f *FieldQueryBuilder) GreaterThanOrEqual(value float64) *QueryBuilder {
	return f.add(comparison.GreaterThanOrEqual(value))
}

func (f *FieldQueryBuilder) Between(min, max float64) *QueryBuilder {
	return f.add(comparison.Between(min, max))
}

func (f *FieldQueryBuilder) DateLessThan(value time.Time) *QueryBuilder {
	return f.add(comparison.DateLessThan(value))
}

func (f *FieldQueryBuilder) DateLessThanOrEqualTo(value time.Time) *QueryBuilder {
	return f.add(comparison.DateLessThanOrEqual(value))
}

func (f *FieldQueryBuilder) DateGreaterThan(value time.Time) *QueryBuilder {
	return f.add(comparison.DateGreaterThan(value))
}

func (f *FieldQueryBuilder) DateGreaterThanOrEqual(value time.Time) *QueryBuilder {
	return f.add(comparison.DateGreaterThanOrEqual(value))
}

func (f *FieldQueryBuilder) DateBetween(min, max time.Time) *QueryBuilder {
	return f.add(comparison.DateBetween(min, max))
}

func (f *FieldQueryBuilder) In(values ...any) *QueryBuilder {
	return f.add(comparison.IsInArray(values))
}

func (f *FieldQueryBuilder) NotIn(values ...any) *QueryBuilder {
	return f.add(comparison.Not(comparison.IsInArray(values)))
}

func (f *FieldQueryBuilder) Contains(value any) *QueryBuilder {
	return f.add(comparison.ArrayContains(value))
}

func (f *FieldQueryBuilder) NotContains(value any) *QueryBuilder {
	return f.add(comparison.Not(comparison.ArrayContains(value)))
}

func (f *FieldQueryBuilder) Satisfy(fn func(value any) bool) *QueryBuilder {
	return f.add(comparison.Satisfy(fn))
}
