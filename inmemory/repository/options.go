package repository

// Options toggle strict mode per operation class. In strict mode a lookup
// that finds nothing fails with ErrItemNotFound instead of being a no-op.
type Options uint8

const (
	OptionStrictGet Options = 1 << iota
	OptionStrictUpdate
	OptionStrictRemove
)

type SortOrder int

const (
	SortAsc  SortOrder = 1
	SortDesc SortOrder = -1
)

// NoLimit disables the limit in SliceItems and QueryBuilder.Limit.
const NoLimit = -1

type SortField struct {
	Property string
	Order    SortOrder
}
