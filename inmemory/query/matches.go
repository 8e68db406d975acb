package query

import (
	"iter"
	"slices"
)

// Matches is a single-pass, pull-based sequence of matching items taken from
// a snapshot of the input. Once exhausted or failed it stays that way.
//
//	m := op.MatchingItems(items, criteria)
//	for m.Next() {
//	    use(m.Index(), m.Item())
//	}
//	if err := m.Err(); err != nil { ... }
type Matches struct {
	items []any
	match func(item any) (bool, error)
	pos   int
	index int
	item  any
	err   error
	done  bool
}

func NewMatches(items []any, match func(item any) (bool, error)) *Matches {
	return &Matches{items: slices.Clone(items), match: match, index: -1}
}

func (m *Matches) Next() bool {
	if m.done {
		return false
	}
	for m.pos < len(m.items) {
		i := m.pos
		m.pos++
		ok, err := m.match(m.items[i])
		if err != nil {
			m.err = err
			break
		}
		if ok {
			m.index, m.item = i, m.items[i]
			return true
		}
	}
	m.done = true
	m.index, m.item = -1, nil
	return false
}

// Item is the current match.
func (m *Matches) Item() any {
	return m.item
}

// Index is the position of the current match in the input slice, -1 when
// there is none.
func (m *Matches) Index() int {
	return m.index
}

func (m *Matches) Err() error {
	return m.err
}

// All drains the remaining matches.
func (m *Matches) All() ([]any, error) {
	var result []any
	for m.Next() {
		result = append(result, m.Item())
	}
	return result, m.Err()
}

// Seq adapts the remaining matches for range-over-func. Check Err afterwards.
func (m *Matches) Seq() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for m.Next() {
			if !yield(m.Index(), m.Item()) {
				return
			}
		}
	}
}
