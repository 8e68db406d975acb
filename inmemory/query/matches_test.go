package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func even(item any) (bool, error) {
	return item.(int)%2 == 0, nil
}

func TestMatchesIsLazy(t *testing.T) {
	var evaluated []any
	m := NewMatches([]any{1, 2, 3, 4}, func(item any) (bool, error) {
		evaluated = append(evaluated, item)
		return even(item)
	})

	assert.Empty(t, evaluated)
	require.True(t, m.Next())
	assert.Equal(t, 2, m.Item())
	assert.Equal(t, []any{1, 2}, evaluated)
}

func TestMatchesIsSinglePass(t *testing.T) {
	m := NewMatches([]any{1, 2, 3, 4}, even)

	first, err := m.All()
	require.NoError(t, err)
	assert.Equal(t, []any{2, 4}, first)

	second, err := m.All()
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, -1, m.Index())
	assert.Nil(t, m.Item())
}

func TestMatchesUsesSnapshot(t *testing.T) {
	items := []any{1, 2}
	m := NewMatches(items, even)
	items[1] = 3

	require.True(t, m.Next())
	assert.Equal(t, 2, m.Item())
}

func TestMatchesSeq(t *testing.T) {
	m := NewMatches([]any{2, 3, 4, 6}, even)

	var indexes []int
	for i, item := range m.Seq() {
		indexes = append(indexes, i)
		if item == 4 {
			break
		}
	}
	assert.Equal(t, []int{0, 2}, indexes)

	rest, err := m.All()
	require.NoError(t, err)
	assert.Equal(t, []any{6}, rest)
}
