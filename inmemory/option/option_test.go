package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSome(t *testing.T) {
	t.Run("nil is a valid value", func(t *testing.T) {
		o := Some[any](nil)
		assert.True(t, o.IsSome())
		assert.Nil(t, o.Unwrap())
	})

	t.Run("zero value is valid", func(t *testing.T) {
		o := Some(0)
		assert.True(t, o.IsSome())
		assert.False(t, o.IsNothing())
		assert.Equal(t, 0, o.Unwrap())
	})
}

func TestNothing(t *testing.T) {
	o := Nothing[any]()
	assert.True(t, o.IsNothing())
	assert.Nil(t, o.UnwrapOrZero())
	assert.PanicsWithValue(t, "called Unwrap on a Nothing Option", func() {
		o.Unwrap()
	})
}

func TestOf(t *testing.T) {
	m := map[string]int{"a": 1}

	v, ok := m["a"]
	assert.Equal(t, Some(1), Of(v, ok))

	v, ok = m["b"]
	assert.True(t, Of(v, ok).IsNothing())
}

func TestGet(t *testing.T) {
	v, ok := Some("x").Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = Nothing[string]().Get()
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "Some(42)", Some(42).String())
	assert.Equal(t, "Nothing", Nothing[int]().String())
}
