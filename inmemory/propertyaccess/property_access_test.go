package propertyaccess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
)

// =============================================================================
// Fixtures
// =============================================================================

type fieldItem struct {
	K      int `json:"k,omitempty"`
	Name   string
	Score  float64
	Tags   []string
	hidden string
}

type beanItem struct {
	k      int
	active bool
}

func (b *beanItem) GetK() int          { return b.k }
func (b *beanItem) SetK(k int)         { b.k = k }
func (b *beanItem) IsActive() bool     { return b.active }
func (b *beanItem) Describe(x int) int { return x }

type labelled struct {
	Label *string
	title string
}

func (l labelled) GetLabel() string { return "computed" }
func (l labelled) Title() string    { return l.title }

type conn struct {
	closed bool
}

func (c *conn) Close() error {
	c.closed = true
	return nil
}

type attrs struct {
	values map[string]any
}

func (a attrs) Index(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

type stringMap map[string]string

// =============================================================================
// MapAccessor
// =============================================================================

func TestMapAccessor(t *testing.T) {
	a := NewMapAccessor()

	t.Run("supports", func(t *testing.T) {
		assert.True(t, a.Supports(map[string]any{}))
		assert.True(t, a.Supports(stringMap{}))
		assert.True(t, a.Supports(attrs{}))
		assert.False(t, a.Supports(map[int]any{}))
		assert.False(t, a.Supports(fieldItem{}))
		assert.False(t, a.Supports(nil))
	})

	t.Run("get existing key", func(t *testing.T) {
		v, err := a.Get(map[string]any{"k": 1}, "k")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any](1), v)
	})

	t.Run("get missing key", func(t *testing.T) {
		v, err := a.Get(map[string]any{"k": 1}, "x")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
	})

	t.Run("get from typed map", func(t *testing.T) {
		v, err := a.Get(stringMap{"k": "v"}, "k")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any]("v"), v)

		v, err = a.Get(stringMap{"k": "v"}, "x")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
	})

	t.Run("get from indexer", func(t *testing.T) {
		v, err := a.Get(attrs{values: map[string]any{"k": 2}}, "k")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any](2), v)
	})

	t.Run("set never writes", func(t *testing.T) {
		m := map[string]any{"k": 1}
		_, ok, err := a.Set(m, "k", 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, m["k"])
	})

	t.Run("unsupported item", func(t *testing.T) {
		_, err := a.Get(42, "k")
		assert.ErrorIs(t, err, ErrUnsupportedItemShape)
		_, _, err = a.Set(42, "k", 1)
		assert.ErrorIs(t, err, ErrUnsupportedItemShape)
	})
}

// =============================================================================
// FieldAccessor
// =============================================================================

func TestFieldAccessor(t *testing.T) {
	a := NewFieldAccessor()

	t.Run("supports", func(t *testing.T) {
		assert.True(t, a.Supports(fieldItem{}))
		assert.True(t, a.Supports(&fieldItem{}))
		assert.False(t, a.Supports((*fieldItem)(nil)))
		assert.False(t, a.Supports(map[string]any{}))
		assert.False(t, a.Supports(1))
	})

	t.Run("get by json tag, field name and capitalized name", func(t *testing.T) {
		item := &fieldItem{K: 3, Name: "n"}

		v, err := a.Get(item, "k")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any](3), v)

		v, err = a.Get(item, "Name")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any]("n"), v)

		v, err = a.Get(item, "name")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any]("n"), v)
	})

	t.Run("unexported and unknown fields are absent", func(t *testing.T) {
		v, err := a.Get(fieldItem{hidden: "x"}, "hidden")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())

		v, err = a.Get(fieldItem{}, "missing")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
	})

	t.Run("set through pointer writes in place", func(t *testing.T) {
		item := &fieldItem{K: 1}
		newItem, ok, err := a.Set(item, "k", 5)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, item, newItem)
		assert.Equal(t, 5, item.K)
	})

	t.Run("set on value returns a modified copy", func(t *testing.T) {
		item := fieldItem{K: 1}
		newItem, ok, err := a.Set(item, "k", 5)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, item.K)
		assert.Equal(t, 5, newItem.(fieldItem).K)
	})

	t.Run("set converts numbers", func(t *testing.T) {
		item := &fieldItem{}
		_, ok, err := a.Set(item, "Score", 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2.0, item.Score)
	})

	t.Run("set nil on slice field", func(t *testing.T) {
		item := &fieldItem{Tags: []string{"a"}}
		_, ok, err := a.Set(item, "Tags", nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Nil(t, item.Tags)
	})

	t.Run("set fails for unknown field or wrong type", func(t *testing.T) {
		item := &fieldItem{}
		_, ok, err := a.Set(item, "missing", 1)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = a.Set(item, "Name", 1)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = a.Set(item, "k", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// =============================================================================
// GetterSetterAccessor
// =============================================================================

func TestGetterSetterAccessor(t *testing.T) {
	a := NewGetterSetterAccessor()

	t.Run("supports", func(t *testing.T) {
		assert.True(t, a.Supports(&beanItem{}))
		assert.True(t, a.Supports(beanItem{}))
		assert.True(t, a.Supports(labelled{}))
		assert.False(t, a.Supports(fieldItem{}))
		assert.False(t, a.Supports((*beanItem)(nil)))
		assert.False(t, a.Supports(nil))
	})

	t.Run("get via Get and Is prefixes", func(t *testing.T) {
		item := &beanItem{k: 7, active: true}

		v, err := a.Get(item, "k")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any](7), v)

		v, err = a.Get(item, "active")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any](true), v)
	})

	t.Run("bare method name is not a getter", func(t *testing.T) {
		v, err := a.Get(labelled{title: "t"}, "title")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
	})

	t.Run("reading never calls other methods", func(t *testing.T) {
		c := &conn{}
		v, err := Default().GetPropertyValue(c, "close")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
		assert.False(t, c.closed)
	})

	t.Run("methods with arguments are not getters", func(t *testing.T) {
		v, err := a.Get(&beanItem{}, "describe")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
	})

	t.Run("set via setter on pointer", func(t *testing.T) {
		item := &beanItem{}
		newItem, ok, err := a.Set(item, "k", 9)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, item, newItem)
		assert.Equal(t, 9, item.k)
	})

	t.Run("set via setter on value returns copy", func(t *testing.T) {
		item := beanItem{k: 1}
		newItem, ok, err := a.Set(item, "k", 9)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, item.k)
		assert.Equal(t, 9, newItem.(beanItem).k)
	})

	t.Run("set without setter fails", func(t *testing.T) {
		_, ok, err := a.Set(&beanItem{}, "active", false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unsupported item", func(t *testing.T) {
		_, err := a.Get(nil, "k")
		assert.ErrorIs(t, err, ErrUnsupportedItemShape)
	})
}

// =============================================================================
// PropertyAccess chain
// =============================================================================

type stubAccessor struct {
	supports bool
	value    option.Option[any]
	writes   bool
	calls    *[]string
	name     string
}

func (s stubAccessor) Supports(any) bool { return s.supports }

func (s stubAccessor) Get(any, string) (option.Option[any], error) {
	*s.calls = append(*s.calls, s.name+".get")
	return s.value, nil
}

func (s stubAccessor) Set(item any, _ string, _ any) (any, bool, error) {
	*s.calls = append(*s.calls, s.name+".set")
	return item, s.writes, nil
}

func TestPropertyAccessGet(t *testing.T) {
	t.Run("falls through supporting accessors without a value", func(t *testing.T) {
		var calls []string
		pa := New(
			stubAccessor{name: "a", supports: false, value: option.Some[any]("a"), calls: &calls},
			stubAccessor{name: "b", supports: true, value: option.Nothing[any](), calls: &calls},
			stubAccessor{name: "c", supports: true, value: option.Some[any](nil), calls: &calls},
			stubAccessor{name: "d", supports: true, value: option.Some[any]("d"), calls: &calls},
			stubAccessor{name: "e", supports: true, value: option.Some[any]("e"), calls: &calls},
		)
		v, err := pa.GetPropertyValue("item", "p")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any]("d"), v)
		assert.Equal(t, []string{"b.get", "c.get", "d.get"}, calls)
	})

	t.Run("absent when nothing yields a value", func(t *testing.T) {
		v, err := Default().GetPropertyValue(map[string]any{}, "p")
		require.NoError(t, err)
		assert.True(t, v.IsNothing())
	})

	t.Run("field and getter coexist on one struct", func(t *testing.T) {
		v, err := Default().GetPropertyValue(labelled{}, "label")
		require.NoError(t, err)
		assert.Equal(t, option.Some[any]("computed"), v)
	})

	t.Run("default chain reads every shape", func(t *testing.T) {
		pa := Default()
		for _, item := range []any{
			map[string]any{"k": 1},
			attrs{values: map[string]any{"k": 1}},
			fieldItem{K: 1},
			&beanItem{k: 1},
		} {
			v, err := pa.GetPropertyValue(item, "k")
			require.NoError(t, err)
			assert.Equal(t, option.Some[any](1), v, "%T", item)
		}
	})
}

func TestPropertyAccessSet(t *testing.T) {
	t.Run("stops at first successful write", func(t *testing.T) {
		var calls []string
		pa := New(
			stubAccessor{name: "a", supports: true, writes: false, calls: &calls},
			stubAccessor{name: "b", supports: false, writes: true, calls: &calls},
			stubAccessor{name: "c", supports: true, writes: true, calls: &calls},
			stubAccessor{name: "d", supports: true, writes: true, calls: &calls},
		)
		_, err := pa.SetPropertyValue("item", "p", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.set", "c.set"}, calls)
	})

	t.Run("fails when no accessor writes", func(t *testing.T) {
		_, err := Default().SetPropertyValue(map[string]any{"k": 1}, "k", 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPropertyWriteFailed)

		var writeErr *PropertyWriteFailedError
		require.True(t, errors.As(err, &writeErr))
		assert.Equal(t, "k", writeErr.Property)
		assert.Equal(t, "propertyaccess: property \"k\" could not be set", err.Error())
	})

	t.Run("round trip through the default chain", func(t *testing.T) {
		pa := Default()
		for _, item := range []any{&fieldItem{}, fieldItem{}, &beanItem{}, beanItem{}} {
			newItem, err := pa.SetPropertyValue(item, "k", 42)
			require.NoError(t, err)
			v, err := pa.GetPropertyValue(newItem, "k")
			require.NoError(t, err)
			assert.Equal(t, option.Some[any](42), v, "%T", item)
		}
	})

	t.Run("custom accessors take precedence", func(t *testing.T) {
		var calls []string
		pa := WithCustom(stubAccessor{name: "custom", supports: true, writes: true, calls: &calls})
		item := &fieldItem{K: 1}
		_, err := pa.SetPropertyValue(item, "k", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"custom.set"}, calls)
		assert.Equal(t, 1, item.K)
	})
}
