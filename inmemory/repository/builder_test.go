package repository

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/config"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/matching"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/propertyaccess"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/query"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/storage"
)

type token string

// tokenAccessor exposes the length of a token as "len".
type tokenAccessor struct{}

func (tokenAccessor) Supports(item any) bool {
	_, ok := item.(token)
	return ok
}

func (tokenAccessor) Get(item any, name string) (option.Option[any], error) {
	if name != "len" {
		return option.Nothing[any](), nil
	}
	return option.Some[any](len(item.(token))), nil
}

func (tokenAccessor) Set(item any, _ string, _ any) (any, bool, error) {
	return item, false, nil
}

func caseInsensitive() matching.MatchingStrategy {
	return matching.Callback(func(a, b any) bool {
		as, ok1 := a.(string)
		bs, ok2 := b.(string)
		return ok1 && ok2 && strings.EqualFold(as, bs)
	})
}

func TestBuildDefaults(t *testing.T) {
	r, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.IsType(t, &storage.ArrayStorage{}, r.storage)
	assert.IsType(t, &query.PropertyOperator{}, r.operator)
	assert.False(t, r.strictGet)
	assert.False(t, r.strictUpdate)
	assert.False(t, r.strictRemove)
	assert.Equal(t, NoLimit, r.defaultLimit)

	operator := r.operator.(*query.PropertyOperator)
	assert.False(t, operator.Matcher().Match(1, "1"), "type-sensitive by default")
}

func TestBuildStrictOptions(t *testing.T) {
	r, err := NewBuilder().StrictGet().StrictUpdate().StrictRemove().Build()
	require.NoError(t, err)
	assert.True(t, r.strictGet)
	assert.True(t, r.strictUpdate)
	assert.True(t, r.strictRemove)
}

func TestBuildCustomCollaborators(t *testing.T) {
	t.Run("data storage", func(t *testing.T) {
		s := storage.NewArrayStorage()
		r, err := NewBuilder().SetDataStorage(s).Build()
		require.NoError(t, err)
		r.AddItem("x")
		assert.Equal(t, []any{"x"}, s.GetAllItems())
	})

	t.Run("property operator", func(t *testing.T) {
		operator := query.NewPropertyOperator(matching.NewValueMatcher(false), propertyaccess.Default())
		r, err := NewBuilder().SetPropertyOperator(operator).Build()
		require.NoError(t, err)
		assert.Same(t, operator, r.operator)
	})

	t.Run("value matcher and property access", func(t *testing.T) {
		matcher := matching.NewValueMatcher(false)
		access := propertyaccess.Default()
		r, err := NewBuilder().SetValueMatcher(matcher).SetPropertyAccess(access).Build()
		require.NoError(t, err)
		assert.Same(t, matcher, r.operator.(*query.PropertyOperator).Matcher())
	})
}

func TestBuildMatchingStrategy(t *testing.T) {
	r, err := NewBuilder().AddMatchingStrategy(caseInsensitive()).Build()
	require.NoError(t, err)
	a := &rec{Name: "Alice"}
	r.AddItem(a)

	found, err := r.GetAllItemsByCriteria(query.Where("name", "ALICE"))
	require.NoError(t, err)
	assert.Equal(t, []any{a}, found)
}

func TestBuildUseStrictTypeComparison(t *testing.T) {
	strict, err := NewBuilder().Build()
	require.NoError(t, err)
	loose, err := NewBuilder().UseStrictTypeComparison(false).Build()
	require.NoError(t, err)

	for _, r := range []*DataRepository{strict, loose} {
		r.AddItem(&rec{K: 1})
	}

	found, err := strict.GetAllItemsByCriteria(query.Where("k", "1"))
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = loose.GetAllItemsByCriteria(query.Where("k", "1"))
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestBuildPropertyAccessor(t *testing.T) {
	r, err := NewBuilder().AddPropertyAccessor(tokenAccessor{}).Build()
	require.NoError(t, err)
	r.AddItem(token("abc"))
	r.AddItem(token("abcd"))
	short := &rec{Name: "x", K: 3}
	r.AddItem(short)

	found, err := r.GetAllItemsByCriteria(query.Where("len", 3))
	require.NoError(t, err)
	assert.Equal(t, []any{token("abc")}, found, "default accessors still serve other shapes")

	found, err = r.GetAllItemsByCriteria(query.Where("k", 3))
	require.NoError(t, err)
	assert.Equal(t, []any{short}, found)
}

func TestBuildValidation(t *testing.T) {
	_, err := NewBuilder().
		AddMatchingStrategy(nil).
		AddPropertyAccessor(nil).
		SetValueMatcher(matching.NewValueMatcher(true)).
		SetPropertyOperator(query.NewPropertyOperator(matching.NewValueMatcher(true), propertyaccess.Default())).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBuilder)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
}

func TestBuildFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
repository:
  strict_get: true
  strict_remove: true
matching:
  strict_types: false
query:
  default_limit: 2
`))
	require.NoError(t, err)

	r, err := NewBuilder().FromConfig(cfg).Build()
	require.NoError(t, err)
	assert.True(t, r.strictGet)
	assert.False(t, r.strictUpdate)
	assert.True(t, r.strictRemove)

	for i := 0; i < 3; i++ {
		r.AddItem(&rec{K: 1})
	}
	found, err := r.Query().Field("k").EqualTo("1").GetAll()
	require.NoError(t, err)
	assert.Len(t, found, 2)

	t.Run("explicit zero default limit", func(t *testing.T) {
		cfg, err := config.Parse([]byte("query:\n  default_limit: 0\n"))
		require.NoError(t, err)
		r, err := NewBuilder().FromConfig(cfg).Build()
		require.NoError(t, err)
		r.AddItem(&rec{K: 1})

		found, err := r.Query().GetAll()
		require.NoError(t, err)
		assert.Empty(t, found)

		found, err = r.Query().Limit(1).GetAll()
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}
