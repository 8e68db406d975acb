package query

import (
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/matching"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
)

// PropertyOperator combines property access with value matching.
type PropertyOperator struct {
	matcher matching.ValueMatcher
	access  PropertyAccess
}

func NewPropertyOperator(matcher matching.ValueMatcher, access PropertyAccess) *PropertyOperator {
	return &PropertyOperator{matcher: matcher, access: access}
}

func (o *PropertyOperator) Matcher() matching.ValueMatcher {
	return o.matcher
}

func (o *PropertyOperator) GetValue(item any, name string) (option.Option[any], error) {
	return o.access.GetPropertyValue(item, name)
}

func (o *PropertyOperator) SetValue(item any, name string, value any) (any, error) {
	return o.access.SetPropertyValue(item, name, value)
}

// MatchingItems lazily yields the items satisfying every criterion, in input order.
func (o *PropertyOperator) MatchingItems(items []any, criteria Criteria) *Matches {
	return NewMatches(items, func(item any) (bool, error) {
		return o.matchCriteria(item, criteria)
	})
}

func (o *PropertyOperator) matchCriteria(item any, criteria Criteria) (bool, error) {
	for _, criterion := range criteria {
		ok, err := o.matchProperty(item, criterion)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (o *PropertyOperator) matchProperty(item any, criterion Criterion) (bool, error) {
	value, err := o.access.GetPropertyValue(item, criterion.Property)
	if err != nil {
		return false, err
	}
	propertyValue := value.UnwrapOrZero()
	if predicate, ok := AsPredicate(criterion.Condition); ok {
		return predicate(propertyValue, o.matcher), nil
	}
	return o.matcher.Match(propertyValue, criterion.Condition), nil
}
