package query

import (
	"fmt"
	"strings"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/comparison"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/matching"
)

// Criterion pairs a property with a Condition. A Condition is either a
// comparison.Predicate or a literal matched with the ValueMatcher.
type Criterion struct {
	Property  string
	Condition any
}

// Criteria are evaluated in order and combined with AND.
type Criteria []Criterion

func Where(property string, condition any) Criteria {
	return Criteria{{Property: property, Condition: condition}}
}

// And returns a new Criteria with the extra criterion appended.
func (c Criteria) And(property string, condition any) Criteria {
	result := make(Criteria, len(c), len(c)+1)
	copy(result, c)
	return append(result, Criterion{Property: property, Condition: condition})
}

func (c Criteria) String() string {
	parts := make([]string, 0, len(c))
	for _, criterion := range c {
		if _, ok := AsPredicate(criterion.Condition); ok {
			parts = append(parts, criterion.Property+" satisfies predicate")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = %#v", criterion.Property, criterion.Condition))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// AsPredicate reports whether a condition is a predicate rather than a literal.
func AsPredicate(condition any) (comparison.Predicate, bool) {
	switch p := condition.(type) {
	case comparison.Predicate:
		return p, p != nil
	case func(any, matching.ValueMatcher) bool:
		return p, p != nil
	}
	return nil, false
}

type Assignment struct {
	Property string
	Value    any
}

// Updates are applied in order.
type Updates []Assignment

func Set(property string, value any) Updates {
	return Updates{{Property: property, Value: value}}
}

func (u Updates) Set(property string, value any) Updates {
	result := make(Updates, len(u), len(u)+1)
	copy(result, u)
	return append(result, Assignment{Property: property, Value: value})
}
