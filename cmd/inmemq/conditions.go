package main

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/comparison"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/query"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/repository"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/values"
)

var errBadExpression = errors.New("inmemq: malformed expression")

// parseScalar decodes a flag value as a YAML scalar, so 1 is an int, true
// a bool and null a nil. Anything that fails to decode stays a string.
func parseScalar(raw string) any {
	if raw == "" {
		return ""
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func parseCriteria(exprs []string) (query.Criteria, error) {
	var criteria query.Criteria
	for _, expr := range exprs {
		property, condition, err := parseCondition(expr)
		if err != nil {
			return nil, err
		}
		criteria = criteria.And(property, condition)
	}
	return criteria, nil
}

func parseCondition(expr string) (string, any, error) {
	i := strings.IndexAny(expr, "!=<>")
	if i <= 0 {
		return "", nil, errors.Wrapf(errBadExpression, "%q: expected <property><op><value>", expr)
	}
	property := strings.TrimSpace(expr[:i])
	rest := expr[i:]
	op := rest[:1]
	if len(rest) > 1 && rest[1] == '=' {
		op = rest[:2]
	}
	value := parseScalar(strings.TrimSpace(rest[len(op):]))

	switch op {
	case "=", "==":
		if value == nil {
			return property, comparison.IsNull(), nil
		}
		return property, value, nil
	case "!=":
		if value == nil {
			return property, comparison.NotNull(), nil
		}
		return property, comparison.Not(comparison.Equals(value)), nil
	}

	n, ok := values.AsNumber(value)
	if !ok {
		return "", nil, errors.Wrapf(errBadExpression, "%q: %s needs a number", expr, op)
	}
	switch op {
	case ">":
		return property, comparison.GreaterThan(n.Float()), nil
	case ">=":
		return property, comparison.GreaterThanOrEqual(n.Float()), nil
	case "<":
		return property, comparison.LessThan(n.Float()), nil
	case "<=":
		return property, comparison.LessThanOrEqual(n.Float()), nil
	}
	return "", nil, errors.Wrapf(errBadExpression, "%q: unknown operator %q", expr, op)
}

func parseUpdates(exprs []string) (query.Updates, error) {
	var updates query.Updates
	for _, expr := range exprs {
		property, raw, found := strings.Cut(expr, "=")
		property = strings.TrimSpace(property)
		if !found || property == "" {
			return nil, errors.Wrapf(errBadExpression, "%q: expected <property>=<value>", expr)
		}
		updates = updates.Set(property, parseScalar(strings.TrimSpace(raw)))
	}
	return updates, nil
}

// parseSort accepts "property" or "property:asc|desc".
func parseSort(expr string) (repository.SortField, error) {
	property, order, _ := strings.Cut(expr, ":")
	field := repository.SortField{Property: strings.TrimSpace(property), Order: repository.SortAsc}
	if field.Property == "" {
		return field, errors.Wrapf(errBadExpression, "%q: empty sort property", expr)
	}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		field.Order = repository.SortDesc
	default:
		return field, errors.Wrapf(errBadExpression, "%q: sort order must be asc or desc", expr)
	}
	return field, nil
}
