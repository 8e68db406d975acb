package matching

// ValueMatcher decides whether two raw values are equal.
type ValueMatcher interface {
	Match(value1, value2 any) bool
}

// MatchingStrategy is one equality rule. ValueMatcher consults a list of them.
type MatchingStrategy interface {
	Match(value1, value2 any) bool
}
