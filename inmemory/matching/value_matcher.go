package matching

// Matcher evaluates custom strategies in order and falls back to the base
// policy when none of them reports a match.
type Matcher struct {
	strategies []MatchingStrategy
}

// NewValueMatcher builds a matcher whose base policy is TypeSensitiveEquals
// when useTypeSensitiveOperator is set and loose Equals otherwise.
func NewValueMatcher(useTypeSensitiveOperator bool, custom ...MatchingStrategy) *Matcher {
	strategies := make([]MatchingStrategy, 0, len(custom)+1)
	strategies = append(strategies, custom...)
	if useTypeSensitiveOperator {
		strategies = append(strategies, TypeSensitiveEquals{})
	} else {
		strategies = append(strategies, Equals{})
	}
	return &Matcher{strategies: strategies}
}

func (m *Matcher) Match(value1, value2 any) bool {
	for _, strategy := range m.strategies {
		if strategy.Match(value1, value2) {
			return true
		}
	}
	return false
}
