package responder

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"
)

// FallbackName is the name of the catch-all rule.
const FallbackName = "fallback"

// Table is an ordered, read-only rule set with a designated fallback rule.
// It is safe for concurrent use.
type Table struct {
	rules    []*Rule
	fallback *Rule
}

// NewTable compiles specs in order and appends a fallback rule that matches
// any input with FallbackPriority.
func NewTable(specs []RuleSpec, fallbackReplies []string) (*Table, error) {
	if len(fallbackReplies) == 0 {
		return nil, errors.New("fallback rule has no replies")
	}

	seen := make(map[string]bool, len(specs)+1)
	rules := make([]*Rule, 0, len(specs)+1)
	for _, spec := range specs {
		if seen[spec.Name] {
			return nil, errors.Errorf("duplicate rule name %q", spec.Name)
		}
		rule, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		seen[spec.Name] = true
		rules = append(rules, rule)
	}
	if seen[FallbackName] {
		return nil, errors.Errorf("rule name %q is reserved", FallbackName)
	}

	fallback := &Rule{
		Name:     FallbackName,
		Triggers: []Trigger{AnyInput()},
		Replies:  append([]string(nil), fallbackReplies...),
		Priority: FallbackPriority,
	}
	rules = append(rules, fallback)

	return &Table{rules: rules, fallback: fallback}, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(specs []RuleSpec, fallbackReplies []string) *Table {
	t, err := NewTable(specs, fallbackReplies)
	if err != nil {
		panic(err)
	}
	return t
}

// Extend returns a new table with custom rules placed ahead of the existing
// ones, so they win priority ties. The fallback rule is kept last.
func (t *Table) Extend(custom []RuleSpec) (*Table, error) {
	next := &Table{fallback: t.fallback}
	compiled := make([]*Rule, 0, len(custom)+len(t.rules))
	names := make(map[string]bool, len(t.rules))
	for _, r := range t.rules {
		names[r.Name] = true
	}
	for _, spec := range custom {
		if names[spec.Name] {
			return nil, errors.Errorf("duplicate rule name %q", spec.Name)
		}
		rule, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		names[spec.Name] = true
		compiled = append(compiled, rule)
	}
	next.rules = append(compiled, t.rules...)
	return next, nil
}

// Rules returns the rules in table order, fallback last.
func (t *Table) Rules() []*Rule {
	return slices.Clone(t.rules)
}

// Fallback returns the catch-all rule.
func (t *Table) Fallback() *Rule {
	return t.fallback
}

// Len returns the number of rules including the fallback.
func (t *Table) Len() int {
	return len(t.rules)
}

// Match returns every rule with a trigger satisfied by input, ordered by
// descending priority. Rules of equal priority keep table order.
func (t *Table) Match(input string) []*Rule {
	var matched []*Rule
	for _, r := range t.rules {
		if r.Matches(input) {
			matched = append(matched, r)
		}
	}
	slices.SortStableFunc(matched, func(a, b *Rule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return matched
}

// Select returns the highest-priority matching rule, or the fallback rule
// when nothing else matches. It never returns nil.
func (t *Table) Select(input string) *Rule {
	matched := t.Match(input)
	if len(matched) == 0 {
		return t.fallback
	}
	return matched[0]
}
