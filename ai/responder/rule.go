// Package responder picks canned chat replies with a fixed, ordered rule table.
package responder

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultPriority is the priority of a rule that does not set one.
	DefaultPriority = 1
	// FallbackPriority is the priority of the catch-all rule.
	FallbackPriority = 0
)

// Trigger is a compiled text predicate.
type Trigger interface {
	Matches(input string) bool
	String() string
}

type patternTrigger struct {
	re *regexp.Regexp
}

func (t patternTrigger) Matches(input string) bool { return t.re.MatchString(input) }
func (t patternTrigger) String() string            { return t.re.String() }

type anyInput struct{}

func (anyInput) Matches(string) bool { return true }
func (anyInput) String() string      { return "*" }

// AnyInput returns a trigger that matches every input, including the empty string.
func AnyInput() Trigger { return anyInput{} }

// Pattern compiles a case-insensitive regular expression trigger.
func Pattern(expr string) (Trigger, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("empty pattern")
	}
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", expr)
	}
	return patternTrigger{re: re}, nil
}

// Rule maps a set of triggers to candidate replies.
// Rules are immutable once they are part of a Table.
type Rule struct {
	Name     string
	Triggers []Trigger
	Replies  []string
	Priority int
}

// Matches reports whether any trigger of the rule accepts input.
func (r *Rule) Matches(input string) bool {
	for _, t := range r.Triggers {
		if t.Matches(input) {
			return true
		}
	}
	return false
}

// RuleSpec is the uncompiled form of a rule, as written in code or YAML.
type RuleSpec struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Replies  []string `yaml:"replies"`
	// Priority defaults to DefaultPriority when nil.
	Priority *int `yaml:"priority,omitempty"`
}

// Compile validates the rule definition and compiles its patterns.
func (s RuleSpec) Compile() (*Rule, error) {
	if s.Name == "" {
		return nil, errors.New("rule name is required")
	}
	if len(s.Replies) == 0 {
		return nil, errors.Errorf("rule %q has no replies", s.Name)
	}
	if len(s.Patterns) == 0 {
		return nil, errors.Errorf("rule %q has no patterns", s.Name)
	}
	for _, reply := range s.Replies {
		if strings.TrimSpace(reply) == "" {
			return nil, errors.Errorf("rule %q has an empty reply", s.Name)
		}
	}

	rule := &Rule{
		Name:     s.Name,
		Replies:  append([]string(nil), s.Replies...),
		Priority: DefaultPriority,
	}
	if s.Priority != nil {
		rule.Priority = *s.Priority
	}
	for _, p := range s.Patterns {
		t, err := Pattern(p)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q", s.Name)
		}
		rule.Triggers = append(rule.Triggers, t)
	}
	return rule, nil
}
