package responder

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ruleByName(t *testing.T, table *Table, name string) *Rule {
	t.Helper()
	for _, r := range table.Rules() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %q not found", name)
	return nil
}

func TestDefaultTable_Shape(t *testing.T) {
	table := DefaultTable()
	rules := table.Rules()

	require.Len(t, rules, len(builtinRules)+1)
	assert.Equal(t, FallbackName, rules[len(rules)-1].Name)
	assert.Equal(t, FallbackPriority, table.Fallback().Priority)
	for _, r := range rules {
		assert.NotEmpty(t, r.Replies, "rule %s", r.Name)
		if r.Name != FallbackName {
			assert.Equal(t, DefaultPriority, r.Priority, "rule %s", r.Name)
		}
	}
}

func TestSelect_NonEmptyReplies(t *testing.T) {
	table := DefaultTable()
	inputs := []string{"hi", "what's up", "bye!", "thank you", "projects?", "email me", "tech stack", "college", "help", "zzz", "   ", "日程"}
	for _, in := range inputs {
		rule := table.Select(in)
		require.NotNil(t, rule, "input %q", in)
		assert.NotEmpty(t, rule.Replies, "input %q", in)
	}
}

func TestSelect_Fallback(t *testing.T) {
	table := DefaultTable()
	for _, in := range []string{"", "   ", "\t\n", "asdkjhasd123", "zzz", "42"} {
		assert.Same(t, table.Fallback(), table.Select(in), "input %q", in)
	}
}

func TestSelect_Greeting(t *testing.T) {
	table := DefaultTable()
	for _, in := range []string{"hi", "Hi", "HELLO", "hello", "hey", "Hey there", "greetings", "GREETINGS!"} {
		rule := table.Select(in)
		assert.Equal(t, "greeting", rule.Name, "input %q", in)
	}
}

func TestSelect_KeywordRules(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		input string
		want  string
	}{
		{"Can I see your projects?", "portfolio"},
		{"How are you", "wellbeing"},
		{"how's it going", "wellbeing"},
		{"goodbye", "farewell"},
		{"Thanks a lot", "thanks"},
		{"I appreciate it", "thanks"},
		{"How can I contact you?", "contact"},
		{"What programming language do you use?", "skills"},
		{"Where did you study?", "education"},
		{"I need support", "help"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Select(tt.input).Name)
		})
	}
}

func TestMatch_StableOrderOnTies(t *testing.T) {
	table := DefaultTable()

	matched := table.Match("hello, can I see your projects?")
	names := make([]string, len(matched))
	for i, r := range matched {
		names[i] = r.Name
	}

	assert.Equal(t, []string{"greeting", "portfolio", FallbackName}, names)
}

func TestMatch_PriorityWins(t *testing.T) {
	high := 5
	table, err := NewTable([]RuleSpec{
		{Name: "low", Patterns: []string{"apple"}, Replies: []string{"low"}},
		{Name: "high", Patterns: []string{"apple pie"}, Replies: []string{"high"}, Priority: &high},
	}, []string{"fallback"})
	require.NoError(t, err)

	assert.Equal(t, "high", table.Select("I like apple pie").Name)
	assert.Equal(t, "low", table.Select("an apple").Name)
	assert.Equal(t, FallbackName, table.Select("pear").Name)
}

func TestMatch_ExtremePriorities(t *testing.T) {
	lowest, highest := math.MinInt, math.MaxInt
	table, err := NewTable([]RuleSpec{
		{Name: "bottom", Patterns: []string{"edge"}, Replies: []string{"bottom"}, Priority: &lowest},
		{Name: "top", Patterns: []string{"edge"}, Replies: []string{"top"}, Priority: &highest},
	}, []string{"fallback"})
	require.NoError(t, err)

	matched := table.Match("edge case")
	names := make([]string, len(matched))
	for i, r := range matched {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"top", FallbackName, "bottom"}, names)
}

func TestSelect_FarewellNeedsWholeWords(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		input string
		want  string
	}{
		{"Can I see your projects?", "portfolio"},
		{"see you later", "farewell"},
		{"Bye!", "farewell"},
		{"ok, goodbye", "farewell"},
		{"Show me a hobby project", "portfolio"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Select(tt.input).Name)
		})
	}
}

func TestMatch_NegativePriorityLosesToFallback(t *testing.T) {
	neg := -1
	table, err := NewTable([]RuleSpec{
		{Name: "shy", Patterns: []string{"shy"}, Replies: []string{"..."}, Priority: &neg},
	}, []string{"fallback"})
	require.NoError(t, err)

	assert.Equal(t, FallbackName, table.Select("shy").Name)
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name     string
		specs    []RuleSpec
		fallback []string
	}{
		{"no fallback replies", nil, nil},
		{"empty replies", []RuleSpec{{Name: "a", Patterns: []string{"a"}}}, []string{"x"}},
		{"blank reply", []RuleSpec{{Name: "a", Patterns: []string{"a"}, Replies: []string{" "}}}, []string{"x"}},
		{"no patterns", []RuleSpec{{Name: "a", Replies: []string{"r"}}}, []string{"x"}},
		{"bad regex", []RuleSpec{{Name: "a", Patterns: []string{"(unclosed"}, Replies: []string{"r"}}}, []string{"x"}},
		{"missing name", []RuleSpec{{Patterns: []string{"a"}, Replies: []string{"r"}}}, []string{"x"}},
		{"duplicate", []RuleSpec{
			{Name: "a", Patterns: []string{"a"}, Replies: []string{"r"}},
			{Name: "a", Patterns: []string{"b"}, Replies: []string{"r"}},
		}, []string{"x"}},
		{"reserved name", []RuleSpec{{Name: FallbackName, Patterns: []string{"a"}, Replies: []string{"r"}}}, []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.specs, tt.fallback)
			assert.Error(t, err)
		})
	}
}

func TestMustNewTable_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewTable([]RuleSpec{{Name: "a", Patterns: []string{"["}, Replies: []string{"r"}}}, []string{"x"})
	})
}

func TestPick_Uniform(t *testing.T) {
	picker := NewSeededPicker(42)
	rule := ruleByName(t, DefaultTable(), "greeting")

	counts := make(map[string]int)
	for range 1000 {
		counts[picker.Pick(rule)]++
	}

	require.Len(t, counts, len(rule.Replies))
	for _, reply := range rule.Replies {
		assert.Greater(t, counts[reply], 150, "reply %q drawn too rarely", reply)
	}
}

func TestPick_DefaultSourceVaries(t *testing.T) {
	picker := NewPicker()
	rule := DefaultTable().Fallback()

	seen := make(map[string]bool)
	for range 1000 {
		seen[picker.Pick(rule)] = true
	}
	assert.Len(t, seen, len(rule.Replies))
}

func TestPick_EmptyRule(t *testing.T) {
	assert.Equal(t, "", NewPicker().Pick(&Rule{Name: "empty"}))
}

type countingRecorder struct {
	mu    sync.Mutex
	rules []string
}

func (c *countingRecorder) RecordRuleMatch(rule string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rule)
}

func TestResponder_Reply(t *testing.T) {
	rec := &countingRecorder{}
	r := New(nil, WithPicker(NewSeededPicker(7)), WithRecorder(rec))

	reply := r.Reply("Can I see your projects?")
	assert.Equal(t, "portfolio", reply.Rule)
	assert.Contains(t, ruleByName(t, r.Table(), "portfolio").Replies, reply.Text)

	reply = r.Reply("asdkjhasd123")
	assert.Equal(t, FallbackName, reply.Rule)
	assert.True(t, slices.Contains(r.Table().Fallback().Replies, reply.Text))

	assert.Equal(t, []string{"portfolio", FallbackName}, rec.rules)
}

func TestResponder_Concurrent(t *testing.T) {
	r := New(nil, WithPicker(NewSeededPicker(1)))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range 100 {
				reply := r.Reply("hello")
				if reply.Rule != "greeting" || reply.Text == "" {
					t.Errorf("goroutine %d: unexpected reply %+v", i, reply)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestLoadTable(t *testing.T) {
	t.Run("empty path uses built-in rules", func(t *testing.T) {
		table, err := LoadTable("")
		require.NoError(t, err)
		assert.Same(t, DefaultTable(), table)
	})

	t.Run("custom rules win ties", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := `rules:
  - name: hiring
    patterns: ["hire|hiring"]
    replies: ["I'm open to new opportunities."]
  - name: project-hello
    patterns: ["hello"]
    replies: ["Custom hello."]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		table, err := LoadTable(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultTable().Len()+2, table.Len())
		assert.Equal(t, "hiring", table.Select("Are you hiring?").Name)
		assert.Equal(t, "project-hello", table.Select("hello").Name)
		assert.Equal(t, FallbackName, table.Rules()[table.Len()-1].Name)
	})

	t.Run("duplicate of a built-in name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := "rules:\n  - name: greeting\n    patterns: [yo]\n    replies: [Yo!]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := LoadTable(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseRules([]byte("rules: [unterminated"))
		assert.Error(t, err)
	})
}
