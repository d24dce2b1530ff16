package responder

// MatchRecorder observes which rule answered a message.
type MatchRecorder interface {
	RecordRuleMatch(rule string)
}

// Reply is a chosen response and the rule it came from.
type Reply struct {
	Rule string
	Text string
}

// Responder answers free text with the table's best rule and a random reply.
type Responder struct {
	table    *Table
	picker   *Picker
	recorder MatchRecorder
}

// Option configures a Responder.
type Option func(*Responder)

// WithPicker overrides the reply picker.
func WithPicker(p *Picker) Option {
	return func(r *Responder) { r.picker = p }
}

// WithRecorder sets a recorder notified on every reply.
func WithRecorder(rec MatchRecorder) Option {
	return func(r *Responder) { r.recorder = rec }
}

// New creates a Responder over table, or the built-in table when nil.
func New(table *Table, opts ...Option) *Responder {
	if table == nil {
		table = DefaultTable()
	}
	r := &Responder{table: table, picker: NewPicker()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the rule table in use.
func (r *Responder) Table() *Table {
	return r.table
}

// Reply selects a rule for input and picks one of its replies.
func (r *Responder) Reply(input string) Reply {
	rule := r.table.Select(input)
	if r.recorder != nil {
		r.recorder.RecordRuleMatch(rule.Name)
	}
	return Reply{Rule: rule.Name, Text: r.picker.Pick(rule)}
}
