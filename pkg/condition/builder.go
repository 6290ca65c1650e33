package condition

import (
	"fmt"
	"strings"
)

const (
	opAnd = "&&"
	opOr  = "||"
)

type part struct {
	// expr is set for topic leaves; group for parenthesized sub-builders.
	expr  string
	group *Builder
	op    string
}

// Builder accumulates a topic condition in call order.
// The zero value is ready to use; New is provided for fluent chains.
type Builder struct {
	parts   []part
	pending string
}

// New creates an empty condition builder.
func New() *Builder {
	return &Builder{}
}

// Topic appends a "'<name>' in topics" leaf, consuming any pending operator.
func (b *Builder) Topic(name string) *Builder {
	b.parts = append(b.parts, part{
		expr: fmt.Sprintf("'%s' in topics", name),
		op:   b.pending,
	})
	b.pending = ""
	return b
}

// And joins the next part with a logical AND.
func (b *Builder) And() *Builder {
	b.pending = opAnd
	return b
}

// Or joins the next part with a logical OR.
func (b *Builder) Or() *Builder {
	b.pending = opOr
	return b
}

// Group appends a parenthesized sub-condition built by fn.
func (b *Builder) Group(fn func(*Builder)) *Builder {
	g := New()
	fn(g)
	b.parts = append(b.parts, part{
		group: g,
		op:    b.pending,
	})
	b.pending = ""
	return b
}

// Expression validates the builder and renders the condition string.
func (b *Builder) Expression() (string, error) {
	if n := b.countTopics(); n < 2 {
		return "", fmt.Errorf("%w, %d given", ErrInvalidCondition, n)
	}
	if err := b.validate(); err != nil {
		return "", err
	}
	return b.render(), nil
}

// countTopics counts topic leaves transitively, including nested groups.
func (b *Builder) countTopics() int {
	n := 0
	for _, p := range b.parts {
		if p.group != nil {
			n += p.group.countTopics()
			continue
		}
		n++
	}
	return n
}

// validate checks that every part after the first carries an operator,
// recursing into groups. The first part's operator, if any, is ignored.
func (b *Builder) validate() error {
	for i, p := range b.parts {
		if i > 0 && p.op == "" {
			return ErrMissingOperator
		}
		if p.group != nil {
			if err := p.group.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) render() string {
	var sb strings.Builder
	for i, p := range b.parts {
		if i > 0 && p.op != "" {
			sb.WriteString(" " + p.op + " ")
		}
		if p.group != nil {
			sb.WriteString("(" + p.group.render() + ")")
			continue
		}
		sb.WriteString(p.expr)
	}
	return sb.String()
}
