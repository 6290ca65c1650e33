// Package condition builds boolean topic-condition expressions for FCM.
//
// A condition targets devices subscribed to combinations of topics, e.g.
// "'news' in topics && ('sports' in topics || 'weather' in topics)". The
// Builder collects topics, logical operators and parenthesized sub-groups in
// call order; Expression validates the sequence and renders it.
//
// Rendering is purely left-to-right textual concatenation — the builder
// applies no operator precedence, so the output mirrors the call order
// exactly. Parenthesize via Group where grouping matters.
//
// FCM only accepts conditions over at least two topics, counted across all
// nested groups; a smaller condition fails with ErrInvalidCondition. Every
// part after the first within a scope must be preceded by exactly one And or
// Or call, otherwise Expression fails with ErrMissingOperator.
package condition
