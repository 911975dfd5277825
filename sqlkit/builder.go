package sqlkit

import "strings"

// fragBuilder assembles a Fragment's literal/expression sequence
// incrementally, mirroring a strings.Builder but for fragment trees. It is
// the internal workhorse behind every shortcut builder (Insert, Upsert,
// Select, ...): they are all, in the end, just specific sequences of
// literal text and interpolated sub-expressions.
type fragBuilder struct {
	segments []string
	exprs    []any
	buf      strings.Builder
}

func newFragBuilder() *fragBuilder {
	return &fragBuilder{}
}

// lit appends literal SQL text, never a data value.
func (b *fragBuilder) lit(s string) *fragBuilder {
	b.buf.WriteString(s)

	return b
}

// expr appends an interpolated expression — anything compileValue accepts:
// a *Fragment, Ident, Raw, Param, sentinel, wrapper, or bare value.
func (b *fragBuilder) expr(e any) *fragBuilder {
	b.segments = append(b.segments, b.buf.String())
	b.buf.Reset()
	b.exprs = append(b.exprs, e)

	return b
}

// frag appends a nested fragment, inheriting the current parent-table
// context from the enclosing compile state at compile time.
func (b *fragBuilder) frag(f *Fragment) *fragBuilder {
	return b.expr(f)
}

func (b *fragBuilder) build() *Fragment {
	segments := make([]string, len(b.segments)+1)
	copy(segments, b.segments)
	segments[len(segments)-1] = b.buf.String()

	return &Fragment{segments: segments, exprs: b.exprs}
}
