package sqlkit

// TruncateOptions carries the optional identity-restart and foreign-key
// clauses appended after the table list, in that order.
type TruncateOptions struct {
	// Identity is "CONTINUE IDENTITY", "RESTART IDENTITY", or "".
	Identity string
	// ForeignKey is "RESTRICT", "CASCADE", or "".
	ForeignKey string
}

// Truncate builds a `TRUNCATE t1, t2, ... [identity] [foreign-key]`
// fragment.
func Truncate(tables []string, opts ...TruncateOptions) *Fragment {
	var opt TruncateOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	b := newFragBuilder()
	b.lit("TRUNCATE ")

	for i, t := range tables {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Ident(t))
	}

	if opt.Identity != "" {
		b.lit(" " + opt.Identity)
	}

	if opt.ForeignKey != "" {
		b.lit(" " + opt.ForeignKey)
	}

	return b.build()
}
