package markup

// Compact merges each run of adjacent text tokens with the same emphasis
// into one token. Other tokens are unchanged. toks is not modified.
func Compact(toks []Token) []Token {
	r := toks[:0:0]
	for _, t := range toks {
		if n := len(r); n > 0 && t.Kind == TokText && r[n-1].Kind == TokText && r[n-1].Emphasis == t.Emphasis {
			r[n-1].Text += t.Text
			r[n-1].Span.End = t.Span.End
			continue
		}
		r = append(r, t)
	}
	return r
}
