package markup

import (
	"strings"

	"golang.org/x/sync/errgroup"
)

// chunks returns the boundaries of chunks of src that are likely to parse
// independently, including 0 and len(src). Each chunk but the last has at
// least n lines and ends with a blank line outside any code fence, quoted
// string, or open parenthesis.
func chunks(src string, n int) []int {
	bounds := []int{0}
	var (
		lines  int
		fence  bool
		depth  int
		quoted bool
	)
	for off := 0; off < len(src); {
		next := len(src)
		if e := strings.IndexByte(src[off:], '\n'); e >= 0 {
			next = off + e + 1
		}
		line := strings.TrimSuffix(src[off:next], "\n")
		lines++
		switch {
		case depth == 0 && strings.HasPrefix(line, "```"):
			if !fence {
				fence = true
			} else if strings.TrimSpace(line[3:]) == "" {
				fence = false
			}
		case fence:
		case blankLine(line):
			if depth == 0 && !quoted && lines >= n && next < len(src) {
				bounds = append(bounds, next)
				lines = 0
			}
		default:
			depth, quoted = parens(line, depth, quoted)
		}
		off = next
	}
	return append(bounds, len(src))
}

// blankLine reports whether the lexer sees line as blank.
func blankLine(line string) bool {
	return strings.Trim(strings.TrimSuffix(line, "\r"), " \t") == ""
}

// parens tracks parenthesis depth across a line. Parentheses inside quoted
// strings or escaped with a backslash do not count. A quote left open at
// depth zero closes at the end of the line, since prose strings cannot span
// lines.
func parens(line string, depth int, quoted bool) (int, bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\':
			i++
		case quoted:
			if c == '"' {
				quoted = false
			}
		case c == '"':
			quoted = true
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		}
	}
	if depth == 0 {
		quoted = false
	}
	return depth, quoted
}

// parseChunks parses chunks of src concurrently and joins the results in
// order.
//
// A chunk that starts inside a code fence or an embedded form causes the
// chunk before it to fail, since that one then ends inside the construct.
// So if every chunk parses, the result is the sequential one. If any fails,
// the whole document is parsed sequentially to find the error that a
// sequential parse reports.
func parseChunks(ctx parsectx, src string, bounds []int) ([]Node, error) {
	n := len(bounds) - 1
	docs := make([][]Node, n)
	var g errgroup.Group
	g.SetLimit(ctx.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			var err error
			docs[i], err = parseRange(ctx.name, src, bounds[i], bounds[i+1])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return parseRange(ctx.name, src, 0, len(src))
	}
	var r []Node
	for _, d := range docs {
		r = append(r, d...)
	}
	return r, nil
}
