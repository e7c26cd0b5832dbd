package markup

import (
	"strconv"
	"strings"
)

// TokenKind is the type of a document token.
type TokenKind int8

const (
	TokNone TokenKind = iota

	TokNewline       // end of a line
	TokWhitespace    // Text is a run of spaces and tabs
	TokText          // Text with Emphasis
	TokLiteral       // Text is the contents of a "quoted" string
	TokComment       // Text follows //
	TokHeader        // Level and Text
	TokBullet        // - at line start
	TokCheckbox      // -[ ] or -[x]; Checked
	TokBlockQuote    // > at line start
	TokCodeFence     // ``` with Text as the language
	TokCode          // Text is a verbatim line inside a fence
	TokInlineCode    // Text between backticks
	TokLink          // Text, with the URL in Value
	TokImage         // Text, with the URL in Value
	TokTableRow      // Cells
	TokTableRule     // --- under a table header
	TokPageSeparator // === or more
	TokLet           // name in Text, value in Value
	TokExpr          // Value is eval or show, Text is the code
	TokFn            // Value is fmt, eval, or show; Text is the code
)

var tokennames = [...]string{
	TokNone:          "None",
	TokNewline:       "Newline",
	TokWhitespace:    "Whitespace",
	TokText:          "Text",
	TokLiteral:       "Literal",
	TokComment:       "Comment",
	TokHeader:        "Header",
	TokBullet:        "Bullet",
	TokCheckbox:      "Checkbox",
	TokBlockQuote:    "BlockQuote",
	TokCodeFence:     "CodeFence",
	TokCode:          "Code",
	TokInlineCode:    "InlineCode",
	TokLink:          "Link",
	TokImage:         "Image",
	TokTableRow:      "TableRow",
	TokTableRule:     "TableRule",
	TokPageSeparator: "PageSeparator",
	TokLet:           "Let",
	TokExpr:          "Expr",
	TokFn:            "Fn",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokennames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokennames[k]
}

// Style is the emphasis of inline text.
type Style int8

const (
	StyleNone Style = iota
	StyleBold
	StyleItalic
	StyleUnderline
	StyleStrikethrough
	StyleSpoiler
)

var stylenames = [...]string{
	StyleNone:          "None",
	StyleBold:          "Bold",
	StyleItalic:        "Italic",
	StyleUnderline:     "Underline",
	StyleStrikethrough: "Strikethrough",
	StyleSpoiler:       "Spoiler",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(stylenames) {
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
	return stylenames[s]
}

// Span is a half-open range of byte offsets into a document.
type Span struct {
	Start, End int
}

// Token is a lexical token of a document.
type Token struct {
	Kind TokenKind
	// Text is the main content of the token. Its meaning depends on Kind.
	Text string
	// Value is the secondary content: a URL, a let value, or a form name.
	Value string
	// Level is the header level.
	Level int
	// Emphasis is the style of text tokens.
	Emphasis Style
	// Checked is whether a checkbox is checked.
	Checked bool
	// Cells are the trimmed cells of a table row.
	Cells []string
	// Span is the location of the token in the source.
	Span Span
}

func (t Token) String() string {
	var b strings.Builder
	b.WriteString(t.Kind.String())
	switch t.Kind {
	case TokText:
		if t.Emphasis != StyleNone {
			b.WriteByte('[')
			b.WriteString(t.Emphasis.String())
			b.WriteByte(']')
		}
		b.WriteString(strconv.Quote(t.Text))
	case TokHeader:
		b.WriteString(strconv.Itoa(t.Level))
		b.WriteString(strconv.Quote(t.Text))
	case TokCheckbox:
		b.WriteByte('[')
		b.WriteString(strconv.FormatBool(t.Checked))
		b.WriteByte(']')
	case TokTableRow:
		b.WriteString(strconv.Quote(strings.Join(t.Cells, "|")))
	case TokLink, TokImage, TokLet, TokExpr, TokFn:
		b.WriteString(strconv.Quote(t.Text))
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(t.Value))
	case TokNewline, TokBullet, TokBlockQuote, TokTableRule, TokPageSeparator:
	default:
		b.WriteString(strconv.Quote(t.Text))
	}
	return b.String()
}
