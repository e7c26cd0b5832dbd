package markup

// Node is a node of a document tree.
type Node interface {
	node()
}

// Header is a section header.
type Header struct {
	// Level is the number of # marks, from 1 to 6.
	Level int
	Text  string
}

// BulletPoint is an item of an unordered list.
type BulletPoint struct {
	Text string
}

// Checkbox is a list item with a check state.
type Checkbox struct {
	Checked bool
	Text    string
}

// BlockQuote is quoted content. Consecutive quoted lines form one block.
type BlockQuote struct {
	Children []Node
}

// Spoiler is text hidden until revealed.
type Spoiler struct {
	Text string
}

// Link is a hyperlink or, if Image is set, an embedded image.
type Link struct {
	Text  string
	URL   string
	Image bool
}

// CodeBlock is fenced code. Each line of Code ends with a newline.
type CodeBlock struct {
	// Language is the fence's language tag, or empty if there is none.
	Language string
	Code     string
}

// InlineCode is code within a line.
type InlineCode struct {
	Code string
}

// Emphasis is styled text. Style is never StyleNone or StyleSpoiler.
type Emphasis struct {
	Style Style
	Text  string
}

// PageSeparator divides pages.
type PageSeparator struct{}

// EvalBlock is an expression to evaluate for its effects. It renders as
// nothing unless evaluation fails.
type EvalBlock struct {
	Code string
}

// ShowBlock is an expression to display as mathematical notation.
type ShowBlock struct {
	Code string
}

// Text is plain prose, including any newlines.
type Text struct {
	Content string
}

// Paragraph is a run of inline content. A paragraph never contains another
// paragraph.
type Paragraph struct {
	Children []Node
}

// Table is a table with a header row. Every row has as many cells as the
// header.
type Table struct {
	Header []string
	Rows   [][]string
}

// FragmentKind is the kind of block a Fragment replaces.
type FragmentKind int8

const (
	FragmentEval FragmentKind = iota + 1
	FragmentShow
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentEval:
		return "eval"
	case FragmentShow:
		return "show"
	default:
		return "fragment"
	}
}

// Fragment is the processed replacement of an EvalBlock or ShowBlock.
type Fragment struct {
	Kind FragmentKind
	// Code is the code of the original block.
	Code string
	// Markup is the rendered output, empty for successful evaluations.
	Markup string
	// Err is the error from parsing, evaluating, or formatting the code.
	Err error
}

func (*Header) node()        {}
func (*BulletPoint) node()   {}
func (*Checkbox) node()      {}
func (*BlockQuote) node()    {}
func (*Spoiler) node()       {}
func (*Link) node()          {}
func (*CodeBlock) node()     {}
func (*InlineCode) node()    {}
func (*Emphasis) node()      {}
func (*PageSeparator) node() {}
func (*EvalBlock) node()     {}
func (*ShowBlock) node()     {}
func (*Text) node()          {}
func (*Paragraph) node()     {}
func (*Table) node()         {}
func (*Fragment) node()      {}

// Children returns the nodes contained in n, if it is a container.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Paragraph:
		return n.Children
	case *BlockQuote:
		return n.Children
	default:
		return nil
	}
}

// Map returns a copy of the tree with each node replaced by f(node). f is
// applied to the children of containers before the containers themselves.
// Nodes for which f returns its argument unchanged are shared with doc.
func Map(doc []Node, f func(Node) Node) []Node {
	r := make([]Node, len(doc))
	for i, n := range doc {
		switch c := n.(type) {
		case *Paragraph:
			n = &Paragraph{Children: Map(c.Children, f)}
		case *BlockQuote:
			n = &BlockQuote{Children: Map(c.Children, f)}
		}
		r[i] = f(n)
	}
	return r
}

// Walk calls f for each node of the tree in document order, visiting
// containers before their children.
func Walk(doc []Node, f func(Node)) {
	for _, n := range doc {
		f(n)
		Walk(Children(n), f)
	}
}
