package sexpr

import (
	"encoding/binary"
	"hash/fnv"
	"math/big"
	"strconv"
	"strings"
)

// Node is a node in the abstract syntax tree of an expression. A node owns
// its children; no node is shared between two trees.
type Node struct {
	Kind Kind

	// Name is the symbol name, the string value, the application or native
	// function name, or the error message, depending on Kind.
	Name string
	// Num is the value of a number node.
	Num *big.Float
	// Bool is the value of a bool node.
	Bool bool
	// Items holds the elements of a list or the arguments of an application.
	Items []*Node
	// Params and Body define a user function.
	Params []string
	Body   *Node
}

// Kind is the type of a Node.
type Kind int8

const (
	KindNone Kind = iota

	KindSymbol      // Name is the symbol
	KindNumber      // Num is the value
	KindBool        // Bool is the value
	KindString      // Name is the string contents
	KindList        // Items are the elements; an empty list is nil
	KindApplication // call Name with Items
	KindUserFunc    // Params and Body
	KindNativeFunc  // Name identifies a builtin
	KindError       // Name is the message
)

var kindnames = [...]string{
	KindNone:        "None",
	KindSymbol:      "Symbol",
	KindNumber:      "Number",
	KindBool:        "Bool",
	KindString:      "String",
	KindList:        "List",
	KindApplication: "Application",
	KindUserFunc:    "UserFunc",
	KindNativeFunc:  "NativeFunc",
	KindError:       "Error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// Sym creates a symbol node.
func Sym(name string) *Node {
	return &Node{Kind: KindSymbol, Name: name}
}

// Num creates a number node holding a copy of x.
func Num(x *big.Float) *Node {
	return &Node{Kind: KindNumber, Num: new(big.Float).Copy(x)}
}

// Int creates a number node from an integer at the given precision.
func Int(x int64, prec uint) *Node {
	return &Node{Kind: KindNumber, Num: new(big.Float).SetPrec(prec).SetInt64(x)}
}

// Bool creates a bool node.
func Bool(b bool) *Node {
	return &Node{Kind: KindBool, Bool: b}
}

// Str creates a string node.
func Str(s string) *Node {
	return &Node{Kind: KindString, Name: s}
}

// List creates a list node.
func List(items ...*Node) *Node {
	return &Node{Kind: KindList, Items: items}
}

// Apply creates an application of the named function.
func Apply(name string, args ...*Node) *Node {
	return &Node{Kind: KindApplication, Name: name, Items: args}
}

// Errorf creates an error node.
func Errorf(msg string) *Node {
	return &Node{Kind: KindError, Name: msg}
}

// Nil returns the empty list.
func Nil() *Node {
	return &Node{Kind: KindList}
}

// IsNil reports whether n is the empty list.
func (n *Node) IsNil() bool {
	return n.Kind == KindList && len(n.Items) == 0
}

// IsSym reports whether n is the symbol name.
func (n *Node) IsSym(name string) bool {
	return n != nil && n.Kind == KindSymbol && n.Name == name
}

// Head returns the head symbol name of a non-empty list, or the name of an
// application. The second result is false for any other node.
func (n *Node) Head() (string, bool) {
	switch {
	case n.Kind == KindApplication:
		return n.Name, true
	case n.Kind == KindList && len(n.Items) > 0 && n.Items[0].Kind == KindSymbol:
		return n.Items[0].Name, true
	default:
		return "", false
	}
}

// Args returns the arguments of a call-shaped node: the tail of a list or
// the arguments of an application.
func (n *Node) Args() []*Node {
	switch n.Kind {
	case KindApplication:
		return n.Items
	case KindList:
		if len(n.Items) == 0 {
			return nil
		}
		return n.Items[1:]
	default:
		return nil
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	r := &Node{Kind: n.Kind, Name: n.Name, Bool: n.Bool}
	if n.Num != nil {
		r.Num = new(big.Float).Copy(n.Num)
	}
	if n.Items != nil {
		r.Items = make([]*Node, len(n.Items))
		for i, c := range n.Items {
			r.Items[i] = c.Clone()
		}
	}
	if n.Params != nil {
		r.Params = append([]string(nil), n.Params...)
	}
	r.Body = n.Body.Clone()
	return r
}

// Equal reports whether two trees are structurally equal. Numbers are equal
// when their values are equal, regardless of precision or spelling.
func (n *Node) Equal(m *Node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.Kind != m.Kind {
		return false
	}
	switch n.Kind {
	case KindNumber:
		return n.Num.Cmp(m.Num) == 0
	case KindBool:
		return n.Bool == m.Bool
	case KindSymbol, KindString, KindNativeFunc, KindError:
		return n.Name == m.Name
	case KindApplication, KindList:
		if n.Name != m.Name || len(n.Items) != len(m.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(m.Items[i]) {
				return false
			}
		}
		return true
	case KindUserFunc:
		if len(n.Params) != len(m.Params) {
			return false
		}
		for i := range n.Params {
			if n.Params[i] != m.Params[i] {
				return false
			}
		}
		return n.Body.Equal(m.Body)
	case KindNone:
		return true
	default:
		panic("sexpr: invalid node kind " + n.Kind.String())
	}
}

// Hash computes a hash of n consistent with Equal.
func (n *Node) Hash() uint64 {
	h := fnv.New64a()
	var b []byte
	b = n.canon(b)
	h.Write(b)
	return h.Sum64()
}

// Key is a stable key identifying a tree up to structural equality. Two
// trees have the same key exactly when they are Equal.
type Key string

// Key returns the key for n. It is the canonical encoding of n, so it is as
// long as the tree is large.
func (n *Node) Key() Key {
	return Key(n.canon(nil))
}

// canon appends a canonical encoding of n to b.
func (n *Node) canon(b []byte) []byte {
	if n == nil {
		return append(b, 0)
	}
	b = append(b, byte(n.Kind))
	switch n.Kind {
	case KindNumber:
		b = canonNum(b, n.Num)
	case KindBool:
		if n.Bool {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	case KindSymbol, KindString, KindNativeFunc, KindError:
		b = canonStr(b, n.Name)
	case KindApplication, KindList:
		b = canonStr(b, n.Name)
		b = binary.AppendUvarint(b, uint64(len(n.Items)))
		for _, c := range n.Items {
			b = c.canon(b)
		}
	case KindUserFunc:
		b = binary.AppendUvarint(b, uint64(len(n.Params)))
		for _, p := range n.Params {
			b = canonStr(b, p)
		}
		b = n.Body.canon(b)
	}
	return b
}

func canonStr(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

// canonNum encodes the exact value of x independent of its precision.
func canonNum(b []byte, x *big.Float) []byte {
	if x.Sign() == 0 {
		return canonStr(b, "0")
	}
	// The 'p' format prints the exact mantissa with trailing zeros trimmed,
	// so equal values give equal text at any precision.
	return canonStr(b, x.Text('p', 0))
}

// String formats n as an S-expression.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	switch n.Kind {
	case KindSymbol:
		b.WriteString(n.Name)
	case KindNumber:
		b.WriteString(FormatNumber(n.Num))
	case KindBool:
		b.WriteString(strconv.FormatBool(n.Bool))
	case KindString:
		b.WriteString(quote(n.Name))
	case KindList:
		b.WriteByte('(')
		for i, c := range n.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			c.fmt(b)
		}
		b.WriteByte(')')
	case KindApplication:
		b.WriteByte('(')
		b.WriteString(n.Name)
		for _, c := range n.Items {
			b.WriteByte(' ')
			c.fmt(b)
		}
		b.WriteByte(')')
	case KindUserFunc:
		b.WriteString("(lambda (")
		b.WriteString(strings.Join(n.Params, " "))
		b.WriteString(") ")
		n.Body.fmt(b)
		b.WriteByte(')')
	case KindNativeFunc:
		b.WriteString("#<builtin ")
		b.WriteString(n.Name)
		b.WriteByte('>')
	case KindError:
		b.WriteString("#<error ")
		b.WriteString(strconv.Quote(n.Name))
		b.WriteByte('>')
	case KindNone:
		b.WriteByte('$')
	default:
		panic("sexpr: invalid node kind " + n.Kind.String() + " after writing " + b.String())
	}
}

// quote quotes a string using only the escapes the lexer understands.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// FormatNumber formats a number for display. Integers print without a
// fractional part; other values print with at most 34 significant digits.
func FormatNumber(x *big.Float) string {
	if x.IsInf() {
		if x.Signbit() {
			return "-inf"
		}
		return "inf"
	}
	if x.IsInt() && x.MantExp(nil) <= 256 {
		return x.Text('f', 0)
	}
	return x.Text('g', 34)
}
