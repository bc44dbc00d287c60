// Package ast defines the syntax tree produced by the template parser. The
// tree is a closed set of variant structs behind three small interfaces:
// Node (statements and literal text), Expr (expressions), and Target
// (destructuring patterns). Every string field is a slice of the original
// template source; the tree holds no independent copies, so the source buffer
// must outlive the tree.
package ast

// Whitespace is a trim directive attached to one edge of a construct.
// WsDefault means no marker was written; the ambient default is decided by
// the code generator, not here.
type Whitespace uint8

const (
	WsDefault Whitespace = iota
	// WsPreserve keeps adjacent whitespace as written (`+`).
	WsPreserve
	// WsSuppress removes adjacent whitespace entirely (`-`).
	WsSuppress
	// WsMinimize collapses adjacent whitespace to at most one newline (`~`).
	WsMinimize
)

func (w Whitespace) String() string {
	switch w {
	case WsPreserve:
		return "+"
	case WsSuppress:
		return "-"
	case WsMinimize:
		return "~"
	default:
		return "_"
	}
}

// Ws is the pair of trim directives around a construct: Left governs the
// trailing whitespace of the preceding literal text, Right the leading
// whitespace of the following literal text.
type Ws struct {
	Left  Whitespace
	Right Whitespace
}

// Node is one parsed template construct or literal-text span.
type Node interface {
	node()
}

// Lit is a span of literal text, split at its whitespace boundaries. LeftWs
// and RightWs are the leading and trailing whitespace runs, preserved so a
// neighbouring construct's trim directive can be applied downstream.
type Lit struct {
	LeftWs  string
	Content string
	RightWs string
}

// Comment records only its trim directives; the comment text is discarded.
type Comment struct {
	Ws Ws
}

// ExprNode is an inlined expression: `{{ expr }}`.
type ExprNode struct {
	Ws   Ws
	Expr Expr
}

// Call invokes a macro. Scope is empty unless the macro was imported and
// called as `scope::name(...)`.
type Call struct {
	Ws    Ws
	Scope string
	Name  string
	Args  []Expr
}

// LetDecl introduces a binding with no initializer.
type LetDecl struct {
	Ws  Ws
	Var Target
}

// Let binds a pattern to an expression value.
type Let struct {
	Ws  Ws
	Var Target
	Val Expr
}

// Cond is an if/else-if/else chain. Branches is never empty and the first
// branch always has a test; a test-less branch is well-formed only in final
// position. EndWs carries the directives of the closing `endif` tag.
type Cond struct {
	Branches []*CondBranch
	EndWs    Ws
}

// CondBranch is one branch of a Cond. Test is nil for a bare `else`.
type CondBranch struct {
	Ws   Ws
	Test *CondTest
	Body []Node
}

// CondTest is a branch condition with an optional `let PATTERN =` binding
// (the `if let PAT = EXPR` guard form). Target is nil when no binding is
// present.
type CondTest struct {
	Target Target
	Expr   Expr
}

// Match is a match construct. Arms is never empty; an `else` arm, if written,
// is always the last element regardless of its position in the source.
type Match struct {
	Ws    Ws
	Expr  Expr
	Arms  []*When
	EndWs Ws
}

// When is one arm of a Match. A wildcard `else` arm carries the synthetic
// target Name("_").
type When struct {
	Ws     Ws
	Target Target
	Body   []Node
}

// Loop is a for loop. Cond is the optional `if` filter on the iterable;
// ElseBody runs when the iterable is empty and is empty when no `else` block
// was written. Ws1 surrounds the header, Ws2 the `else` boundary, Ws3 the
// closing tag.
type Loop struct {
	Ws1      Ws
	Var      Target
	Iter     Expr
	Cond     Expr
	Body     []Node
	Ws2      Ws
	ElseBody []Node
	Ws3      Ws
}

// Extends declares the parent template.
type Extends struct {
	Path string
}

// BlockDef is a named, overridable block. The closing tag's name, if any, is
// not recorded: the grammar accepts any name there.
type BlockDef struct {
	Ws1  Ws
	Name string
	Body []Node
	Ws2  Ws
}

// Include splices another template.
type Include struct {
	Ws   Ws
	Path string
}

// Import makes another template's macros available under Scope.
type Import struct {
	Ws    Ws
	Path  string
	Scope string
}

// Macro is a macro definition. The name "super" is reserved and rejected by
// the parser.
type Macro struct {
	Name string
	Ws1  Ws
	Args []string
	Body []Node
	Ws2  Ws
}

// Raw is a verbatim span: everything between `raw` and the first `endraw`,
// split at its whitespace boundaries like a Lit.
type Raw struct {
	Ws1     Ws
	LeftWs  string
	Content string
	RightWs string
	Ws2     Ws
}

// Break exits the innermost loop.
type Break struct {
	Ws Ws
}

// Continue skips to the next iteration of the innermost loop.
type Continue struct {
	Ws Ws
}

func (*Lit) node()      {}
func (*Comment) node()  {}
func (*ExprNode) node() {}
func (*Call) node()     {}
func (*LetDecl) node()  {}
func (*Let) node()      {}
func (*Cond) node()     {}
func (*Match) node()    {}
func (*Loop) node()     {}
func (*Extends) node()  {}
func (*BlockDef) node() {}
func (*Include) node()  {}
func (*Import) node()   {}
func (*Macro) node()    {}
func (*Raw) node()      {}
func (*Break) node()    {}
func (*Continue) node() {}
