package ast

// Expr is one expression of the template expression grammar. This core only
// builds the tree; nothing here validates that an expression makes sense.
type Expr interface {
	expr()
}

// NumLit is a numeric literal, kept as source text.
type NumLit struct {
	Value string
}

// StrLit is a double-quoted string literal without its quotes; escapes are
// kept verbatim.
type StrLit struct {
	Value string
}

// CharLit is a single-quoted character literal without its quotes.
type CharLit struct {
	Value string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value string
}

// Path is a `::`-qualified name. A leading empty segment records a rooted
// path (`::a::b`).
type Path struct {
	Segments []string
}

// Var references a variable by name.
type Var struct {
	Name string
}

// Array is an array literal `[a, b, c]`.
type Array struct {
	Elements []Expr
}

// Attr accesses an attribute: `recv.name`.
type Attr struct {
	Recv Expr
	Name string
}

// Index subscripts an expression: `recv[index]`.
type Index struct {
	Recv  Expr
	Index Expr
}

// CallExpr calls a callable expression.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

// Filter applies a named filter: `recv|name(args)`.
type Filter struct {
	Name string
	Recv Expr
	Args []Expr
}

// Unary is a prefix operation: `!x` or `-x`.
type Unary struct {
	Op   string
	Expr Expr
}

// BinOp is an infix operation.
type BinOp struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

// Group is a parenthesized expression, kept so the dump mirrors the source.
type Group struct {
	Expr Expr
}

func (*NumLit) expr()   {}
func (*StrLit) expr()   {}
func (*CharLit) expr()  {}
func (*BoolLit) expr()  {}
func (*Path) expr()     {}
func (*Var) expr()      {}
func (*Array) expr()    {}
func (*Attr) expr()     {}
func (*Index) expr()    {}
func (*CallExpr) expr() {}
func (*Filter) expr()   {}
func (*Unary) expr()    {}
func (*BinOp) expr()    {}
func (*Group) expr()    {}
