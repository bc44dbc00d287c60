package ast

// Target is a destructuring pattern: the binding side of `let`, the loop
// variable of `for`, and the pattern of a `when` arm.
type Target interface {
	target()
}

// Name binds a single name. The synthetic name "_" is the wildcard used for
// a match `else` arm.
type Name struct {
	Name string
}

// Tuple destructures a tuple or a tuple struct. Path is empty for a bare
// tuple pattern like `(a, b)`.
type Tuple struct {
	Path    []string
	Targets []Target
}

// Struct destructures named struct fields. `{f}` is shorthand for `{f: f}`.
type Struct struct {
	Path   []string
	Fields []NamedTarget
}

// NamedTarget is one `name: pattern` field of a Struct pattern.
type NamedTarget struct {
	Name   string
	Target Target
}

func (*Name) target()   {}
func (*Tuple) target()  {}
func (*Struct) target() {}

// The literal patterns and Path below double as expressions; see expr.go for
// their definitions. They satisfy both interfaces.
func (*NumLit) target()  {}
func (*StrLit) target()  {}
func (*CharLit) target() {}
func (*BoolLit) target() {}
func (*Path) target()    {}
