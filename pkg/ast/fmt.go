package ast

import (
	"fmt"
	"strings"
)

// Dump renders a node sequence as an indented tree, one construct per line.
// It is meant for golden output and CLI inspection, not for round-tripping.
func Dump(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		writeNode(&sb, n, 0)
	}
	return sb.String()
}

func writeBody(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		writeNode(sb, n, depth)
	}
}

func writeNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *Lit:
		fmt.Fprintf(sb, "%slit %q\n", indent, n.LeftWs+n.Content+n.RightWs)
	case *Comment:
		fmt.Fprintf(sb, "%scomment %s\n", indent, n.Ws)
	case *ExprNode:
		fmt.Fprintf(sb, "%sexpr %s %s\n", indent, n.Ws, ExprString(n.Expr))
	case *Call:
		name := n.Name
		if n.Scope != "" {
			name = n.Scope + "::" + name
		}
		fmt.Fprintf(sb, "%scall %s %s(%s)\n", indent, n.Ws, name, exprList(n.Args))
	case *LetDecl:
		fmt.Fprintf(sb, "%slet %s %s\n", indent, n.Ws, TargetString(n.Var))
	case *Let:
		fmt.Fprintf(sb, "%slet %s %s = %s\n", indent, n.Ws, TargetString(n.Var), ExprString(n.Val))
	case *Cond:
		for i, b := range n.Branches {
			kw := "if"
			if i > 0 {
				kw = "else"
			}
			switch {
			case b.Test == nil:
				fmt.Fprintf(sb, "%s%s %s\n", indent, kw, b.Ws)
			case b.Test.Target != nil:
				fmt.Fprintf(sb, "%s%s %s let %s = %s\n", indent, kw, b.Ws, TargetString(b.Test.Target), ExprString(b.Test.Expr))
			default:
				fmt.Fprintf(sb, "%s%s %s %s\n", indent, kw, b.Ws, ExprString(b.Test.Expr))
			}
			writeBody(sb, b.Body, depth+1)
		}
		fmt.Fprintf(sb, "%sendif %s\n", indent, n.EndWs)
	case *Match:
		fmt.Fprintf(sb, "%smatch %s %s\n", indent, n.Ws, ExprString(n.Expr))
		for _, arm := range n.Arms {
			fmt.Fprintf(sb, "%s  when %s %s\n", indent, arm.Ws, TargetString(arm.Target))
			writeBody(sb, arm.Body, depth+2)
		}
		fmt.Fprintf(sb, "%sendmatch %s\n", indent, n.EndWs)
	case *Loop:
		cond := ""
		if n.Cond != nil {
			cond = " if " + ExprString(n.Cond)
		}
		fmt.Fprintf(sb, "%sfor %s %s in %s%s\n", indent, n.Ws1, TargetString(n.Var), ExprString(n.Iter), cond)
		writeBody(sb, n.Body, depth+1)
		if len(n.ElseBody) > 0 {
			fmt.Fprintf(sb, "%selse %s\n", indent, n.Ws2)
			writeBody(sb, n.ElseBody, depth+1)
		}
		fmt.Fprintf(sb, "%sendfor %s\n", indent, n.Ws3)
	case *Extends:
		fmt.Fprintf(sb, "%sextends %q\n", indent, n.Path)
	case *BlockDef:
		fmt.Fprintf(sb, "%sblock %s %s\n", indent, n.Ws1, n.Name)
		writeBody(sb, n.Body, depth+1)
		fmt.Fprintf(sb, "%sendblock %s\n", indent, n.Ws2)
	case *Include:
		fmt.Fprintf(sb, "%sinclude %s %q\n", indent, n.Ws, n.Path)
	case *Import:
		fmt.Fprintf(sb, "%simport %s %q as %s\n", indent, n.Ws, n.Path, n.Scope)
	case *Macro:
		fmt.Fprintf(sb, "%smacro %s %s(%s)\n", indent, n.Ws1, n.Name, strings.Join(n.Args, ", "))
		writeBody(sb, n.Body, depth+1)
		fmt.Fprintf(sb, "%sendmacro %s\n", indent, n.Ws2)
	case *Raw:
		fmt.Fprintf(sb, "%sraw %s %q %s\n", indent, n.Ws1, n.LeftWs+n.Content+n.RightWs, n.Ws2)
	case *Break:
		fmt.Fprintf(sb, "%sbreak %s\n", indent, n.Ws)
	case *Continue:
		fmt.Fprintf(sb, "%scontinue %s\n", indent, n.Ws)
	default:
		fmt.Fprintf(sb, "%s<unknown %T>\n", indent, n)
	}
}

func (w Ws) String() string {
	return "[" + w.Left.String() + w.Right.String() + "]"
}

func exprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = ExprString(e)
	}
	return strings.Join(parts, ", ")
}

// ExprString renders an expression on one line, fully parenthesized where the
// source was.
func ExprString(e Expr) string {
	switch e := e.(type) {
	case *NumLit:
		return e.Value
	case *StrLit:
		return fmt.Sprintf("%q", e.Value)
	case *CharLit:
		return "'" + e.Value + "'"
	case *BoolLit:
		return e.Value
	case *Path:
		return strings.Join(e.Segments, "::")
	case *Var:
		return e.Name
	case *Array:
		return "[" + exprList(e.Elements) + "]"
	case *Attr:
		return ExprString(e.Recv) + "." + e.Name
	case *Index:
		return ExprString(e.Recv) + "[" + ExprString(e.Index) + "]"
	case *CallExpr:
		return ExprString(e.Callee) + "(" + exprList(e.Args) + ")"
	case *Filter:
		s := ExprString(e.Recv) + "|" + e.Name
		if len(e.Args) > 0 {
			s += "(" + exprList(e.Args) + ")"
		}
		return s
	case *Unary:
		return e.Op + ExprString(e.Expr)
	case *BinOp:
		return ExprString(e.Lhs) + " " + e.Op + " " + ExprString(e.Rhs)
	case *Group:
		return "(" + ExprString(e.Expr) + ")"
	default:
		return fmt.Sprintf("<unknown %T>", e)
	}
}

// TargetString renders a destructuring pattern on one line.
func TargetString(t Target) string {
	switch t := t.(type) {
	case *Name:
		return t.Name
	case *Path:
		return strings.Join(t.Segments, "::")
	case *NumLit:
		return t.Value
	case *StrLit:
		return fmt.Sprintf("%q", t.Value)
	case *CharLit:
		return "'" + t.Value + "'"
	case *BoolLit:
		return t.Value
	case *Tuple:
		parts := make([]string, len(t.Targets))
		for i, sub := range t.Targets {
			parts[i] = TargetString(sub)
		}
		prefix := strings.Join(t.Path, "::")
		return prefix + "(" + strings.Join(parts, ", ") + ")"
	case *Struct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + TargetString(f.Target)
		}
		return strings.Join(t.Path, "::") + " { " + strings.Join(parts, ", ") + " }"
	default:
		return fmt.Sprintf("<unknown %T>", t)
	}
}
