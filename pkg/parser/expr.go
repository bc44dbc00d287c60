package parser

import (
	"strings"

	"github.com/walteh/tmplc/pkg/ast"
	"github.com/walteh/tmplc/pkg/lexer"
)

// Binary operators by precedence, loosest first. Entries within a level are
// ordered longest-first so "<=" wins over "<". There are no bitwise
// operators: "|" is the filter operator.
var binOpLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!=", "<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/", "%"},
}

// expr parses one expression. A trailing operator that has no operand is not
// an error: the operator is left unconsumed so `a -` before a closing
// delimiter parses as just `a`.
func (p *parser) expr(i string) (string, ast.Expr, error) {
	return p.binExpr(i, 0)
}

func (p *parser) binExpr(i string, level int) (string, ast.Expr, error) {
	if level == len(binOpLevels) {
		return p.unaryExpr(i)
	}

	rest, lhs, err := p.binExpr(i, level+1)
	if err != nil {
		return i, nil, err
	}

	for {
		r := lexer.SkipWs(rest)
		op := matchOp(r, binOpLevels[level])
		if op == "" {
			return rest, lhs, nil
		}
		r = lexer.SkipWs(r[len(op):])
		r2, rhs, err := p.binExpr(r, level+1)
		if err != nil {
			if isFatal(err) {
				return i, nil, err
			}
			// no operand: back out of the operator match
			return rest, lhs, nil
		}
		lhs = &ast.BinOp{Op: op, Lhs: lhs, Rhs: rhs}
		rest = r2
	}
}

func matchOp(i string, ops []string) string {
	for _, op := range ops {
		if strings.HasPrefix(i, op) {
			return op
		}
	}
	return ""
}

func (p *parser) unaryExpr(i string) (string, ast.Expr, error) {
	if len(i) > 0 && (i[0] == '!' || i[0] == '-') {
		rest, operand, err := p.unaryExpr(lexer.SkipWs(i[1:]))
		if err != nil {
			return i, nil, err
		}
		return rest, &ast.Unary{Op: i[:1], Expr: operand}, nil
	}
	return p.postfixExpr(i)
}

// postfixExpr parses a primary expression followed by any number of
// attribute, index, call, and filter suffixes.
func (p *parser) postfixExpr(i string) (string, ast.Expr, error) {
	rest, cur, err := p.primaryExpr(i)
	if err != nil {
		return i, nil, err
	}

	for {
		r := lexer.SkipWs(rest)
		switch {
		case strings.HasPrefix(r, "."):
			r2 := lexer.SkipWs(r[1:])
			name, r3, ok := lexer.Identifier(r2)
			if !ok {
				// tuple-style numeric attribute
				name, r3, ok = lexer.NumLit(r2)
			}
			if !ok {
				return rest, cur, nil
			}
			cur = &ast.Attr{Recv: cur, Name: name}
			rest = r3

		case strings.HasPrefix(r, "["):
			r2 := lexer.SkipWs(r[1:])
			r2, index, err := p.expr(r2)
			if err != nil {
				return i, nil, p.cut(err, r2, "index expression")
			}
			r2 = lexer.SkipWs(r2)
			if !strings.HasPrefix(r2, "]") {
				return i, nil, p.fatalf(r2, "expected ']' after index")
			}
			cur = &ast.Index{Recv: cur, Index: index}
			rest = r2[1:]

		case strings.HasPrefix(r, "("):
			r2, args, err := p.arguments(r)
			if err != nil {
				if isFatal(err) {
					return i, nil, err
				}
				return rest, cur, nil
			}
			cur = &ast.CallExpr{Callee: cur, Args: args}
			rest = r2

		case strings.HasPrefix(r, "|") && !strings.HasPrefix(r, "||"):
			r2 := lexer.SkipWs(r[1:])
			name, r3, ok := lexer.Identifier(r2)
			if !ok {
				return rest, cur, nil
			}
			filter := &ast.Filter{Name: name, Recv: cur}
			if r4 := lexer.SkipWs(r3); strings.HasPrefix(r4, "(") {
				r5, args, err := p.arguments(r4)
				if err != nil {
					return i, nil, err
				}
				filter.Args = args
				r3 = r5
			}
			cur = filter
			rest = r3

		default:
			return rest, cur, nil
		}
	}
}

func (p *parser) primaryExpr(i string) (string, ast.Expr, error) {
	if i == "" {
		return i, nil, errNoMatch
	}

	switch i[0] {
	case '(':
		rest := lexer.SkipWs(i[1:])
		rest, inner, err := p.expr(rest)
		if err != nil {
			return i, nil, p.cut(err, rest, "expression after '('")
		}
		rest = lexer.SkipWs(rest)
		if !strings.HasPrefix(rest, ")") {
			return i, nil, p.fatalf(rest, "expected ')'")
		}
		return rest[1:], &ast.Group{Expr: inner}, nil

	case '[':
		rest := lexer.SkipWs(i[1:])
		var elements []ast.Expr
		if strings.HasPrefix(rest, "]") {
			return rest[1:], &ast.Array{}, nil
		}
		for {
			r, e, err := p.expr(rest)
			if err != nil {
				return i, nil, p.cut(err, rest, "array element")
			}
			elements = append(elements, e)
			rest = lexer.SkipWs(r)
			if strings.HasPrefix(rest, ",") {
				rest = lexer.SkipWs(rest[1:])
				if strings.HasPrefix(rest, "]") {
					break
				}
				continue
			}
			break
		}
		if !strings.HasPrefix(rest, "]") {
			return i, nil, p.fatalf(rest, "expected ']' after array elements")
		}
		return rest[1:], &ast.Array{Elements: elements}, nil
	}

	if v, rest, ok := lexer.StrLit(i); ok {
		return rest, &ast.StrLit{Value: v}, nil
	}
	if v, rest, ok := lexer.CharLit(i); ok {
		return rest, &ast.CharLit{Value: v}, nil
	}
	if v, rest, ok := lexer.NumLit(i); ok {
		return rest, &ast.NumLit{Value: v}, nil
	}
	if v, rest, ok := lexer.BoolLit(i); ok {
		return rest, &ast.BoolLit{Value: v}, nil
	}
	if segments, rest, ok := lexer.Path(i); ok {
		return rest, &ast.Path{Segments: segments}, nil
	}
	if name, rest, ok := lexer.Identifier(i); ok {
		return rest, &ast.Var{Name: name}, nil
	}
	return i, nil, errNoMatch
}

// arguments parses a parenthesized, comma-separated expression list starting
// at the '('. Once the parenthesis is open, a malformed list is fatal.
func (p *parser) arguments(i string) (string, []ast.Expr, error) {
	if !strings.HasPrefix(i, "(") {
		return i, nil, errNoMatch
	}
	rest := lexer.SkipWs(i[1:])

	var args []ast.Expr
	if strings.HasPrefix(rest, ")") {
		return rest[1:], args, nil
	}
	for {
		r, e, err := p.expr(rest)
		if err != nil {
			return i, nil, p.cut(err, rest, "argument expression")
		}
		args = append(args, e)
		rest = lexer.SkipWs(r)
		if strings.HasPrefix(rest, ",") {
			rest = lexer.SkipWs(rest[1:])
			if strings.HasPrefix(rest, ")") {
				break
			}
			continue
		}
		break
	}
	if !strings.HasPrefix(rest, ")") {
		return i, nil, p.fatalf(rest, "expected ')' after arguments")
	}
	return rest[1:], args, nil
}
