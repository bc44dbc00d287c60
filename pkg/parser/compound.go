package parser

import (
	"strings"

	"github.com/walteh/tmplc/pkg/ast"
	"github.com/walteh/tmplc/pkg/lexer"
)

// condTest parses `if [let PATTERN =] EXPR`. The let-binding attempt
// backtracks as a whole when it does not fit, so `if let_value > 0` still
// parses as a plain condition.
func (p *parser) condTest(i string) (string, *ast.CondTest, error) {
	rest := lexer.SkipWs(i)
	rest, ok := lexer.Keyword(rest, "if")
	if !ok {
		return i, nil, errNoMatch
	}

	var target ast.Target
	afterIf := lexer.SkipWs(rest)

	r, ok := lexer.Keyword(afterIf, "let")
	if !ok {
		r, ok = lexer.Keyword(afterIf, "set")
	}
	if ok {
		r2, t, err := p.target(lexer.SkipWs(r))
		if isFatal(err) {
			return i, nil, err
		}
		if err == nil {
			r2 = lexer.SkipWs(r2)
			if strings.HasPrefix(r2, "=") {
				target = t
				afterIf = lexer.SkipWs(r2[1:])
			}
		}
	}

	rest, expr, err := p.expr(afterIf)
	if err != nil {
		return i, nil, p.cut(err, afterIf, "condition expression")
	}
	return rest, &ast.CondTest{Target: target, Expr: expr}, nil
}

// condBranch parses one `{% else [if ...] %}` branch with its body. A tag
// that is not an else branch (endif included) is a recoverable no-match so
// the caller can finish the chain.
func (p *parser) condBranch(i string) (string, *ast.CondBranch, error) {
	rest, err := p.tagBlockStart(i)
	if err != nil {
		return i, nil, errNoMatch
	}
	pws, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "else")
	if !ok {
		return i, nil, errNoMatch
	}

	var test *ast.CondTest
	if r, t, err := p.condTest(rest); err == nil {
		test = t
		rest = r
	} else if isFatal(err) {
		return i, nil, err
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	rest, err = p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	rest, body, err := p.nodes(rest)
	if err != nil {
		return i, nil, err
	}
	return rest, &ast.CondBranch{Ws: ast.Ws{Left: pws, Right: nws}, Test: test, Body: body}, nil
}

// ifStmt parses an if/else-if/else chain terminated by endif.
func (p *parser) ifStmt(i string) (string, ast.Node, error) {
	pws1, rest := wsChar(i)
	rest, test, err := p.condTest(rest)
	if err != nil {
		if isFatal(err) {
			return i, nil, err
		}
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	nws1, rest := wsChar(rest)
	rest, err = p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	rest, body, err := p.nodes(rest)
	if err != nil {
		return i, nil, err
	}

	branches := []*ast.CondBranch{{Ws: ast.Ws{Left: pws1, Right: nws1}, Test: test, Body: body}}
	for {
		r, branch, err := p.condBranch(rest)
		if err != nil {
			if isFatal(err) {
				return i, nil, err
			}
			break
		}
		branches = append(branches, branch)
		rest = r
	}

	rest, err = p.tagBlockStart(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "'endif'")
	}
	pws2, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "endif")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'endif'")
	}
	rest = lexer.SkipWs(rest)
	nws2, rest := wsChar(rest)

	return rest, &ast.Cond{Branches: branches, EndWs: ast.Ws{Left: pws2, Right: nws2}}, nil
}

// forStmt parses `for PATTERN in EXPR [if GUARD]` with its body, an optional
// `else` fallback block, and `endfor`. The loop counter is incremented only
// around the main body: break/continue are invalid in the else block.
func (p *parser) forStmt(i string) (string, ast.Node, error) {
	pws1, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "for")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	rest, target, err := p.target(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "loop pattern after 'for'")
	}

	rest = lexer.SkipWs(rest)
	rest, ok = lexer.Keyword(rest, "in")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'in' after loop pattern")
	}

	rest = lexer.SkipWs(rest)
	rest, iter, err := p.expr(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "iterable expression after 'in'")
	}

	var guard ast.Expr
	if r, ok := lexer.Keyword(lexer.SkipWs(rest), "if"); ok {
		r = lexer.SkipWs(r)
		r, guard, err = p.expr(r)
		if err != nil {
			return i, nil, p.cut(err, r, "filter expression after 'if'")
		}
		rest = r
	}

	rest = lexer.SkipWs(rest)
	nws1, rest := wsChar(rest)
	rest, err = p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	var body []ast.Node
	func() {
		defer p.enterLoop()()
		rest, body, err = p.nodes(rest)
	}()
	if err != nil {
		return i, nil, err
	}

	rest, err = p.tagBlockStart(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "'endfor'")
	}
	pws2, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)

	var elseBody []ast.Node
	nws3, pws3 := ast.WsDefault, ast.WsDefault
	if r, ok := lexer.Keyword(rest, "else"); ok {
		r = lexer.SkipWs(r)
		nws3, r = wsChar(r)
		r, err = p.tagBlockEnd(r)
		if err != nil {
			return i, nil, p.cut(err, r, p.syntax.BlockEnd)
		}
		r, elseBody, err = p.nodes(r)
		if err != nil {
			return i, nil, err
		}
		r, err = p.tagBlockStart(r)
		if err != nil {
			return i, nil, p.cut(err, r, "'endfor'")
		}
		pws3, r = wsChar(r)
		rest = lexer.SkipWs(r)
	}

	rest, ok = lexer.Keyword(rest, "endfor")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'endfor'")
	}
	rest = lexer.SkipWs(rest)
	nws2, rest := wsChar(rest)

	return rest, &ast.Loop{
		Ws1:      ast.Ws{Left: pws1, Right: nws1},
		Var:      target,
		Iter:     iter,
		Cond:     guard,
		Body:     body,
		Ws2:      ast.Ws{Left: pws2, Right: nws3},
		ElseBody: elseBody,
		Ws3:      ast.Ws{Left: pws3, Right: nws2},
	}, nil
}

// whenArm parses one `{% when PATTERN %}` arm with its body.
func (p *parser) whenArm(i string) (string, *ast.When, error) {
	rest, err := p.tagBlockStart(i)
	if err != nil {
		return i, nil, errNoMatch
	}
	pws, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "when")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	rest, target, err := p.target(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "pattern after 'when'")
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	rest, err = p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	rest, body, err := p.nodes(rest)
	if err != nil {
		return i, nil, err
	}
	return rest, &ast.When{Ws: ast.Ws{Left: pws, Right: nws}, Target: target, Body: body}, nil
}

// elseArm parses a wildcard `{% else %}` arm, represented with the synthetic
// target name "_".
func (p *parser) elseArm(i string) (string, *ast.When, error) {
	rest, err := p.tagBlockStart(i)
	if err != nil {
		return i, nil, errNoMatch
	}
	pws, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "else")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	rest, err = p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	rest, body, err := p.nodes(rest)
	if err != nil {
		return i, nil, err
	}
	return rest, &ast.When{Ws: ast.Ws{Left: pws, Right: nws}, Target: &ast.Name{Name: "_"}, Body: body}, nil
}

// matchStmt parses a match construct. Comments between the header and the
// first arm are skipped. The single `else` arm may appear anywhere between
// the `when` arms but always ends up last in the arm list; a second `else`
// arm is an error.
func (p *parser) matchStmt(i string) (string, ast.Node, error) {
	pws1, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "match")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	rest, scrutinee, err := p.expr(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "expression after 'match'")
	}

	rest = lexer.SkipWs(rest)
	nws1, rest := wsChar(rest)
	rest, err = p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	// leading whitespace and comments before the first arm
	for {
		rest = lexer.SkipWs(rest)
		r, _, err := p.comment(rest)
		if err != nil {
			if isFatal(err) {
				return i, nil, err
			}
			break
		}
		rest = r
	}

	var arms []*ast.When
	var wildcard *ast.When
	for {
		if r, arm, err := p.whenArm(rest); err == nil {
			arms = append(arms, arm)
			rest = r
			continue
		} else if isFatal(err) {
			return i, nil, err
		}
		if r, arm, err := p.elseArm(rest); err == nil {
			if wildcard != nil {
				return i, nil, p.fatalf(rest, "second 'else' arm in 'match'")
			}
			wildcard = arm
			rest = r
			continue
		} else if isFatal(err) {
			return i, nil, err
		}
		break
	}
	if len(arms) == 0 {
		return i, nil, p.fatalf(rest, "expected at least one 'when' arm")
	}
	if wildcard != nil {
		arms = append(arms, wildcard)
	}

	rest = lexer.SkipWs(rest)
	rest, err = p.tagBlockStart(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "'endmatch'")
	}
	pws2, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok = lexer.Keyword(rest, "endmatch")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'endmatch'")
	}
	rest = lexer.SkipWs(rest)
	nws2, rest := wsChar(rest)

	return rest, &ast.Match{
		Ws:    ast.Ws{Left: pws1, Right: nws1},
		Expr:  scrutinee,
		Arms:  arms,
		EndWs: ast.Ws{Left: pws2, Right: nws2},
	}, nil
}

// blockStmt parses `block NAME ... endblock [NAME]`. The closing name is
// parsed but deliberately not compared against the opening one.
func (p *parser) blockStmt(i string) (string, ast.Node, error) {
	pws1, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "block")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	name, rest, ok := lexer.Identifier(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected block name after 'block'")
	}

	rest = lexer.SkipWs(rest)
	nws1, rest := wsChar(rest)
	rest, err := p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	rest, body, err := p.nodes(rest)
	if err != nil {
		return i, nil, err
	}

	rest, err = p.tagBlockStart(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "'endblock'")
	}
	pws2, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok = lexer.Keyword(rest, "endblock")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'endblock'")
	}

	rest = lexer.SkipWs(rest)
	if _, r, ok := lexer.Identifier(rest); ok {
		rest = lexer.SkipWs(r)
	}
	nws2, rest := wsChar(rest)

	return rest, &ast.BlockDef{
		Ws1:  ast.Ws{Left: pws1, Right: nws1},
		Name: name,
		Body: body,
		Ws2:  ast.Ws{Left: pws2, Right: nws2},
	}, nil
}

// macroStmt parses `macro NAME(params) ... endmacro [NAME]`, with the same
// unchecked closing name as blockStmt. The name "super" is reserved.
func (p *parser) macroStmt(i string) (string, ast.Node, error) {
	pws1, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "macro")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	nameAt := rest
	name, rest, ok := lexer.Identifier(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected macro name after 'macro'")
	}
	if name == "super" {
		return i, nil, p.fatalf(nameAt, "'super' is not a valid macro name")
	}

	var params []string
	if r := lexer.SkipWs(rest); strings.HasPrefix(r, "(") {
		r = lexer.SkipWs(r[1:])
		if !strings.HasPrefix(r, ")") {
			for {
				param, r2, ok := lexer.Identifier(r)
				if !ok {
					return i, nil, p.fatalf(r, "expected parameter name")
				}
				params = append(params, param)
				r = lexer.SkipWs(r2)
				if !strings.HasPrefix(r, ",") {
					break
				}
				// a comma commits to another parameter
				r = lexer.SkipWs(r[1:])
			}
		}
		if !strings.HasPrefix(r, ")") {
			return i, nil, p.fatalf(r, "expected ')' after macro parameters")
		}
		rest = r[1:]
	}

	rest = lexer.SkipWs(rest)
	nws1, rest := wsChar(rest)
	rest, err := p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	rest, body, err := p.nodes(rest)
	if err != nil {
		return i, nil, err
	}

	rest, err = p.tagBlockStart(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "'endmacro'")
	}
	pws2, rest := wsChar(rest)
	rest = lexer.SkipWs(rest)
	rest, ok = lexer.Keyword(rest, "endmacro")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'endmacro'")
	}

	rest = lexer.SkipWs(rest)
	if _, r, ok := lexer.Identifier(rest); ok {
		rest = lexer.SkipWs(r)
	}
	nws2, rest := wsChar(rest)

	return rest, &ast.Macro{
		Name: name,
		Ws1:  ast.Ws{Left: pws1, Right: nws1},
		Args: params,
		Body: body,
		Ws2:  ast.Ws{Left: pws2, Right: nws2},
	}, nil
}

// rawStmt parses `raw ... endraw`. Everything up to the first true endraw tag
// is kept verbatim, markers included; only `{% endraw %}` (with optional trim
// characters) closes the construct.
func (p *parser) rawStmt(i string) (string, ast.Node, error) {
	pws1, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "raw")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	nws1, rest := wsChar(rest)
	rest, err := p.tagBlockEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.BlockEnd)
	}

	content := rest
	for at := 0; ; {
		j := strings.Index(content[at:], p.syntax.BlockStart)
		if j < 0 {
			return i, nil, p.fatalf(content[len(content):], "expected 'endraw'")
		}
		at += j

		r := content[at+len(p.syntax.BlockStart):]
		pws2, r := wsChar(r)
		r = lexer.SkipWs(r)
		r, ok := lexer.Keyword(r, "endraw")
		if !ok {
			at++
			continue
		}
		r = lexer.SkipWs(r)
		nws2, r := wsChar(r)
		if !strings.HasPrefix(r, p.syntax.BlockEnd) {
			at++
			continue
		}

		span := splitWsParts(content[:at])
		return r, &ast.Raw{
			Ws1:     ast.Ws{Left: pws1, Right: nws1},
			LeftWs:  span.LeftWs,
			Content: span.Content,
			RightWs: span.RightWs,
			Ws2:     ast.Ws{Left: pws2, Right: nws2},
		}, nil
	}
}
