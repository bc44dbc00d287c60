package parser

import (
	"strings"

	"github.com/walteh/tmplc/pkg/ast"
	"github.com/walteh/tmplc/pkg/lexer"
)

// nodes parses an ordered node sequence by trying, in order, literal text,
// comment, inline expression, tagged statement, until none matches. The
// caller decides whether the stopping point is valid (end of input, or a
// terminator tag like endif).
func (p *parser) nodes(i string) (string, []ast.Node, error) {
	var out []ast.Node
	alternatives := []func(string) (string, ast.Node, error){
		p.lit,
		p.comment,
		p.exprNode,
		p.tagged,
	}
	for {
		matched := false
		for _, alt := range alternatives {
			rest, n, err := alt(i)
			if err == nil {
				out = append(out, n)
				i = rest
				matched = true
				break
			}
			if isFatal(err) {
				return i, nil, err
			}
		}
		if !matched {
			return i, out, nil
		}
	}
}

// nextMarker returns the index of the earliest configured start marker in i,
// or -1 if none occurs.
func (p *parser) nextMarker(i string) int {
	idx := -1
	for _, m := range []string{p.syntax.BlockStart, p.syntax.CommentStart, p.syntax.ExprStart} {
		if j := strings.Index(i, m); j >= 0 && (idx < 0 || j < idx) {
			idx = j
		}
	}
	return idx
}

// lit scans literal text up to the next start marker, or to end of input. It
// does not match when a marker sits at offset zero: the caller must try a
// tagged construct there instead of emitting an empty literal.
func (p *parser) lit(i string) (string, ast.Node, error) {
	if i == "" {
		return i, nil, errNoMatch
	}
	idx := p.nextMarker(i)
	if idx == 0 {
		return i, nil, errNoMatch
	}
	if idx < 0 {
		idx = len(i)
	}
	return i[idx:], splitWsParts(i[:idx]), nil
}

// comment consumes a comment, balancing nested comment-start/comment-end
// pairs so an inner comment does not close the outer one. The body text is
// discarded; only the trim directives survive. The right-edge directive is
// inferred from the final character before the closing delimiter.
func (p *parser) comment(i string) (string, ast.Node, error) {
	rest, err := p.tagCommentStart(i)
	if err != nil {
		return i, nil, errNoMatch
	}
	pws, rest := wsChar(rest)

	depth := 0
	body := rest
	for {
		e := strings.Index(body, p.syntax.CommentEnd)
		if e < 0 {
			return i, nil, p.fatalf(body, "unclosed comment")
		}
		s := strings.Index(body, p.syntax.CommentStart)
		if s >= 0 && s < e {
			depth++
			body = body[s+len(p.syntax.CommentStart):]
			continue
		}
		if depth > 0 {
			depth--
			body = body[e+len(p.syntax.CommentEnd):]
			continue
		}

		tail := body[:e]
		rest, err = p.tagCommentEnd(body[e:])
		if err != nil {
			return i, nil, p.cut(err, body[e:], p.syntax.CommentEnd)
		}

		nws := ast.WsDefault
		switch {
		case strings.HasSuffix(tail, "-"):
			nws = ast.WsSuppress
		case strings.HasSuffix(tail, "+"):
			nws = ast.WsPreserve
		case strings.HasSuffix(tail, "~"):
			nws = ast.WsMinimize
		}
		return rest, &ast.Comment{Ws: ast.Ws{Left: pws, Right: nws}}, nil
	}
}

// exprNode parses an inlined expression `{{ expr }}`.
func (p *parser) exprNode(i string) (string, ast.Node, error) {
	rest, err := p.tagExprStart(i)
	if err != nil {
		return i, nil, errNoMatch
	}
	pws, rest := wsChar(rest)

	rest = lexer.SkipWs(rest)
	rest, expr, err := p.expr(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "expression")
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	rest, err = p.tagExprEnd(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, p.syntax.ExprEnd)
	}

	return rest, &ast.ExprNode{Ws: ast.Ws{Left: pws, Right: nws}, Expr: expr}, nil
}

// tagged parses one block statement: the block-start marker, a construct from
// the fixed-priority list, then the mandatory block-end marker. The first
// construct whose keyword matches wins; after that there is no backtracking
// across constructs, and a missing block-end is fatal.
func (p *parser) tagged(i string) (string, ast.Node, error) {
	rest, err := p.tagBlockStart(i)
	if err != nil {
		return i, nil, errNoMatch
	}

	constructs := []func(string) (string, ast.Node, error){
		p.callStmt,
		p.letStmt,
		p.ifStmt,
		p.forStmt,
		p.matchStmt,
		p.extendsStmt,
		p.includeStmt,
		p.importStmt,
		p.blockStmt,
		p.macroStmt,
		p.rawStmt,
		p.breakStmt,
		p.continueStmt,
	}
	for _, construct := range constructs {
		r, n, err := construct(rest)
		if err == nil {
			r2, err := p.tagBlockEnd(r)
			if err != nil {
				return i, nil, p.cut(err, r, p.syntax.BlockEnd)
			}
			return r2, n, nil
		}
		if isFatal(err) {
			return i, nil, err
		}
	}
	return i, nil, errNoMatch
}

// callStmt parses `call [scope::]name[(args)]`.
func (p *parser) callStmt(i string) (string, ast.Node, error) {
	pws, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "call")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	name, r, ok := lexer.Identifier(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected macro name after 'call'")
	}
	rest = r

	scope := ""
	if r := lexer.SkipWs(rest); strings.HasPrefix(r, "::") {
		scope = name
		r = lexer.SkipWs(r[2:])
		name, rest, ok = lexer.Identifier(r)
		if !ok {
			return i, nil, p.fatalf(r, "expected macro name after '::'")
		}
	}

	var args []ast.Expr
	if r := lexer.SkipWs(rest); strings.HasPrefix(r, "(") {
		r, parsed, err := p.arguments(r)
		if err != nil {
			return i, nil, p.cut(err, r, "macro arguments")
		}
		args = parsed
		rest = r
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	return rest, &ast.Call{Ws: ast.Ws{Left: pws, Right: nws}, Scope: scope, Name: name, Args: args}, nil
}

// letStmt parses `let|set PATTERN [= EXPR]`. Without an initializer the node
// is a declaration only.
func (p *parser) letStmt(i string) (string, ast.Node, error) {
	pws, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "let")
	if !ok {
		rest, ok = lexer.Keyword(rest, "set")
		if !ok {
			return i, nil, errNoMatch
		}
	}

	rest = lexer.SkipWs(rest)
	rest, target, err := p.target(rest)
	if err != nil {
		return i, nil, p.cut(err, rest, "pattern after 'let'")
	}

	rest = lexer.SkipWs(rest)
	var val ast.Expr
	if strings.HasPrefix(rest, "=") {
		r := lexer.SkipWs(rest[1:])
		r, val, err = p.expr(r)
		if err != nil {
			return i, nil, p.cut(err, r, "expression after '='")
		}
		rest = lexer.SkipWs(r)
	}

	nws, rest := wsChar(rest)
	ws := ast.Ws{Left: pws, Right: nws}
	if val == nil {
		return rest, &ast.LetDecl{Ws: ws, Var: target}, nil
	}
	return rest, &ast.Let{Ws: ws, Var: target, Val: val}, nil
}

// extendsStmt parses `extends "path"`. The construct carries no trim
// directives; at most one extends per template is enforced downstream.
func (p *parser) extendsStmt(i string) (string, ast.Node, error) {
	rest := lexer.SkipWs(i)
	rest, ok := lexer.Keyword(rest, "extends")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	path, rest, ok := lexer.StrLit(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected template path string after 'extends'")
	}
	return lexer.SkipWs(rest), &ast.Extends{Path: path}, nil
}

// includeStmt parses `include "path"`.
func (p *parser) includeStmt(i string) (string, ast.Node, error) {
	pws, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "include")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	path, rest, ok := lexer.StrLit(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected template path string after 'include'")
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	return rest, &ast.Include{Ws: ast.Ws{Left: pws, Right: nws}, Path: path}, nil
}

// importStmt parses `import "path" as scope`.
func (p *parser) importStmt(i string) (string, ast.Node, error) {
	pws, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "import")
	if !ok {
		return i, nil, errNoMatch
	}

	rest = lexer.SkipWs(rest)
	path, rest, ok := lexer.StrLit(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected template path string after 'import'")
	}

	rest = lexer.SkipWs(rest)
	rest, ok = lexer.Keyword(rest, "as")
	if !ok {
		return i, nil, p.fatalf(rest, "expected 'as' after import path")
	}

	rest = lexer.SkipWs(rest)
	scope, rest, ok := lexer.Identifier(rest)
	if !ok {
		return i, nil, p.fatalf(rest, "expected scope name after 'as'")
	}

	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	return rest, &ast.Import{Ws: ast.Ws{Left: pws, Right: nws}, Path: path, Scope: scope}, nil
}

// breakStmt parses `break`, valid only inside a loop body.
func (p *parser) breakStmt(i string) (string, ast.Node, error) {
	pws, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "break")
	if !ok {
		return i, nil, errNoMatch
	}
	if !p.isInLoop() {
		return i, nil, p.fatalf(i, "'break' is only allowed inside a loop")
	}
	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	return rest, &ast.Break{Ws: ast.Ws{Left: pws, Right: nws}}, nil
}

// continueStmt parses `continue`, valid only inside a loop body.
func (p *parser) continueStmt(i string) (string, ast.Node, error) {
	pws, rest := wsChar(i)
	rest = lexer.SkipWs(rest)
	rest, ok := lexer.Keyword(rest, "continue")
	if !ok {
		return i, nil, errNoMatch
	}
	if !p.isInLoop() {
		return i, nil, p.fatalf(i, "'continue' is only allowed inside a loop")
	}
	rest = lexer.SkipWs(rest)
	nws, rest := wsChar(rest)
	return rest, &ast.Continue{Ws: ast.Ws{Left: pws, Right: nws}}, nil
}
