package parser

import (
	"strings"

	"github.com/walteh/tmplc/pkg/ast"
	"github.com/walteh/tmplc/pkg/lexer"
)

// target parses a destructuring pattern. Attempt order: literal pattern,
// parenthesized group, qualified path with optional struct payload, bare
// identifier. Parenthesization is transparent: `(x)` collapses to the inner
// pattern, only `(x,)` is a one-element tuple.
func (p *parser) target(i string) (string, ast.Target, error) {
	rest := lexer.SkipWs(i)

	if rest2, lit, ok := targetLit(rest); ok {
		return rest2, lit, nil
	}

	if strings.HasPrefix(rest, "(") {
		return p.tupleTarget(i, lexer.SkipWs(rest[1:]))
	}

	if segments, r, ok := lexer.Path(rest); ok {
		return p.pathTarget(i, segments, r)
	}

	if name, r, ok := lexer.Identifier(rest); ok {
		return r, &ast.Name{Name: name}, nil
	}

	return i, nil, errNoMatch
}

func targetLit(i string) (string, ast.Target, bool) {
	if v, rest, ok := lexer.StrLit(i); ok {
		return rest, &ast.StrLit{Value: v}, true
	}
	if v, rest, ok := lexer.CharLit(i); ok {
		return rest, &ast.CharLit{Value: v}, true
	}
	if v, rest, ok := lexer.NumLit(i); ok {
		return rest, &ast.NumLit{Value: v}, true
	}
	if v, rest, ok := lexer.BoolLit(i); ok {
		return rest, &ast.BoolLit{Value: v}, true
	}
	return i, nil, false
}

// tupleTarget parses the inside of a bare parenthesized pattern, starting
// just after the '('. `()` is the empty tuple; a single pattern with no
// trailing comma collapses to that pattern; anything else is a tuple and a
// malformed tail is fatal.
func (p *parser) tupleTarget(i, rest string) (string, ast.Target, error) {
	if strings.HasPrefix(rest, ")") {
		return rest[1:], &ast.Tuple{}, nil
	}

	rest, first, err := p.target(rest)
	if err != nil {
		return i, nil, err
	}

	rest = lexer.SkipWs(rest)
	if strings.HasPrefix(rest, ")") {
		// unused parentheses around a single pattern
		return rest[1:], first, nil
	}

	targets := []ast.Target{first}
	for strings.HasPrefix(rest, ",") {
		rest = lexer.SkipWs(rest[1:])
		if strings.HasPrefix(rest, ")") {
			break
		}
		r, t, err := p.target(rest)
		if err != nil {
			return i, nil, p.cut(err, rest, "pattern in tuple")
		}
		targets = append(targets, t)
		rest = lexer.SkipWs(r)
	}
	if !strings.HasPrefix(rest, ")") {
		return i, nil, p.fatalf(rest, "expected ')' after tuple pattern")
	}
	return rest[1:], &ast.Tuple{Targets: targets}, nil
}

// pathTarget handles a parsed path followed by an optional struct payload:
// `Path(...)` destructures positionally, `Path { ... }` by field name, with
// an optional `with` keyword before the payload. Without a payload the path
// stands alone and parsing resumes right after it.
func (p *parser) pathTarget(i string, segments []string, afterPath string) (string, ast.Target, error) {
	rest := lexer.SkipWs(afterPath)
	if r, ok := lexer.Keyword(rest, "with"); ok {
		rest = lexer.SkipWs(r)
	}

	if strings.HasPrefix(rest, "(") {
		rest = lexer.SkipWs(rest[1:])
		if strings.HasPrefix(rest, ")") {
			return rest[1:], &ast.Tuple{Path: segments}, nil
		}

		var targets []ast.Target
		for {
			r, t, err := p.target(rest)
			if err != nil {
				return i, nil, p.cut(err, rest, "pattern in struct pattern")
			}
			targets = append(targets, t)
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
			return i, nil, p.fatalf(rest, "expected ')' after struct pattern")
		}
		return rest[1:], &ast.Tuple{Path: segments, Targets: targets}, nil
	}

	if strings.HasPrefix(rest, "{") {
		rest = lexer.SkipWs(rest[1:])
		if strings.HasPrefix(rest, "}") {
			return rest[1:], &ast.Struct{Path: segments}, nil
		}

		var fields []ast.NamedTarget
		for {
			r, field, err := p.namedTarget(rest)
			if err != nil {
				return i, nil, p.cut(err, rest, "field pattern in struct pattern")
			}
			fields = append(fields, field)
			rest = lexer.SkipWs(r)
			if strings.HasPrefix(rest, ",") {
				rest = lexer.SkipWs(rest[1:])
				if strings.HasPrefix(rest, "}") {
					break
				}
				continue
			}
			break
		}
		if !strings.HasPrefix(rest, "}") {
			return i, nil, p.fatalf(rest, "expected '}' after struct pattern")
		}
		return rest[1:], &ast.Struct{Path: segments, Fields: fields}, nil
	}

	// no payload: the path stands alone, and a consumed `with` is put back
	return afterPath, &ast.Path{Segments: segments}, nil
}

// namedTarget parses one `name[: pattern]` struct field; `name` alone is
// shorthand for `name: name`.
func (p *parser) namedTarget(i string) (string, ast.NamedTarget, error) {
	name, rest, ok := lexer.Identifier(i)
	if !ok {
		return i, ast.NamedTarget{}, errNoMatch
	}

	if r := lexer.SkipWs(rest); strings.HasPrefix(r, ":") {
		r, t, err := p.target(lexer.SkipWs(r[1:]))
		if err != nil {
			return i, ast.NamedTarget{}, err
		}
		return r, ast.NamedTarget{Name: name, Target: t}, nil
	}
	return rest, ast.NamedTarget{Name: name, Target: &ast.Name{Name: name}}, nil
}
