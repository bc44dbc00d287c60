// Package parser implements the statement grammar of the template language:
// a single-pass recursive-descent parser that turns template source into a
// sequence of ast.Node values for the code generator.
//
// Every internal parse function has one of three outcomes: it matches and
// returns the remaining input, it fails with errNoMatch so the caller can try
// the next grammar alternative, or it fails with a *Error that aborts the
// whole parse. Once a construct's keyword has matched, all further failures
// inside it are fatal.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/tmplc/pkg/ast"
	"github.com/walteh/tmplc/pkg/syntax"
	"gitlab.com/tozd/go/errors"
)

// Error is a fatal parse error. Offset is the byte offset into the source of
// the actual malformed token, not of an earlier recoverable retry.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Message, e.Offset)
}

// errNoMatch signals that the current alternative does not apply here and the
// caller should try the next one. It never escapes the package.
var errNoMatch = errors.New("no match")

// parser carries the delimiter configuration and the only mutable parse
// state: the loop-nesting counter validating break/continue. It is scoped to
// one Parse call.
type parser struct {
	src       string
	syntax    *syntax.Syntax
	loopDepth int
}

// Parse parses a complete template. It returns the full node sequence or a
// single *Error; there is no partial output. A nil syn uses the default
// delimiters.
func Parse(ctx context.Context, src string, syn *syntax.Syntax) ([]ast.Node, error) {
	if syn == nil {
		syn = syntax.Default()
	}
	if err := syn.Validate(); err != nil {
		return nil, err
	}

	p := &parser{src: src, syntax: syn}
	rest, nodes, err := p.nodes(src)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, &Error{Offset: p.offset(rest), Message: "unrecognized template syntax"}
	}

	zerolog.Ctx(ctx).Debug().Int("nodes", len(nodes)).Msg("parsed template")

	return nodes, nil
}

// offset converts a suffix of the source back into a byte offset. All parse
// functions pass suffixes of p.src around, so this is exact.
func (p *parser) offset(i string) int {
	return len(p.src) - len(i)
}

func (p *parser) fatalf(i string, format string, args ...any) error {
	return &Error{Offset: p.offset(i), Message: fmt.Sprintf(format, args...)}
}

// cut escalates a recoverable no-match into a fatal error at i. Fatal errors
// pass through unchanged so they keep the deepest offset.
func (p *parser) cut(err error, i string, what string) error {
	if isFatal(err) {
		return err
	}
	return p.fatalf(i, "expected %s", what)
}

func isFatal(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// enterLoop increments the loop-nesting counter and returns the matching
// decrement, to be deferred so the counter is restored on every exit path.
func (p *parser) enterLoop() func() {
	p.loopDepth++
	return func() { p.loopDepth-- }
}

func (p *parser) isInLoop() bool {
	return p.loopDepth > 0
}

func (p *parser) tagBlockStart(i string) (string, error) {
	if strings.HasPrefix(i, p.syntax.BlockStart) {
		return i[len(p.syntax.BlockStart):], nil
	}
	return i, errNoMatch
}

func (p *parser) tagBlockEnd(i string) (string, error) {
	if strings.HasPrefix(i, p.syntax.BlockEnd) {
		return i[len(p.syntax.BlockEnd):], nil
	}
	return i, errNoMatch
}

func (p *parser) tagExprStart(i string) (string, error) {
	if strings.HasPrefix(i, p.syntax.ExprStart) {
		return i[len(p.syntax.ExprStart):], nil
	}
	return i, errNoMatch
}

func (p *parser) tagExprEnd(i string) (string, error) {
	if strings.HasPrefix(i, p.syntax.ExprEnd) {
		return i[len(p.syntax.ExprEnd):], nil
	}
	return i, errNoMatch
}

func (p *parser) tagCommentStart(i string) (string, error) {
	if strings.HasPrefix(i, p.syntax.CommentStart) {
		return i[len(p.syntax.CommentStart):], nil
	}
	return i, errNoMatch
}

func (p *parser) tagCommentEnd(i string) (string, error) {
	if strings.HasPrefix(i, p.syntax.CommentEnd) {
		return i[len(p.syntax.CommentEnd):], nil
	}
	return i, errNoMatch
}
