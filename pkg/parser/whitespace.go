package parser

import (
	"strings"

	"github.com/walteh/tmplc/pkg/ast"
)

const wsChars = " \t\r\n"

// wsChar reads an optional trim marker. The marker must sit immediately at i:
// inside an opening delimiter it governs the construct's left edge, before a
// closing delimiter its right edge.
func wsChar(i string) (ast.Whitespace, string) {
	if len(i) > 0 {
		switch i[0] {
		case '-':
			return ast.WsSuppress, i[1:]
		case '+':
			return ast.WsPreserve, i[1:]
		case '~':
			return ast.WsMinimize, i[1:]
		}
	}
	return ast.WsDefault, i
}

// splitWsParts splits a raw text span into leading-whitespace / core /
// trailing-whitespace so trim directives of neighbouring constructs can be
// applied downstream without rescanning.
func splitWsParts(s string) *ast.Lit {
	trimmed := strings.TrimLeft(s, wsChars)
	lws := s[:len(s)-len(trimmed)]
	core := strings.TrimRight(trimmed, wsChars)
	rws := trimmed[len(core):]
	return &ast.Lit{LeftWs: lws, Content: core, RightWs: rws}
}
