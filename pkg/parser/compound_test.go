package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tmplc/pkg/ast"
)

func TestIfChain(t *testing.T) {
	nodes := mustParse(t, "{% if a %}1{% else if b %}2{% else %}3{% endif %}")
	require.Len(t, nodes, 1)

	cond, ok := nodes[0].(*ast.Cond)
	require.True(t, ok)
	require.Len(t, cond.Branches, 3)

	assert.Equal(t, &ast.CondTest{Expr: &ast.Var{Name: "a"}}, cond.Branches[0].Test)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "1"}}, cond.Branches[0].Body)

	assert.Equal(t, &ast.CondTest{Expr: &ast.Var{Name: "b"}}, cond.Branches[1].Test)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "2"}}, cond.Branches[1].Body)

	assert.Nil(t, cond.Branches[2].Test)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "3"}}, cond.Branches[2].Body)
}

func TestIfLet(t *testing.T) {
	nodes := mustParse(t, "{% if let Some(x) = opt %}y{% endif %}")
	require.Len(t, nodes, 1)

	cond := nodes[0].(*ast.Cond)
	require.Len(t, cond.Branches, 1)
	assert.Equal(t, &ast.CondTest{
		Target: &ast.Tuple{Path: []string{"Some"}, Targets: []ast.Target{&ast.Name{Name: "x"}}},
		Expr:   &ast.Var{Name: "opt"},
	}, cond.Branches[0].Test)
}

func TestIfLetBacktracksToPlainCondition(t *testing.T) {
	// an identifier that merely starts with "let" is not a binding
	nodes := mustParse(t, "{% if letter %}y{% endif %}")
	cond := nodes[0].(*ast.Cond)
	require.Len(t, cond.Branches, 1)
	assert.Equal(t, &ast.CondTest{Expr: &ast.Var{Name: "letter"}}, cond.Branches[0].Test)
}

func TestIfErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "missing condition", src: "{% if %}x{% endif %}", want: "condition"},
		{name: "missing endif", src: "{% if a %}x", want: "endif"},
		{name: "dangling else", src: "{% if a %}x{% else %}", want: "endif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := mustFail(t, tt.src)
			assert.Contains(t, perr.Message, tt.want)
		})
	}
}

func TestForLoop(t *testing.T) {
	nodes := mustParse(t, "{% for x in items if x > 0 %}a{% else %}b{% endfor %}")
	require.Len(t, nodes, 1)

	loop, ok := nodes[0].(*ast.Loop)
	require.True(t, ok)
	assert.Equal(t, &ast.Name{Name: "x"}, loop.Var)
	assert.Equal(t, &ast.Var{Name: "items"}, loop.Iter)
	assert.Equal(t, &ast.BinOp{Op: ">", Lhs: &ast.Var{Name: "x"}, Rhs: &ast.NumLit{Value: "0"}}, loop.Cond)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "a"}}, loop.Body)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "b"}}, loop.ElseBody)
}

func TestForLoopTuplePattern(t *testing.T) {
	nodes := mustParse(t, "{% for (k, v) in entries %}x{% endfor %}")
	loop := nodes[0].(*ast.Loop)
	assert.Equal(t, &ast.Tuple{Targets: []ast.Target{
		&ast.Name{Name: "k"},
		&ast.Name{Name: "v"},
	}}, loop.Var)
	assert.Nil(t, loop.Cond)
	assert.Nil(t, loop.ElseBody)
}

func TestBreakContinuePlacement(t *testing.T) {
	t.Run("valid in loop body", func(t *testing.T) {
		nodes := mustParse(t, "{% for x in xs %}{% break %}{% continue %}{% endfor %}")
		loop := nodes[0].(*ast.Loop)
		assert.Equal(t, []ast.Node{&ast.Break{}, &ast.Continue{}}, loop.Body)
	})

	t.Run("valid in nested loop", func(t *testing.T) {
		mustParse(t, "{% for x in xs %}{% for y in ys %}{% break %}{% endfor %}{% continue %}{% endfor %}")
	})

	t.Run("invalid at top level", func(t *testing.T) {
		perr := mustFail(t, "{% break %}")
		assert.Contains(t, perr.Message, "break")
	})

	t.Run("continue invalid at top level", func(t *testing.T) {
		perr := mustFail(t, "{% continue %}")
		assert.Contains(t, perr.Message, "continue")
	})

	t.Run("invalid in loop else block", func(t *testing.T) {
		perr := mustFail(t, "{% for x in xs %}a{% else %}{% break %}{% endfor %}")
		assert.Contains(t, perr.Message, "break")
	})

	t.Run("invalid after the loop", func(t *testing.T) {
		mustFail(t, "{% for x in xs %}a{% endfor %}{% continue %}")
	})
}

func TestMatch(t *testing.T) {
	nodes := mustParse(t, `{% match x %}{% when Some with (v) %}{{ v }}{% else %}none{% endmatch %}`)
	require.Len(t, nodes, 1)

	m, ok := nodes[0].(*ast.Match)
	require.True(t, ok)
	assert.Equal(t, &ast.Var{Name: "x"}, m.Expr)
	require.Len(t, m.Arms, 2)

	assert.Equal(t, &ast.Tuple{Path: []string{"Some"}, Targets: []ast.Target{&ast.Name{Name: "v"}}}, m.Arms[0].Target)
	assert.Equal(t, []ast.Node{&ast.ExprNode{Expr: &ast.Var{Name: "v"}}}, m.Arms[0].Body)

	assert.Equal(t, &ast.Name{Name: "_"}, m.Arms[1].Target)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "none"}}, m.Arms[1].Body)
}

func TestMatchElseAlwaysLast(t *testing.T) {
	// `when` arms may follow the else arm; the wildcard still sorts last
	nodes := mustParse(t, "{% match x %}{% when A %}a{% when B %}b{% else %}e{% when C %}c{% endmatch %}")
	m := nodes[0].(*ast.Match)
	require.Len(t, m.Arms, 4)

	assert.Equal(t, &ast.Path{Segments: []string{"A"}}, m.Arms[0].Target)
	assert.Equal(t, &ast.Path{Segments: []string{"B"}}, m.Arms[1].Target)
	assert.Equal(t, &ast.Path{Segments: []string{"C"}}, m.Arms[2].Target)
	assert.Equal(t, &ast.Name{Name: "_"}, m.Arms[3].Target)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "e"}}, m.Arms[3].Body)
}

func TestMatchLiteralPatterns(t *testing.T) {
	nodes := mustParse(t, `{% match x %}{% when 1 %}a{% when "s" %}b{% when true %}c{% endmatch %}`)
	m := nodes[0].(*ast.Match)
	require.Len(t, m.Arms, 3)
	assert.Equal(t, &ast.NumLit{Value: "1"}, m.Arms[0].Target)
	assert.Equal(t, &ast.StrLit{Value: "s"}, m.Arms[1].Target)
	assert.Equal(t, &ast.BoolLit{Value: "true"}, m.Arms[2].Target)
}

func TestMatchLeadingComment(t *testing.T) {
	nodes := mustParse(t, "{% match x %} {# docs #} {% when A %}a{% endmatch %}")
	m := nodes[0].(*ast.Match)
	require.Len(t, m.Arms, 1)
}

func TestMatchErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "second else arm",
			src:  "{% match x %}{% when A %}a{% else %}e{% else %}f{% endmatch %}",
			want: "second 'else'",
		},
		{
			name: "no when arms",
			src:  "{% match x %}{% endmatch %}",
			want: "'when'",
		},
		{
			name: "only an else arm",
			src:  "{% match x %}{% else %}e{% endmatch %}",
			want: "'when'",
		},
		{
			name: "missing endmatch",
			src:  "{% match x %}{% when A %}a",
			want: "endmatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := mustFail(t, tt.src)
			assert.Contains(t, perr.Message, tt.want)
		})
	}
}

func TestBlockDef(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "bare endblock", src: "{% block b %}t{% endblock %}"},
		{name: "matching closing name", src: "{% block b %}t{% endblock b %}"},
		{name: "any closing name is accepted", src: "{% block b %}t{% endblock other %}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := mustParse(t, tt.src)
			require.Len(t, nodes, 1)
			block, ok := nodes[0].(*ast.BlockDef)
			require.True(t, ok)
			assert.Equal(t, "b", block.Name)
			assert.Equal(t, []ast.Node{&ast.Lit{Content: "t"}}, block.Body)
		})
	}
}

func TestMacro(t *testing.T) {
	nodes := mustParse(t, "{% macro heading(level, text) %}h{% endmacro heading %}")
	require.Len(t, nodes, 1)

	m, ok := nodes[0].(*ast.Macro)
	require.True(t, ok)
	assert.Equal(t, "heading", m.Name)
	assert.Equal(t, []string{"level", "text"}, m.Args)
	assert.Equal(t, []ast.Node{&ast.Lit{Content: "h"}}, m.Body)
}

func TestMacroNoParams(t *testing.T) {
	nodes := mustParse(t, "{% macro m() %}{% endmacro %}")
	m := nodes[0].(*ast.Macro)
	assert.Empty(t, m.Args)
}

func TestMacroTrailingCommaRejected(t *testing.T) {
	perr := mustFail(t, "{% macro m(a, b,) %}{% endmacro %}")
	assert.Contains(t, perr.Message, "parameter")
}

func TestMacroSuperReserved(t *testing.T) {
	perr := mustFail(t, "{% macro super() %}{% endmacro %}")
	assert.Contains(t, perr.Message, "super")
}

func TestRaw(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *ast.Raw
	}{
		{
			name: "markers inside are kept verbatim",
			src:  "{% raw %}{% if x %}{% endraw %}",
			want: &ast.Raw{Content: "{% if x %}"},
		},
		{
			name: "edge whitespace is split off",
			src:  "{% raw %} keep {% endraw %}",
			want: &ast.Raw{LeftWs: " ", Content: "keep", RightWs: " "},
		},
		{
			name: "near-miss endraw does not close",
			src:  "{% raw %}{% endrawish %}{% endraw %}",
			want: &ast.Raw{Content: "{% endrawish %}"},
		},
		{
			name: "trim directives on the inner tags",
			src:  "{% raw -%}x{%- endraw %}",
			want: &ast.Raw{
				Ws1:     ast.Ws{Right: ast.WsSuppress},
				Content: "x",
				Ws2:     ast.Ws{Left: ast.WsSuppress},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := mustParse(t, tt.src)
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.want, nodes[0])
		})
	}
}

func TestRawUnclosed(t *testing.T) {
	perr := mustFail(t, "{% raw %}text forever")
	assert.Contains(t, perr.Message, "endraw")
	assert.Equal(t, len("{% raw %}text forever"), perr.Offset)
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Node
	}{
		{
			name: "declaration only",
			src:  "{% let x %}",
			want: &ast.LetDecl{Var: &ast.Name{Name: "x"}},
		},
		{
			name: "set is an alias",
			src:  "{% set y = 1 %}",
			want: &ast.Let{Var: &ast.Name{Name: "y"}, Val: &ast.NumLit{Value: "1"}},
		},
		{
			name: "binding with expression",
			src:  "{% let total = a + b %}",
			want: &ast.Let{
				Var: &ast.Name{Name: "total"},
				Val: &ast.BinOp{Op: "+", Lhs: &ast.Var{Name: "a"}, Rhs: &ast.Var{Name: "b"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := mustParse(t, tt.src)
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.want, nodes[0])
		})
	}
}

func TestTemplateInheritanceTags(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Node
	}{
		{
			name: "extends",
			src:  `{% extends "base.html" %}`,
			want: &ast.Extends{Path: "base.html"},
		},
		{
			name: "include",
			src:  `{% include "partial.html" %}`,
			want: &ast.Include{Path: "partial.html"},
		},
		{
			name: "import",
			src:  `{% import "macros.html" as helpers %}`,
			want: &ast.Import{Path: "macros.html", Scope: "helpers"},
		},
		{
			name: "call without arguments",
			src:  "{% call m %}",
			want: &ast.Call{Name: "m"},
		},
		{
			name: "scoped call with arguments",
			src:  "{% call helpers::heading(1, text) %}",
			want: &ast.Call{Scope: "helpers", Name: "heading", Args: []ast.Expr{
				&ast.NumLit{Value: "1"},
				&ast.Var{Name: "text"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := mustParse(t, tt.src)
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.want, nodes[0])
		})
	}
}

func TestExtendsRequiresStringPath(t *testing.T) {
	perr := mustFail(t, "{% extends base %}")
	assert.Contains(t, perr.Message, "path")
}
