package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/tmplc/pkg/position"
)

func TestGetLineAndColumn(t *testing.T) {
	src := "hello\nworld\nfoo"

	tests := []struct {
		name     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{name: "start of text", offset: 0, wantLine: 0, wantCol: 0},
		{name: "middle of first line", offset: 3, wantLine: 0, wantCol: 3},
		{name: "start of second line", offset: 6, wantLine: 1, wantCol: 0},
		{name: "middle of second line", offset: 8, wantLine: 1, wantCol: 2},
		{name: "last line", offset: 13, wantLine: 2, wantCol: 1},
		{name: "past the end clamps", offset: 99, wantLine: 2, wantCol: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := position.RawPosition{Offset: tt.offset}
			line, col := pos.GetLineAndColumn(src)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestGetLineAndColumnMultibyte(t *testing.T) {
	// "héllo" is 6 bytes; the column after it must be 5 characters
	src := "héllo X"
	pos := position.RawPosition{Offset: 7}
	line, col := pos.GetLineAndColumn(src)
	assert.Equal(t, 0, line)
	assert.Equal(t, 6, col)
}

func TestGetRange(t *testing.T) {
	src := "abc\ndef"
	pos := position.NewBasicPosition("def", 4)
	r := pos.GetRange(src)
	assert.Equal(t, position.Place{Line: 1, Character: 0}, r.Start)
	assert.Equal(t, position.Place{Line: 1, Character: 3}, r.End)
	assert.Equal(t, "1:0-1:3", r.String())
}

func TestID(t *testing.T) {
	pos := position.NewBasicPosition("x", 12)
	assert.Equal(t, "x@12", pos.ID())
	assert.Equal(t, 1, pos.Length())
}
