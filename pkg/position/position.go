// Package position maps byte offsets in template source to line/column
// places for diagnostics. Columns are counted in grapheme clusters, not
// bytes, so reported positions line up with what an editor shows.
package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Place is a zero-based line/character position.
type Place struct {
	Line      int
	Character int
}

// Range is a half-open span between two places.
type Range struct {
	Start Place
	End   Place
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// RawPosition is a byte offset in the source text plus the text it refers to.
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the text at this position, possibly empty
	Text string
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// ID returns a unique identifier for this position based on offset and text.
func (p RawPosition) ID() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

func (p RawPosition) Length() int {
	return len(p.Text)
}

// GetLineAndColumn computes the zero-based line and column of p within text.
// The column counts grapheme clusters from the last newline.
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	offset := p.Offset
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}

	lastNewline := strings.LastIndexByte(text[:offset], '\n')
	line = strings.Count(text[:offset], "\n")

	segments, err := textseg.TokenCount([]byte(text[lastNewline+1:offset]), textseg.ScanGraphemeClusters)
	if err != nil {
		// fall back to byte columns
		return line, offset - lastNewline - 1
	}
	return line, segments
}

// GetRange computes the line/column range covered by p's text.
func (p RawPosition) GetRange(text string) Range {
	startLine, startCol := p.GetLineAndColumn(text)
	end := RawPosition{Offset: p.Offset + p.Length()}
	endLine, endCol := end.GetLineAndColumn(text)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}
