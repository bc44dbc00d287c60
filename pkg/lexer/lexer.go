// Package lexer provides the lexical primitives the template grammar is built
// on. Every function is a pure scan over a string slice: it returns the
// matched text, the remaining input, and whether it matched at all. Nothing
// here allocates beyond path segment slices.
package lexer

import "strings"

func isWs(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// SkipWs drops leading ASCII whitespace (space, tab, CR, LF).
func SkipWs(i string) string {
	n := 0
	for n < len(i) && isWs(i[n]) {
		n++
	}
	return i[n:]
}

// Identifier matches `[A-Za-z_][A-Za-z0-9_]*`.
func Identifier(i string) (string, string, bool) {
	if len(i) == 0 || !isIdentStart(i[0]) {
		return "", i, false
	}
	n := 1
	for n < len(i) && isIdentCont(i[n]) {
		n++
	}
	return i[:n], i[n:], true
}

// Keyword matches kw as a complete word: the next character must not be able
// to continue an identifier, so `forx` does not match the keyword `for`.
func Keyword(i, kw string) (string, bool) {
	if !strings.HasPrefix(i, kw) {
		return i, false
	}
	rest := i[len(kw):]
	if len(rest) > 0 && isIdentCont(rest[0]) {
		return i, false
	}
	return rest, true
}

// NumLit matches a run of digits with an optional fractional part.
func NumLit(i string) (string, string, bool) {
	n := 0
	for n < len(i) && isDigit(i[n]) {
		n++
	}
	if n == 0 {
		return "", i, false
	}
	if n+1 < len(i) && i[n] == '.' && isDigit(i[n+1]) {
		n += 2
		for n < len(i) && isDigit(i[n]) {
			n++
		}
	}
	return i[:n], i[n:], true
}

// StrLit matches a double-quoted string with backslash escapes and returns
// the inner text without the quotes. Escapes are kept verbatim; decoding them
// is a downstream concern.
func StrLit(i string) (string, string, bool) {
	if len(i) == 0 || i[0] != '"' {
		return "", i, false
	}
	n := 1
	for n < len(i) {
		switch i[n] {
		case '\\':
			if n+1 >= len(i) {
				return "", i, false
			}
			n += 2
		case '"':
			return i[1:n], i[n+1:], true
		default:
			n++
		}
	}
	return "", i, false
}

// CharLit matches a single-quoted character literal (one character or one
// backslash escape) and returns the inner text.
func CharLit(i string) (string, string, bool) {
	if len(i) < 3 || i[0] != '\'' {
		return "", i, false
	}
	if i[1] == '\\' {
		if len(i) < 4 || i[3] != '\'' {
			return "", i, false
		}
		return i[1:3], i[4:], true
	}
	if i[1] == '\'' || i[2] != '\'' {
		return "", i, false
	}
	return i[1:2], i[3:], true
}

// BoolLit matches `true` or `false`.
func BoolLit(i string) (string, string, bool) {
	if rest, ok := Keyword(i, "true"); ok {
		return "true", rest, true
	}
	if rest, ok := Keyword(i, "false"); ok {
		return "false", rest, true
	}
	return "", i, false
}

// Path matches a `::`-qualified path: an optional leading `::` (recorded as
// an empty first segment), then two or more identifiers separated by `::`
// with whitespace tolerated around the separators. A single identifier counts
// as a path only when it starts with an uppercase letter; lowercase names are
// left for the caller to treat as plain identifiers.
func Path(i string) ([]string, string, bool) {
	var segments []string
	rest := i

	if r := SkipWs(rest); strings.HasPrefix(r, "::") {
		segments = append(segments, "")
		rest = SkipWs(r[2:])
	}

	first, r, ok := Identifier(rest)
	if !ok {
		return nil, i, false
	}
	segments = append(segments, first)
	rest = r

	qualified := len(segments) > 1 // had a leading ::
	for {
		r := SkipWs(rest)
		if !strings.HasPrefix(r, "::") {
			break
		}
		seg, r2, ok := Identifier(SkipWs(r[2:]))
		if !ok {
			return nil, i, false
		}
		segments = append(segments, seg)
		rest = r2
		qualified = true
	}

	if !qualified {
		if first[0] < 'A' || first[0] > 'Z' {
			return nil, i, false
		}
	}
	return segments, rest, true
}
