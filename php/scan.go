package php

import "strings"

const (
	// Indent is one level of indentation.
	Indent = "    "

	// MaxWidth is the soft line-width budget in bytes.
	MaxWidth = 120
)

func isQuote(c byte) bool { return c == '\'' || c == '"' }
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func isOpenBracket(c byte) bool  { return c == '(' || c == '[' || c == '{' }
func isCloseBracket(c byte) bool { return c == ')' || c == ']' || c == '}' }

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// literalEnd returns the index just past the quoted literal that starts
// at s[i]. Backslash escapes the next byte. An unterminated literal
// extends to the end of s.
func literalEnd(s string, i int) int {
	end, _ := scanLiteral(s, i)
	return end
}

func scanLiteral(s string, i int) (end int, closed bool) {
	q := s[i]
	for i++; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i + 1, true
		}
	}
	return len(s), false
}

// openQuote returns the quote byte of a literal left unterminated at the
// end of line, or 0 if every literal is closed.
func openQuote(line string) byte {
	for i := 0; i < len(line); {
		if !isQuote(line[i]) {
			i++
			continue
		}
		end, closed := scanLiteral(line, i)
		if !closed {
			return line[i]
		}
		i = end
	}
	return 0
}

// countQuotes counts unescaped occurrences of quote in line.
func countQuotes(line string, quote byte) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			n++
		}
	}
	return n
}

// containsCode reports whether needle occurs in code outside string literals.
func containsCode(code, needle string) bool {
	for i := 0; i < len(code); {
		if isQuote(code[i]) {
			i = literalEnd(code, i)
			continue
		}
		if strings.HasPrefix(code[i:], needle) {
			return true
		}
		i++
	}
	return false
}

// indexCode returns the index of the first byte c in s that is not part of
// a string literal, or -1.
func indexCode(s string, c byte) int {
	for i := 0; i < len(s); {
		if isQuote(s[i]) {
			i = literalEnd(s, i)
			continue
		}
		if s[i] == c {
			return i
		}
		i++
	}
	return -1
}

// matchingClose returns the index of the bracket that closes the one at
// s[open], counting all of (), [] and {} together, or -1 when the group
// is never closed.
func matchingClose(s string, open int) int {
	depth := 0
	for i := open; i < len(s); {
		c := s[i]
		switch {
		case isQuote(c):
			i = literalEnd(s, i)
			continue
		case isOpenBracket(c):
			depth++
		case isCloseBracket(c):
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// isWrapped reports whether s is a single bracketed group, opened by
// open at s[0] and closed by its own partner at the last byte.
func isWrapped(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close && matchingClose(s, 0) == len(s)-1
}

// countBrackets counts opening and closing brackets outside literals.
func countBrackets(s string) (opens, closes int) {
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isQuote(c):
			i = literalEnd(s, i)
			continue
		case isOpenBracket(c):
			opens++
		case isCloseBracket(c):
			closes++
		}
		i++
	}
	return opens, closes
}

// leadingClosers counts the closing brackets at the start of s.
func leadingClosers(s string) int {
	n := 0
	for n < len(s) && isCloseBracket(s[n]) {
		n++
	}
	return n
}

// splitTopLevel splits s at each sep byte that is outside literals and
// at bracket depth 0. Pieces are trimmed; a trailing empty piece (as left
// by a trailing comma) is dropped.
func splitTopLevel(s string, sep byte) []string {
	var items []string
	depth, start := 0, 0
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isQuote(c):
			i = literalEnd(s, i)
			continue
		case isOpenBracket(c):
			depth++
		case isCloseBracket(c):
			depth--
		case c == sep && depth == 0:
			items = append(items, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
		i++
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		items = append(items, last)
	}
	return items
}

// splitLines splits s into lines the way a text reader would: a final
// newline does not start an empty line, and a trailing \r is dropped.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
