package php

import "strings"

// Control keywords that get a space before their opening parenthesis.
var spacedKeywords = map[string]bool{
	"if":      true,
	"elseif":  true,
	"else":    true,
	"foreach": true,
	"for":     true,
	"while":   true,
	"switch":  true,
	"catch":   true,
	"match":   true,
}

// FormatCode normalizes the spacing of a single line of code:
//
//   - a comma is followed by exactly one space,
//   - => has one space on each side,
//   - a control keyword directly followed by ( gets a space,
//   - spaces just inside ( [ and ) ] are removed.
//
// String literals are copied verbatim. FormatCode is idempotent.
func FormatCode(code string) string {
	b := make([]byte, 0, len(code)+8)
	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case isQuote(c):
			end := literalEnd(code, i)
			b = append(b, code[i:end]...)
			i = end
		case c == '=' && i+1 < len(code) && code[i+1] == '>' && !(i > 0 && code[i-1] == '<'):
			b = trimSpaces(b)
			b = append(b, " =>"...)
			i = skipSpaces(code, i+2)
			if i < len(code) && code[i] != '\n' {
				b = append(b, ' ')
			}
		case c == ',':
			b = append(b, ',')
			i = skipSpaces(code, i+1)
			if i < len(code) && code[i] != '\n' {
				b = append(b, ' ')
			}
		case c == ')' || c == ']':
			b = trimSpaces(b)
			b = append(b, c)
			i++
		case c == '(' || c == '[':
			b = append(b, c)
			i = skipSpaces(code, i+1)
		case isWordByte(c) && !('0' <= c && c <= '9'):
			j := i
			for j < len(code) && isWordByte(code[j]) {
				j++
			}
			word := code[i:j]
			b = append(b, word...)
			if spacedKeywords[word] && j < len(code) && code[j] == '(' && !isMemberName(code, i) {
				b = append(b, ' ')
			}
			i = j
		default:
			b = append(b, c)
			i++
		}
	}
	return string(b)
}

// isMemberName reports whether the word at code[i] is a variable, property
// or method name rather than a keyword ($if, ->match, ::for).
func isMemberName(code string, i int) bool {
	if i == 0 {
		return false
	}
	switch code[i-1] {
	case '$':
		return true
	case '>', ':':
		return i >= 2 && (code[i-2] == '-' || code[i-2] == ':')
	}
	return false
}

func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// trimSpaces drops trailing spaces already written to b.
func trimSpaces(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return b
}

// JoinLines joins the lines of code into one, trimming each, and pulls
// continuation lines that start with -> back onto the receiver.
func JoinLines(code string) string {
	lines := splitLines(code)
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.ReplaceAll(strings.Join(lines, " "), " ->", "->")
}

// splitChain splits code at each top-level -> into method-chain segments.
// Every segment but the first keeps its leading ->.
func splitChain(code string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case isQuote(c):
			i = literalEnd(code, i)
			continue
		case isOpenBracket(c):
			depth++
		case isCloseBracket(c):
			depth--
		case c == '-' && depth == 0 && i+1 < len(code) && code[i+1] == '>' && !(i > 0 && code[i-1] == '?'):
			parts = append(parts, strings.TrimRight(code[start:i], " "))
			start = i
			i += 2
			continue
		}
		i++
	}
	if start < len(code) {
		parts = append(parts, strings.TrimRight(code[start:], " "))
	}
	return parts
}

// splitConcat splits code at each top-level concatenation operator.
// The dots themselves are dropped.
func splitConcat(code string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case isQuote(c):
			i = literalEnd(code, i)
			continue
		case isOpenBracket(c):
			depth++
		case isCloseBracket(c):
			depth--
		case strings.HasPrefix(code[i:], "..."):
			i += 3
			continue
		case c == '.' && depth == 0 && isConcatAt(code, i):
			parts = append(parts, strings.TrimSpace(code[start:i]))
			start = i + 1
		}
		i++
	}
	return append(parts, strings.TrimSpace(code[start:]))
}

// isConcatAt reports whether the dot at code[i] is the concatenation
// operator rather than a decimal point or part of a .= assignment.
func isConcatAt(code string, i int) bool {
	if i+1 < len(code) && code[i+1] == '=' {
		return false
	}
	isDigit := func(j int) bool { return 0 <= j && j < len(code) && '0' <= code[j] && code[j] <= '9' }
	return !(isDigit(i-1) && isDigit(i+1))
}

// splitArgs finds the first parenthesized group of code and splits its
// contents into top-level arguments. The prefix ends with the opening
// parenthesis and the suffix starts with the closing one. It reports
// false unless there are at least two arguments.
func splitArgs(code string) (prefix string, args []string, suffix string, ok bool) {
	open := indexCode(code, '(')
	if open < 0 {
		return "", nil, "", false
	}
	depth, close := 0, -1
	for i := open; i < len(code) && close < 0; {
		c := code[i]
		switch {
		case isQuote(c):
			i = literalEnd(code, i)
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
			if depth == 0 {
				close = i
			}
		}
		i++
	}
	if close < 0 {
		return "", nil, "", false
	}
	args = splitTopLevel(code[open+1:close], ',')
	if len(args) <= 1 {
		return "", nil, "", false
	}
	return code[:open+1], args, code[close:], true
}
