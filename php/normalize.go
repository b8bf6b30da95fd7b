package php

import (
	"bytes"
	"strings"
)

// NormalizeStatements puts every top-level statement of code on its own
// line. A newline is inserted after each ; outside parentheses and before
// each case or default: label, unless one is already there. Doc comments
// are laid out one marker per line: /** and */ get their own lines, with a
// blank line after */ when more code follows, and a "* @tag" fused onto a
// preceding line is moved to the next one. Literals are never split.
//
// The result always starts with a newline.
func NormalizeStatements(code string) string {
	n := &normalizer{code: code}
	n.out = append(n.out, '\n')
	for n.i < len(code) {
		c := code[n.i]
		if isQuote(c) {
			end := literalEnd(code, n.i)
			n.out = append(n.out, code[n.i:end]...)
			n.i = end
			n.seen = true
			continue
		}
		switch c {
		case '(':
			n.parens++
		case ')':
			n.parens--
		}
		if n.parens <= 0 && n.seen && !n.endsWith("\n") &&
			(n.keywordAt("case ") || n.keywordAt("default:")) {
			n.out = append(n.out, '\n')
		}
		n.out = append(n.out, c)
		if !isSpace(c) {
			n.seen = true
		}
		if c == ';' && n.parens <= 0 && n.i+1 < len(code) && code[n.i+1] != '\n' {
			n.out = append(n.out, '\n')
		}
		n.docBoundaries(c)
		n.i++
	}
	return string(n.out)
}

type normalizer struct {
	code   string
	i      int
	parens int
	out    []byte
	seen   bool // out holds more than whitespace
}

func (n *normalizer) endsWith(s string) bool { return bytes.HasSuffix(n.out, []byte(s)) }

func (n *normalizer) at(j int) byte {
	if j < len(n.code) {
		return n.code[j]
	}
	return 0
}

// keywordAt reports whether kw starts at the current position and is not
// the tail of a longer word.
func (n *normalizer) keywordAt(kw string) bool {
	if !strings.HasPrefix(n.code[n.i:], kw) {
		return false
	}
	if n.i == 0 {
		return true
	}
	p := n.code[n.i-1]
	return p != '$' && !isWordByte(p)
}

// docBoundaries fixes up the doc-comment markers after c was appended.
func (n *normalizer) docBoundaries(c byte) {
	if c == '/' && n.at(n.i+1) == '*' && n.at(n.i+2) == '*' && len(n.out) > 1 {
		// The opening /** always starts a fresh line.
		n.out[len(n.out)-1] = '\n'
		n.out = append(n.out, '/')
	}
	if c == '/' && n.endsWith("*/") {
		n.out = n.out[:len(n.out)-2]
		if !n.endsWith("\n") {
			n.out = append(bytes.TrimRight(n.out, " \t\r\n"), '\n')
		}
		n.out = append(n.out, "*/\n"...)
		if n.i+1 < len(n.code) && n.code[n.i+1] != '\n' {
			n.out = append(n.out, '\n')
		}
	}
	if c == '*' && n.at(n.i+1) == ' ' && n.at(n.i+2) == '@' &&
		!n.endsWith("\n") && !n.endsWith("/**") {
		n.out[len(n.out)-1] = '\n'
		n.out = append(n.out, '*')
	}
}
