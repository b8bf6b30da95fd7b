package php

import (
	"strings"
)

// A splitter lays out line, indented by pad, over several lines. The
// result holds whole lines, each padded and newline-terminated.
// A splitter reports false when its shape does not apply.
type splitter func(line, pad string) (string, bool)

// lineSplitters are tried in order by SplitLine.
var lineSplitters []splitter

func init() {
	lineSplitters = []splitter{
		splitTernary,
		splitCall,
		splitArrayCall,
		splitNestedArray,
	}
}

// SplitLine breaks an over-width, already formatted line. It reports false
// if pad+line fits in MaxWidth or if no strategy applies; in the latter
// case the caller emits the line as it is.
func SplitLine(line, pad string) (string, bool) {
	if fits(pad, line, 0) {
		return "", false
	}
	for _, split := range lineSplitters {
		if s, ok := split(line, pad); ok {
			return s, true
		}
	}
	return "", false
}

func fits(pad, s string, extra int) bool {
	return len(pad)+len(s)+extra <= MaxWidth
}

// firstFit returns the result of the first splitter in order that applies.
func firstFit(line, pad string, order ...splitter) (string, bool) {
	for _, split := range order {
		if s, ok := split(line, pad); ok {
			return s, true
		}
	}
	return "", false
}

// ternaryAt finds the top-level ? and : of a ternary expression. The ?
// of ?>, ?? and ?: and the colons of :: do not count.
func ternaryAt(code string) (q, c int, ok bool) {
	depth := 0
	q = -1
	for i := 0; i < len(code); {
		ch := code[i]
		next := byte(0)
		if i+1 < len(code) {
			next = code[i+1]
		}
		switch {
		case isQuote(ch):
			i = literalEnd(code, i)
			continue
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case ch == '?' && depth == 0 && q < 0:
			if next == '>' || next == '?' || next == ':' {
				i += 2
				continue
			}
			q = i
		case ch == ':' && depth == 0 && q >= 0:
			if next == ':' {
				i += 2
				continue
			}
			return q, i, true
		}
		i++
	}
	return -1, -1, false
}

// SplitTernary cuts code at its top-level ternary operator.
func SplitTernary(code string) (cond, yes, no string, ok bool) {
	q, c, ok := ternaryAt(code)
	if !ok {
		return "", "", "", false
	}
	return strings.TrimRight(code[:q], " "), strings.TrimSpace(code[q+1 : c]), strings.TrimSpace(code[c+1:]), true
}

func splitTernary(line, pad string) (string, bool) {
	cond, yes, no, ok := SplitTernary(line)
	if !ok {
		return "", false
	}
	inner := pad + Indent
	var b strings.Builder
	if s, ok := SplitLine(cond, pad); ok {
		b.WriteString(s)
	} else {
		b.WriteString(pad + cond + "\n")
	}
	writeTernaryBranch(&b, '?', yes, inner)
	writeTernaryBranch(&b, ':', no, inner)
	return b.String(), true
}

// writeTernaryBranch writes "? value" or ": value", splitting it further
// when the marked line is too long.
func writeTernaryBranch(b *strings.Builder, marker byte, value, pad string) {
	line := string(marker) + " " + value
	if s, ok := SplitLine(line, pad); ok {
		b.WriteString(s)
		return
	}
	b.WriteString(pad + line + "\n")
}

func splitCall(line, pad string) (string, bool) {
	prefix, args, suffix, ok := splitArgs(line)
	if !ok {
		return "", false
	}
	return explodeArgs(prefix, args, suffix, pad), true
}

// splitArrayCall hoists the brackets of the lone array argument of the
// first call, as in foo([a, b]) -> foo([ a, b, ]).
func splitArrayCall(line, pad string) (string, bool) {
	open := indexCode(line, '(')
	if open < 0 {
		return "", false
	}
	close := matchingClose(line, open)
	if close < 0 {
		return "", false
	}
	inner := strings.TrimSpace(line[open+1 : close])
	if !isWrapped(inner, '[', ']') {
		return "", false
	}
	items := splitTopLevel(inner[1:len(inner)-1], ',')
	if len(items) <= 1 {
		return "", false
	}
	return explodeArgs(line[:open+1]+"[", items, "]"+line[close:], pad), true
}

// explodeArgs writes prefix, then each argument on its own line with a
// trailing comma, then suffix. A suffix that is too long is split in turn.
func explodeArgs(prefix string, args []string, suffix, pad string) string {
	var b strings.Builder
	b.WriteString(pad + prefix + "\n")
	writeArgs(&b, args, pad+Indent)
	if s, ok := SplitLine(suffix, pad); ok {
		b.WriteString(s)
	} else {
		b.WriteString(pad + suffix + "\n")
	}
	return b.String()
}

// writeArgs writes call arguments or array items one per line with a
// trailing comma. Only those that do not fit are split.
func writeArgs(b *strings.Builder, args []string, pad string) {
	for _, arg := range args {
		if !fits(pad, arg, 1) {
			if s, ok := firstFit(arg, pad, splitNestedArray, splitBareArray, splitClosure); ok {
				b.WriteString(s)
				continue
			}
			if s, ok := SplitLine(arg+",", pad); ok {
				b.WriteString(s)
				continue
			}
		}
		b.WriteString(pad + arg + ",\n")
	}
}

// splitBareArray explodes an argument that is an array literal.
func splitBareArray(arg, pad string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if !isWrapped(arg, '[', ']') {
		return "", false
	}
	items := splitTopLevel(arg[1:len(arg)-1], ',')
	nested := pad + Indent
	if len(items) == 1 {
		item := items[0]
		if fits(nested, item, 1) {
			return "", false
		}
		var b strings.Builder
		b.WriteString(pad + "[\n")
		if s, ok := SplitLine(item+",", nested); ok {
			b.WriteString(s)
		} else {
			b.WriteString(nested + item + ",\n")
		}
		b.WriteString(pad + "],\n")
		return b.String(), true
	}
	if len(items) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(pad + "[\n")
	writeItems(&b, items, nested)
	b.WriteString(pad + "],\n")
	return b.String(), true
}

// splitSubArray explodes an array item that is itself an array literal.
func splitSubArray(item, pad string) (string, bool) {
	if !isWrapped(item, '[', ']') {
		return "", false
	}
	sub := splitTopLevel(item[1:len(item)-1], ',')
	if len(sub) <= 1 {
		return "", false
	}
	var b strings.Builder
	b.WriteString(pad + "[\n")
	writeArgs(&b, sub, pad+Indent)
	b.WriteString(pad + "],\n")
	return b.String(), true
}

// arrowAt returns the index of the first top-level => of s, or -1.
func arrowAt(s string) int {
	depth := 0
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
		case c == '=' && depth == 0 && i+1 < len(s) && s[i+1] == '>':
			return i
		}
		i++
	}
	return -1
}

// splitNestedArray explodes the array value of a key => [...] item.
func splitNestedArray(item, pad string) (string, bool) {
	arrow := arrowAt(item)
	if arrow < 0 {
		return "", false
	}
	value := strings.TrimSpace(item[arrow+2:])
	if !isWrapped(value, '[', ']') {
		return "", false
	}
	items := splitTopLevel(value[1:len(value)-1], ',')
	if len(items) <= 1 {
		return "", false
	}
	var b strings.Builder
	b.WriteString(pad + item[:arrow+2] + " [\n")
	writeItems(&b, items, pad+Indent)
	b.WriteString(pad + "],\n")
	return b.String(), true
}

// writeItems writes array items one per line. Items that are arrays
// themselves are exploded as well.
func writeItems(b *strings.Builder, items []string, pad string) {
	for _, it := range items {
		if !fits(pad, it, 1) {
			if s, ok := firstFit(it, pad, splitNestedArray, splitSubArray, splitClosure); ok {
				b.WriteString(s)
				continue
			}
			if s, ok := SplitLine(it+",", pad); ok {
				b.WriteString(s)
				continue
			}
		}
		if s, ok := splitSubArray(it, pad); ok {
			b.WriteString(s)
			continue
		}
		b.WriteString(pad + it + ",\n")
	}
}

// closureBody finds the braces of the first function(...) { ... } in code.
func closureBody(code string) (open, close int, ok bool) {
	for i := 0; i < len(code); {
		if isQuote(code[i]) {
			i = literalEnd(code, i)
			continue
		}
		if !strings.HasPrefix(code[i:], "function") || i > 0 && isWordByte(code[i-1]) && code[i-1] != '_' {
			i++
			continue
		}
		brace := strings.IndexByte(code[i+len("function"):], '{')
		if brace >= 0 {
			open = i + len("function") + brace
			if close = matchingClose(code, open); close >= 0 {
				return open, close, true
			}
		}
		i++
	}
	return -1, -1, false
}

// closureStatements splits a closure body into statements. A statement
// ends at a top-level ; or at the } closing a nested block.
func closureStatements(body string) []string {
	var stmts []string
	var cur strings.Builder
	braces, parens := 0, 0
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(body); {
		c := body[i]
		if isQuote(c) {
			end := literalEnd(body, i)
			cur.WriteString(body[i:end])
			i = end
			continue
		}
		switch c {
		case '(':
			parens++
		case ')':
			parens--
		case '{':
			braces++
		case '}':
			if braces > 0 {
				braces--
				cur.WriteByte(c)
				if braces == 0 {
					flush()
				}
				i++
				continue
			}
		}
		cur.WriteByte(c)
		if c == ';' && braces == 0 && parens <= 0 {
			flush()
		}
		i++
	}
	flush()
	return stmts
}

// braceBlock finds the first {...} group of code.
func braceBlock(code string) (open, close int, ok bool) {
	for i := 0; i < len(code); {
		if isQuote(code[i]) {
			i = literalEnd(code, i)
			continue
		}
		if code[i] == '{' {
			if close := matchingClose(code, i); close >= 0 {
				return i, close, true
			}
		}
		i++
	}
	return -1, -1, false
}

// splitBraceBlock lays out a statement holding a {...} block, such as an
// if inside a closure, one body statement per line.
func splitBraceBlock(stmt, pad string) (string, bool) {
	open, close, ok := braceBlock(stmt)
	if !ok {
		return "", false
	}
	body := strings.TrimSpace(stmt[open+1 : close])
	if body == "" {
		return "", false
	}
	stmts := closureStatements(body)
	if len(stmts) == 0 {
		return "", false
	}
	header := strings.TrimRight(stmt[:open], " \t")
	after := strings.TrimSpace(stmt[close+1:])
	inner := pad + Indent
	var b strings.Builder
	b.WriteString(pad + header + " {\n")
	for _, s := range stmts {
		if x, ok := SplitLine(s, inner); ok {
			b.WriteString(x)
			continue
		}
		b.WriteString(inner + s + "\n")
	}
	if after == "" {
		b.WriteString(pad + "}\n")
	} else {
		b.WriteString(pad + "} " + after + "\n")
	}
	return b.String(), true
}

// splitClosure lays out an argument holding an inline closure whose body
// has more than one statement.
func splitClosure(arg, pad string) (string, bool) {
	open, close, ok := closureBody(arg)
	if !ok {
		return "", false
	}
	stmts := closureStatements(arg[open+1 : close])
	if len(stmts) <= 1 {
		return "", false
	}
	header := strings.TrimRight(arg[:open], " \t")
	after := strings.TrimLeft(arg[close+1:], " \t")
	body := pad + Indent
	var b strings.Builder
	b.WriteString(pad + header + " {\n")
	for _, s := range stmts {
		if x, ok := splitBraceBlock(s, body); ok {
			b.WriteString(x)
			continue
		}
		if x, ok := SplitLine(s, body); ok {
			b.WriteString(x)
			continue
		}
		b.WriteString(body + s + "\n")
	}
	if after == "" {
		b.WriteString(pad + "},\n")
	} else {
		b.WriteString(pad + "}" + after + "\n")
	}
	return b.String(), true
}
