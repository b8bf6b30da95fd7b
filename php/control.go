package php

import "strings"

// Kind is the role a statement plays in template nesting.
type Kind uint8

const (
	Neutral   Kind = iota
	Opener         // if (...):, foreach (...) {, Widget::begin(...)
	Closer         // endif;, }, else:, break;, Widget::end()
	CaseLabel      // case X:, default:
)

func (k Kind) String() string {
	switch k {
	case Opener:
		return "Opener"
	case Closer:
		return "Closer"
	case CaseLabel:
		return "CaseLabel"
	}
	return "Neutral"
}

// Control is the classification of one statement.
type Control struct {
	Kind Kind

	// Opens is set when the statement ends a header (":" or "{") or
	// begins a widget. A closer that also opens, like "else:", reopens
	// the scope it just closed.
	Opens bool

	Switch    bool // starts with "switch" and opens a block
	EndSwitch bool // starts with "endswitch"
	Break     bool // contains "break;" outside literals
}

// Reopens reports whether the statement closes a scope and opens the next
// one at the same level.
func (c Control) Reopens() bool {
	return (c.Kind == Closer || c.Kind == CaseLabel) && c.Opens
}

var closerPrefixes = []string{
	"endif",
	"endforeach",
	"endfor",
	"endwhile",
	"endswitch",
	"else", // also elseif
	"}",
}

// Classify applies the control-flow heuristics to a statement. Nothing is
// parsed: the decision rests on keyword prefixes and the final byte.
func Classify(code string) Control {
	trimmed := strings.TrimSpace(code)
	lower := strings.ToLower(trimmed)
	c := Control{
		Opens:     isOpener(trimmed),
		EndSwitch: strings.HasPrefix(lower, "endswitch"),
		Break:     containsCode(lower, "break;"),
	}
	c.Switch = strings.HasPrefix(lower, "switch") && c.Opens
	switch {
	case isCaseLabel(lower):
		c.Kind = CaseLabel
	case isCloser(lower):
		c.Kind = Closer
	case c.Opens:
		c.Kind = Opener
	}
	return c
}

func isOpener(trimmed string) bool {
	return strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "{") ||
		strings.Contains(trimmed, "::begin(")
}

func isCaseLabel(lower string) bool {
	return strings.HasPrefix(lower, "case ") || strings.HasPrefix(lower, "default:")
}

func isCloser(lower string) bool {
	for _, p := range closerPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return containsCode(lower, "break;") || isCaseLabel(lower) || strings.Contains(lower, "::end(")
}

// ClassifyEcho classifies the expression of an echo tag. Widget calls
// (X::begin(, fooBeginTag() open a scope and their ::end( and EndTag(
// counterparts close it. Everything else is Neutral.
func ClassifyEcho(expr string) Kind {
	lower := strings.ToLower(strings.TrimSpace(expr))
	switch {
	case strings.Contains(lower, "endtag(") || strings.Contains(lower, "::end("):
		return Closer
	case strings.Contains(lower, "begintag(") || strings.Contains(lower, "::begin("):
		return Opener
	}
	return Neutral
}

// HasSwitchCase reports whether code mixes a switch (or a break) with case
// or default labels.
func HasSwitchCase(code string) bool {
	lower := strings.ToLower(code)
	return (strings.Contains(lower, "switch") || containsCode(lower, "break")) &&
		(strings.Contains(lower, "case ") || strings.Contains(lower, "default:"))
}

// IsHeader reports whether code is a header block: one holding use
// imports or a declare statement.
func IsHeader(code string) bool {
	for _, line := range splitLines(code) {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "use ") || strings.HasPrefix(t, "declare(") {
			return true
		}
	}
	return false
}

// CountStatements counts the semicolons of code that are outside
// parentheses and literals.
func CountStatements(code string) int {
	n, depth := 0, 0
	for i := 0; i < len(code); {
		switch c := code[i]; {
		case isQuote(c):
			i = literalEnd(code, i)
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ';' && depth <= 0:
			n++
		}
		i++
	}
	return n
}

// SplitHeaderOpener separates a trailing control opener (if (...):,
// foreach (...):, ...) from the header block before it, so imports never
// end up nested inside the control block.
func SplitHeaderOpener(code string) (header, opener string, ok bool) {
	if !isOpener(strings.TrimSpace(code)) {
		return "", "", false
	}
	var lines []string
	for _, l := range splitLines(NormalizeStatements(code)) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return "", "", false
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	if !isControlOpener(last) {
		return "", "", false
	}

	orig := splitLines(code)
	if len(orig) > 1 {
		end := len(orig) - 1
		for end > 0 && strings.TrimSpace(orig[end]) == "" {
			end--
		}
		start := 0
		for start < end && strings.TrimSpace(orig[start]) == "" {
			start++
		}
		if start < end {
			return strings.Join(orig[start:end], "\n"), last, true
		}
	}
	return strings.Join(lines[:len(lines)-1], "\n"), last, true
}

var controlOpenerPrefixes = []string{
	"if ", "if(",
	"foreach ", "foreach(",
	"for ", "for(",
	"while ", "while(",
	"switch ",
}

func isControlOpener(line string) bool {
	if !strings.HasSuffix(line, ":") {
		return false
	}
	lower := strings.ToLower(line)
	for _, p := range controlOpenerPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
