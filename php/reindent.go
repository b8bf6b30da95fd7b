package php

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Reindent lays out a block of code, one statement per line, indented
// from pad by bracket depth. A block written on a single line is first
// broken up with [NormalizeStatements]. Heredocs and strings spanning
// several lines are copied verbatim. Docblocks holding only @var
// annotations (and, in header blocks, descriptions) are merged into one
// docblock placed before the next statement. Runs of use imports are
// sorted. The result ends with a newline.
func Reindent(code, pad string) string {
	if !strings.Contains(code, "\n") && (strings.Contains(code, ";") || HasSwitchCase(code)) {
		code = NormalizeStatements(code)
	} else {
		code = joinTernaryLines(code)
	}
	r := &reindenter{
		pad:    pad,
		header: IsHeader(code),
		first:  true,
	}
	for _, line := range splitLines(code) {
		r.line(line)
	}
	r.finish()
	return sortUses(strings.TrimRight(r.out.String(), "\n") + "\n")
}

type reindenter struct {
	pad    string
	header bool
	out    strings.Builder
	depth  int

	first        bool
	prevBlank    bool
	prevDocClose bool
	prevUse      bool
	prevDeclare  bool

	heredoc string // closing marker of the open heredoc
	quote   byte   // quote of the open multi-line literal
	comment bool   // inside a /* block comment

	inDoc     bool
	docBodies []string
	pending   docBuffer
	deferred  []string // use and declare lines held back while docs are pending
}

func (r *reindenter) line(line string) {
	switch {
	case r.heredoc != "":
		r.out.WriteString(line + "\n")
		if rest, ok := heredocClose(line, r.heredoc); ok {
			r.heredoc = ""
			r.addDepth(rest, false)
		}
		return
	case r.quote != 0:
		r.out.WriteString(line + "\n")
		if countQuotes(line, r.quote)%2 == 1 {
			rest := line[strings.LastIndexByte(line, r.quote)+1:]
			r.quote = 0
			r.addDepth(rest, false)
		}
		return
	}

	trimmed := strings.TrimSpace(line)
	if r.comment {
		r.emitComment(trimmed)
		r.comment = !strings.Contains(trimmed, "*/")
		return
	}
	if r.inDoc {
		r.docLine(trimmed)
		return
	}
	if trimmed == "" {
		if !r.prevBlank && !r.first {
			if len(r.pending.vars) == 0 {
				r.out.WriteString("\n")
			}
			r.prevBlank = true
		}
		return
	}
	if r.first && !r.prevBlank && r.header {
		r.out.WriteString("\n")
	}
	r.first = false

	isUse := strings.HasPrefix(trimmed, "use ")
	isDeclare := strings.HasPrefix(trimmed, "declare(")
	docBody, isDoc := inlineDocBody(trimmed)
	if !r.pending.empty() {
		if isUse || isDeclare {
			r.deferred = append(r.deferred, trimmed)
			r.prevUse, r.prevDeclare = isUse, isDeclare
			return
		}
		if !isDoc && trimmed != "/**" {
			r.flushPending()
			r.prevDocClose = true
			r.prevBlank = false
			r.prevUse, r.prevDeclare = false, false
		}
	}

	if !r.prevBlank && (r.prevUse && !isUse || r.prevDeclare && !isDeclare || r.prevDocClose) {
		r.out.WriteString("\n")
	}
	r.prevBlank = false
	r.prevDocClose = trimmed == "*/"
	r.prevUse, r.prevDeclare = isUse, isDeclare

	if isDoc {
		r.pending.vars = append(r.pending.vars, docBody)
		r.prevUse, r.prevDeclare = false, false
		return
	}
	if trimmed == "/**" {
		r.inDoc = true
		r.docBodies = r.docBodies[:0]
		return
	}

	if isComment(trimmed) {
		r.emitComment(trimmed)
		r.comment = strings.HasPrefix(trimmed, "/*") && !strings.Contains(trimmed[2:], "*/")
		return
	}
	r.emit(FormatCode(trimmed))
	if m := heredocMarker(trimmed); m != "" {
		r.heredoc = m
	} else if q := openQuote(trimmed); q != 0 {
		r.quote = q
	}
}

// docLine handles a line inside a multi-line docblock.
func (r *reindenter) docLine(trimmed string) {
	if trimmed != "*/" {
		body := trimmed
		if rest, ok := strings.CutPrefix(trimmed, "*"); ok {
			body = strings.TrimSpace(rest)
		}
		r.docBodies = append(r.docBodies, NormalizeVar(body))
		return
	}

	r.inDoc = false
	allVars := len(r.docBodies) > 0
	for _, b := range r.docBodies {
		allVars = allVars && strings.HasPrefix(b, "@var ")
	}
	switch {
	case allVars:
		r.pending.vars = append(r.pending.vars, r.docBodies...)
	case r.header:
		r.pending.descs = append(r.pending.descs, r.docBodies...)
	default:
		if !r.pending.empty() {
			r.emitDocs()
		}
		r.emit("/**")
		for _, b := range r.docBodies {
			if b == "" {
				r.emit("*")
			} else {
				r.emit("* " + b)
			}
		}
		r.emit("*/")
		r.prevDocClose = true
	}
	r.docBodies = r.docBodies[:0]
}

// flushPending replays the deferred use and declare lines, then writes the
// merged docblock.
func (r *reindenter) flushPending() {
	if len(r.deferred) > 0 {
		for _, l := range r.deferred {
			r.emit(l)
		}
		r.out.WriteString("\n")
		r.deferred = r.deferred[:0]
	}
	r.emitDocs()
}

func (r *reindenter) emitDocs() {
	for _, l := range docLines(r.pending.bodies()) {
		r.emit(l)
	}
	r.pending.reset()
}

func (r *reindenter) finish() {
	if !r.pending.empty() {
		r.flushPending()
		return
	}
	for _, l := range r.deferred {
		r.emit(l)
	}
}

// emit writes one formatted line at the current depth. Leading closing
// brackets step out before the line is padded; a ternary continuation
// steps in by one. Afterwards the depth grows by at most one level.
// Comments are written as they are and leave the depth alone.
func (r *reindenter) emit(formatted string) {
	if isComment(formatted) {
		r.emitComment(formatted)
		return
	}
	depth := r.depth - leadingClosers(formatted)
	if strings.HasPrefix(formatted, "? ") || strings.HasPrefix(formatted, ": ") {
		depth++
	}
	base := r.pad + strings.Repeat(Indent, max(depth, 0))
	if s, ok := SplitLine(formatted, base); ok {
		r.out.WriteString(s)
	} else {
		r.out.WriteString(base + formatted + "\n")
	}
	r.addDepth(formatted, true)
}

// emitComment writes a comment line at the current depth. Lines of a
// block comment starting with * are aligned one column in.
func (r *reindenter) emitComment(t string) {
	if t == "" {
		r.out.WriteString("\n")
		return
	}
	base := r.pad + strings.Repeat(Indent, r.depth)
	if strings.HasPrefix(t, "*") {
		base += " "
	}
	r.out.WriteString(base + t + "\n")
}

// isComment reports whether the trimmed line t holds nothing but a
// comment: a // or # line comment, a docblock or block comment line, or
// a /* ... */ with no code after it. A #[ attribute is code.
func isComment(t string) bool {
	switch {
	case strings.HasPrefix(t, "//"),
		strings.HasPrefix(t, "#") && !strings.HasPrefix(t, "#["),
		strings.HasPrefix(t, "*"):
		return true
	case strings.HasPrefix(t, "/*"):
		i := strings.Index(t[2:], "*/")
		return i < 0 || strings.TrimSpace(t[2+i+2:]) == ""
	}
	return false
}

// addDepth applies the bracket balance of s to the depth. With capped
// set, any number of openers adds a single level.
func (r *reindenter) addDepth(s string, capped bool) {
	opens, closes := countBrackets(s)
	net := opens - closes
	if capped {
		net = min(net, 1)
	}
	r.depth = max(r.depth+net, 0)
}

// heredocMarker returns the closing marker of a heredoc or nowdoc opened
// on line, or "".
func heredocMarker(line string) string {
	i := strings.Index(line, "<<<")
	if i < 0 {
		return ""
	}
	m := strings.TrimSpace(line[i+3:])
	m = strings.Trim(m, "'")
	m = strings.Trim(m, `"`)
	m = strings.TrimRight(m, ",")
	if m == "" {
		return ""
	}
	for i := 0; i < len(m); i++ {
		if !isWordByte(m[i]) {
			return ""
		}
	}
	return m
}

// heredocClose reports whether line closes the heredoc with the given
// marker and returns the code after the marker. The marker may be
// indented and may only be followed by a ; or by the , or ) that goes on
// with the enclosing call.
func heredocClose(line, marker string) (rest string, ok bool) {
	t := strings.TrimSpace(line)
	rest, ok = strings.CutPrefix(t, marker)
	if !ok || rest != "" && !strings.ContainsRune(";,)", rune(rest[0])) {
		return "", false
	}
	return rest, true
}

// joinTernaryLines puts a ternary expression written over several lines
// back on one line, up to the end of its statement.
func joinTernaryLines(code string) string {
	lines := splitLines(code)
	out := make([]string, 0, len(lines))
	var heredoc string
	var quote byte
	for i := 0; i < len(lines); {
		line := lines[i]
		t := strings.TrimSpace(line)
		switch {
		case heredoc != "":
			if _, ok := heredocClose(line, heredoc); ok {
				heredoc = ""
			}
			out = append(out, line)
			i++
			continue
		case quote != 0:
			if countQuotes(line, quote)%2 == 1 {
				quote = 0
			}
			out = append(out, line)
			i++
			continue
		}

		endsTernary := !isComment(t) &&
			(strings.HasSuffix(t, " ?") || strings.HasSuffix(t, "?") && !strings.HasSuffix(t, "?>"))
		nextContinues := i+1 < len(lines) && isTernaryContinuation(strings.TrimSpace(lines[i+1]))
		if !endsTernary && !nextContinues {
			out = append(out, line)
			if heredoc = heredocMarker(t); heredoc == "" {
				quote = openQuote(t)
			}
			i++
			continue
		}

		joined := t
		for i++; i < len(lines); {
			next := strings.TrimSpace(lines[i])
			if next == "" {
				break
			}
			joined += " " + next
			i++
			if strings.Contains(next, ";") {
				break
			}
		}
		out = append(out, joined)
	}
	return strings.Join(out, "\n")
}

func isTernaryContinuation(t string) bool {
	return strings.HasPrefix(t, "? ") || strings.HasPrefix(t, ": ")
}

// sortUses sorts each run of consecutive use imports case-insensitively.
func sortUses(code string) string {
	fold := cases.Fold()
	lines := splitLines(code)
	isImport := func(l string) bool {
		t := strings.TrimSpace(l)
		return strings.HasPrefix(t, "use ") && strings.HasSuffix(t, ";")
	}
	for i := 0; i < len(lines); {
		if !isImport(lines[i]) {
			i++
			continue
		}
		j := i
		for j < len(lines) && isImport(lines[j]) {
			j++
		}
		slices.SortStableFunc(lines[i:j], func(a, b string) int {
			return strings.Compare(fold.String(strings.TrimSpace(a)), fold.String(strings.TrimSpace(b)))
		})
		i = j
	}
	return strings.Join(lines, "\n") + "\n"
}
