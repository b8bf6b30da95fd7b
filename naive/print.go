package naive

import (
	"io"
	"strings"

	"mibk.dev/phtmlfmt/php"
	"mibk.dev/phtmlfmt/token"
)

// Fprint pretty-prints the node tree to w.
func Fprint(w io.Writer, nodes []Node) error {
	_, err := io.WriteString(w, Format(nodes))
	return err
}

// Format pretty-prints the node tree. Every emitted line ends with a
// newline.
func Format(nodes []Node) string {
	p := new(printer)
	p.nodes(nodes, 0)
	return p.String()
}

type printer struct {
	strings.Builder
}

// state is the PHP nesting of one list of siblings. The markup nesting of
// the list is its initial depth.
type state struct {
	depth    int
	switches []int // depth of each open switch
}

func (s *state) dedent() {
	s.depth = max(s.depth-1, 0)
}

func (s *state) pushSwitch() {
	s.switches = append(s.switches, s.depth)
	s.depth++
}

func (s *state) inSwitch() bool { return len(s.switches) > 0 }

func (s *state) top() int { return s.switches[len(s.switches)-1] }

func indent(depth int) string { return strings.Repeat(php.Indent, depth) }

func (p *printer) nodes(nodes []Node, depth int) {
	st := &state{depth: depth}
	for i := 0; i < len(nodes); i++ {
		pad := indent(st.depth)
		switch n := nodes[i].(type) {
		case *Element:
			p.element(n, st.depth)
		case Text:
			if t := strings.TrimSpace(string(n)); t != "" {
				p.line(pad, t)
			} else if st.depth <= 1 && strings.Count(string(n), "\n") > 1 {
				p.WriteString("\n")
			}
		case PHPBlock:
			code := string(n)
			if st.depth == 0 && headerOrDoc(code) {
				if merged, next, ok := mergeHeader(nodes, i); ok {
					p.phpBlock(merged, pad, st)
					i = next - 1
					continue
				}
			}
			p.phpBlock(code, pad, st)
		case PHPEcho:
			p.echo(string(n), pad, st)
		case Doctype:
			p.line(pad, "<!DOCTYPE "+string(n)+">")
		case Comment:
			p.line(pad, "<!-- "+string(n)+" -->")
		}
	}
}

func (p *printer) line(pad, s string) {
	p.WriteString(pad)
	p.WriteString(s)
	p.WriteString("\n")
}

func headerOrDoc(code string) bool {
	return php.IsHeader(code) || php.IsDocblock(code)
}

// mergeHeader joins the header and docblock tags following nodes[i],
// skipping blank text between them. It returns the joined code and the
// index of the first node not consumed.
func mergeHeader(nodes []Node, i int) (code string, next int, ok bool) {
	merged := []string{strings.TrimSpace(string(nodes[i].(PHPBlock)))}
	j := i + 1
loop:
	for ; j < len(nodes); j++ {
		switch n := nodes[j].(type) {
		case Text:
			if strings.TrimSpace(string(n)) != "" {
				break loop
			}
		case PHPBlock:
			if !headerOrDoc(string(n)) {
				break loop
			}
			merged = append(merged, strings.TrimSpace(string(n)))
			ok = true
		default:
			break loop
		}
	}
	return strings.Join(merged, "\n"), j, ok
}

func (p *printer) element(el *Element, depth int) {
	pad := indent(depth)
	switch {
	case token.RawText(el.Name) && hasText(el.Children):
		p.openTag(el, ">", pad)
		for _, c := range el.Children {
			t, ok := c.(Text)
			if !ok {
				continue
			}
			body := strings.TrimRight(strings.TrimLeft(string(t), "\n"), " \t\r\n")
			if body == "" {
				continue
			}
			for _, l := range strings.Split(body, "\n") {
				if l != "" && (l[0] == ' ' || l[0] == '\t') {
					p.line("", l)
				} else {
					p.line(pad, l)
				}
			}
		}
		p.line(pad, "</"+el.Name+">")
	case len(el.Children) == 0 && (Void(el.Name) || el.SelfClosing):
		p.openTag(el, " />", pad)
	case inlineContent(el.Children):
		if s := inline(el); len(pad)+len(s) <= php.MaxWidth {
			p.line(pad, s)
			return
		}
		fallthrough
	default:
		p.openTag(el, ">", pad)
		p.nodes(el.Children, depth+1)
		p.line(pad, "</"+el.Name+">")
	}
}

func hasText(children []Node) bool {
	for _, c := range children {
		if t, ok := c.(Text); ok && strings.TrimSpace(string(t)) != "" {
			return true
		}
	}
	return false
}

// openTag writes the start tag of el ending with tail. A tag too long for
// one line gets one attribute per line.
func (p *printer) openTag(el *Element, tail, pad string) {
	single := pad + "<" + el.Name + attrList(el.Attrs) + tail
	if len(el.Attrs) == 0 || len(single) <= php.MaxWidth {
		p.line("", single)
		return
	}
	p.line(pad, "<"+el.Name)
	for _, a := range el.Attrs {
		p.line(pad+php.Indent, attr(a))
	}
	p.line(pad, strings.TrimLeft(tail, " "))
}

func attrList(attrs []token.Attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(attr(a))
	}
	return b.String()
}

// attr renders a with double quotes unless that would need escaping.
func attr(a token.Attr) string {
	if !a.HasValue {
		return a.Name
	}
	q := `"`
	if a.Quote == '\'' && strings.Contains(a.Value, `"`) {
		q = `'`
	}
	return a.Name + "=" + q + a.Value + q
}

func inlineContent(children []Node) bool {
	for _, c := range children {
		switch c := c.(type) {
		case Text, PHPEcho:
		case PHPBlock:
			if !php.IsSingleEcho(string(c)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// inline renders el on a single line. Whitespace runs in text collapse to
// one space; whitespace at the edges of the content is dropped.
func inline(el *Element) string {
	var b strings.Builder
	b.WriteString("<" + el.Name + attrList(el.Attrs) + ">")
	last := len(el.Children) - 1
	for i, c := range el.Children {
		switch c := c.(type) {
		case Text:
			s := string(c)
			words := strings.Join(strings.Fields(s), " ")
			if words == "" {
				if i > 0 && i < last && s != "" {
					b.WriteString(" ")
				}
				continue
			}
			if i > 0 && isSpace(s[0]) {
				b.WriteString(" ")
			}
			b.WriteString(words)
			if i < last && isSpace(s[len(s)-1]) {
				b.WriteString(" ")
			}
		case PHPEcho:
			b.WriteString("<?= " + php.FormatCode(php.JoinLines(string(c))) + " ?>")
		case PHPBlock:
			expr := strings.TrimPrefix(strings.TrimSpace(string(c)), "echo ")
			expr = strings.TrimSpace(strings.TrimSuffix(expr, ";"))
			b.WriteString("<?= " + php.FormatCode(expr) + " ?>")
		}
	}
	b.WriteString("</" + el.Name + ">")
	return b.String()
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' }

func (p *printer) echo(expr, pad string, st *state) {
	switch php.ClassifyEcho(expr) {
	case php.Closer:
		st.dedent()
		p.WriteString(php.FormatEcho(expr, indent(st.depth)))
	case php.Opener:
		p.WriteString(php.FormatEcho(expr, pad))
		st.depth++
	default:
		p.WriteString(php.FormatEcho(expr, pad))
	}
}

func (p *printer) phpBlock(code, pad string, st *state) {
	switch {
	case strings.HasPrefix(code, "echo ") && php.CountStatements(code) <= 1 && !strings.Contains(code, "\n"):
		expr := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(code, "echo "), ";"))
		p.echo(expr, pad, st)
	case php.IsDocblock(code):
		p.WriteString(php.DocblockIsland(code, pad))
	case php.HasSwitchCase(code):
		p.switchBlock(code, st)
	case strings.Contains(code, "\n") || php.CountStatements(code) > 1:
		p.multiline(code, pad, st)
	default:
		p.single(code, pad, st)
	}
}

// tag writes code as a one-line <?php ?> tag at depth.
func (p *printer) tag(code string, depth int) {
	p.line(indent(depth), "<?php "+php.FormatCode(code)+" ?>")
}

// island writes code as a multi-line <?php ?> tag.
func (p *printer) island(code, pad string) {
	p.line(pad, "<?php")
	p.WriteString(php.Reindent(code, pad))
	p.WriteString("\n")
	p.line(pad, "?>")
}

// switchBlock writes each statement of a tag mixing switch, case, and
// break as its own tag. A switch directly followed by its first case
// stays one tag.
func (p *printer) switchBlock(code string, st *state) {
	stmts := nonBlank(php.NormalizeStatements(code))
	for i := range stmts {
		stmts[i] = strings.TrimSpace(stmts[i])
	}
	for i := 0; i < len(stmts); i++ {
		c := php.Classify(stmts[i])
		if c.Switch && i+1 < len(stmts) && php.Classify(stmts[i+1]).Kind == php.CaseLabel {
			pad := indent(st.depth)
			p.line(pad, "<?php "+php.FormatCode(stmts[i]))
			p.line(pad+php.Indent, php.FormatCode(stmts[i+1])+" ?>")
			st.switches = append(st.switches, st.depth)
			st.depth += 2
			i++
			continue
		}
		p.switchStmt(stmts[i], c, st)
	}
}

func (p *printer) switchStmt(stmt string, c php.Control, st *state) {
	switch {
	case c.Switch:
		p.tag(stmt, st.depth)
		st.pushSwitch()
	case c.Kind == php.CaseLabel:
		lvl := st.depth - 1
		if st.inSwitch() {
			lvl = st.top()
		}
		lvl = max(lvl, 0)
		p.tag(stmt, lvl+1)
		st.depth = lvl + 2
	case c.EndSwitch:
		lvl := st.depth - 1
		if st.inSwitch() {
			lvl = st.top()
			st.switches = st.switches[:len(st.switches)-1]
		}
		lvl = max(lvl, 0)
		p.tag(stmt, lvl)
		st.depth = lvl
	case c.Break:
		p.tag(stmt, st.depth)
	default:
		p.tag(stmt, st.depth)
		if c.Opens {
			st.depth++
		}
	}
}

func (p *printer) multiline(code, pad string, st *state) {
	header := php.IsHeader(code)
	if header {
		if head, opener, ok := php.SplitHeaderOpener(code); ok {
			p.island(head, pad)
			p.tag(opener, st.depth)
			st.depth++
			return
		}
		p.island(code, pad)
	} else {
		p.inlineLines(php.Reindent(code, pad), pad)
	}

	c := php.Classify(code)
	closer := c.Kind == php.Closer || c.Kind == php.CaseLabel
	widget := strings.Contains(code, "::begin(") || strings.Contains(code, "::end(")
	if !widget && header {
		return
	}
	switch {
	case closer && widget:
		st.dedent()
	case (widget || !closer) && c.Opens:
		st.depth++
	}
}

// inlineLines writes reindented code as a tag whose opening <?php shares
// the first line and whose ?> ends the last one.
func (p *printer) inlineLines(code, pad string) {
	switch lines := nonBlank(code); len(lines) {
	case 0:
	case 1:
		p.line(pad, "<?php "+strings.TrimSpace(lines[0])+" ?>")
	default:
		p.line(pad, "<?php "+strings.TrimLeft(lines[0], " \t"))
		for _, l := range lines[1 : len(lines)-1] {
			p.line("", l)
		}
		p.line("", lines[len(lines)-1]+" ?>")
	}
}

func (p *printer) single(code, pad string, st *state) {
	c := php.Classify(code)
	switch {
	case c.Switch:
		p.tag(code, st.depth)
		st.pushSwitch()
	case st.inSwitch() && (c.Kind == php.CaseLabel || c.EndSwitch || c.Break):
		p.switchStmt(code, c, st)
	case c.Kind == php.Closer || c.Kind == php.CaseLabel:
		st.dedent()
		p.tag(code, st.depth)
		if c.Reopens() {
			st.depth++
		}
	default:
		p.singleLong(code, pad)
		if c.Opens {
			st.depth++
		}
	}
}

// singleLong writes a one-statement tag, splitting it when it does not
// fit.
func (p *printer) singleLong(code, pad string) {
	if php.IsHeader(code) {
		p.island(code, pad)
		return
	}
	formatted := php.FormatCode(code)
	if s := pad + "<?php " + formatted + " ?>"; len(s) <= php.MaxWidth {
		p.line("", s)
		return
	}
	if cond, yes, no, ok := php.SplitTernary(formatted); ok {
		in := pad + php.Indent
		p.line(pad, "<?php "+cond)
		p.line(in, "? "+yes)
		p.line(in, ": "+no+" ?>")
		return
	}
	re := php.Reindent(code, pad)
	if len(nonBlank(re)) > 1 {
		p.inlineLines(re, pad)
		return
	}
	p.line(pad, "<?php")
	p.WriteString(re)
	p.line(pad, "?>")
}

func nonBlank(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
