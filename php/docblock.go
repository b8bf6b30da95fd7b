package php

import "strings"

// NormalizeVar rewrites "@var $name Type rest" as "@var Type $name rest".
// Any other body is returned unchanged.
func NormalizeVar(body string) string {
	rest, ok := strings.CutPrefix(body, "@var ")
	if !ok {
		return body
	}
	parts := strings.SplitN(strings.TrimSpace(rest), " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "$") || strings.HasPrefix(parts[1], "$") {
		return body
	}
	parts[0], parts[1] = parts[1], parts[0]
	return "@var " + strings.Join(parts, " ")
}

// inlineDocBody returns the body of a one-line docblock such as
// "/** @var User $model */", with @var normalized.
func inlineDocBody(code string) (string, bool) {
	body, ok := inlineDoc(code)
	if !ok || body == "" {
		return "", false
	}
	return NormalizeVar(body), true
}

func inlineDoc(code string) (string, bool) {
	t := strings.TrimSpace(code)
	if strings.Contains(t, "\n") || !strings.HasPrefix(t, "/**") || !strings.HasSuffix(t, "*/") || len(t) < 5 {
		return "", false
	}
	body := strings.TrimSpace(t[3 : len(t)-2])
	if rest, ok := strings.CutPrefix(body, "*"); ok {
		body = strings.TrimLeft(rest, " \t")
	}
	return body, true
}

// ExpandDocblock turns a one-line docblock into its three-line form.
func ExpandDocblock(code string) (string, bool) {
	body, ok := inlineDoc(code)
	if !ok {
		return "", false
	}
	if body == "" {
		return "/**\n */", true
	}
	return "/**\n * " + body + "\n */", true
}

// IsDocblock reports whether code consists of one docblock and nothing else.
func IsDocblock(code string) bool {
	t := strings.TrimSpace(code)
	if t == "" {
		return false
	}
	if strings.HasPrefix(t, "/**") && strings.HasSuffix(t, "*/") && !strings.Contains(t, "\n") {
		return true
	}
	var lines []string
	for _, l := range splitLines(t) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 || lines[0] != "/**" || lines[len(lines)-1] != "*/" {
		return false
	}
	for _, l := range lines[1 : len(lines)-1] {
		if !strings.HasPrefix(l, "*") {
			return false
		}
	}
	return true
}

// docBuffer collects the docblocks that are waiting to be merged: free-text
// descriptions and @var annotations.
type docBuffer struct {
	descs []string
	vars  []string
}

func (d *docBuffer) empty() bool { return len(d.descs) == 0 && len(d.vars) == 0 }

func (d *docBuffer) reset() {
	d.descs = d.descs[:0]
	d.vars = d.vars[:0]
}

// bodies merges the buffer: descriptions, a blank separator when both
// groups are present, then annotations.
func (d *docBuffer) bodies() []string {
	all := append([]string(nil), d.descs...)
	if len(d.descs) > 0 && len(d.vars) > 0 {
		all = append(all, "")
	}
	return append(all, d.vars...)
}

// docLines renders merged bodies as the lines of one docblock.
func docLines(bodies []string) []string {
	if len(bodies) == 1 {
		return []string{"/**", " * " + bodies[0], " */"}
	}
	lines := []string{"/**"}
	for _, b := range bodies {
		if b == "" {
			lines = append(lines, " *")
		} else {
			lines = append(lines, " * "+b)
		}
	}
	return append(lines, " */")
}

// DocblockIsland renders a docblock as its own <?php ... ?> island. The
// continuation lines are realigned under the opening /**.
func DocblockIsland(code, pad string) string {
	doc, ok := ExpandDocblock(code)
	if !ok {
		doc = strings.TrimSpace(code)
	}
	var b strings.Builder
	b.WriteString(pad + "<?php\n")
	for _, l := range splitLines(doc) {
		l = strings.TrimSpace(l)
		if l == "" {
			b.WriteString("\n")
			continue
		}
		if strings.HasPrefix(l, "*") {
			l = " " + l
		}
		b.WriteString(pad + l + "\n")
	}
	b.WriteString(pad + "?>\n")
	return b.String()
}
