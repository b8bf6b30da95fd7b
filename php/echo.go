package php

import "strings"

// FormatEcho lays out the expression of an echo tag, indented by pad, as
// one or more lines ending with a newline. The expression is kept on one
// line when it fits; otherwise the first layout that applies is used:
// a method chain, a ternary, a concatenation, then the call arguments.
func FormatEcho(expr, pad string) string {
	f := FormatCode(JoinLines(expr))
	if single := pad + "<?= " + f + " ?>"; fits("", single, 0) {
		return single + "\n"
	}
	inner := pad + Indent

	if parts := splitChain(f); len(parts) > 2 {
		var b strings.Builder
		b.WriteString(pad + "<?= " + parts[0] + parts[1])
		for _, p := range parts[2:] {
			b.WriteString("\n")
			if s, ok := SplitLine(p, inner); ok {
				b.WriteString(strings.TrimRight(s, "\n"))
				continue
			}
			b.WriteString(inner + p)
		}
		b.WriteString(" ?>\n")
		return b.String()
	}

	if cond, yes, no, ok := SplitTernary(f); ok {
		return pad + "<?= " + cond + "\n" +
			inner + "? " + yes + "\n" +
			inner + ": " + no + " ?>\n"
	}

	if parts := splitConcat(f); len(parts) > 1 {
		var b strings.Builder
		b.WriteString(pad + "<?= " + parts[0])
		for _, p := range parts[1:] {
			b.WriteString("\n" + inner + ". " + p)
		}
		b.WriteString(" ?>\n")
		return b.String()
	}

	if prefix, args, suffix, ok := splitArgs(f); ok {
		if s, ok := echoArrayTail(prefix, args, suffix, pad); ok {
			return s
		}
		var b strings.Builder
		b.WriteString(pad + "<?= " + prefix + "\n")
		writeArgs(&b, args, inner)
		b.WriteString(pad + suffix + " ?>\n")
		return b.String()
	}

	if s, ok := SplitLine(f, pad); ok {
		return pad + "<?= " + strings.TrimSpace(s) + " ?>\n"
	}
	return pad + "<?= " + f + " ?>\n"
}

// echoArrayTail keeps the leading arguments of a call on the opening line
// when the last argument is an array literal, and explodes only the array:
//
//	<?= Html::a($label, ['view', 'id' => $model->id, ...
//	    'view',
//	    ...
//	]) ?>
func echoArrayTail(prefix string, args []string, suffix, pad string) (string, bool) {
	last := args[len(args)-1]
	if !isWrapped(last, '[', ']') {
		return "", false
	}
	items := splitTopLevel(last[1:len(last)-1], ',')
	head := pad + "<?= " + prefix + strings.Join(args[:len(args)-1], ", ") + ", ["
	if len(items) < 2 || !fits("", head, 0) {
		return "", false
	}
	var b strings.Builder
	b.WriteString(head + "\n")
	writeArgs(&b, items, pad+Indent)
	b.WriteString(pad + "]" + suffix + " ?>\n")
	return b.String(), true
}

// IsSingleEcho reports whether code is a lone one-line echo statement.
func IsSingleEcho(code string) bool {
	t := strings.TrimSpace(code)
	return strings.HasPrefix(t, "echo ") && !strings.Contains(t, "\n") && strings.Count(t, ";") <= 1
}

// ContainsBreak reports whether code holds a break statement outside
// literals.
func ContainsBreak(code string) bool {
	return containsCode(strings.ToLower(code), "break;")
}
