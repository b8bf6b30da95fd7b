package naive

import (
	"fmt"
	"io"
	"strings"
)

// Fdump writes a debugging representation of the node tree to w, one node
// per line, indented by nesting.
func Fdump(w io.Writer, nodes []Node) error {
	d := &dumper{w: w}
	d.dump(nodes, 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error // sticky
}

func (d *dumper) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, strings.Repeat(". ", depth)+format+"\n", args...)
}

func (d *dumper) dump(nodes []Node, depth int) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Element:
			attrs := ""
			if len(n.Attrs) > 0 {
				attrs = fmt.Sprintf(" %v", n.Attrs)
			}
			if n.SelfClosing {
				attrs += " /"
			}
			d.printf(depth, "Element %q%s", n.Name, attrs)
			d.dump(n.Children, depth+1)
		case Text:
			d.printf(depth, "Text %q", string(n))
		case PHPBlock:
			d.printf(depth, "PHPBlock %q", string(n))
		case PHPEcho:
			d.printf(depth, "PHPEcho %q", string(n))
		case Doctype:
			d.printf(depth, "Doctype %q", string(n))
		case Comment:
			d.printf(depth, "Comment %q", string(n))
		}
	}
}
