// Package format glues the template scanner, the tree builder, and the
// printer together.
package format

import (
	"bytes"
	"fmt"
	"io"

	"mibk.dev/phtmlfmt/naive"
)

// Version identifies the formatting rules. It changes whenever the output
// for some input changes, which invalidates cached results.
const Version = "1"

// Pipe reads a template from in, formats it, and writes the result to out.
// The filename argument is used to set the “filename” in error messages.
func Pipe(filename string, out io.Writer, in io.Reader) error {
	nodes, err := naive.Parse(in)
	if se, ok := err.(*naive.SyntaxError); ok {
		return fmt.Errorf("%s:%d:%d: %v", filename, se.Line, se.Column, se.Err)
	} else if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return naive.Fprint(out, nodes)
}

// Source formats the template src.
func Source(src []byte) ([]byte, error) {
	var b bytes.Buffer
	if err := Pipe("<source>", &b, bytes.NewReader(src)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
