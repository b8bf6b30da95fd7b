package naive

import (
	"fmt"
	"io"
	"strings"

	"mibk.dev/phtmlfmt/token"
)

// SyntaxError records an error and the position it occurred on.
type SyntaxError struct {
	Line, Column int
	Err          error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line:%d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

type parser struct {
	scan *token.Scanner

	nodes []Node
	open  []*Element // stack of unclosed elements
}

// Parse builds the node tree of a template. Malformed markup is never an
// error: unclosed elements end at the end of input and stray end tags
// become text. Read errors are returned as *SyntaxError.
func Parse(r io.Reader) ([]Node, error) {
	p := &parser{scan: token.NewScanner(r)}
	for {
		tok := p.scan.Next()
		if tok.Type == token.EOF {
			break
		}
		p.add(tok)
	}
	if err := p.scan.Err(); err != nil {
		if se, ok := err.(*token.ScanError); ok {
			return nil, &SyntaxError{
				Line:   se.Pos.Line,
				Column: se.Pos.Column,
				Err:    se.Err,
			}
		}
		return nil, fmt.Errorf("scan: %v", err)
	}
	return p.nodes, nil
}

func (p *parser) add(tok token.Token) {
	switch tok.Type {
	case token.Text:
		p.append(Text(tok.Text))
	case token.PHPBlock:
		p.append(PHPBlock(tok.Text))
	case token.PHPEcho:
		p.append(PHPEcho(tok.Text))
	case token.Doctype:
		p.append(Doctype(tok.Text))
	case token.Comment:
		p.append(Comment(tok.Text))
	case token.SelfClosingTag:
		p.append(&Element{Name: tok.Text, Attrs: tok.Attrs, SelfClosing: true})
	case token.StartTag:
		el := &Element{Name: tok.Text, Attrs: tok.Attrs}
		p.append(el)
		if !Void(el.Name) {
			p.open = append(p.open, el)
		}
	case token.EndTag:
		for i := len(p.open) - 1; i >= 0; i-- {
			if strings.EqualFold(p.open[i].Name, tok.Text) {
				p.open = p.open[:i]
				return
			}
		}
		p.append(Text("</" + tok.Text + ">"))
	}
}

func (p *parser) append(n Node) {
	if len(p.open) == 0 {
		p.nodes = append(p.nodes, n)
		return
	}
	top := p.open[len(p.open)-1]
	top.Children = append(top.Children, n)
}
