package naive

import (
	"strings"

	"mibk.dev/phtmlfmt/token"
)

// Node is one of *Element, Text, PHPBlock, PHPEcho, Doctype, or Comment.
type Node interface {
	node()
}

// Element is a markup element. Void elements and elements written as
// self-closing have no children.
type Element struct {
	Name        string
	Attrs       []token.Attr
	SelfClosing bool
	Children    []Node
}

type (
	// Text is character data, whitespace included.
	Text string

	// PHPBlock is the trimmed code of a <?php ... ?> tag.
	PHPBlock string

	// PHPEcho is the trimmed expression of a <?= ... ?> tag.
	PHPEcho string

	// Doctype holds the text after <!DOCTYPE.
	Doctype string

	// Comment holds the trimmed text of a markup comment.
	Comment string
)

func (*Element) node() {}
func (Text) node()     {}
func (PHPBlock) node() {}
func (PHPEcho) node()  {}
func (Doctype) node()  {}
func (Comment) node()  {}

// Void reports whether name is an HTML void element.
func Void(name string) bool {
	switch strings.ToLower(name) {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
