// Package naive provides a deliberately minimal template parser and
// pretty-printer.
//
// The parser recognises elements, text, comments, the doctype, and two
// kinds of PHP tags, so it does not model HTML's full grammar. Elements
// are closed by name, void elements never take children, and a stray end
// tag is kept as text. The printer re-emits the tree with one construct
// per line, indenting by element nesting and by the control structures
// (if/endif, foreach/endforeach, switch/case, Widget::begin/end) of the
// PHP tags. PHP code is reformatted by package php.
package naive
