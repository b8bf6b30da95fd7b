package token

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ScanError struct {
	Pos Pos
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("line:%v: %v", e.Pos, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

type Pos struct {
	Line, Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Attr is a markup attribute. Quote is the quote the value was written
// with, or 0 for an unquoted value.
type Attr struct {
	Name     string
	Value    string
	HasValue bool
	Quote    byte
}

func (a Attr) String() string {
	if !a.HasValue {
		return a.Name
	}
	return fmt.Sprintf("%s=%q", a.Name, a.Value)
}

// Token is a unit of a template. For tags, Text holds the tag name. For
// code tokens, Text holds the trimmed code between the opening and
// closing tag.
type Token struct {
	Type  Type
	Text  string
	Attrs []Attr
	Pos   Pos
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return t.Type.String()
	case StartTag, SelfClosingTag:
		if len(t.Attrs) > 0 {
			return fmt.Sprintf("%v(%q %v)", t.Type, t.Text, t.Attrs)
		}
	}
	return fmt.Sprintf("%v(%q)", t.Type, t.Text)
}

//go:generate go tool stringer -type Type -linecomment

type Type uint

const (
	Illegal Type = iota
	EOF
	Text
	StartTag
	EndTag
	SelfClosingTag
	PHPBlock // <?php
	PHPEcho  // <?=
	Doctype
	Comment
)

// RawText reports whether the content of the element name is copied
// verbatim rather than scanned for markup.
func RawText(name string) bool {
	switch strings.ToLower(name) {
	case "script", "style", "textarea":
		return true
	}
	return false
}

const eof = -1

type Scanner struct {
	r    *bufio.Reader
	done bool
	err  error

	raw string // name of the raw-text element being scanned

	line, col   int
	lastLineLen int
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r:    bufio.NewReader(r),
		line: 1,
		col:  1,
	}
}

// Next returns the next token. At the end of input, or after a read
// error, it returns EOF; see Err.
func (s *Scanner) Next() (tok Token) {
	pos := s.pos()
	defer func() { tok.Pos = pos }()

	if s.raw != "" {
		name := s.raw
		s.raw = ""
		if tok := s.scanRawText(name); tok.Text != "" {
			return tok
		}
	}

	if s.peek() == eof {
		return Token{Type: EOF}
	}
	switch s.markup() {
	case PHPEcho:
		s.skip(len("<?="))
		return s.scanPHP(PHPEcho)
	case PHPBlock:
		if s.lookingAtFold("<?php") {
			s.skip(len("<?php"))
		} else {
			s.skip(len("<?"))
		}
		return s.scanPHP(PHPBlock)
	case Comment:
		s.skip(len("<!--"))
		return s.scanComment()
	case Doctype:
		s.skip(len("<!doctype"))
		return s.scanDoctype()
	case EndTag:
		s.skip(len("</"))
		return s.scanEndTag()
	case StartTag:
		s.skip(len("<"))
		return s.scanStartTag()
	}
	return s.scanText()
}

func (s *Scanner) Err() error { return s.err }

func (s *Scanner) pos() Pos { return Pos{Line: s.line, Column: s.col} }

func (s *Scanner) read() rune {
	if s.done {
		return eof
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			s.err = &ScanError{s.pos(), err}
		}
		s.done = true
		return eof
	}
	if r == '\n' {
		s.line++
		s.lastLineLen, s.col = s.col, 1
	} else {
		s.col++
	}
	return r
}

func (s *Scanner) unread() {
	if s.done {
		return
	}
	if err := s.r.UnreadRune(); err != nil {
		// UnreadRune returns an error only on invalid use.
		panic(err)
	}
	s.col--
	if s.col == 0 {
		s.col = s.lastLineLen
		s.line--
	}
}

func (s *Scanner) peek() rune {
	r := s.read()
	s.unread()
	return r
}

func (s *Scanner) skip(n int) {
	for range n {
		s.read()
	}
}

// lookingAt reports whether the unread input starts with prefix. It
// must not be followed by unread.
func (s *Scanner) lookingAt(prefix string) bool {
	b, _ := s.r.Peek(len(prefix))
	return string(b) == prefix
}

func (s *Scanner) lookingAtFold(prefix string) bool {
	b, _ := s.r.Peek(len(prefix))
	return strings.EqualFold(string(b), prefix)
}

// markup returns the kind of markup that starts the unread input, or
// Text if there is none.
func (s *Scanner) markup() Type {
	b, _ := s.r.Peek(len("<!doctype"))
	if len(b) < 2 || b[0] != '<' {
		return Text
	}
	switch {
	case b[1] == '?':
		if len(b) > 2 && b[2] == '=' {
			return PHPEcho
		}
		if len(b) >= 5 && strings.EqualFold(string(b[2:5]), "php") || len(b) > 2 && isSpace(b[2]) {
			return PHPBlock
		}
	case b[1] == '!':
		if strings.HasPrefix(string(b), "<!--") {
			return Comment
		}
		if strings.EqualFold(string(b), "<!doctype") {
			return Doctype
		}
	case b[1] == '/':
		if len(b) > 2 && isNameStart(b[2]) {
			return EndTag
		}
	case isNameStart(b[1]):
		return StartTag
	}
	return Text
}

func (s *Scanner) scanText() Token {
	var b strings.Builder
	for b.Len() == 0 || s.markup() == Text {
		r := s.read()
		if r == eof {
			break
		}
		b.WriteRune(r)
	}
	return Token{Type: Text, Text: b.String()}
}

// scanRawText reads the body of a raw-text element up to its end tag.
func (s *Scanner) scanRawText(name string) Token {
	var b strings.Builder
	for !s.lookingAtFold("</" + name) {
		r := s.read()
		if r == eof {
			break
		}
		b.WriteRune(r)
	}
	return Token{Type: Text, Text: b.String()}
}

// scanPHP reads code up to the closing ?> or the end of input.
func (s *Scanner) scanPHP(typ Type) Token {
	var b strings.Builder
	for !s.lookingAt("?>") {
		r := s.read()
		if r == eof {
			return Token{Type: typ, Text: strings.TrimSpace(b.String())}
		}
		b.WriteRune(r)
	}
	s.skip(len("?>"))
	return Token{Type: typ, Text: strings.TrimSpace(b.String())}
}

func (s *Scanner) scanComment() Token {
	var b strings.Builder
	for !s.lookingAt("-->") {
		r := s.read()
		if r == eof {
			return Token{Type: Comment, Text: strings.TrimSpace(b.String())}
		}
		b.WriteRune(r)
	}
	s.skip(len("-->"))
	return Token{Type: Comment, Text: strings.TrimSpace(b.String())}
}

func (s *Scanner) scanDoctype() Token {
	var b strings.Builder
	for {
		r := s.read()
		if r == '>' || r == eof {
			return Token{Type: Doctype, Text: strings.TrimSpace(b.String())}
		}
		b.WriteRune(r)
	}
}

func (s *Scanner) scanName() string {
	var b strings.Builder
	for {
		r := s.read()
		if r == eof || r == '>' || r == '/' || r < 0x80 && isSpace(byte(r)) {
			s.unread()
			return b.String()
		}
		b.WriteRune(r)
	}
}

func (s *Scanner) scanEndTag() Token {
	name := s.scanName()
	for {
		if r := s.read(); r == '>' || r == eof {
			return Token{Type: EndTag, Text: name}
		}
	}
}

func (s *Scanner) scanStartTag() Token {
	tok := Token{Type: StartTag, Text: s.scanName()}
	for {
		s.skipSpace()
		switch {
		case s.lookingAt("/>"):
			s.skip(len("/>"))
			tok.Type = SelfClosingTag
			return tok
		case s.lookingAt(">"):
			s.skip(len(">"))
			if RawText(tok.Text) {
				s.raw = tok.Text
			}
			return tok
		case s.peek() == eof:
			return tok
		}

		attr := Attr{Name: s.scanAttrName()}
		s.skipSpace()
		if s.lookingAt("=") {
			s.skip(len("="))
			s.skipSpace()
			attr.HasValue = true
			attr.Value, attr.Quote = s.scanAttrValue()
		}
		tok.Attrs = append(tok.Attrs, attr)
	}
}

func (s *Scanner) skipSpace() {
	for {
		r := s.read()
		if r == eof || r >= 0x80 || !isSpace(byte(r)) {
			s.unread()
			return
		}
	}
}

// copyPHP copies an embedded <?...?> tag to b verbatim.
func (s *Scanner) copyPHP(b *strings.Builder) {
	for !s.lookingAt("?>") {
		r := s.read()
		if r == eof {
			return
		}
		b.WriteRune(r)
	}
	s.skip(len("?>"))
	b.WriteString("?>")
}

func (s *Scanner) scanAttrName() string {
	var b strings.Builder
	for {
		if s.lookingAt("<?") {
			s.copyPHP(&b)
			continue
		}
		if s.lookingAt("/>") && b.Len() > 0 {
			return b.String()
		}
		r := s.read()
		switch {
		case r == eof:
			return b.String()
		case r == '=' || r == '>' || r < 0x80 && isSpace(byte(r)):
			if b.Len() > 0 {
				s.unread()
				return b.String()
			}
		}
		b.WriteRune(r)
	}
}

func (s *Scanner) scanAttrValue() (string, byte) {
	var b strings.Builder
	quote := s.peek()
	if quote != '"' && quote != '\'' {
		for {
			if s.lookingAt("<?") {
				s.copyPHP(&b)
				continue
			}
			r := s.read()
			if r == eof || r == '>' || r < 0x80 && isSpace(byte(r)) {
				s.unread()
				return b.String(), 0
			}
			b.WriteRune(r)
		}
	}
	s.read()
	for {
		if s.lookingAt("<?") {
			s.copyPHP(&b)
			continue
		}
		r := s.read()
		if r == quote || r == eof {
			return b.String(), byte(quote)
		}
		b.WriteRune(r)
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' }

func isNameStart(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
