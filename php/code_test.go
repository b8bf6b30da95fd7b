package php

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{`Html::a('foo=>bar','baz')`, `Html::a('foo=>bar', 'baz')`},
		{`if($x):`, `if ($x):`},
		{`foreach($items as $item):`, `foreach ($items as $item):`},
		{`elseif($a && $b):`, `elseif ($a && $b):`},
		{`['a'=>1,'b'  =>  2]`, `['a' => 1, 'b' => 2]`},
		{`foo( $a )`, `foo($a)`},
		{`$a <=> $b`, `$a <=> $b`},
		{`$this->if($x)`, `$this->if($x)`},
		{`$if($x)`, `$if($x)`},
		{`echo "a,b" . 'c=>d';`, `echo "a,b" . 'c=>d';`},
		{`[ 1,2 ]`, `[1, 2]`},
	}
	for _, tt := range tests {
		got := FormatCode(tt.code)
		if got != tt.want {
			t.Errorf("FormatCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
		if again := FormatCode(got); again != got {
			t.Errorf("FormatCode(%q) not idempotent: %q", got, again)
		}
	}
}

func TestJoinLines(t *testing.T) {
	got := JoinLines("$query\n    ->where(['a' => 1])\n    ->all()")
	want := "$query->where(['a' => 1])->all()"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplitChain(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{"$a->b()->c(1)", []string{"$a", "->b()", "->c(1)"}},
		{"$a->b($x->y)", []string{"$a", "->b($x->y)"}},
		{"$a?->b", []string{"$a?->b"}},
		{"'x->y'", []string{"'x->y'"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitChain(tt.code)); diff != "" {
			t.Errorf("splitChain(%q) mismatch (-want +got):\n%s", tt.code, diff)
		}
	}
}

func TestSplitConcat(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{"'a' . $b . 'c'", []string{"'a'", "$b", "'c'"}},
		{"1.5 . $x", []string{"1.5", "$x"}},
		{"$a .= $b", []string{"$a .= $b"}},
		{"foo(...$args)", []string{"foo(...$args)"}},
		{"'a.b'", []string{"'a.b'"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitConcat(tt.code)); diff != "" {
			t.Errorf("splitConcat(%q) mismatch (-want +got):\n%s", tt.code, diff)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	prefix, args, suffix, ok := splitArgs("foo($a, bar($b, $c));")
	if !ok {
		t.Fatal("splitArgs: not ok")
	}
	if prefix != "foo(" || suffix != ");" {
		t.Errorf("prefix, suffix = %q, %q", prefix, suffix)
	}
	if diff := cmp.Diff([]string{"$a", "bar($b, $c)"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	if _, _, _, ok := splitArgs("foo($a)"); ok {
		t.Error("splitArgs: a single argument must not split")
	}
	if _, _, _, ok := splitArgs("'(a, b)'"); ok {
		t.Error("splitArgs: parenthesis inside a literal must be ignored")
	}
}

func TestScanHelpers(t *testing.T) {
	if got := openQuote(`$this->registerCss("`); got != '"' {
		t.Errorf("openQuote = %q, want '\"'", got)
	}
	if got := openQuote(`$a = 'x' . "y";`); got != 0 {
		t.Errorf("openQuote = %q, want 0", got)
	}
	if got := countQuotes(`a \" b " c`, '"'); got != 1 {
		t.Errorf("countQuotes = %d, want 1", got)
	}
	if o, c := countBrackets(`foo(['(' => $a])`); o != 2 || c != 2 {
		t.Errorf("countBrackets = %d, %d, want 2, 2", o, c)
	}
	if got := leadingClosers("]);"); got != 2 {
		t.Errorf("leadingClosers = %d, want 2", got)
	}
	if got := matchingClose("[a, (b), c] d", 0); got != 10 {
		t.Errorf("matchingClose = %d, want 10", got)
	}
	if !isWrapped("[a, [b]]", '[', ']') || isWrapped("[a] + [b]", '[', ']') {
		t.Error("isWrapped")
	}
	if diff := cmp.Diff([]string{"a", "[b, c]", "'d,e'"}, splitTopLevel("a, [b, c], 'd,e',", ',')); diff != "" {
		t.Errorf("splitTopLevel mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "", "b"}, splitLines("a\r\n\nb\n")); diff != "" {
		t.Errorf("splitLines mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeStatements(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"$a = 1; $b = 2;", "\n$a = 1;\n $b = 2;"},
		{"for ($i = 0; $i < 3; $i++):", "\nfor ($i = 0; $i < 3; $i++):"},
		{"echo 'a;b'; $c;", "\necho 'a;b';\n $c;"},
		{
			"switch ($x): case 1: echo 'a'; break; endswitch;",
			"\nswitch ($x): \ncase 1: echo 'a';\n break;\n endswitch;",
		},
		{"$my_case = 1;", "\n$my_case = 1;"},
		{"  case 1: x;", "\n  case 1: x;"},
		{"'a' case 1:", "\n'a' \ncase 1:"},
	}
	for _, tt := range tests {
		if got := NormalizeStatements(tt.code); got != tt.want {
			t.Errorf("NormalizeStatements(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLargeInput(t *testing.T) {
	const n = 50000
	code := strings.Repeat("$a = 'x;y'; ", n)
	if got, want := NormalizeStatements(code), "\n"+strings.Repeat("$a = 'x;y';\n ", n); got != want {
		t.Errorf("NormalizeStatements: got %d bytes, want %d", len(got), len(want))
	}
	code = strings.Repeat("foo( $a,$b )", n)
	if got, want := FormatCode(code), strings.Repeat("foo($a, $b)", n); got != want {
		t.Errorf("FormatCode: got %d bytes, want %d", len(got), len(want))
	}
}
