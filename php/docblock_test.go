package php

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeVar(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"@var $model User", "@var User $model"},
		{"@var $model User the edited model", "@var User $model the edited model"},
		{"@var User $model", "@var User $model"},
		{"@var $a $b", "@var $a $b"},
		{"@param int $id", "@param int $id"},
		{"@var $model", "@var $model"},
	}
	for _, tt := range tests {
		if got := NormalizeVar(tt.body); got != tt.want {
			t.Errorf("NormalizeVar(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestInlineDocBody(t *testing.T) {
	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"/** @var $this yii\\web\\View */", "@var yii\\web\\View $this", true},
		{"  /**  Description */ ", "Description", true},
		{"/** */", "", false},
		{"/* @var User $u */", "", false},
		{"$x = 1; /** a */", "", false},
	}
	for _, tt := range tests {
		got, ok := inlineDocBody(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("inlineDocBody(%q) = %q, %v, want %q, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExpandDocblock(t *testing.T) {
	got, ok := ExpandDocblock("/** @var User $u */")
	if want := "/**\n * @var User $u\n */"; !ok || got != want {
		t.Errorf("ExpandDocblock = %q, %v, want %q", got, ok, want)
	}
	if _, ok := ExpandDocblock("/**\n * a\n */"); ok {
		t.Error("ExpandDocblock: a multi-line docblock must not expand")
	}
}

func TestIsDocblock(t *testing.T) {
	for code, want := range map[string]bool{
		"/** a */":                     true,
		"/**\n * a\n * @var X $x\n */": true,
		"  /**\n   * a\n   */  ":       true,
		"/**\n a\n */":                 false,
		"/** a */ $x = 1;":             false,
		"":                             false,
	} {
		if got := IsDocblock(code); got != want {
			t.Errorf("IsDocblock(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestDocLines(t *testing.T) {
	d := docBuffer{
		descs: []string{"Renders the form."},
		vars:  []string{"@var View $this", "@var User $model"},
	}
	want := []string{
		"/**",
		" * Renders the form.",
		" *",
		" * @var View $this",
		" * @var User $model",
		" */",
	}
	if diff := cmp.Diff(want, docLines(d.bodies())); diff != "" {
		t.Errorf("docLines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/**", " * only", " */"}, docLines([]string{"only"})); diff != "" {
		t.Errorf("docLines mismatch (-want +got):\n%s", diff)
	}
	d.reset()
	if !d.empty() {
		t.Error("docBuffer not empty after reset")
	}
}

func TestDocblockIsland(t *testing.T) {
	tests := []struct {
		code, pad string
		want      string
	}{
		{
			"/** @var User $u */", "",
			"<?php\n/**\n * @var User $u\n */\n?>\n",
		},
		{
			"/**\n         * Title\n         *\n         * @var int $n\n         */", "    ",
			"    <?php\n    /**\n     * Title\n     *\n     * @var int $n\n     */\n    ?>\n",
		},
	}
	for _, tt := range tests {
		got := DocblockIsland(tt.code, tt.pad)
		if got != tt.want {
			t.Errorf("DocblockIsland(%q) = %q, want %q", tt.code, got, tt.want)
		}
		if again := DocblockIsland(got[len(tt.pad+"<?php\n"):len(got)-len(tt.pad+"?>\n")], tt.pad); again != got {
			t.Errorf("DocblockIsland not idempotent:\n%s\n%s", got, again)
		}
	}
}
