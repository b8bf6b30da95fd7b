package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		name = filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestConfigLookup(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		configName:     "extensions = [\"phtml\", \".php\"]\nexclude = [\"build\"]\njobs = 2\n",
		"a/b/view.php": "",
	})

	var cs configs
	got, err := cs.lookup(filepath.Join(root, "a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	want := &config{
		Extensions: []string{".phtml", ".php"},
		Exclude:    []string{"build"},
		Jobs:       2,
		Cache:      true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cs.byDir[filepath.Join(root, "a")] != got {
		t.Error("lookup did not memoise the parent directory")
	}
	if !got.formats("x.phtml") || got.formats("x.html") {
		t.Error("formats does not follow the extensions")
	}
	if !got.excludes("build") || got.excludes("vendor") {
		t.Error("excludes does not follow the patterns")
	}
}

func TestConfigUnknownKey(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{configName: "width = 80\n"})
	var cs configs
	if _, err := cs.lookup(root); err == nil {
		t.Error("want an error for an unknown key")
	}
}

func newTestProcessor(opts options) (*processor, *bytes.Buffer) {
	out := new(bytes.Buffer)
	opts.noCache = true
	return &processor{opts: opts, log: newLogger(io.Discard), out: out}, out
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.php":           "",
		"vendor/lib/x.php":    "",
		"views/site/list.php": "",
		"views/README.md":     "",
	})
	p, _ := newTestProcessor(options{})
	got, err := p.collect([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "index.php"),
		filepath.Join(root, "views", "site", "list.php"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"bad.php":  "<div><p>x</p></div>",
		"good.php": "<p>x</p>\n",
	})
	bad := filepath.Join(root, "bad.php")
	good := filepath.Join(root, "good.php")
	ctx := context.Background()

	p, out := newTestProcessor(options{list: true})
	if err := p.paths(ctx, []string{bad, good}); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), bad+"\n"; got != want {
		t.Errorf("-l printed %q, want %q", got, want)
	}

	p, _ = newTestProcessor(options{check: true})
	if err := p.paths(ctx, []string{good}); err != nil {
		t.Errorf("--check on a formatted file: %v", err)
	}
	if err := p.paths(ctx, []string{bad}); err == nil {
		t.Error("--check on an unformatted file: want an error")
	}

	p, _ = newTestProcessor(options{write: true})
	if err := p.paths(ctx, []string{bad}); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(bad)
	if got, want := string(b), "<div>\n    <p>x</p>\n</div>\n"; got != want {
		t.Errorf("-w wrote %q, want %q", got, want)
	}

	p, _ = newTestProcessor(options{})
	if err := p.paths(ctx, []string{filepath.Join(root, "missing.php")}); err != errReported {
		t.Errorf("missing file: got %v, want errReported", err)
	}
}
