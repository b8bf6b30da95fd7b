package format_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"mibk.dev/phtmlfmt/format"
)

func TestSource(t *testing.T) {
	got, err := format.Source([]byte("<ul><?php foreach ($items as $item): ?><li><?= $item ?></li><?php endforeach; ?></ul>"))
	if err != nil {
		t.Fatal(err)
	}
	const want = "<ul>\n" +
		"    <?php foreach ($items as $item): ?>\n" +
		"        <li><?= $item ?></li>\n" +
		"    <?php endforeach; ?>\n" +
		"</ul>\n"
	if string(got) != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPipeError(t *testing.T) {
	err := format.Pipe("view.php", new(bytes.Buffer), errReader{})
	const want = "view.php:1:1: broken"
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %s", err, want)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errBroken }

var errBroken = errors.New("broken")

func TestPipeEmpty(t *testing.T) {
	var b strings.Builder
	if err := format.Pipe("empty.php", &b, strings.NewReader("")); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Errorf("got %q, want empty output", b.String())
	}
}
