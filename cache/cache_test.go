package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"mibk.dev/phtmlfmt/cache"
)

func TestCache(t *testing.T) {
	c, err := cache.OpenDir(t.TempDir(), "1")
	if err != nil {
		t.Fatal(err)
	}
	key := c.Key([]byte("<p>x</p>\n"))

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}
	if err := c.Put(key, cache.Entry{Formatted: true}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(key)
	if !ok || err != nil {
		t.Fatalf("Get = %v, %v, want hit", ok, err)
	}
	want := cache.Entry{Schema: cache.Schema, Formatted: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyVersion(t *testing.T) {
	dir := t.TempDir()
	c1, _ := cache.OpenDir(dir, "1")
	c2, _ := cache.OpenDir(dir, "2")
	src := []byte("<br />\n")
	if c1.Key(src) == c2.Key(src) {
		t.Error("keys of different versions must differ")
	}
	if c1.Key(src) != c1.Key(src) {
		t.Error("Key is not deterministic")
	}
}

func TestSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	c, _ := cache.OpenDir(dir, "1")
	key := c.Key([]byte("a"))
	p := filepath.Join(dir, key[:2], key+".mp")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	b, err := msgpack.Marshal(&cache.Entry{Schema: 0, Formatted: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Errorf("Get = %v, %v, want a miss", ok, err)
	}
}

func TestNilCache(t *testing.T) {
	var c *cache.Cache
	if err := c.Put("00ab", cache.Entry{Formatted: true}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get("00ab"); ok {
		t.Error("nil cache must never hit")
	}
}
