// Package cache remembers which file contents are already formatted, so
// that unchanged files can be skipped on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Schema is the version of the Entry encoding.
const Schema uint16 = 1

// Entry is the cached result for one file content.
type Entry struct {
	Schema    uint16
	Formatted bool // the content is already canonical
}

// Cache is a directory of entries keyed by content hash. A nil *Cache is
// valid and caches nothing.
type Cache struct {
	dir     string
	version string
}

// Open returns the cache for formatter version under the user cache
// directory ($XDG_CACHE_HOME/phtmlfmt or ~/.cache/phtmlfmt).
func Open(version string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, "phtmlfmt"), version)
}

// OpenDir returns the cache stored in dir.
func OpenDir(dir, version string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, version: version}, nil
}

// Key returns the key of src.
func (c *Cache) Key(src []byte) string {
	h := sha256.New()
	h.Write([]byte(c.version))
	h.Write([]byte{0})
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".mp")
}

// Get reads the entry stored under key. Missing entries and entries of
// another schema are reported as not found.
func (c *Cache) Get(key string) (Entry, bool, error) {
	if c == nil {
		return Entry{}, false, nil
	}
	b, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, false, nil
	} else if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return Entry{}, false, err
	}
	if e.Schema != Schema {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores e under key. The file is replaced atomically.
func (c *Cache) Put(key string, e Entry) (err error) {
	if c == nil {
		return nil
	}
	e.Schema = Schema
	b, err := msgpack.Marshal(&e)
	if err != nil {
		return err
	}
	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}
