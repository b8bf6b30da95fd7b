package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

const configName = ".phtmlfmt.toml"

type config struct {
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
	Jobs       int      `toml:"jobs"`
	Cache      bool     `toml:"cache"`
}

func defaultConfig() *config {
	return &config{
		Extensions: []string{".php"},
		Exclude:    []string{"vendor", "node_modules"},
		Cache:      true,
	}
}

// formats reports whether the file name has one of the configured
// extensions.
func (c *config) formats(name string) bool {
	return slices.Contains(c.Extensions, filepath.Ext(name))
}

// excludes reports whether the file or directory name matches one of the
// configured exclude patterns.
func (c *config) excludes(name string) bool {
	for _, pat := range c.Exclude {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// configs finds the configuration governing a directory: the nearest
// .phtmlfmt.toml in the directory or any of its parents. Lookups are
// memoised per directory.
type configs struct {
	mu    sync.Mutex
	byDir map[string]*config
}

func (cs *configs) lookup(dir string) (*config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.byDir == nil {
		cs.byDir = make(map[string]*config)
	}

	var visited []string
	cfg, err := cs.find(dir, &visited)
	if err != nil {
		return nil, err
	}
	for _, d := range visited {
		cs.byDir[d] = cfg
	}
	return cfg, nil
}

func (cs *configs) find(dir string, visited *[]string) (*config, error) {
	for {
		if cfg, ok := cs.byDir[dir]; ok {
			return cfg, nil
		}
		*visited = append(*visited, dir)

		name := filepath.Join(dir, configName)
		if _, err := os.Stat(name); err == nil {
			return loadConfig(name)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Root.
			return defaultConfig(), nil
		}
		dir = parent
	}
}

func loadConfig(name string) (*config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(name, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", name, undec[0].String())
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative", name)
	}
	return cfg, nil
}
