// Phtmlfmt formats HTML/PHP view templates.
//
// Without paths, it formats standard input to standard output. Given a
// file, it formats that file; given a directory, it formats every file
// below it whose extension is configured in .phtmlfmt.toml (.php by
// default), skipping excluded names (vendor and node_modules by default).
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"rsc.io/diff"

	"mibk.dev/phtmlfmt/cache"
	"mibk.dev/phtmlfmt/format"
	"mibk.dev/phtmlfmt/naive"
	"mibk.dev/phtmlfmt/token"
)

// errReported is returned when the failure has already been logged.
var errReported = errors.New("failed")

func main() {
	logger := newLogger(os.Stderr)
	ctx := withLogger(context.Background(), logger)
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if err != errReported {
			logger.Error(err)
		}
		os.Exit(1)
	}
}

type options struct {
	write   bool
	list    bool
	diff    bool
	check   bool
	tokens  bool
	tree    bool
	jobs    int
	noCache bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "phtmlfmt [flags] [path ...]",
		Short: "Format HTML/PHP view templates",
		Long: `Phtmlfmt re-indents HTML/PHP view templates by element nesting and by
the control structures of their PHP tags, and reformats the embedded PHP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				loggerFromContext(cmd.Context()).SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &processor{
				opts: opts,
				log:  loggerFromContext(cmd.Context()),
				out:  cmd.OutOrStdout(),
			}
			if len(args) == 0 {
				if opts.write {
					return errors.New("cannot use -w with standard input")
				}
				if term.IsTerminal(int(os.Stdin.Fd())) {
					return cmd.Usage()
				}
				return p.stdin(os.Stdin)
			}
			return p.paths(cmd.Context(), args)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.write, "write", "w", false, "write result to (source) file instead of stdout")
	f.BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs")
	f.BoolVarP(&opts.diff, "diff", "d", false, "display diffs instead of rewriting files")
	f.BoolVar(&opts.check, "check", false, "exit with a non-zero status if any file is not formatted")
	f.BoolVar(&opts.tokens, "tokens", false, "print the tokens of each file")
	f.BoolVar(&opts.tree, "tree", false, "print the node tree of each file")
	f.IntVarP(&opts.jobs, "jobs", "j", 0, "number of files formatted in parallel (0 means all CPUs)")
	f.BoolVar(&opts.noCache, "no-cache", false, "do not consult or update the format cache")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.MarkFlagsMutuallyExclusive("tokens", "tree", "write")
	cmd.MarkFlagsMutuallyExclusive("tokens", "tree", "diff")
	return cmd
}

type processor struct {
	opts    options
	log     *log.Logger
	out     io.Writer
	cache   *cache.Cache
	configs configs
}

type result struct {
	path    string
	perm    fs.FileMode
	src     []byte
	out     []byte // formatted source, or a dump
	changed bool
	err     error
}

func (p *processor) stdin(r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return p.report([]result{p.format("<stdin>", src)})
}

func (p *processor) paths(ctx context.Context, args []string) error {
	cfg, err := p.configs.lookup(".")
	if err != nil {
		return err
	}
	files, err := p.collect(args)
	if err != nil {
		return err
	}

	jobs := p.opts.jobs
	if jobs <= 0 {
		jobs = cfg.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if !p.opts.noCache && cfg.Cache && !p.opts.tokens && !p.opts.tree {
		if p.cache, err = cache.Open(format.Version); err != nil {
			p.log.Warn("cache disabled", "err", err)
		}
	}
	p.log.Debug("formatting", "files", len(files), "jobs", jobs)

	results := make([]result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.file(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return p.report(results)
}

// collect expands directories in args into the files to format.
func (p *processor) collect(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil || !fi.IsDir() {
			// Errors are reported per file.
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == arg {
				return nil
			}
			cfg, err := p.configs.lookup(filepath.Dir(path))
			if err != nil {
				return err
			}
			switch {
			case cfg.excludes(d.Name()):
				p.log.Debug("excluded", "path", path)
				if d.IsDir() {
					return filepath.SkipDir
				}
			case !d.IsDir() && cfg.formats(d.Name()):
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (p *processor) file(path string) result {
	fi, err := os.Stat(path)
	if err != nil {
		return result{path: path, err: err}
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return result{path: path, err: err}
	}
	r := p.format(path, src)
	r.perm = fi.Mode().Perm()
	return r
}

func (p *processor) format(path string, src []byte) result {
	r := result{path: path, src: src}
	var b bytes.Buffer
	switch {
	case p.opts.tokens:
		r.err = dumpTokens(&b, src)
	case p.opts.tree:
		var nodes []naive.Node
		if nodes, r.err = naive.Parse(bytes.NewReader(src)); r.err == nil {
			r.err = naive.Fdump(&b, nodes)
		}
	default:
		return p.formatSource(r)
	}
	r.out = b.Bytes()
	return r
}

func (p *processor) formatSource(r result) result {
	var key string
	if p.cache != nil {
		key = p.cache.Key(r.src)
		e, ok, err := p.cache.Get(key)
		if err != nil {
			p.log.Warn("cache", "file", r.path, "err", err)
		} else if ok && e.Formatted {
			p.log.Debug("cached", "file", r.path)
			r.out = r.src
			return r
		}
	}

	var b bytes.Buffer
	if r.err = format.Pipe(r.path, &b, bytes.NewReader(r.src)); r.err != nil {
		return r
	}
	r.out = b.Bytes()
	r.changed = !bytes.Equal(r.src, r.out)
	if p.cache != nil && !r.changed {
		if err := p.cache.Put(key, cache.Entry{Formatted: true}); err != nil {
			p.log.Warn("cache", "file", r.path, "err", err)
		}
	}
	return r
}

// report writes the results in input order.
func (p *processor) report(results []result) error {
	var failed, differs bool
	for _, r := range results {
		if r.err != nil {
			p.log.Error(r.err)
			failed = true
			continue
		}
		if p.opts.tokens || p.opts.tree {
			p.out.Write(r.out)
			continue
		}
		if r.changed {
			differs = true
		}
		if err := p.emit(r); err != nil {
			p.log.Error(err)
			failed = true
		}
	}
	switch {
	case failed:
		return errReported
	case p.opts.check && differs:
		return errors.New("some files are not formatted")
	}
	return nil
}

func (p *processor) emit(r result) error {
	if !p.opts.write && !p.opts.list && !p.opts.diff && !p.opts.check {
		_, err := p.out.Write(r.out)
		return err
	}
	if !r.changed {
		return nil
	}
	if p.opts.list {
		fmt.Fprintln(p.out, r.path)
	}
	if p.opts.check && !p.opts.list && !p.opts.diff {
		p.log.Info("not formatted", "file", r.path)
	}
	if p.opts.write {
		if err := os.WriteFile(r.path, r.out, r.perm); err != nil {
			return err
		}
		p.log.Debug("rewrote", "file", r.path)
	}
	if p.opts.diff {
		writeDiff(p.out, r.path, r.src, r.out)
	}
	return nil
}

var (
	diffHeader = color.New(color.Bold)
	diffAdd    = color.New(color.FgGreen)
	diffDel    = color.New(color.FgRed)
)

func writeDiff(w io.Writer, path string, src, out []byte) {
	diffHeader.Fprintf(w, "diff %s phtmlfmt/%s\n", path, path)
	for line := range strings.Lines(diff.Format(string(src), string(out))) {
		switch {
		case strings.HasPrefix(line, "+"):
			diffAdd.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			diffDel.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

func dumpTokens(w io.Writer, src []byte) error {
	sc := token.NewScanner(bytes.NewReader(src))
	for {
		tok := sc.Next()
		fmt.Fprintf(w, "%v\t%v\n", tok.Pos, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return sc.Err()
}
