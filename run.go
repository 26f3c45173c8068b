package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentflare-ai/insertdocs/internal/config"
	"github.com/agentflare-ai/insertdocs/internal/insertdocs"
	"github.com/agentflare-ai/insertdocs/internal/namespace"
	"github.com/agentflare-ai/insertdocs/internal/store"
	"github.com/agentflare-ai/insertdocs/internal/watch"
)

type options struct {
	configFile string
	verbose    bool
}

type renderOptions struct {
	outputPath       string
	members          bool
	only             []string
	inheritedMembers bool
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
	cfg    config.Config
	logger *slog.Logger
}

func run(argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(normalizeLegacyArgs(argv))
	return cmd.Execute()
}

// setup resolves the configuration for cmd: .env, config file, INSERTDOCS_*
// variables and the flags bound below, in increasing precedence.
func (app *cliApp) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv("."); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	v, err := config.New(app.opts.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	if app.opts.verbose {
		level = slog.LevelDebug
	}
	app.cfg = cfg
	app.logger = slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

var flagKeys = map[string]string{
	"namespace":  "namespaces",
	"packages":   "packages",
	"ext":        "ext",
	"dry-run":    "dry_run",
	"tree":       "tree",
	"cache-size": "cache_size",
	"debounce":   "watch.debounce",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func (app *cliApp) dir(positionals []string) string {
	if len(positionals) == 1 {
		return positionals[0]
	}
	return app.cfg.Dir
}

// namespace stacks the configured TOML files, then the Go packages, behind
// an LRU.
func (app *cliApp) namespace(ctx context.Context) (insertdocs.Namespace, error) {
	var chain namespace.Chain
	for _, path := range app.cfg.Namespaces {
		f, err := namespace.LoadTOML(path)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	if len(app.cfg.Packages) > 0 {
		pkgs, err := namespace.LoadGoPackages(ctx, app.cfg.Packages...)
		if err != nil {
			return nil, err
		}
		for _, path := range pkgs.Conflicts() {
			app.logger.Warn("package name already taken, skipping", "path", path)
		}
		chain = append(chain, pkgs)
	}
	if len(chain) == 0 {
		return nil, errors.New("no namespace configured: use --namespace or --packages")
	}
	return namespace.Cached(chain, app.cfg.CacheSize)
}

func (app *cliApp) store() *store.FS {
	if app.cfg.DryRun {
		return store.DryRun()
	}
	return store.OS()
}

func (app *cliApp) insert(ctx context.Context, dir string) error {
	ns, err := app.namespace(ctx)
	if err != nil {
		return err
	}
	driver := insertdocs.NewDriver(app.store(), app.cfg.Ext, app.logger)
	report, err := driver.InsertInto(dir, ns)
	if err != nil {
		return err
	}
	return app.finish(report)
}

func (app *cliApp) clear(dir string) error {
	driver := insertdocs.NewDriver(app.store(), app.cfg.Ext, app.logger)
	report, err := driver.Clear(dir)
	if err != nil {
		return err
	}
	return app.finish(report)
}

func (app *cliApp) finish(report *insertdocs.Report) error {
	printReport(app.stdout, report)
	if app.cfg.Tree {
		fmt.Fprint(app.stdout, reportTree(report))
	}
	if app.cfg.DryRun {
		printNote(app.stdout, "Dry run: no files were written.")
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(failed), len(report.Docs))
	}
	return nil
}

func (app *cliApp) render(ctx context.Context, name string, opts renderOptions) error {
	ns, err := app.namespace(ctx)
	if err != nil {
		return err
	}
	renderer := insertdocs.NewRenderer(ns, app.logger)
	text, err := renderer.Render(name, insertdocs.Options{
		Members:          opts.members || len(opts.only) > 0,
		Only:             opts.only,
		InheritedMembers: opts.inheritedMembers,
	})
	if err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return writeOutput(opts.outputPath, app.stdout, []byte(text))
}

// watch inserts once, then again after every batch of document changes
// until ctx is done. Failed runs are reported and watching continues.
func (app *cliApp) watch(ctx context.Context, dir string) error {
	if err := app.insert(ctx, dir); err != nil {
		app.logger.Warn("insert failed", "dir", dir, "err", err)
	}
	w, err := watch.New(dir, app.cfg.Ext, app.cfg.Watch.Debounce, app.logger)
	if err != nil {
		return err
	}
	app.logger.Info("watching for changes", "dir", dir, "ext", app.cfg.Ext)
	return w.Run(ctx, func(files []string) {
		app.logger.Debug("documents changed", "files", files)
		if err := app.insert(ctx, dir); err != nil {
			app.logger.Warn("insert failed", "dir", dir, "err", err)
		}
	})
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var legacyLongFlagSet = map[string]struct{}{
	"config":            {},
	"namespace":         {},
	"packages":          {},
	"ext":               {},
	"dry-run":           {},
	"tree":              {},
	"verbose":           {},
	"cache-size":        {},
	"debounce":          {},
	"output":            {},
	"members":           {},
	"only":              {},
	"inherited-members": {},
}

// normalizeLegacyArgs rewrites single-dash long flags (-namespace x) to
// their double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) <= 2 {
			converted = append(converted, arg)
			continue
		}
		name := arg[1:]
		if idx := strings.Index(name, "="); idx > 0 {
			name = name[:idx]
		}
		if _, ok := legacyLongFlagSet[name]; ok {
			converted = append(converted, "-"+arg)
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}
