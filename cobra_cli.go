package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
)

const rootLongDesc = `
insertdocs fills reStructuredText documents with API documentation.

Write a directive where a piece of documentation belongs:

  .. insertdocs:: geo.Box
      :members:
      :inherited-members:

and insertdocs replaces it with a marked block holding the rendered
docstring, then links every documented name mentioned in the prose to its
anchor. Running it again refreshes the blocks; the clear command restores
the bare directives.

Names resolve against TOML namespace files (--namespace) and Go packages
(--packages). Settings can also come from .insertdocs.toml and INSERTDOCS_*
environment variables.
`

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: os.Stderr}
	cmd := &cobra.Command{
		Use:           "insertdocs [flags] [dir]",
		Short:         "Insert API documentation into reStructuredText documents",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.opts.configFile, "config", "", "config file (default is ./.insertdocs.toml)")
	flags.StringSlice("namespace", nil, "TOML namespace file to resolve names in (repeatable)")
	flags.StringSlice("packages", nil, "Go package pattern to resolve names in (repeatable)")
	flags.String("ext", ".rst", "extension of the documents to process")
	flags.Bool("dry-run", false, "process documents without writing any file")
	flags.Bool("tree", false, "print a tree of the documents and the names documented in each")
	flags.Int("cache-size", 256, "number of resolved objects to keep in memory")
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return err
		}
		return app.insert(commandContext(cmd), app.dir(args))
	}

	cmd.AddCommand(newInsertCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newInsertCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert [dir]",
		Short: "Insert documentation for every directive in a directory",
		Long: strings.TrimSpace(`
Render every insertdocs directive found in the documents of dir (default:
the configured dir, "."), then turn mentions of the documented names into
cross-references. Documents that fail are reported and skipped.
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return err
		}
		return app.insert(commandContext(cmd), app.dir(args))
	}
	return cmd
}

func newClearCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [dir]",
		Short: "Remove inserted documentation and references",
		Long: strings.TrimSpace(`
Strip every inserted block and generated cross-reference from the documents
of dir, leaving the bare directives behind.
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return err
		}
		return app.clear(app.dir(args))
	}
	return cmd
}

func newRenderCmd(app *cliApp) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Print the documentation fragment for one name",
		Long: strings.TrimSpace(`
Render the fragment a directive for NAME would insert.

Example:

  insertdocs render --namespace api.toml --members geo.Box
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.outputPath, "output", "o", "", "write the fragment to file instead of stdout")
	flags.BoolVar(&opts.members, "members", false, "include member sections")
	flags.StringSliceVar(&opts.only, "only", nil, "limit member sections to these names")
	flags.BoolVar(&opts.inheritedMembers, "inherited-members", false, "include members inherited from base classes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return err
		}
		return app.render(commandContext(cmd), args[0], opts)
	}
	return cmd
}

func newWatchCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Insert documentation whenever a document changes",
		Long: strings.TrimSpace(`
Run insert once, then again each time documents in dir change. Changes
arriving within the debounce window trigger a single run. Stop with Ctrl-C.
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().Duration("debounce", 0, "quiet period before a batch of changes is processed (default 200ms)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.watch(ctx, app.dir(args))
	}
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for insertdocs.

The output should be evaluated by your shell. For example:

  # bash
  insertdocs completion bash > /usr/local/etc/bash_completion.d/insertdocs

  # zsh
  insertdocs completion zsh > "${fpath[1]}/_insertdocs"

  # fish
  insertdocs completion fish | source

  # PowerShell
  insertdocs completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  insertdocs gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
