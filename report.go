package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/disiqueira/gotree/v3"

	"github.com/agentflare-ai/insertdocs/internal/insertdocs"
)

func reportPrefix(mode insertdocs.Mode) string {
	if mode == insertdocs.ModeClear {
		return "Cleared "
	}
	return "Inserted "
}

// reportStyles colors report lines. Writers that are not terminals get
// plain text.
type reportStyles struct {
	summary lipgloss.Style
	failed  lipgloss.Style
	note    lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		summary: r.NewStyle().Bold(true),
		failed:  r.NewStyle().Foreground(lipgloss.Color("9")),
		note:    r.NewStyle().Faint(true),
	}
}

// printReport writes the per-document and summary lines of a batch run.
func printReport(w io.Writer, report *insertdocs.Report) {
	styles := newReportStyles(w)
	prefix := reportPrefix(report.Mode)
	total := len(report.Docs)
	for _, doc := range report.Docs {
		if doc.DocsChanged {
			fmt.Fprintf(w, "%sdocstrings in %s\n", prefix, filepath.Base(doc.Path))
		}
	}
	fmt.Fprintln(w, styles.summary.Render(fmt.Sprintf("%sdocstrings in %d/%d files.", prefix, report.DocsChanged, total)))
	for _, doc := range report.Docs {
		if doc.RefsChanged {
			fmt.Fprintf(w, "%sauto-refs in %s\n", prefix, filepath.Base(doc.Path))
		}
	}
	fmt.Fprintln(w, styles.summary.Render(fmt.Sprintf("%sauto-references in %d/%d files.", prefix, report.RefsChanged, total)))
	for _, doc := range report.Failed() {
		fmt.Fprintln(w, styles.failed.Render(fmt.Sprintf("Skipped %s: %v", filepath.Base(doc.Path), doc.Err)))
	}
}

// reportTree renders the documents of a run with the names documented in
// each.
func reportTree(report *insertdocs.Report) string {
	tree := gotree.New(report.Dir)
	for _, doc := range report.Docs {
		label := filepath.Base(doc.Path)
		if doc.Err != nil {
			label += " (failed)"
		}
		node := tree.Add(label)
		for _, name := range doc.Names {
			node.Add(name)
		}
	}
	return tree.Print()
}

// printNote writes a dimmed informational line.
func printNote(w io.Writer, text string) {
	fmt.Fprintln(w, newReportStyles(w).note.Render(text))
}
