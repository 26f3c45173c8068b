package insertdocs

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

// Store is the file storage the driver reads documents from and writes
// them back to.
type Store interface {
	// List returns the names of the files in dir ending in ext, in order.
	List(dir, ext string) ([]string, error)
	Read(path string) (string, error)
	Write(path, text string) error
}

// DefaultExt is the document extension processed when none is configured.
const DefaultExt = ".rst"

// DocResult is the outcome for one document.
type DocResult struct {
	Path        string
	Names       []string
	DocsChanged bool
	RefsChanged bool
	Err         error
}

// Report summarizes a batch run.
type Report struct {
	Mode        Mode
	Dir         string
	Docs        []DocResult
	DocsChanged int
	RefsChanged int
	KnownNames  []string
}

// Failed returns the documents that could not be processed.
func (r *Report) Failed() []DocResult {
	var failed []DocResult
	for _, d := range r.Docs {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

// Driver runs the two passes over every document in a directory.
type Driver struct {
	store  Store
	ext    string
	logger *slog.Logger
}

// NewDriver returns a driver over store processing files ending in ext.
func NewDriver(store Store, ext string, logger *slog.Logger) *Driver {
	if ext == "" {
		ext = DefaultExt
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{store: store, ext: ext, logger: logger}
}

// InsertInto inserts fragments for every directive in dir, resolving names
// in ns, then links the documented names across all documents.
func (d *Driver) InsertInto(dir string, ns Namespace) (*Report, error) {
	scanner := NewScanner(ModeInsert, NewRenderer(ns, d.logger), d.logger)
	report, err := d.scanAll(dir, scanner, ModeInsert)
	if err != nil {
		return nil, err
	}
	d.linkAll(report)
	return report, nil
}

// Clear strips inserted fragments and references from every document in
// dir, restoring the bare directives.
func (d *Driver) Clear(dir string) (*Report, error) {
	report, err := d.scanAll(dir, NewScanner(ModeClear, nil, d.logger), ModeClear)
	if err != nil {
		return nil, err
	}
	// Known Names is empty here, so the link pass only strips old references.
	d.linkAll(report)
	return report, nil
}

func (d *Driver) scanAll(dir string, scanner *Scanner, mode Mode) (*Report, error) {
	files, err := d.store.List(dir, d.ext)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	report := &Report{Mode: mode, Dir: dir, Docs: make([]DocResult, 0, len(files))}
	seen := map[string]bool{}
	for _, name := range files {
		res := DocResult{Path: filepath.Join(dir, name)}
		res.Names, res.DocsChanged, res.Err = d.scanOne(res.Path, scanner)
		if res.Err != nil {
			d.logger.Warn("skipping document", "path", res.Path, "err", res.Err)
		}
		if res.DocsChanged {
			report.DocsChanged++
		}
		for _, n := range res.Names {
			if !seen[n] {
				seen[n] = true
				report.KnownNames = append(report.KnownNames, n)
			}
		}
		report.Docs = append(report.Docs, res)
	}
	return report, nil
}

func (d *Driver) scanOne(path string, scanner *Scanner) ([]string, bool, error) {
	text, err := d.store.Read(path)
	if err != nil {
		return nil, false, err
	}
	doc := NewDocument(path, text)
	names, err := scanner.Scan(doc)
	if err != nil {
		return nil, false, err
	}
	d.logger.Debug("scanned document", "path", path, "names", len(names), "changed", doc.Changed)
	if !doc.Changed {
		return names, false, nil
	}
	if err := d.store.Write(path, doc.Text()); err != nil {
		return nil, false, err
	}
	d.logger.Info("wrote document", "path", path, "pass", "docstrings")
	return names, true, nil
}

// linkAll re-reads every document that survived the first pass and
// rewrites its references against the complete set of known names.
func (d *Driver) linkAll(report *Report) {
	for i := range report.Docs {
		res := &report.Docs[i]
		if res.Err != nil {
			continue
		}
		text, err := d.store.Read(res.Path)
		if err != nil {
			res.Err = err
			continue
		}
		linked, changed := RewriteRefs(text, report.KnownNames)
		if !changed {
			continue
		}
		if err := d.store.Write(res.Path, linked); err != nil {
			res.Err = err
			continue
		}
		d.logger.Info("wrote document", "path", res.Path, "pass", "references")
		res.RefsChanged = true
		report.RefsChanged++
	}
}
