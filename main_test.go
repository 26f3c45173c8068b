package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const apiTOML = `
[objects.geo]
kind = "module"
doc = "Geometry helpers."
members = ["area"]

[objects."geo.area"]
kind = "function"
doc = """area(w, h)

    Area of a rectangle."""
`

const indexRST = "Intro\n\n.. insertdocs:: geo.area\n\nCall geo.area to measure.\n"

// docsDir creates a documents directory with an index and a namespace file.
func docsDir(t *testing.T) (dir, namespace string) {
	t.Helper()
	dir = t.TempDir()
	namespace = filepath.Join(t.TempDir(), "api.toml")
	writeFile(t, namespace, apiTOML)
	writeFile(t, filepath.Join(dir, "index.rst"), indexRST)
	return dir, namespace
}

func TestInsertCommand(t *testing.T) {
	dir, ns := docsDir(t)
	var buf bytes.Buffer
	if err := run([]string{"--namespace", ns, dir}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "Inserted docstrings in index.rst")
	assertContains(t, out, "Inserted docstrings in 1/1 files.")
	assertContains(t, out, "Inserted auto-refs in index.rst")
	assertContains(t, out, "Inserted auto-references in 1/1 files.")

	content := readFile(t, filepath.Join(dir, "index.rst"))
	assertContains(t, content, ".. insertdocs start:: geo.area")
	assertContains(t, content, ".. py:function:: geo.area(w, h)")
	assertContains(t, content, "  Area of a rectangle.")
	assertContains(t, content, ".. insertdocs end::")
	assertContains(t, content, "Call :ref:`geo.area<insertdocs-geo-area>` to measure.")

	buf.Reset()
	if err := run([]string{"insert", "--namespace", ns, dir}, &buf); err != nil {
		t.Fatalf("second run: %v", err)
	}
	assertContains(t, buf.String(), "Inserted docstrings in 0/1 files.")
	assertContains(t, buf.String(), "Inserted auto-references in 0/1 files.")
	if again := readFile(t, filepath.Join(dir, "index.rst")); again != content {
		t.Fatalf("second insert changed the document:\n%s", again)
	}
}

func TestClearCommandRestoresDirectives(t *testing.T) {
	dir, ns := docsDir(t)
	if err := run([]string{"--namespace", ns, dir}, io.Discard); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var buf bytes.Buffer
	if err := run([]string{"clear", dir}, &buf); err != nil {
		t.Fatalf("clear: %v", err)
	}
	assertContains(t, buf.String(), "Cleared docstrings in 1/1 files.")
	assertContains(t, buf.String(), "Cleared auto-references in 1/1 files.")
	if got := readFile(t, filepath.Join(dir, "index.rst")); got != indexRST {
		t.Fatalf("clear did not restore the document:\n%q", got)
	}
}

func TestDryRunLeavesFilesAlone(t *testing.T) {
	dir, ns := docsDir(t)
	var buf bytes.Buffer
	if err := run([]string{"-namespace", ns, "-dry-run", "--tree", dir}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "Inserted docstrings in 1/1 files.")
	assertContains(t, out, "Dry run: no files were written.")
	assertContains(t, out, "index.rst")
	assertContains(t, out, "geo.area")
	if got := readFile(t, filepath.Join(dir, "index.rst")); got != indexRST {
		t.Fatalf("dry run wrote the document:\n%s", got)
	}
}

func TestInsertReportsFailedDocuments(t *testing.T) {
	dir, ns := docsDir(t)
	bad := ".. insertdocs start:: geo.area\n\nno end marker\n"
	writeFile(t, filepath.Join(dir, "bad.rst"), bad)

	var buf bytes.Buffer
	err := run([]string{"--namespace", ns, dir}, &buf)
	if err == nil {
		t.Fatal("expected an error for the malformed document")
	}
	assertContains(t, err.Error(), "1 of 2 documents failed")
	assertContains(t, buf.String(), "Skipped bad.rst")
	assertContains(t, buf.String(), "Inserted docstrings in index.rst")
	if got := readFile(t, filepath.Join(dir, "bad.rst")); got != bad {
		t.Fatalf("malformed document was modified:\n%s", got)
	}
}

func TestInsertRequiresNamespace(t *testing.T) {
	dir, _ := docsDir(t)
	err := run([]string{dir}, io.Discard)
	if err == nil {
		t.Fatal("expected an error without a namespace")
	}
	assertContains(t, err.Error(), "no namespace configured")
}

func TestRenderCommand(t *testing.T) {
	_, ns := docsDir(t)
	var buf bytes.Buffer
	if err := run([]string{"render", "--namespace", ns, "--members", "geo"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, ".. py:module:: geo")
	assertContains(t, out, "Functions\n----------")
	assertContains(t, out, ".. py:function:: geo.area(w, h)")
}

func TestRenderGoPackage(t *testing.T) {
	var buf bytes.Buffer
	args := []string{"render", "--packages", "./testdata/example", "--members", "example.Greeter"}
	if err := run(args, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, ".. py:class:: example.Greeter(Punctuation string)")
	assertContains(t, out, "*Inherits from Named*")
	assertContains(t, out, ".. py:method:: example.Greeter.Greet(times int)")
}

func TestRenderOutputFlagWritesFile(t *testing.T) {
	_, ns := docsDir(t)
	target := filepath.Join(t.TempDir(), "out", "area.rst")
	if err := run([]string{"render", "--namespace", ns, "-o", target, "geo.area"}, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	assertContains(t, readFile(t, target), ".. _insertdocs-geo-area:")
}

func TestRenderUnknownName(t *testing.T) {
	_, ns := docsDir(t)
	if err := run([]string{"render", "--namespace", ns, "geo.volume"}, io.Discard); err == nil {
		t.Fatal("expected an error for an unknown name")
	}
}

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"-namespace", "a.toml", "-v", "docs"}, []string{"--namespace", "a.toml", "-v", "docs"}},
		{[]string{"-ext=.txt", "-dry-run"}, []string{"--ext=.txt", "--dry-run"}},
		{[]string{"-o", "out.rst", "--", "-tree"}, []string{"-o", "out.rst", "--", "-tree"}},
		{[]string{"-unknown"}, []string{"-unknown"}},
	}
	for _, tt := range tests {
		if got := normalizeLegacyArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("normalizeLegacyArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHelpFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"--help"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "insertdocs [flags] [dir]")
	assertContains(t, out, "--namespace")
	assertContains(t, out, "completion  Generate shell completion scripts")
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"completion", "bash"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected completion output")
	}
	assertContains(t, buf.String(), "__start_insertdocs")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	if err := run([]string{"gen-docs", tmp}, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	files, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	var foundRoot bool
	for _, f := range files {
		if f.Name() == "insertdocs.md" {
			foundRoot = true
			break
		}
	}
	if !foundRoot {
		t.Fatalf("expected insertdocs.md in docs output, got %v", files)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\n%s", needle, haystack)
	}
}
