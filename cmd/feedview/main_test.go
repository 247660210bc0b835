package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/hazyhaar/feedview/model"
)

// WHAT: Entry flags build an entry, reading stored content from a file.
// WHY: open and dump share the same entry description.
func TestEntryFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.html")
	if err := os.WriteFile(path, []byte("<p>stored</p>"), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := EntryFlags{ID: "e1", Link: "https://example.com", Content: path, Target: "full"}.entry()
	if err != nil {
		t.Fatal(err)
	}
	if e.Content != "<p>stored</p>" || e.OpenTarget() != model.OpenFullContent {
		t.Errorf("entry = %+v", e)
	}

	if _, err := (EntryFlags{Link: "x", Target: "sideways"}).entry(); err == nil {
		t.Error("expected error for unknown target")
	}
}

// WHAT: The command line parses into the expected command and flags.
// WHY: Struct tags are the CLI surface.
func TestParse(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Writers(io.Discard, io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	kctx, err := parser.Parse([]string{"dump", "--link", "https://example.com/a", "--mode", "full", "--log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if kctx.Command() != "dump" {
		t.Errorf("command = %q", kctx.Command())
	}
	if cli.Dump.Link != "https://example.com/a" || cli.Dump.Mode != "full" || cli.LogLevel != "debug" {
		t.Errorf("cli = %+v", cli)
	}

	if _, err := parser.Parse([]string{"dump", "--link", "x", "--mode", "webpage"}); err == nil {
		t.Error("webpage has no payload to dump and should be rejected")
	}
}

// WHAT: dump prints the snippet as markdown without touching the network.
// WHY: Snippet mode resolves from stored data only.
func TestDumpSnippet(t *testing.T) {
	g := &Globals{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    context.Background(),
	}
	cmd := &DumpCmd{
		EntryFlags: EntryFlags{ID: "e1", Link: "https://example.com/a", Snippet: "<p>hello <b>world</b></p>", Target: "snippet"},
		Mode:       "snippet",
	}
	if err := cmd.Run(g); err != nil {
		t.Fatal(err)
	}
}
