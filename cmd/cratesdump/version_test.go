package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/nao1215/cratesdump/internal/config"
)

func TestNewBuildInfo(t *testing.T) {
	t.Parallel()

	t.Run("without build info", func(t *testing.T) {
		t.Parallel()

		info := newBuildInfo(nil)
		if info.Module != "github.com/nao1215/cratesdump" {
			t.Errorf("unexpected module %q", info.Module)
		}
		if version == "" && info.Version != "(devel)" {
			t.Errorf("expected (devel), got %q", info.Version)
		}
		if info.SQLite != "unknown" {
			t.Errorf("expected unknown sqlite version, got %q", info.SQLite)
		}
	})

	t.Run("from build info", func(t *testing.T) {
		t.Parallel()

		bi := &debug.BuildInfo{
			Main: debug.Module{Path: "example.com/cratesdump", Version: "v1.2.3"},
			Deps: []*debug.Module{
				{Path: "github.com/spf13/cobra", Version: "v1.10.1"},
				{Path: sqliteModule, Version: "v1.60.1"},
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
		}
		info := newBuildInfo(bi)
		if info.Module != "example.com/cratesdump" {
			t.Errorf("unexpected module %q", info.Module)
		}
		if version == "" && info.Version != "v1.2.3" {
			t.Errorf("unexpected version %q", info.Version)
		}
		if commit == "" && info.Commit != "0123456" {
			t.Errorf("unexpected commit %q", info.Commit)
		}
		if date == "" && info.Date != "2026-01-02T03:04:05Z" {
			t.Errorf("unexpected date %q", info.Date)
		}
		if info.SQLite != "v1.60.1" {
			t.Errorf("unexpected sqlite version %q", info.SQLite)
		}
	})

	t.Run("replaced sqlite module", func(t *testing.T) {
		t.Parallel()

		bi := &debug.BuildInfo{
			Deps: []*debug.Module{{
				Path:    sqliteModule,
				Version: "v1.60.1",
				Replace: &debug.Module{Path: "example.com/sqlite", Version: "v1.60.2"},
			}},
		}
		if got := newBuildInfo(bi).SQLite; got != "v1.60.2" {
			t.Errorf("expected replacement version, got %q", got)
		}
	})
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"cratesdump " + getVersion(),
		"commit:",
		"sqlite:   " + sqliteModule,
		"resource: " + config.DefaultResource,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}
