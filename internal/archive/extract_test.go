package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// tarEntry is one file or directory written by writeArchive.
type tarEntry struct {
	name string
	body string
	dir  bool
}

// writeArchive writes a .tar.gz with the given entries and returns its path.
func writeArchive(t *testing.T, entries ...tarEntry) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, ModTime: old}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header: %v", err)
		}
		if !e.dir {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("failed to write body: %v", err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "dump.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}
	return path
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("extracts only wanted files by base name", func(t *testing.T) {
		t.Parallel()

		archivePath := writeArchive(t,
			tarEntry{name: "2024-01-02-020024/", dir: true},
			tarEntry{name: "2024-01-02-020024/data/", dir: true},
			tarEntry{name: "2024-01-02-020024/data/crates.csv", body: "id,name\n1,serde\n"},
			tarEntry{name: "2024-01-02-020024/data/versions.csv", body: "id,num\n1,1.0.0\n"},
			tarEntry{name: "2024-01-02-020024/data/users.csv", body: "id,login\n1,alice\n"},
			tarEntry{name: "2024-01-02-020024/README.md", body: "readme"},
		)
		dest := t.TempDir()

		got, err := Extract(archivePath, dest, map[string]bool{"crates.csv": true, "versions.csv": true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(got, []string{"crates.csv", "versions.csv"}) {
			t.Errorf("unexpected extracted list %v", got)
		}

		data, err := os.ReadFile(filepath.Join(dest, "crates.csv"))
		if err != nil {
			t.Fatalf("crates.csv not extracted: %v", err)
		}
		if string(data) != "id,name\n1,serde\n" {
			t.Errorf("unexpected content %q", data)
		}
		if _, err := os.Stat(filepath.Join(dest, "users.csv")); !os.IsNotExist(err) {
			t.Error("users.csv must not be extracted")
		}
		if _, err := os.Stat(filepath.Join(dest, "README.md")); !os.IsNotExist(err) {
			t.Error("README.md must not be extracted")
		}
	})

	t.Run("overwrites existing files", func(t *testing.T) {
		t.Parallel()

		archivePath := writeArchive(t, tarEntry{name: "data/test.csv", body: "new"})
		dest := t.TempDir()
		if err := os.WriteFile(filepath.Join(dest, "test.csv"), []byte("old content"), 0o600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if _, err := Extract(archivePath, dest, map[string]bool{"test.csv": true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dest, "test.csv"))
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(data) != "new" {
			t.Errorf("expected overwritten content, got %q", data)
		}
	})

	t.Run("extracted files get a fresh modification time", func(t *testing.T) {
		t.Parallel()

		archivePath := writeArchive(t, tarEntry{name: "test.csv", body: "a"})
		dest := t.TempDir()
		before := time.Now().Add(-time.Minute)

		if _, err := Extract(archivePath, dest, map[string]bool{"test.csv": true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, err := os.Stat(filepath.Join(dest, "test.csv"))
		if err != nil {
			t.Fatalf("failed to stat: %v", err)
		}
		if info.ModTime().Before(before) {
			t.Errorf("mtime %v looks copied from the archive", info.ModTime())
		}
	})

	t.Run("duplicate base names keep the last entry", func(t *testing.T) {
		t.Parallel()

		archivePath := writeArchive(t,
			tarEntry{name: "a/test.csv", body: "first"},
			tarEntry{name: "b/test.csv", body: "second"},
		)
		dest := t.TempDir()

		got, err := Extract(archivePath, dest, map[string]bool{"test.csv": true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected both entries to match, got %v", got)
		}
		data, _ := os.ReadFile(filepath.Join(dest, "test.csv"))
		if string(data) != "second" {
			t.Errorf("expected last entry to win, got %q", data)
		}
	})

	t.Run("directory entries are never extracted", func(t *testing.T) {
		t.Parallel()

		archivePath := writeArchive(t, tarEntry{name: "test.csv/", dir: true})
		dest := t.TempDir()

		got, err := Extract(archivePath, dest, map[string]bool{"test.csv": true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected nothing extracted, got %v", got)
		}
	})

	t.Run("missing archive returns error", func(t *testing.T) {
		t.Parallel()

		if _, err := Extract(filepath.Join(t.TempDir(), "none.tar.gz"), t.TempDir(), nil); err == nil {
			t.Error("expected error for missing archive")
		}
	})

	t.Run("non-gzip file returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "plain.tar.gz")
		if err := os.WriteFile(path, []byte("definitely not gzip"), 0o600); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if _, err := Extract(path, t.TempDir(), map[string]bool{"x.csv": true}); err == nil {
			t.Error("expected error for non-gzip archive")
		}
	})

	t.Run("missing destination returns error", func(t *testing.T) {
		t.Parallel()

		archivePath := writeArchive(t, tarEntry{name: "test.csv", body: "a"})
		dest := filepath.Join(t.TempDir(), "does", "not", "exist")
		if _, err := Extract(archivePath, dest, map[string]bool{"test.csv": true}); err == nil {
			t.Error("expected error when destination is missing")
		}
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	archivePath := writeArchive(t,
		tarEntry{name: "dump/", dir: true},
		tarEntry{name: "dump/data/crates.csv", body: "id\n"},
		tarEntry{name: "dump/metadata.json", body: "{}"},
	)

	got, err := List(archivePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"dump/", "dump/data/crates.csv", "dump/metadata.json"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
