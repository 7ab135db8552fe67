package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Extract unpacks the regular files of the gzip-compressed tar archive at
// archivePath whose base name is in wanted into destDir, keeping the base
// name and replacing any existing file.
//
// The directory layout inside the archive is ignored. The crates.io dump
// keeps its CSV files under a dated directory such as
// 2024-01-02-020024/data/crates.csv, and only the base name is matched, so
// two entries with the same base name both match and the later one wins.
//
// destDir must already exist. The returned slice lists the extracted base
// names in archive order.
func Extract(archivePath, destDir string, wanted map[string]bool) ([]string, error) {
	var extracted []string
	err := walk(archivePath, func(hdr *tar.Header, r io.Reader) error {
		if hdr.Typeflag != tar.TypeReg {
			return nil
		}
		name := baseName(hdr.Name)
		if !wanted[name] {
			return nil
		}
		if err := writeFile(filepath.Join(destDir, name), r); err != nil {
			return fmt.Errorf("failed to unpack %s: %w", hdr.Name, err)
		}
		extracted = append(extracted, name)
		return nil
	})
	return extracted, err
}

// List returns the names of all entries in the archive, in archive order.
func List(archivePath string) ([]string, error) {
	var names []string
	err := walk(archivePath, func(hdr *tar.Header, _ io.Reader) error {
		names = append(names, hdr.Name)
		return nil
	})
	return names, err
}

// walk calls fn for every entry of the archive. The reader passed to fn is
// only valid until fn returns.
func walk(archivePath string, fn func(*tar.Header, io.Reader) error) error {
	f, err := os.Open(archivePath) //nolint:gosec // path comes from the fetch cache or the user
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive entry: %w", err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// baseName returns the last element of a tar entry name. Tar names use
// forward slashes regardless of the platform that wrote them.
func baseName(name string) string {
	return path.Base(filepath.ToSlash(name))
}

// writeFile streams r into a temporary file next to dst and renames it over
// dst, so readers never see a half-written file.
func writeFile(dst string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // extracted data is public
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
