package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

var ErrPathTraversal = errors.New("archive entry resolves outside the destination directory")

/**
 * Extract a zip archive below root, rejecting entries that escape it
 * @param {[]byte} data - Zip archive contents
 * @param {string} root - Destination directory, created if missing
 * @returns {error} ErrPathTraversal when an entry resolves outside root, I/O errors otherwise
 * @description
 * - Canonicalizes root to an absolute path ending with a separator
 * - Entries ending with a separator are created as directories
 * - Files overwrite existing files and keep the entry's modification time
 * - Extraction stops at the first rejected entry, earlier entries stay on disk
 */
func SafeExtract(data []byte, root string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}

	for _, f := range zr.File {
		isDir := strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, `\`)
		dest, err := filepath.Abs(filepath.Join(base, filepath.FromSlash(f.Name)))
		if err != nil {
			return err
		}
		check := dest
		if isDir {
			check += string(os.PathSeparator)
		}
		if !strings.HasPrefix(check, prefix) {
			return fmt.Errorf("%w: %s", ErrPathTraversal, f.Name)
		}

		if isDir {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if !f.Modified.IsZero() {
		return os.Chtimes(dest, f.Modified, f.Modified)
	}
	return nil
}
