package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	maxFileSize  = 100 * 1024 * 1024  // 100 MB per file
	maxTotalSize = 1024 * 1024 * 1024 // 1 GB total extracted
	maxFileCount = 50000              // maximum number of files in archive
)

// ExtractZip unpacks a module zip archive to a new temp directory.
// It returns the directory and a cleanup function that removes it.
// Entries escaping the directory (zip-slip), symlinks, and archives over
// the size and count limits are rejected or skipped.
func ExtractZip(data []byte, prefix string) (dir string, cleanup func(), err error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read zip archive: %w", err)
	}
	if len(reader.File) > maxFileCount {
		return "", nil, fmt.Errorf("zip archive contains %d files, exceeds maximum of %d", len(reader.File), maxFileCount)
	}

	tmpDir, err := os.MkdirTemp("", "surfacediff-"+sanitizePrefix(prefix)+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanupFn := func() { os.RemoveAll(tmpDir) }

	base, err := filepath.Abs(tmpDir)
	if err != nil {
		cleanupFn()
		return "", nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	var total int64
	for _, file := range reader.File {
		if file.Mode()&os.ModeSymlink != 0 {
			continue
		}

		target, err := safeJoin(base, file.Name)
		if err != nil {
			cleanupFn()
			return "", nil, err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				cleanupFn()
				return "", nil, fmt.Errorf("failed to create directory %s: %w", file.Name, err)
			}
			continue
		}

		n, err := extractFile(file, target)
		if err != nil {
			cleanupFn()
			return "", nil, err
		}
		total += n
		if total > maxTotalSize {
			cleanupFn()
			return "", nil, fmt.Errorf("total extracted size exceeds maximum of %d bytes", maxTotalSize)
		}
	}

	return tmpDir, cleanupFn, nil
}

// safeJoin joins name onto base and rejects results outside base.
func safeJoin(base, name string) (string, error) {
	target, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", name, err)
	}
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("zip entry attempts path traversal: %s", name)
	}
	return target, nil
}

// extractFile writes one archive entry to target and returns its size.
func extractFile(file *zip.File, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create parent directory for %s: %w", file.Name, err)
	}

	rc, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open zip entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", file.Name, err)
	}

	n, err := io.Copy(out, io.LimitReader(rc, maxFileSize+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}
	if n > maxFileSize {
		return 0, fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Name, maxFileSize)
	}
	return n, nil
}

// sanitizePrefix keeps temp directory names free of path separators.
func sanitizePrefix(prefix string) string {
	return strings.NewReplacer("/", "_", string(os.PathSeparator), "_", "*", "_").Replace(prefix)
}
