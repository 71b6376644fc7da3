// Package source reads prompt documents and resolves the paths to read.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/HartBrook/promptbench/internal/errors"
)

// Document is the decoded content of one file.
type Document struct {
	Path    string
	Content string
}

// Name returns the file's base name for display.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Reader loads documents. Implementations must be safe for concurrent use.
type Reader interface {
	Read(path string) (*Document, error)
}

// FileReader reads documents from the filesystem, resolving relative paths
// against Root when it is set.
type FileReader struct {
	Root string
}

// Read loads path with line endings normalized to \n. A missing file fails with FILE_NOT_FOUND so callers can
// tell it apart from an empty file.
func (r FileReader) Read(path string) (*Document, error) {
	full := path
	if r.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(r.Root, path)
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(path)
		}
		return nil, errors.FileReadFailed(path, err)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrFileReadFailed, path+" is a directory", "Pass files, globs or directories to count, not to compare")
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.FileReadFailed(path, err)
	}
	if !utf8.Valid(data) {
		return nil, errors.FileReadFailed(path, fmt.Errorf("content is not valid UTF-8"))
	}
	return &Document{Path: path, Content: normalizeNewlines(string(data))}, nil
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeNewlines converts CRLF and lone CR line endings to LF so counts
// do not depend on the platform a file was written on.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return newlines.Replace(s)
}

// Read loads path from the filesystem.
func Read(path string) (*Document, error) {
	return FileReader{}.Read(path)
}
