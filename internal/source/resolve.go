package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/HartBrook/promptbench/internal/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

// ResolveOptions controls how arguments expand to files.
type ResolveOptions struct {
	// Root resolves relative arguments; empty means the working directory.
	Root string
	// Extensions limits files found by walking directories, e.g. ".md".
	Extensions []string
	// Exclude holds .gitignore-style patterns matched against paths relative to Root.
	Exclude []string
}

// Resolve expands file paths, glob patterns and directories into a list of
// files. Literal file paths are kept even when missing so the reader can
// report them. Results keep argument order; each glob or directory expands
// in sorted order, and duplicates are dropped.
func Resolve(patterns []string, opts ResolveOptions) ([]string, error) {
	matcher := ignore.CompileIgnoreLines(opts.Exclude...)

	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		switch {
		case hasMeta(pattern):
			matches, err := expandGlob(pattern, opts, matcher)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}

		case isDir(opts.full(pattern)):
			files, err := walkDir(pattern, opts, matcher)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}

		default:
			add(pattern)
		}
	}

	if len(out) == 0 {
		return nil, errors.NoFilesMatched(patterns)
	}
	return out, nil
}

func expandGlob(pattern string, opts ResolveOptions, matcher *ignore.GitIgnore) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.PatternInvalid(pattern, err)
	}

	matches, err := filepath.Glob(opts.full(pattern))
	if err != nil {
		return nil, errors.PatternInvalid(pattern, err)
	}

	var out []string
	for _, m := range matches {
		rel := opts.rel(m)
		if isDir(m) {
			if excluded(matcher, rel+"/") {
				continue
			}
			files, err := walkDir(rel, opts, matcher)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
			continue
		}
		if excluded(matcher, rel) {
			continue
		}
		out = append(out, rel)
	}
	slices.Sort(out)
	return out, nil
}

func walkDir(dir string, opts ResolveOptions, matcher *ignore.GitIgnore) ([]string, error) {
	var out []string
	root := opts.full(dir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := opts.rel(path)
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || excluded(matcher, rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(path, opts.Extensions) || excluded(matcher, rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, errors.FileReadFailed(dir, err)
	}
	slices.Sort(out)
	return out, nil
}

func (o ResolveOptions) full(p string) string {
	if o.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.Root, p)
}

func (o ResolveOptions) rel(p string) string {
	if o.Root == "" {
		return p
	}
	r, err := filepath.Rel(o.Root, p)
	if err != nil || strings.HasPrefix(r, "..") {
		return p
	}
	return r
}

func excluded(matcher *ignore.GitIgnore, rel string) bool {
	return matcher.MatchesPath(filepath.ToSlash(rel))
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, `*?[`)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
