// Package scanner finds graph documents under a set of paths. It respects
// .gcsignore files with gitignore-style patterns.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileInfo represents information about a discovered file.
type FileInfo struct {
	Path     string // Relative path from root
	FullPath string // Absolute path
	Format   string // "yaml" or "json"
	Size     int64  // File size in bytes
}

// Options configures the scanner behavior.
type Options struct {
	SkipHidden      bool     // Skip hidden files and directories (starting with .)
	FollowSymlinks  bool     // Follow symlinks (within root only)
	DefaultExcludes []string // Default directories to exclude
	IgnoreFileName  string   // Name of the ignore file (default: .gcsignore)
}

// DefaultOptions returns scanner options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		FollowSymlinks: false,
		IgnoreFileName: ".gcsignore",
		DefaultExcludes: []string{
			"node_modules",
			".git",
			"vendor",
			"dist",
			"build",
			".idea",
			".vscode",
			".hg",
			".svn",
		},
	}
}

// FormatOf returns the document format for a file extension, or "" when the
// file is not a graph document.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

// Scanner provides file tree scanning capabilities.
type Scanner struct {
	opts Options
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// ignoreRule is a compiled ignore file and the directory it applies to.
type ignoreRule struct {
	dir     string // Relative to the scan root, slash separated ("" for root)
	matcher *ignore.GitIgnore
}

// Scan recursively scans root and returns graph documents sorted by path.
// A root that is a file is returned as-is, whatever its extension.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !rootInfo.IsDir() {
		return []FileInfo{{
			Path:     filepath.Base(absRoot),
			FullPath: absRoot,
			Format:   formatOrYAML(absRoot),
			Size:     rootInfo.Size(),
		}}, nil
	}

	var rules []ignoreRule
	if rule, ok := s.loadIgnore(absRoot, ""); ok {
		rules = append(rules, rule)
	}

	var files []FileInfo

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil || relPath == "." {
			return nil
		}
		relPathSlash := filepath.ToSlash(relPath)

		if s.opts.SkipHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if s.isDefaultExcluded(info.Name()) || ignored(rules, relPathSlash) {
				return filepath.SkipDir
			}
			if rule, ok := s.loadIgnore(path, relPathSlash); ok {
				rules = append(rules, rule)
			}
			return nil
		}

		if ignored(rules, relPathSlash) {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !s.opts.FollowSymlinks {
				return nil
			}
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil
			}
			realAbs, err := filepath.Abs(realPath)
			if err != nil {
				return nil
			}
			// Symlink targets must stay within root
			if !strings.HasPrefix(realAbs, absRoot+string(filepath.Separator)) {
				return nil
			}
			targetInfo, err := os.Stat(realPath)
			if err != nil || targetInfo.IsDir() {
				return nil
			}
			info = targetInfo
		}

		format := FormatOf(path)
		if format == "" {
			return nil
		}

		files = append(files, FileInfo{
			Path:     relPathSlash,
			FullPath: path,
			Format:   format,
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// isDefaultExcluded checks if the name matches default exclusion patterns.
func (s *Scanner) isDefaultExcluded(name string) bool {
	for _, exclude := range s.opts.DefaultExcludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

// loadIgnore compiles the ignore file in dir, if there is one.
func (s *Scanner) loadIgnore(dir, rel string) (ignoreRule, bool) {
	if s.opts.IgnoreFileName == "" {
		return ignoreRule{}, false
	}
	matcher, err := ignore.CompileIgnoreFile(filepath.Join(dir, s.opts.IgnoreFileName))
	if err != nil {
		return ignoreRule{}, false
	}
	return ignoreRule{dir: rel, matcher: matcher}, true
}

// ignored reports whether any ignore file covering relPath matches it.
// Patterns of a nested ignore file are relative to its own directory.
func ignored(rules []ignoreRule, relPath string) bool {
	for _, rule := range rules {
		path := relPath
		if rule.dir != "" {
			prefix := rule.dir + "/"
			if !strings.HasPrefix(relPath, prefix) {
				continue
			}
			path = strings.TrimPrefix(relPath, prefix)
		}
		if rule.matcher.MatchesPath(path) {
			return true
		}
	}
	return false
}

func formatOrYAML(path string) string {
	if f := FormatOf(path); f != "" {
		return f
	}
	return "yaml"
}

// Scan is a convenience function that scans a directory with default options.
func Scan(root string) ([]FileInfo, error) {
	return New(DefaultOptions()).Scan(root)
}

// ScanAll scans every path in order and concatenates the results, dropping
// files reached through more than one path.
func ScanAll(paths []string, opts Options) ([]FileInfo, error) {
	s := New(opts)
	seen := make(map[string]bool)

	var all []FileInfo
	for _, p := range paths {
		files, err := s.Scan(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if seen[f.FullPath] {
				continue
			}
			seen[f.FullPath] = true
			all = append(all, f)
		}
	}
	return all, nil
}
