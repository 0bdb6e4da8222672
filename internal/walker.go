package internal

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/sirupsen/logrus"
)

// Task describes a unit of work for the pool.
type Task struct {
	path      string
	innerPath string
	isArchive bool
}

// Directories never traversed, regardless of ignore settings. Keeps the
// scan out of build output, VCS metadata and dependency trees.
var ignoredDirs = map[string]struct{}{
	"target":       {},
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	".idea":        {},
	".vscode":      {},
}

// WalkTree enumerates every candidate file under sc.Root and hands it to
// send. Hidden entries are always skipped, the root .gitignore is honored
// when requested, and excluded extensions are pre-filtered here as a
// cheap cut — the evaluator re-checks the exact exclusion rules.
//
// Traversal errors (permissions, broken links) are logged and skipped;
// they never abort the walk. The token is polled per entry.
func WalkTree(opts SearchOptions, sc *SearchContext, tok *Token, stats *AppStats, send func(Task)) {
	var ignore gitignore.IgnoreMatcher
	if opts.RespectGitignore {
		p := filepath.Join(sc.Root, ".gitignore")
		if _, err := os.Stat(p); err == nil {
			ignore, _ = gitignore.NewGitIgnore(p)
		}
	}

	_ = filepath.WalkDir(sc.Root, func(path string, d os.DirEntry, err error) error {
		if !tok.Active() {
			return filepath.SkipAll
		}
		if err != nil {
			stats.Errors.Add(1)
			logrus.WithError(err).WithField("path", path).Warn("walk error, skipping entry")
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == sc.Root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := ignoredDirs[name]; skip {
				return filepath.SkipDir
			}
			if ignore != nil && ignore.Match(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if ignore != nil && ignore.Match(path, false) {
			return nil
		}
		if prefilteredExt(sc.Excludes, strings.ToLower(filepath.Ext(name))) {
			return nil
		}

		stats.FilesFound.Add(1)
		send(Task{path: path})
		return nil
	})
}

// prefilteredExt is the imprecise fast path: only exact extension entries
// are cut here. Directory-style exclusion tokens still pass and are
// caught by the per-file re-check.
func prefilteredExt(excludes []string, ext string) bool {
	if ext == "" {
		return false
	}
	for _, ex := range excludes {
		if ex == ext {
			return true
		}
	}
	return false
}
