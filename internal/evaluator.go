package internal

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxContentLines caps the content phase per file. A match past this
// window is missed; documented limitation, not an error.
const maxContentLines = 5000

// Extensions never read during the content phase.
var binaryExt = map[string]struct{}{
	"exe": {}, "dll": {}, "png": {}, "jpg": {}, "pdf": {}, "zip": {},
	"class": {}, "jar": {}, "ico": {}, "mp3": {}, "mp4": {},
}

// SearchResult is one matched file.
type SearchResult struct {
	FileName     string
	FilePath     string // absolute
	RelativePath string // relative to the search root; absolute if outside it
	Extension    string // original case, no leading dot; compare lower-cased
	LineNumber   int    // 1-based; 0 when the match was on the filename
	Line         string // trimmed matching line; empty for filename matches
}

// ProcessFile runs the two-phase evaluation for one filesystem entry.
// The filename phase wins outright: content is never read once the name
// matched. Returns false for excluded, unmatched and unreadable files
// alike — absence from the result set is not an error.
func ProcessFile(path string, sc *SearchContext) (SearchResult, bool) {
	fileName := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")

	if excludedByRules(sc.Excludes, strings.ToLower(ext), path) {
		return SearchResult{}, false
	}

	rel := relativeTo(sc.Root, path)

	// Wildcard queries match the stem, Eclipse style; everything else
	// matches the full name.
	target := fileName
	if sc.wildcard {
		target = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	if sc.Matches(target) {
		return SearchResult{
			FileName:     fileName,
			FilePath:     path,
			RelativePath: rel,
			Extension:    ext,
		}, true
	}

	if !sc.SearchContent {
		return SearchResult{}, false
	}
	if _, bin := binaryExt[strings.ToLower(ext)]; bin {
		return SearchResult{}, false
	}

	f, err := os.Open(path)
	if err != nil {
		logrus.WithError(err).WithField("file", path).Debug("open failed, skipping")
		return SearchResult{}, false
	}
	defer f.Close()

	return scanContent(f, sc, SearchResult{
		FileName:     fileName,
		FilePath:     path,
		RelativePath: rel,
		Extension:    ext,
	})
}

// scanContent streams lines from r and returns res completed with the
// first matching line. First match wins; at most maxContentLines lines
// are evaluated.
func scanContent(r io.Reader, sc *SearchContext, res SearchResult) (SearchResult, bool) {
	br := bufio.NewReaderSize(r, 64*1024)
	lineNum := 0
	for {
		b, err := br.ReadBytes('\n')
		if len(b) > 0 {
			lineNum++
			if lineNum > maxContentLines {
				return SearchResult{}, false
			}
			line := strings.TrimRight(string(b), "\r\n")
			if sc.Matches(line) {
				res.LineNumber = lineNum
				res.Line = strings.TrimSpace(line)
				return res, true
			}
		}
		if err != nil {
			if err != io.EOF {
				logrus.WithError(err).WithField("file", res.FilePath).Debug("read failed, skipping")
			}
			return SearchResult{}, false
		}
	}
}

// excludedByRules is the exact exclusion check: the lower-cased extension
// equals an entry with or without its leading dot, or the entry appears
// anywhere in the path. The latter supports directory-style tokens such
// as ".git".
func excludedByRules(excludes []string, extLower, path string) bool {
	for _, ex := range excludes {
		if strings.TrimPrefix(ex, ".") == extLower || ex == extLower {
			return true
		}
		if strings.Contains(path, ex) {
			return true
		}
	}
	return false
}

// relativeTo computes the display path relative to root, falling back to
// the absolute path for entries outside it.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
