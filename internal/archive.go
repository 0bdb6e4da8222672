package internal

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	stdpath "path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
)

const maxArchiveFiles = 10000 // zip-bomb protection

// Archive detection by extension. O(1) map lookup.
var archiveExt = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {},
	".rar": {}, ".br": {}, ".lz4": {}, ".zst": {}, ".7z": {},
}

func IsArchive(path string) bool {
	_, ok := archiveExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// WalkArchive feeds the entries of one archive as tasks. Entries beyond
// maxArchiveFiles are dropped with a warning.
func WalkArchive(path string, sc *SearchContext, tok *Token, stats *AppStats, send func(Task)) {
	fsys, err := archives.FileSystem(context.Background(), path, nil)
	if err != nil {
		stats.Errors.Add(1)
		logrus.WithError(err).WithField("archive", path).Warn("open archive failed, skipping")
		return
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	count := 0
	_ = iofs.WalkDir(fsys, ".", func(inner string, d iofs.DirEntry, err error) error {
		if !tok.Active() {
			return iofs.SkipAll
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if count >= maxArchiveFiles {
			logrus.Warnf("Archive %s skipped past %d entries", path, maxArchiveFiles)
			return errors.New("archive entry limit reached")
		}
		if prefilteredExt(sc.Excludes, strings.ToLower(stdpath.Ext(inner))) {
			return nil
		}
		stats.FilesFound.Add(1)
		send(Task{path: path, innerPath: inner, isArchive: true})
		count++
		return nil
	})
}

// processArchiveEntry evaluates one file inside an archive, with the
// same two phases as a regular file. The result points at the archive on
// disk; the relative path carries the inner path after a "!".
func processArchiveEntry(archivePath, innerPath string, sc *SearchContext) (SearchResult, bool) {
	fileName := stdpath.Base(innerPath)
	ext := strings.TrimPrefix(stdpath.Ext(fileName), ".")

	if excludedByRules(sc.Excludes, strings.ToLower(ext), archivePath+"!"+innerPath) {
		return SearchResult{}, false
	}

	res := SearchResult{
		FileName:     fileName,
		FilePath:     archivePath,
		RelativePath: relativeTo(sc.Root, archivePath) + "!" + innerPath,
		Extension:    ext,
	}

	target := fileName
	if sc.wildcard {
		target = strings.TrimSuffix(fileName, stdpath.Ext(fileName))
	}
	if sc.Matches(target) {
		return res, true
	}

	if !sc.SearchContent {
		return SearchResult{}, false
	}
	if _, bin := binaryExt[strings.ToLower(ext)]; bin {
		return SearchResult{}, false
	}

	fsys, err := archives.FileSystem(context.Background(), archivePath, nil)
	if err != nil {
		logrus.WithError(err).WithField("archive", archivePath).Debug("open archive failed, skipping")
		return SearchResult{}, false
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}
	f, err := fsys.Open(innerPath)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"archive": archivePath, "inner": innerPath}).Debug("open entry failed, skipping")
		return SearchResult{}, false
	}
	defer f.Close()

	return scanContent(f, sc, res)
}
