package internal

import (
	"errors"
	"runtime"
)

// SearchOptions describes one search invocation. Build it, submit it,
// never mutate it afterwards.
type SearchOptions struct {
	Query             string // raw query: literal, wildcard, regex or CamelCase
	Root              string // directory to search under
	CaseSensitive     bool
	UseRegex          bool   // treat Query as a regular expression
	SearchContent     bool   // also match file contents, line by line
	RespectGitignore  bool   // honor the root .gitignore
	ExcludeExtensions string // comma separated, e.g. ".exe, dll, .jpg"
	Archives          bool   // also search inside archives (.zip, .tar, ...)
	Threads           int    // worker pool size, 0 = number of CPUs
}

// Validate checks invariants.
func (o *SearchOptions) Validate() error {
	if o.Root == "" {
		return errors.New("root path is required")
	}
	return nil
}

// Prepare fills in defaults.
func (o *SearchOptions) Prepare() {
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
}
