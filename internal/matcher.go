package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrBadPattern is reported when the query cannot be compiled. The search
// never starts in that case.
var ErrBadPattern = errors.New("invalid pattern")

// SearchContext is the compiled, read-only form of SearchOptions. One
// context is shared by every worker of a search; it is never mutated
// after Compile.
type SearchContext struct {
	Query         string
	CaseSensitive bool
	SearchContent bool
	Root          string
	Excludes      []string // normalized: lower case, leading dot

	queryLower string
	re         *regexp.Regexp
	useRegex   bool
	camel      bool
	wildcard   bool
}

// Compile builds a SearchContext from raw options.
//
// Wildcards (*, ?) switch the query into regex mode even when UseRegex is
// off: the query is meta-escaped, the wildcards become .*/., and the
// pattern is anchored so it must cover the whole candidate string.
func Compile(opts SearchOptions) (*SearchContext, error) {
	hasWildcards := strings.ContainsAny(opts.Query, "*?")
	useRegex := opts.UseRegex || hasWildcards

	var re *regexp.Regexp
	if useRegex {
		pattern := opts.Query
		if hasWildcards && !opts.UseRegex {
			escaped := regexp.QuoteMeta(opts.Query)
			pattern = "^" + strings.NewReplacer(`\*`, ".*", `\?`, ".").Replace(escaped) + "$"
		}
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, opts.Query)
		}
	}

	return &SearchContext{
		Query:         opts.Query,
		CaseSensitive: opts.CaseSensitive,
		SearchContent: opts.SearchContent,
		Root:          opts.Root,
		Excludes:      NormalizeExcludes(opts.ExcludeExtensions),
		queryLower:    strings.ToLower(opts.Query),
		re:            re,
		useRegex:      useRegex,
		camel:         !useRegex && isCamelQuery(opts.Query),
		wildcard:      hasWildcards,
	}, nil
}

// Matches reports whether text satisfies the query.
func (c *SearchContext) Matches(text string) bool {
	if c.useRegex {
		return c.re.MatchString(text)
	}
	// CamelCase first, substring containment as fallback.
	if c.camel && c.camelMatch(text) {
		return true
	}
	if c.CaseSensitive {
		return strings.Contains(text, c.Query)
	}
	return strings.Contains(strings.ToLower(text), c.queryLower)
}

// isCamelQuery reports whether the query qualifies as a CamelCase
// pattern: at least two runes, all uppercase letters or digits.
func isCamelQuery(q string) bool {
	runes := []rune(q)
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// camelMatch walks text once, consuming the next query rune whenever a
// qualifying (uppercase or digit) rune equals it. Greedy and
// non-backtracking: a qualifying rune consumed early is never given back,
// so some valid subsequences are reported as non-matches. That behavior
// is intentional and must not be "fixed".
func (c *SearchContext) camelMatch(text string) bool {
	q := []rune(c.Query)
	i := 0
	for _, r := range text {
		if i >= len(q) {
			return true
		}
		if (unicode.IsUpper(r) || unicode.IsDigit(r)) && r == q[i] {
			i++
		}
	}
	return i >= len(q)
}

// NormalizeExcludes parses the comma-separated exclude-extensions string:
// entries are trimmed, lower-cased and prefixed with a dot when missing;
// empty entries are dropped.
func NormalizeExcludes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, part)
	}
	return out
}
