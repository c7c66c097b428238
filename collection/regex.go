package collection

import "regexp"

// compiledRegex is a thin alias kept so callers of this package never need
// to import regexp directly to hold onto a KeyFilter's compiled pattern.
type compiledRegex = regexp.Regexp

func compileRegex(pattern string) (*compiledRegex, error) {
	return regexp.Compile(pattern)
}
