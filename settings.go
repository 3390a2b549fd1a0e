package mftwalk

import "regexp"

// Matcher is the pluggable exclusion-predicate contract: "does this string
// match, and should the record therefore be suppressed." regexp.Regexp
// satisfies it via RegexMatcher; callers are free to supply any other
// implementation (a set lookup, a glob, a no-op) without the resolver or
// iterator ever depending on a concrete regex engine.
type Matcher interface {
	Match(s string) bool
}

// RegexMatcher adapts a compiled *regexp.Regexp to the Matcher interface.
type RegexMatcher struct {
	Regexp *regexp.Regexp
}

// Match reports whether s matches the underlying regular expression.
func (m RegexMatcher) Match(s string) bool {
	if m.Regexp == nil {
		return false
	}
	return m.Regexp.MatchString(s)
}

// Settings configures a Parser's path resolution and record filtering.
type Settings struct {
	// DriveChar, when set, is substituted for the root placeholder "{Root}"
	// when a path walk reaches entry 5, e.g. 'C' yields a "C:/..." path.
	DriveChar *rune
	// PathExclusion, when set, suppresses records whose reconstructed path
	// matches.
	PathExclusion Matcher
	// FilenameExclusion, when set, suppresses records whose own basename
	// matches.
	FilenameExclusion Matcher
}

// WithDriveChar returns a Settings value configured with the given drive
// letter.
func (s Settings) WithDriveChar(c rune) Settings {
	s.DriveChar = &c
	return s
}

// WithPathExclusion returns a Settings value configured with re as the path
// exclusion pattern.
func (s Settings) WithPathExclusion(re *regexp.Regexp) Settings {
	s.PathExclusion = RegexMatcher{Regexp: re}
	return s
}

// WithFilenameExclusion returns a Settings value configured with re as the
// filename exclusion pattern.
func (s Settings) WithFilenameExclusion(re *regexp.Regexp) Settings {
	s.FilenameExclusion = RegexMatcher{Regexp: re}
	return s
}
