package format

import (
	"fmt"
	"regexp"
)

type token struct {
	name            string
	Index           int
	captureGroup    string
	formatSpecifier string
}

type tokens struct {
	Slice []token
	Map   map[string]*token
}

// Where a matcher's regex is pinned within the searched string.
type anchor int

const (
	anchorNone  anchor = iota // match anywhere
	anchorStart               // match at the start only
	anchorFull                // match the whole string
)

type matcher struct {
	base     string
	Tokens   tokens
	Layout   string
	anchor   anchor
	regexStr string
	Regex    *regexp.Regexp
}

func (m matcher) compile() matcher {

	m.Tokens.Map = map[string]*token{}

	// List of specifiers
	formatSpecifiers := make([]any, len(m.Tokens.Slice))

	// List of capture groups
	captureGroups := make([]any, len(m.Tokens.Slice))

	for i := range m.Tokens.Slice {

		t := &m.Tokens.Slice[i]

		// Token index follows the order used in specifiers
		t.Index = i

		m.Tokens.Map[t.name] = t

		formatSpecifiers[i] = t.formatSpecifier
		captureGroups[i] = "(" + t.captureGroup + ")"

	}

	m.Layout = fmt.Sprintf(m.base, formatSpecifiers...)

	m.regexStr = fmt.Sprintf(regexp.QuoteMeta(m.base), captureGroups...)
	switch m.anchor {
	case anchorStart:
		m.regexStr = "^" + m.regexStr
	case anchorFull:
		m.regexStr = "^" + m.regexStr + "$"
	}

	m.Regex = regexp.MustCompile(m.regexStr)

	return m
}

// Values returns the captured token values of the first match in s, in token order.
func (m matcher) Values(s string) ([]string, bool) {
	matches := m.Regex.FindStringSubmatch(s)
	if len(matches) != len(m.Tokens.Slice)+1 {
		return nil, false
	}
	return matches[1:], true
}

// Canonicalize rewrites the first match in s into the [Canonical] layout.
func (m matcher) Canonicalize(s string) (string, bool) {

	values, ok := m.Values(s)
	if !ok {
		return "", false
	}

	args := make([]any, len(Canonical.Tokens.Slice))
	for i, t := range Canonical.Tokens.Slice {
		src, ok := m.Tokens.Map[t.name]
		if !ok {
			return "", false
		}
		args[i] = values[src.Index]
	}

	return fmt.Sprintf(Canonical.Layout, args...), true
}

// Fresh set of date and time tokens; compile writes indexes into the slice it is given.
func clock() []token {
	return []token{
		{name: "year", captureGroup: "[0-9]{4}", formatSpecifier: "%s"},
		{name: "month", captureGroup: "[0-9]{2}", formatSpecifier: "%s"},
		{name: "day", captureGroup: "[0-9]{2}", formatSpecifier: "%s"},
		{name: "hour", captureGroup: "[0-9]{2}", formatSpecifier: "%s"},
		{name: "minute", captureGroup: "[0-9]{2}", formatSpecifier: "%s"},
		{name: "second", captureGroup: "[0-9]{2}", formatSpecifier: "%s"},
	}
}

// Timestamp layout used in output file names, e.g. "2024_01_02_03_04_05".
var Canonical = matcher{
	base:   "%s_%s_%s_%s_%s_%s",
	Tokens: tokens{Slice: clock()},
	anchor: anchorFull,
}.compile()

// Date and time embedded anywhere in a file name, e.g. "IMG_2021-07-04_12-30-00_x.jpg".
var Filename = matcher{
	base:   "%s-%s-%s_%s-%s-%s",
	Tokens: tokens{Slice: clock()},
}.compile()

// EXIF DateTime and DateTimeOriginal value, e.g. "2024:01:02 03:04:05".
var Exif = matcher{
	base:   "%s:%s:%s %s:%s:%s",
	Tokens: tokens{Slice: clock()},
	anchor: anchorFull,
}.compile()

// ffprobe creation_time tag, e.g. "2024-01-02T03:04:05.000000Z".
var Video = matcher{
	base:   "%s-%s-%sT%s:%s:%s",
	Tokens: tokens{Slice: clock()},
	anchor: anchorStart,
}.compile()
