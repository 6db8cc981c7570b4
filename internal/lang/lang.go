// Package lang resolves the language a student writes in, so that the
// coach can be told to answer in kind. Detection is script-based: the
// first rune belonging to a known Indic script decides, and Latin or
// anything unrecognized falls back to English.
package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var scripts = []struct {
	table *unicode.RangeTable
	tag   language.Tag
}{
	{unicode.Devanagari, language.Hindi},
	{unicode.Tamil, language.Tamil},
	{unicode.Telugu, language.Telugu},
	{unicode.Kannada, language.Kannada},
	{unicode.Malayalam, language.Malayalam},
}

// supported is the explicit preference list offered to students. Keys are
// folded names, values the canonical display names.
var supported = map[string]string{}

func init() {
	for _, tag := range []language.Tag{
		language.English, language.Hindi, language.Tamil,
		language.Telugu, language.Kannada, language.Malayalam,
	} {
		name := Name(tag)
		supported[strings.ToLower(name)] = name
	}
}

// Detect returns the canonical English name of the language text is
// written in.
func Detect(text string) string {
	for _, r := range text {
		for _, s := range scripts {
			if unicode.Is(s.table, r) {
				return Name(s.tag)
			}
		}
	}
	return Name(language.English)
}

// Name renders a tag as its canonical English display name ("Hindi").
func Name(tag language.Tag) string {
	return display.English.Languages().Name(tag)
}

// Normalize maps a student's stated preference to a canonical name,
// case-insensitively. Unknown preferences report ok=false.
func Normalize(pref string) (string, bool) {
	name, ok := supported[strings.ToLower(strings.TrimSpace(pref))]
	return name, ok
}

// Supported returns the canonical names students may choose from.
func Supported() []string {
	return []string{
		Name(language.English), Name(language.Hindi), Name(language.Tamil),
		Name(language.Telugu), Name(language.Kannada), Name(language.Malayalam),
	}
}
