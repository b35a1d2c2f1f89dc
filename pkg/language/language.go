// Package language holds the fixed set of language codes accepted by the
// Steam community inventory endpoint.
package language

import "strings"

// Default is used when no language is configured.
const Default = "english"

var languages = []string{
	"arabic",
	"bulgarian",
	"schinese",
	"tchinese",
	"czech",
	"danish",
	"dutch",
	"english",
	"finnish",
	"french",
	"german",
	"greek",
	"hungarian",
	"italian",
	"japanese",
	"koreana",
	"norwegian",
	"polish",
	"portuguese",
	"brazilian",
	"romanian",
	"russian",
	"spanish",
	"swedish",
	"thai",
	"turkish",
	"ukrainian",
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		m[l] = struct{}{}
	}
	return m
}()

// All returns a copy of the supported codes in their canonical order.
func All() []string {
	out := make([]string, len(languages))
	copy(out, languages)
	return out
}

// IsValid reports whether code, compared case-insensitively, is supported.
func IsValid(code string) bool {
	_, ok := known[strings.ToLower(code)]
	return ok
}
