// Package locale names the two site locales and resolves them from requests.
//
// Indonesian is the authored source language; English is always derived by
// machine translation.
package locale

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// LangParam is the query parameter used to narrow public content to one locale.
const LangParam = "lang"

var (
	// Source is the language content is authored in.
	Source = language.Indonesian
	// Target is the language content is translated into.
	Target = language.English
)

var matcher = language.NewMatcher([]language.Tag{Source, Target})

// Key returns the short key used in JSON payloads ("id" or "en").
func Key(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Keys returns the payload keys of both locales, source first.
func Keys() []string {
	return []string{Key(Source), Key(Target)}
}

// Parse maps a user-supplied value to one of the two locales. Only an exact
// base-language match counts; "fr" does not silently become Indonesian.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return language.Und, false
	}
	if index == 0 {
		return Source, true
	}
	return Target, true
}

// FromRequest returns the locale explicitly requested through ?lang=.
// The bool is false when the caller asked for both locales.
func FromRequest(r *http.Request) (language.Tag, bool) {
	if r == nil || r.URL == nil {
		return language.Und, false
	}
	return Parse(r.URL.Query().Get(LangParam))
}
