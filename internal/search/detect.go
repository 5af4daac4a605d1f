package search

import (
	"strings"

	"github.com/chichamlab/chicham/internal/model"
)

// Language detection between Shuar and Spanish, scored over phonological
// and lexical features. Shuar has no /o/ vowel, uses laryngealized vowels
// written with diaeresis, and favors the ts/sh digraphs; Spanish brings
// ñ, ll, rr and its article/preposition inventory.

var shuarCommonWords = map[string]struct{}{
	"yawa": {}, "jea": {}, "shuar": {}, "arutam": {}, "núka": {},
	"apa": {}, "entsa": {}, "tsaa": {}, "saant": {}, "kunkuk": {},
	"chichim": {}, "wampish": {}, "nuna": {}, "mama": {}, "tau": {},
	"inia": {}, "uunt": {}, "yä": {}, "takuni": {}, "tsáanin": {},
}

var spanishCommonWords = map[string]struct{}{
	"el": {}, "la": {}, "de": {}, "que": {}, "y": {}, "a": {}, "en": {},
	"un": {}, "es": {}, "se": {}, "no": {}, "te": {}, "lo": {}, "le": {},
	"da": {}, "su": {}, "por": {}, "son": {}, "con": {}, "para": {},
	"casa": {}, "perro": {}, "agua": {}, "bueno": {}, "grande": {},
	"persona": {}, "sol": {},
}

var shuarSuffixes = []string{"ni", "ai", "ka", "ma", "ta", "nu", "tu", "chi"}

var spanishSuffixes = []string{"ción", "dad", "mente", "oso", "osa", "ado", "ada", "ero", "era"}

// Detection is the outcome of language detection on a piece of text.
type Detection struct {
	Language   string
	Confidence float64
}

// DetectLanguage guesses whether text is Shuar or Spanish. Empty input
// defaults to Shuar with zero confidence; callers validate emptiness
// themselves.
func DetectLanguage(text string) Detection {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Detection{Language: model.LanguageShuar}
	}

	var shuar, spanish float64

	for _, r := range text {
		switch r {
		case 'ä', 'ë', 'ï', 'ü':
			// laryngealized vowels occur only in Shuar orthography
			shuar += 3
		case 'o', 'ó':
			spanish += 1
		case 'ñ':
			spanish += 3
		}
	}

	shuar += 2 * float64(strings.Count(text, "ts"))
	shuar += 1.5 * float64(strings.Count(text, "sh"))
	spanish += 2 * float64(strings.Count(text, "ll"))
	spanish += 2 * float64(strings.Count(text, "rr"))

	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?¿¡\"'")
		if word == "" {
			continue
		}
		if _, ok := shuarCommonWords[word]; ok {
			shuar += 4
		}
		if _, ok := spanishCommonWords[word]; ok {
			spanish += 4
		}
		for _, suf := range shuarSuffixes {
			if len(word) > len(suf) && strings.HasSuffix(word, suf) {
				shuar += 0.5
				break
			}
		}
		for _, suf := range spanishSuffixes {
			if len(word) > len(suf) && strings.HasSuffix(word, suf) {
				spanish += 1
				break
			}
		}
	}

	total := shuar + spanish
	if total == 0 {
		// nothing decisive either way
		return Detection{Language: model.LanguageShuar, Confidence: 0.5}
	}

	if spanish > shuar {
		return Detection{Language: model.LanguageSpanish, Confidence: spanish / total}
	}
	return Detection{Language: model.LanguageShuar, Confidence: shuar / total}
}
