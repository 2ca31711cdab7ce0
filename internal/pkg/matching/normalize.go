package matching

import (
	"strings"
	"unicode"

	"github.com/fiam/gounidecode/unidecode"
)

// isKeywordDelimiter reports the runes that separate free-text keywords.
// Spaces are not delimiters: "machine learning" is one keyword.
func isKeywordDelimiter(r rune) bool {
	switch r {
	case ',', ';', '|', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

// fold lowercases s and transliterates it to ASCII so that "Öğrenme" and
// "ogrenme" normalize to the same keyword.
func fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

// Normalize splits a free-text keyword list into a de-duplicated, ordered set
// of folded keywords. Empty input yields an empty (nil) set.
func Normalize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := strings.FieldsFunc(fold(text), isKeywordDelimiter)
	seen := make(map[string]struct{}, len(parts))
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		kw := strings.Join(strings.Fields(part), " ")
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}

// document is project text prepared for keyword lookups
type document struct {
	text   string
	tokens map[string]struct{}
}

func newDocument(fields ...string) document {
	text := fold(strings.Join(fields, " "))
	text = strings.Join(strings.Fields(text), " ")

	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = struct{}{}
	}
	return document{text: text, tokens: tokens}
}
