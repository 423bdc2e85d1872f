// Package classify implements the transaction category classifier: a
// multinomial naive-Bayes text model trained offline from a labeled corpus
// and loaded read-only at process start.
package classify

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)
var whitespace = regexp.MustCompile(`\s+`)

// cleanText lowercases the input, strips punctuation and collapses
// whitespace.
func cleanText(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// combineText builds the feature text for one transaction. The description
// is repeated so it outweighs the merchant name.
func combineText(description, merchant string) string {
	d := cleanText(description)
	m := cleanText(merchant)
	return strings.TrimSpace(d + " " + d + " " + m)
}

// tokenize splits cleaned text into tokens.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
