package domain

import (
	"regexp"
	"strings"
)

// numberingPrefix matches list numbering like "1. " or "3) " at the start
// of a suggested question.
var numberingPrefix = regexp.MustCompile(`^\s*\d+[.)]\s*`)

// NormalizeQuestion trims a question and strips a leading numbering prefix.
// The normalized form is the key used for curated lookups.
func NormalizeQuestion(s string) string {
	return strings.TrimSpace(numberingPrefix.ReplaceAllString(s, ""))
}
