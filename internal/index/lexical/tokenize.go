package lexical

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into index terms. For each
// whitespace-separated token it emits the alphanumeric runs (split at
// punctuation and at letter/digit boundaries) plus, when the token has
// more than one run, their concatenation. A letters-only token followed
// by a digits-only token also emits their concatenation, so a course
// code split by a space fuses the same way a punctuated one does:
// "CSCI-0320", "CSCI 0320" and "CSCI0320" all produce the terms
// {csci, 0320, csci0320} regardless of surface form. The same function
// runs at index-build time and query time.
func Tokenize(text string) []string {
	var terms []string
	var pendingPrefix string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		runs := splitRuns(raw)
		if len(runs) == 0 {
			pendingPrefix = ""
			continue
		}
		terms = append(terms, runs...)
		if len(runs) > 1 {
			terms = append(terms, strings.Join(runs, ""))
		}
		if pendingPrefix != "" && len(runs) == 1 && isDigitRun(runs[0]) {
			terms = append(terms, pendingPrefix+runs[0])
		}
		pendingPrefix = ""
		if len(runs) == 1 && !isDigitRun(runs[0]) {
			pendingPrefix = runs[0]
		}
	}
	return terms
}

// isDigitRun reports whether a run came from the digit class. Runs are
// same-class by construction, so the first rune decides.
func isDigitRun(run string) bool {
	for _, r := range run {
		return unicode.IsDigit(r)
	}
	return false
}

// splitRuns extracts maximal same-class (letter or digit) alphanumeric runs.
func splitRuns(token string) []string {
	var runs []string
	var cur strings.Builder
	var curDigit bool
	flush := func() {
		if cur.Len() > 0 {
			runs = append(runs, cur.String())
			cur.Reset()
		}
	}
	for _, r := range token {
		switch {
		case unicode.IsLetter(r):
			if cur.Len() > 0 && curDigit {
				flush()
			}
			curDigit = false
			cur.WriteRune(r)
		case unicode.IsDigit(r):
			if cur.Len() > 0 && !curDigit {
				flush()
			}
			curDigit = true
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return runs
}
