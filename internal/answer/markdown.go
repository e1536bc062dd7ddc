// ABOUTME: Deterministic markdown cleanup applied to successful responses
// ABOUTME: Bold and heading markers stripped, underscores boundary-aware
package answer

import (
	"regexp"
	"unicode"
)

var (
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingRe = regexp.MustCompile(`(?m)^#+[ \t]*`)
)

// StripMarkdown removes bold markers, leading heading markers, and
// emphasis underscores. Running it twice produces the same output as
// running it once.
func StripMarkdown(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = stripEmphasisUnderscores(text)
	return text
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// stripEmphasisUnderscores removes _emphasis_ pairs where the underscores
// sit on word boundaries. Underscores inside identifiers (snake_case) are
// left alone; so are pairs whose inner text starts or ends with whitespace.
func stripEmphasisUnderscores(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	i := 0
	for i < len(runes) {
		if runes[i] == '_' && emphasisOpens(runes, i) {
			if j := emphasisClose(runes, i); j > 0 {
				out = append(out, runes[i+1:j]...)
				i = j + 1
				continue
			}
		}
		out = append(out, runes[i])
		i++
	}
	return string(out)
}

func emphasisOpens(runes []rune, i int) bool {
	if i > 0 && isWordRune(runes[i-1]) {
		return false
	}
	if i+1 >= len(runes) {
		return false
	}
	next := runes[i+1]
	return next != '_' && !unicode.IsSpace(next)
}

// emphasisClose returns the index of the closing underscore, or -1.
// The inner text may not contain underscores, so only the next
// underscore is a candidate.
func emphasisClose(runes []rune, open int) int {
	for j := open + 1; j < len(runes); j++ {
		if runes[j] != '_' {
			continue
		}
		if j == open+1 {
			return -1
		}
		if unicode.IsSpace(runes[j-1]) {
			return -1
		}
		if j+1 < len(runes) && isWordRune(runes[j+1]) {
			return -1
		}
		return j
	}
	return -1
}
