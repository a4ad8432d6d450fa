// Package detect decides whether clipboard text looks like LaTeX.
//
// The check is a heuristic over a handful of markers, not a parser. It is
// tuned to catch what OCR tools such as Mathpix put on the clipboard.
package detect

import "regexp"

// Func reports whether text should be handed to the converter.
type Func func(text string) bool

var markers = []*regexp.Regexp{
	regexp.MustCompile(`\\[a-zA-Z]+`),           // \frac, \alpha
	regexp.MustCompile(`\\\[`),                  // \[ display math
	regexp.MustCompile(`\$\$`),                  // $$ display math
	regexp.MustCompile(`\\begin\{[a-zA-Z*]+\}`), // \begin{align*}
	regexp.MustCompile(`\^\{`),
	regexp.MustCompile(`_\{`),
	regexp.MustCompile(`\^\S`), // x^2
	regexp.MustCompile(`_\S`),  // x_i
}

// IsLaTeX reports whether text contains any LaTeX marker.
func IsLaTeX(text string) bool {
	if text == "" {
		return false
	}
	for _, re := range markers {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Any accepts every non-empty text. It is used when detection is disabled.
func Any(text string) bool { return text != "" }
