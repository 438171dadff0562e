// Package sanitization applies ordered regular-expression rewrites to strings that end up somewhere with stricter
// rules than free text, such as file names.
package sanitization

import "regexp"

type (
	Sanitizer struct {
		rules []Rule
		// maxLen truncates the output to at most maxLen bytes (on a rune boundary). Zero means no limit.
		maxLen int
	}

	Rule struct {
		Pattern     *regexp.Regexp
		Replacement string
	}
)

func (s *Sanitizer) Apply(input string) string {
	output := input
	for _, rule := range s.rules {
		output = rule.Pattern.ReplaceAllString(output, rule.Replacement)
	}
	if s.maxLen > 0 && len(output) > s.maxLen {
		cut := s.maxLen
		for cut > 0 && !isRuneStart(output[cut]) {
			cut--
		}
		output = output[:cut]
	}
	return output
}

func NewSanitizer(rules ...Rule) *Sanitizer {
	return &Sanitizer{rules: rules}
}

// WithMaxLength returns a copy of s that also truncates its output.
func (s *Sanitizer) WithMaxLength(n int) *Sanitizer {
	return &Sanitizer{rules: s.rules, maxLen: n}
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
