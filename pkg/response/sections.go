package response

import (
	"regexp"
	"strings"
)

// Section is one numbered block of the best-practices text, e.g. "1. Security" followed by its bullet points.
type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

var (
	numberedHeading = regexp.MustCompile(`^\d+\.\s`)
	bulletPrefix    = regexp.MustCompile(`^[-*]\s`)
)

// Sections splits best-practices text into numbered sections. Text before the first numbered heading becomes a
// section of its own whose title is its first line. Blank lines are dropped.
func Sections(text string) []Section {
	var (
		sections []Section
		current  *Section
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if current == nil || numberedHeading.MatchString(line) {
			sections = append(sections, Section{Title: numberedHeading.ReplaceAllString(line, "")})
			current = &sections[len(sections)-1]
			continue
		}
		current.Items = append(current.Items, bulletPrefix.ReplaceAllString(line, ""))
	}
	return sections
}
