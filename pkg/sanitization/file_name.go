package sanitization

import "regexp"

// FileNameSanitizer makes a diagram title safe to use as a single path element on Linux, macOS and Windows.
var FileNameSanitizer = NewSanitizer(
	// path separators and characters Windows reserves
	Rule{
		Pattern:     regexp.MustCompile(`[/\\:*?"<>|]+`),
		Replacement: "_",
	},
	// control characters
	Rule{
		Pattern:     regexp.MustCompile(`[\x00-\x1f\x7f]+`),
		Replacement: "",
	},
	// leading dots would hide the file or walk up the tree
	Rule{
		Pattern:     regexp.MustCompile(`^[.\s]+`),
		Replacement: "",
	},
	// Windows drops trailing dots and spaces
	Rule{
		Pattern:     regexp.MustCompile(`[.\s]+$`),
		Replacement: "",
	},
).WithMaxLength(200)
