package response

// balancedObjects returns every balanced {...} span of s ordered by start position, nested spans included. String
// literals are honoured so that braces inside JSON strings do not end an object early.
func balancedObjects(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		if end, ok := scanObject(s, i); ok {
			out = append(out, s[i:end+1])
		}
	}
	return out
}

// scanObject returns the index of the '}' closing the object that opens at start.
func scanObject(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
