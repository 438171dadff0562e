package dot

import (
	"fmt"
	"sort"
	"strings"
)

// AttributesToString formats attribs as a DOT attribute list, sorted by key. Values wrapped in '<' '>' are emitted
// unquoted as HTML-like labels.
func AttributesToString(attribs map[string]string) string {
	if len(attribs) == 0 {
		return ""
	}
	var keys []string
	for k := range attribs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var list []string
	for _, k := range keys {
		v := attribs[k]
		if len(v) > 1 && v[0] == '<' && v[len(v)-1] == '>' {
			list = append(list, fmt.Sprintf(`%s=%s`, k, v))
		} else {
			list = append(list, fmt.Sprintf(`%s=%s`, k, Quote(v)))
		}
	}
	return " [" + strings.Join(list, ", ") + "]"
}

// Quote returns s as a double-quoted DOT ID.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
