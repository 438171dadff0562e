package templateutils

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/lithammer/dedent"
)

var Funcs = template.FuncMap{
	"json": func(v any) (string, error) {
		buf := new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return strings.TrimSpace(buf.String()), nil
	},

	"jsonPretty": func(v any) (string, error) {
		buf := new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return strings.TrimSpace(buf.String()), nil
	},

	// dedent removes the indentation common to every line, which is what text pasted from a document or an indented
	// YAML block usually carries.
	"dedent": dedent.Dedent,
}
