package templateutils

import (
	"embed"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
)

// MustTemplate parses the named file from fs with [Funcs] and sprig's hermetic text functions available. It panics on
// a missing or unparsable template, so call it from package initialisation.
func MustTemplate(fs embed.FS, name string) *template.Template {
	content, err := fs.ReadFile(name)
	if err != nil {
		panic(err)
	}
	t, err := template.New(name).
		Funcs(Funcs).
		Funcs(sprig.HermeticTxtFuncMap()).
		Parse(string(content))
	if err != nil {
		panic(err)
	}
	return t
}
