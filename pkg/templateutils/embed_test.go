package templateutils

import (
	"embed"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
)

//go:embed testdata/*.tmpl
var testTemplates embed.FS

func sprigFuncs() template.FuncMap {
	return sprig.HermeticTxtFuncMap()
}
