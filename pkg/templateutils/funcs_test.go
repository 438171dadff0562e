package templateutils

import (
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
)

func TestFuncs(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data any
		want string
	}{
		{
			name: "json",
			tmpl: `{{ json . }}`,
			data: map[string]string{"from": "API"},
			want: `{"from":"API"}`,
		},
		{
			name: "jsonPretty keeps angle brackets",
			tmpl: `{{ jsonPretty . }}`,
			data: map[string]string{"type": "<AWS service>"},
			want: "{\n  \"type\": \"<AWS service>\"\n}",
		},
		{
			name: "dedent",
			tmpl: `{{ dedent . }}`,
			data: "    one\n      two\n    three",
			want: "one\n  two\nthree",
		},
		{
			name: "dedent with sprig trim",
			tmpl: `{{ . | dedent | trim }}`,
			data: "\n\n    an ALB in front of ECS\n",
			want: "an ALB in front of ECS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			tmpl, err := template.New(tt.name).Funcs(Funcs).Funcs(sprigFuncs()).Parse(tt.tmpl)
			if !assert.NoError(err) {
				return
			}
			var sb strings.Builder
			assert.NoError(tmpl.Execute(&sb, tt.data))
			assert.Equal(tt.want, sb.String())
		})
	}
}

func TestMustTemplate(t *testing.T) {
	assert := assert.New(t)

	tmpl := MustTemplate(testTemplates, "testdata/greeting.tmpl")
	var sb strings.Builder
	assert.NoError(tmpl.Execute(&sb, map[string]string{"Name": "lambda"}))
	assert.Equal("Hello LAMBDA\n", sb.String())

	assert.Panics(func() { MustTemplate(testTemplates, "testdata/missing.tmpl") })
}
