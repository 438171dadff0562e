// Package prompt turns a free-text architecture description into the instruction sent to the language model.
package prompt

import (
	"embed"
	"strings"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/klothoplatform/archdiagram/pkg/templateutils"
	"github.com/pkg/errors"
)

// Separator introduces the best-practices text in the model's reply. The response parser splits on it, so it must
// stay byte-for-byte identical to what the template asks for.
const Separator = "Best practices and suggestions for optimizing this architecture:"

var ErrEmptyDescription = errors.New("architecture description is empty")

//go:embed templates/*.tmpl
var templates embed.FS

var architectureTmpl = templateutils.MustTemplate(templates, "templates/architecture.tmpl")

var example = architecture.Architecture{
	Services: []architecture.Service{
		{
			Name:   "Service Name",
			Type:   "AWS Service Type",
			Config: "Any specific configuration details",
		},
	},
	Relationships: []architecture.Relationship{
		{
			From: "Service Name 1",
			To:   "Service Name 2",
			Type: "relationship type (e.g., 'connects to', 'sends data to')",
		},
	},
}

// Build renders the model instruction for description.
func Build(description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyDescription
	}
	var sb strings.Builder
	err := architectureTmpl.Execute(&sb, struct {
		Description string
		Example     architecture.Architecture
		Separator   string
	}{
		Description: description,
		Example:     example,
		Separator:   Separator,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not render prompt")
	}
	return sb.String(), nil
}
