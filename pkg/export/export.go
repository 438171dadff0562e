// Package export renders a generated diagram into downloadable files. Exports are read-only with respect to the
// result and can be repeated any number of times.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/klothoplatform/archdiagram/pkg/diagram"
	"github.com/klothoplatform/archdiagram/pkg/dot"
	"github.com/klothoplatform/archdiagram/pkg/generator"
	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"github.com/klothoplatform/archdiagram/pkg/sanitization"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

type Format string

const (
	Mermaid Format = "mermaid"
	DOT     Format = "dot"
	SVG     Format = "svg"
	JSON    Format = "json"
	YAML    Format = "yaml"
)

type formatInfo struct {
	extension   string
	contentType string
	aliases     []string
}

var formats = map[Format]formatInfo{
	Mermaid: {extension: diagram.Extension, contentType: "text/vnd.mermaid; charset=utf-8", aliases: []string{"mmd"}},
	DOT:     {extension: ".dot", contentType: "text/vnd.graphviz; charset=utf-8", aliases: []string{"gv"}},
	SVG:     {extension: ".svg", contentType: "image/svg+xml"},
	JSON:    {extension: ".json", contentType: "application/json"},
	YAML:    {extension: ".yaml", contentType: "application/yaml", aliases: []string{"yml"}},
}

var ErrNothingToExport = errors.New("no diagram to export")

type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q (supported: %s)", e.Format, strings.Join(Names(), ", "))
}

// Names lists the canonical format names, sorted.
func Names() []string {
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for f, info := range formats {
		if s == string(f) {
			return f, nil
		}
		for _, alias := range info.aliases {
			if s == alias {
				return f, nil
			}
		}
	}
	return "", &UnsupportedFormatError{Format: s}
}

func (f Format) Extension() string {
	return formats[f].extension
}

func (f Format) ContentType() string {
	return formats[f].contentType
}

// FileName is the diagram title, made safe for use as a file name, with the format's extension.
func FileName(title string, f Format) string {
	name := sanitization.FileNameSanitizer.Apply(title)
	if name == "" {
		name = "diagram"
	}
	return name + f.Extension()
}

// Export renders res in the given format. SVG requires the graphviz `dot` binary and returns [dot.ErrNotInstalled]
// without it.
func Export(ctx context.Context, res *generator.Result, f Format) (archio.File, error) {
	if res == nil || res.MermaidCode == "" {
		return nil, ErrNothingToExport
	}
	if _, ok := formats[f]; !ok {
		return nil, &UnsupportedFormatError{Format: string(f)}
	}
	file := &archio.RawFile{FPath: FileName(res.DiagramTitle, f)}

	switch f {
	case Mermaid:
		file.Content = []byte(res.MermaidCode)

	case DOT:
		src, err := diagram.DOT(res.Architecture, res.DiagramTitle)
		if err != nil {
			return nil, errors.Wrap(err, "could not render DOT")
		}
		file.Content = []byte(src)

	case SVG:
		src, err := diagram.DOT(res.Architecture, res.DiagramTitle)
		if err != nil {
			return nil, errors.Wrap(err, "could not render DOT")
		}
		svg, err := dot.ExecPan(ctx, strings.NewReader(src))
		if err != nil {
			return nil, errors.Wrap(err, "could not render SVG")
		}
		file.Content = []byte(svg)

	case JSON:
		buf := new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res); err != nil {
			return nil, errors.Wrap(err, "could not encode JSON")
		}
		file.Content = buf.Bytes()

	case YAML:
		content, err := yaml.Marshal(res)
		if err != nil {
			return nil, errors.Wrap(err, "could not encode YAML")
		}
		file.Content = content
	}
	return file, nil
}

// All exports res in every format that does not need external tools.
func All(ctx context.Context, res *generator.Result) ([]archio.File, error) {
	var files []archio.File
	for _, name := range Names() {
		f := Format(name)
		if f == SVG {
			continue
		}
		file, err := Export(ctx, res, f)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
