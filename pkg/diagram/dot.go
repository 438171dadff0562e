package diagram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/klothoplatform/archdiagram/pkg/dot"
	"github.com/klothoplatform/archdiagram/pkg/set"
)

// DOT renders the architecture as a Graphviz digraph. Services that nothing points at are ranked at the top.
// Relationships with an unknown endpoint are left out, and repeated service names or service pairs keep the first.
func DOT(arch *architecture.Architecture, title string) (string, error) {
	if arch == nil {
		arch = &architecture.Architecture{}
	}
	g, err := arch.Graph()
	if g == nil {
		return "", err
	}
	var unknown *architecture.UnknownServiceError
	if err != nil && !errors.As(err, &unknown) {
		return "", err
	}
	roots, err := arch.EntryPoints()
	if err != nil && !errors.As(err, &unknown) {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", dot.Quote(title))
	fmt.Fprintf(&sb, "  graph%s;\n", dot.AttributesToString(map[string]string{
		"label":    title,
		"labelloc": "t",
		"rankdir":  "TB",
	}))
	fmt.Fprintf(&sb, "  node%s;\n", dot.AttributesToString(map[string]string{
		"shape":     "box",
		"style":     "rounded,filled",
		"fillcolor": "#fdf6e3",
		"fontname":  "Helvetica",
	}))

	seen := make(set.Set[string], len(arch.Services))
	for _, s := range arch.Services {
		if !seen.AddNew(s.Name) {
			continue
		}
		_, props, err := g.VertexWithProperties(s.Name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  %s%s;\n", dot.Quote(s.Name), dot.AttributesToString(map[string]string{
			"label": fmt.Sprintf("%s\n%s", props.Attributes["type"], s.Name),
		}))
	}

	if len(roots) > 0 {
		quoted := make([]string, len(roots))
		for i, r := range roots {
			quoted[i] = dot.Quote(r)
		}
		fmt.Fprintf(&sb, "  { rank=source; %s; }\n", strings.Join(quoted, "; "))
	}

	type pair struct{ from, to string }
	written := make(set.Set[pair], len(arch.Relationships))
	for _, rel := range arch.Relationships {
		p := pair{rel.From, rel.To}
		if written.Contains(p) {
			continue
		}
		e, err := g.Edge(rel.From, rel.To)
		if err != nil {
			continue
		}
		written.Add(p)
		fmt.Fprintf(&sb, "  %s -> %s%s;\n", dot.Quote(rel.From), dot.Quote(rel.To), dot.AttributesToString(map[string]string{
			"label": e.Properties.Attributes["label"],
		}))
	}
	sb.WriteString("}\n")
	return sb.String(), nil
}
