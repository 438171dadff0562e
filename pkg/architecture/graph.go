package architecture

import (
	"errors"

	"github.com/dominikbraun/graph"
	"github.com/klothoplatform/archdiagram/pkg/multierr"
	"github.com/klothoplatform/archdiagram/pkg/set"
)

// Graph is the architecture as a directed graph keyed by service name.
type Graph graph.Graph[string, Service]

func serviceName(s Service) string { return s.Name }

// Graph loads the services and relationships into a [Graph]. Services with a duplicate name keep the first
// occurrence; repeated relationships between the same pair keep the first label. Relationships with an unknown
// endpoint are skipped and returned as [UnknownServiceError]s in a [multierr.Error] alongside the (usable) graph, even when only one
// relationship is affected.
func (a *Architecture) Graph() (Graph, error) {
	g := graph.New(serviceName, graph.Directed())
	for _, s := range a.Services {
		err := g.AddVertex(s, graph.VertexAttribute("type", s.Type))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}

	var errs multierr.Error
	for i, rel := range a.Relationships {
		err := g.AddEdge(rel.From, rel.To, graph.EdgeAttribute("label", rel.Type))
		switch {
		case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):

		case errors.Is(err, graph.ErrVertexNotFound):
			name := rel.From
			if a.IndexOf(name) != NotFound {
				name = rel.To
			}
			errs.Append(&UnknownServiceError{Relationship: i, Name: name})

		default:
			return nil, err
		}
	}
	if len(errs) > 0 {
		return g, errs
	}
	return g, nil
}

// EntryPoints returns the names of services that nothing points at (for example the API Gateway or CloudFront
// distribution in front of everything else), sorted.
func (a *Architecture) EntryPoints() ([]string, error) {
	g, err := a.Graph()
	if g == nil {
		return nil, err
	}
	preds, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	roots := make(set.Set[string])
	for name, in := range preds {
		if len(in) == 0 {
			roots.Add(name)
		}
	}
	if roots.Len() == 0 {
		return nil, nil
	}
	return set.Sorted(roots), nil
}
