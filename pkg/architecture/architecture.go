// Package architecture holds the services/relationships model that the language model extracts from a free-text
// description. Nothing here is validated against AWS; names and types are whatever the model produced.
package architecture

import (
	"fmt"
)

// NotFound is the position reported for a service name that is not in the architecture.
const NotFound = -1

type (
	Service struct {
		Name string `json:"name"`
		// Type is expected to be an AWS product name ("Lambda", "Amazon S3", ...) but is free text.
		Type   string `json:"type"`
		Config string `json:"config,omitempty"`
	}

	// Relationship is a directed, labelled link between two services, referenced by name.
	Relationship struct {
		From string `json:"from"`
		To   string `json:"to"`
		Type string `json:"type"`
	}

	Architecture struct {
		Services      []Service      `json:"services"`
		Relationships []Relationship `json:"relationships"`
	}

	// UnknownServiceError reports a relationship endpoint that names no service.
	UnknownServiceError struct {
		Relationship int
		Name         string
	}
)

func (r Relationship) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", r.From, r.Type, r.To)
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("relationship %d references unknown service %q", e.Relationship, e.Name)
}

// IndexOf returns the position of the first service named name, or NotFound. Matching is exact.
func (a *Architecture) IndexOf(name string) int {
	for i, s := range a.Services {
		if s.Name == name {
			return i
		}
	}
	return NotFound
}

// Endpoints resolves both ends of the relationship at position i.
func (a *Architecture) Endpoints(i int) (from, to int) {
	rel := a.Relationships[i]
	return a.IndexOf(rel.From), a.IndexOf(rel.To)
}

// DanglingRelationships returns the positions, in input order, of relationships with at least one unresolvable end.
func (a *Architecture) DanglingRelationships() []int {
	var dangling []int
	for i := range a.Relationships {
		from, to := a.Endpoints(i)
		if from == NotFound || to == NotFound {
			dangling = append(dangling, i)
		}
	}
	return dangling
}

// IsEmpty reports whether the model found nothing to draw.
func (a *Architecture) IsEmpty() bool {
	return a == nil || (len(a.Services) == 0 && len(a.Relationships) == 0)
}
