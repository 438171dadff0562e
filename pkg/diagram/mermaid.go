// Package diagram compiles an [architecture.Architecture] into flowchart markup. Compilation is pure: the same
// architecture and options always produce the same text.
package diagram

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"github.com/klothoplatform/archdiagram/pkg/ioutil"
	"github.com/pkg/errors"
)

const (
	Header    = "graph TD;"
	Extension = ".mmd"

	titlePrefix = "AWS Architecture Diagram - "
)

type (
	// DanglingPolicy decides what happens to a relationship whose endpoint names no service.
	DanglingPolicy int

	Options struct {
		Dangling DanglingPolicy
		// Title defaults to [Title] of the current time.
		Title string
	}

	Node struct {
		ID    string
		Label string
	}

	Edge struct {
		From  string
		To    string
		Label string
		// Relationship is the position of the relationship this edge was compiled from.
		Relationship int
	}

	Diagram struct {
		Title string
		Lines []string
		Nodes []Node
		Edges []Edge
		// Dropped holds the relationships left out under [DropEdge], in input order.
		Dropped []architecture.Relationship
	}

	DanglingError struct {
		Positions     []int
		Relationships []architecture.Relationship
	}
)

const (
	// DropEdge omits the relationship and records it in [Diagram.Dropped].
	DropEdge DanglingPolicy = iota
	// FailOnDangling refuses to compile, returning a [*DanglingError].
	FailOnDangling
	// SentinelIndex emits the edge against the node id "node-1", which the renderer shows as a stray node.
	SentinelIndex
)

var danglingPolicyNames = map[DanglingPolicy]string{
	DropEdge:       "drop",
	FailOnDangling: "fail",
	SentinelIndex:  "sentinel",
}

func (p DanglingPolicy) String() string {
	if s, ok := danglingPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("DanglingPolicy(%d)", int(p))
}

func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	for p, name := range danglingPolicyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return DropEdge, errors.Errorf("unknown dangling relationship policy %q (expected drop, fail or sentinel)", s)
}

func (p *DanglingPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseDanglingPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p DanglingPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (e *DanglingError) Error() string {
	names := make([]string, len(e.Relationships))
	for i, rel := range e.Relationships {
		names[i] = rel.String()
	}
	return fmt.Sprintf("%d relationship(s) reference unknown services: %s", len(e.Relationships), strings.Join(names, ", "))
}

// Title is the diagram title for the UTC date of now.
func Title(now time.Time) string {
	return titlePrefix + now.UTC().Format("2006-01-02")
}

func NodeID(i int) string {
	return fmt.Sprintf("node%d", i)
}

// Compile emits the header, then one node per service in input order, then one edge per relationship in input order.
// Nothing is sorted or deduplicated; services that share a name resolve to the first one.
func Compile(arch *architecture.Architecture, opts Options) (*Diagram, error) {
	if arch == nil {
		arch = &architecture.Architecture{}
	}
	d := &Diagram{Title: opts.Title}
	if d.Title == "" {
		d.Title = Title(time.Now())
	}
	d.Lines = append(d.Lines, Header)

	for i, s := range arch.Services {
		n := Node{ID: NodeID(i), Label: fmt.Sprintf("%s: %s", s.Type, s.Name)}
		d.Nodes = append(d.Nodes, n)
		d.Lines = append(d.Lines, fmt.Sprintf(`%s["%s"];`, n.ID, escapeLabel(n.Label)))
	}

	var dangling DanglingError
	for i, rel := range arch.Relationships {
		from, to := arch.Endpoints(i)
		if from == architecture.NotFound || to == architecture.NotFound {
			switch opts.Dangling {
			case DropEdge:
				d.Dropped = append(d.Dropped, rel)
				continue
			case FailOnDangling:
				dangling.Positions = append(dangling.Positions, i)
				dangling.Relationships = append(dangling.Relationships, rel)
				continue
			}
		}
		e := Edge{From: NodeID(from), To: NodeID(to), Label: rel.Type, Relationship: i}
		d.Edges = append(d.Edges, e)
		d.Lines = append(d.Lines, fmt.Sprintf(`%s -->|%s| %s;`, e.From, escapeEdgeLabel(e.Label), e.To))
	}
	if len(dangling.Relationships) > 0 {
		return nil, &dangling
	}
	return d, nil
}

var lineBreaks = strings.NewReplacer("\r\n", "<br/>", "\n", "<br/>", "\r", "<br/>")

// escapeLabel keeps a node label inside its ["..."] quotes and on one line.
func escapeLabel(s string) string {
	return lineBreaks.Replace(strings.ReplaceAll(s, `"`, "#quot;"))
}

// escapeEdgeLabel keeps an edge label inside its |...| delimiters and on one line.
func escapeEdgeLabel(s string) string {
	return strings.ReplaceAll(escapeLabel(s), "|", "#124;")
}

func (d *Diagram) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

func (d *Diagram) Path() string {
	return d.Title + Extension
}

func (d *Diagram) WriteTo(w io.Writer) (n int64, err error) {
	wh := ioutil.NewWriteToHelper(w, &n, &err)
	for _, line := range d.Lines {
		wh.Writeln(line)
	}
	return
}

func (d *Diagram) Clone() archio.File {
	nd := &Diagram{Title: d.Title}
	nd.Lines = append(nd.Lines, d.Lines...)
	nd.Nodes = append(nd.Nodes, d.Nodes...)
	nd.Edges = append(nd.Edges, d.Edges...)
	nd.Dropped = append(nd.Dropped, d.Dropped...)
	return nd
}
