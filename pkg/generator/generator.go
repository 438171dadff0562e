// Package generator runs the description → prompt → completion → parse → diagram pipeline.
package generator

import (
	"context"
	"time"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/klothoplatform/archdiagram/pkg/diagram"
	"github.com/klothoplatform/archdiagram/pkg/llm"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/klothoplatform/archdiagram/pkg/prompt"
	"github.com/klothoplatform/archdiagram/pkg/response"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	Generator struct {
		Completer llm.Completer
		ModelID   string
		MaxTokens int
		Dangling  diagram.DanglingPolicy
		// Timeout bounds the model call. Zero means only the caller's context applies.
		Timeout time.Duration
		// Now is used for the diagram title; defaults to time.Now.
		Now func() time.Time
	}

	// Result is what a successful generation hands to the UI, with the JSON keys the front end reads.
	Result struct {
		MermaidCode   string                     `json:"mermaidCode"`
		Architecture  *architecture.Architecture `json:"architecture"`
		DiagramTitle  string                     `json:"diagramTitle"`
		BestPractices string                     `json:"bestPractices"`
	}
)

// Generate makes exactly one model call. Errors from the prompt (such as [prompt.ErrEmptyDescription]) are returned
// unwrapped; everything after that is wrapped with the stage that failed.
func (g *Generator) Generate(ctx context.Context, description string) (*Result, error) {
	log := logging.GetLogger(ctx).Named("generator")
	start := time.Now()

	p, err := prompt.Build(description)
	if err != nil {
		return nil, err
	}
	log.Debug("Built prompt", logging.PromptField(description), zap.Int("prompt_chars", len(p)))

	completeCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		completeCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	reply, err := g.Completer.Complete(completeCtx, llm.Request{
		ModelID:   g.ModelID,
		MaxTokens: g.MaxTokens,
		Prompt:    p,
	})
	if err != nil {
		return nil, errors.Wrap(err, "model request failed")
	}

	parsed := response.Parse(reply)
	if err := parsed.Err(); err != nil {
		log.Warn("Could not extract an architecture from the model reply", zap.Stringer("kind", parsed.Kind), zap.Error(err))
		return nil, err
	}

	arch := parsed.Architecture
	if arch.IsEmpty() {
		log.Warn("Model reply describes no services")
	}
	if dangling := arch.DanglingRelationships(); len(dangling) > 0 {
		log.Warn("Relationships reference unknown services", zap.Ints("positions", dangling), zap.Stringer("policy", g.Dangling))
	}

	d, err := diagram.Compile(arch, diagram.Options{
		Dangling: g.Dangling,
		Title:    diagram.Title(g.now()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not compile diagram")
	}
	for _, rel := range d.Dropped {
		log.Warn("Dropped relationship with unknown service", zap.Stringer("relationship", rel))
	}

	log.Info("Generated diagram",
		zap.Int("services", len(arch.Services)),
		zap.Int("relationships", len(d.Edges)),
		zap.Duration("duration", time.Since(start)),
	)
	return &Result{
		MermaidCode:   d.String(),
		Architecture:  arch,
		DiagramTitle:  d.Title,
		BestPractices: parsed.BestPractices,
	}, nil
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Sections splits the best-practices text into its numbered sections.
func (r *Result) Sections() []response.Section {
	if r.BestPractices == response.NoSuggestions {
		return nil
	}
	return response.Sections(r.BestPractices)
}

// Diagram recompiles the architecture. Relationships with an unknown endpoint are dropped.
func (r *Result) Diagram() (*diagram.Diagram, error) {
	return diagram.Compile(r.Architecture, diagram.Options{Title: r.DiagramTitle})
}

// FailureMessage is the user-facing text for a failed generation.
func FailureMessage(err error) string {
	return "Failed to generate diagram: " + err.Error()
}
