package viewstate

import (
	"context"
	"sync"

	"github.com/klothoplatform/archdiagram/pkg/export"
	"github.com/klothoplatform/archdiagram/pkg/generator"
	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type (
	Generator interface {
		Generate(ctx context.Context, description string) (*generator.Result, error)
	}

	// Shell owns a [ViewState] and runs at most one generation at a time. A Submit that arrives while another is in
	// flight fails with [ErrBusy] without reaching the generator.
	Shell struct {
		Generator Generator
		// OnChange, if set, is called with every new state, outside the lock.
		OnChange func(ViewState)

		mu       sync.Mutex
		state    ViewState
		inFlight atomic.Bool
	}
)

func NewShell(g Generator) *Shell {
	return &Shell{Generator: g, state: New()}
}

func (s *Shell) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Shell) Busy() bool {
	return s.inFlight.Load()
}

func (s *Shell) update(f func(ViewState) (ViewState, error)) (ViewState, error) {
	s.mu.Lock()
	next, err := f(s.state)
	if err == nil {
		s.state = next
	}
	current := s.state
	s.mu.Unlock()

	if err == nil && s.OnChange != nil {
		s.OnChange(current)
	}
	return current, err
}

func (s *Shell) apply(f func(ViewState) ViewState) ViewState {
	state, _ := s.update(func(v ViewState) (ViewState, error) { return f(v), nil })
	return state
}

// Submit runs a generation for prompt and returns the resulting state. The returned error is the generation error,
// which is also recorded in the state.
func (s *Shell) Submit(ctx context.Context, prompt string) (ViewState, error) {
	if !s.inFlight.CAS(false, true) {
		return s.State(), ErrBusy
	}
	defer s.inFlight.Store(false)

	log := logging.GetLogger(ctx).Named("viewstate")
	if _, err := s.update(func(v ViewState) (ViewState, error) { return v.Submit(prompt) }); err != nil {
		return s.State(), err
	}

	res, genErr := s.Generator.Generate(ctx, prompt)
	if genErr != nil {
		log.Debug("Generation failed", zap.Error(genErr))
		state, err := s.update(func(v ViewState) (ViewState, error) { return v.Fail(genErr) })
		if err != nil {
			return state, err
		}
		return state, genErr
	}
	return s.update(func(v ViewState) (ViewState, error) { return v.Succeed(res) })
}

func (s *Shell) DismissError() (ViewState, error) {
	return s.update(func(v ViewState) (ViewState, error) { return v.DismissError() })
}

func (s *Shell) ZoomIn() ViewState {
	return s.apply(ViewState.ZoomIn)
}

func (s *Shell) ZoomOut() ViewState {
	return s.apply(ViewState.ZoomOut)
}

func (s *Shell) ResetZoom() ViewState {
	return s.apply(ViewState.ResetZoom)
}

func (s *Shell) ToggleBestPractices() ViewState {
	return s.apply(ViewState.ToggleBestPractices)
}

// Export renders the current diagram without changing the state.
func (s *Shell) Export(ctx context.Context, f export.Format) (archio.File, error) {
	res := s.State().Result
	if res == nil {
		return nil, export.ErrNothingToExport
	}
	return export.Export(ctx, res, f)
}
