// Package viewstate models what the diagram UI shows: the request status, the last result or error, the zoom level
// and whether the best-practices panel is open. [ViewState] transitions are pure; [Shell] drives them around a
// generator for concurrent callers.
package viewstate

import (
	"fmt"
	"math"

	"github.com/klothoplatform/archdiagram/pkg/generator"
	"github.com/pkg/errors"
)

type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Success Status = "success"
	Error   Status = "error"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
	ZoomStep    = 0.1
)

// ErrBusy is returned when a generation is submitted while another is in flight.
var ErrBusy = errors.New("a diagram is already being generated")

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid view transition from %s to %s", e.From, e.To)
}

var validTransitions = map[Status][]Status{
	Idle:    {Loading},
	Loading: {Success, Error},
	Success: {Loading},
	Error:   {Loading, Idle},
}

type ViewState struct {
	Status Status `json:"status"`
	Prompt string `json:"prompt"`
	// Result is the last successful generation. It stays visible while a new request loads or after it fails.
	Result            *generator.Result `json:"result,omitempty"`
	Error             string            `json:"error,omitempty"`
	Zoom              float64           `json:"zoom"`
	ShowBestPractices bool              `json:"showBestPractices"`
}

func New() ViewState {
	return ViewState{Status: Idle, Zoom: DefaultZoom}
}

func (s ViewState) CanTransition(to Status) bool {
	for _, allowed := range validTransitions[s.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s ViewState) transition(to Status) (ViewState, error) {
	if !s.CanTransition(to) {
		return s, &InvalidTransitionError{From: s.Status, To: to}
	}
	s.Status = to
	return s, nil
}

// Submit starts a request for prompt, clearing any error and collapsing the best-practices panel.
func (s ViewState) Submit(prompt string) (ViewState, error) {
	if s.Status == Loading {
		return s, ErrBusy
	}
	next, err := s.transition(Loading)
	if err != nil {
		return s, err
	}
	next.Prompt = prompt
	next.Error = ""
	next.ShowBestPractices = false
	return next, nil
}

func (s ViewState) Succeed(res *generator.Result) (ViewState, error) {
	next, err := s.transition(Success)
	if err != nil {
		return s, err
	}
	next.Result = res
	next.Error = ""
	return next, nil
}

func (s ViewState) Fail(cause error) (ViewState, error) {
	next, err := s.transition(Error)
	if err != nil {
		return s, err
	}
	next.Error = generator.FailureMessage(cause)
	return next, nil
}

func (s ViewState) DismissError() (ViewState, error) {
	next, err := s.transition(Idle)
	if err != nil {
		return s, err
	}
	next.Error = ""
	return next, nil
}

func (s ViewState) ZoomIn() ViewState {
	s.Zoom = clampZoom(s.Zoom + ZoomStep)
	return s
}

func (s ViewState) ZoomOut() ViewState {
	s.Zoom = clampZoom(s.Zoom - ZoomStep)
	return s
}

func (s ViewState) ResetZoom() ViewState {
	s.Zoom = DefaultZoom
	return s
}

func (s ViewState) ToggleBestPractices() ViewState {
	s.ShowBestPractices = !s.ShowBestPractices
	return s
}

// clampZoom keeps z in [MinZoom, MaxZoom], rounded to one decimal so repeated steps land on exact values.
func clampZoom(z float64) float64 {
	z = math.Round(z*10) / 10
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
