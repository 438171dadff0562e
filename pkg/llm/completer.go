// Package llm talks to hosted text-completion models. Everything above it only depends on [Completer], so the
// provider can be swapped as long as the reply keeps the loose textual contract the response parser expects.
package llm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

//go:generate mockgen -source=./completer.go --destination=../generator/completer_mock_test.go --package=generator

const (
	DefaultModelID   = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	DefaultMaxTokens = 2048
)

type (
	// Request is a single user-role text message.
	Request struct {
		ModelID   string
		MaxTokens int
		Prompt    string
	}

	Completer interface {
		// Complete sends the request and returns the decoded text of the reply.
		Complete(ctx context.Context, req Request) (string, error)
	}

	// TransportError is a failure to reach the model or a non-success answer from its API.
	TransportError struct {
		Provider   string
		StatusCode int
		Cause      error
	}
)

var ErrEmptyCompletion = errors.New("model returned no text content")

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func (r Request) withDefaults() Request {
	if r.ModelID == "" {
		r.ModelID = DefaultModelID
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}
