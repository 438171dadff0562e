// Package response turns the model's free-form reply into an architecture and a best-practices text.
//
// The reply is expected to embed exactly one JSON object somewhere in prose and, after [prompt.Separator], free
// text guidance. Neither is guaranteed, so [Parse] never fails; it reports what it found through [Result.Kind].
package response

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/klothoplatform/archdiagram/pkg/prompt"
	"github.com/pkg/errors"
)

// NoSuggestions is the best-practices text used when the reply has no separator or nothing after it.
const NoSuggestions = "No suggestions available"

type Kind int

const (
	// Parsed means a JSON object was found and decoded.
	Parsed Kind = iota
	// Empty means the reply contains no {...} span at all. Callers may retry or ask the user to rephrase.
	Empty
	// Malformed means a {...} span was found but is not a valid architecture document.
	Malformed
)

var ErrNoStructuredData = errors.New("no JSON object found in the completion")

// jsonSpan is deliberately greedy: from the first '{' to the last '}' in the reply, across newlines.
var jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

type (
	Result struct {
		Kind          Kind
		Architecture  *architecture.Architecture
		RawJSON       string
		BestPractices string

		cause error
	}

	MalformedError struct {
		RawJSON string
		Cause   error
	}
)

func (k Kind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case Empty:
		return "empty"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed architecture JSON: %v", e.Cause)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// Err returns nil for a Parsed result, [ErrNoStructuredData] for Empty, and a [*MalformedError] for Malformed.
func (r Result) Err() error {
	switch r.Kind {
	case Parsed:
		return nil
	case Empty:
		return ErrNoStructuredData
	default:
		return &MalformedError{RawJSON: r.RawJSON, Cause: r.cause}
	}
}

// ExtractJSON returns the greedy {...} span of reply.
func ExtractJSON(reply string) (string, bool) {
	span := jsonSpan.FindString(reply)
	return span, span != ""
}

// BestPractices returns the trimmed text after the last separator, or [NoSuggestions].
func BestPractices(reply string) string {
	i := strings.LastIndex(reply, prompt.Separator)
	if i < 0 {
		return NoSuggestions
	}
	after := strings.TrimSpace(reply[i+len(prompt.Separator):])
	if after == "" {
		return NoSuggestions
	}
	return after
}

// Parse extracts the architecture and best practices from a model reply. The best-practices half is always filled
// in (possibly with [NoSuggestions]) regardless of Kind.
func Parse(reply string) Result {
	res := Result{BestPractices: BestPractices(reply)}

	// The JSON normally comes before the guidance; searching the head first keeps braces in the guidance
	// (e.g. "{bucket}") out of the span. The separator phrase can also appear in prose ahead of the JSON, so the
	// whole reply is searched when the head has no usable object.
	head, _, found := strings.Cut(reply, prompt.Separator)
	span, arch, err := extract(head)
	if found && (span == "" || err != nil) {
		if fspan, farch, ferr := extract(reply); fspan != "" && (ferr == nil || span == "") {
			span, arch, err = fspan, farch, ferr
		}
	}
	if span == "" {
		res.Kind = Empty
		return res
	}
	res.RawJSON = span
	if err != nil {
		res.Kind = Malformed
		res.cause = err
		return res
	}
	res.Kind = Parsed
	res.Architecture = arch
	return res
}

// extract finds the architecture object in text. span is empty when text has no {...} at all.
func extract(text string) (span string, arch *architecture.Architecture, err error) {
	span, ok := ExtractJSON(text)
	if !ok {
		return "", nil, nil
	}
	arch, err = decode(span)
	if err == nil {
		return span, arch, nil
	}
	// Stray braces in the surrounding prose widen the greedy span; retry with each balanced object.
	for _, candidate := range balancedObjects(text) {
		if a, cerr := decode(candidate); cerr == nil {
			return candidate, a, nil
		}
	}
	return span, nil, err
}

func decode(span string) (*architecture.Architecture, error) {
	var arch architecture.Architecture
	if err := json.Unmarshal([]byte(span), &arch); err != nil {
		return nil, err
	}
	if arch.Services == nil && arch.Relationships == nil {
		return nil, errors.New(`object has neither "services" nor "relationships"`)
	}
	return &arch, nil
}
