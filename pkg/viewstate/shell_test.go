package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/klothoplatform/archdiagram/pkg/export"
	"github.com/klothoplatform/archdiagram/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	started chan struct{}
	result  *generator.Result
	err     error
}

func (g *stubGenerator) Generate(ctx context.Context, description string) (*generator.Result, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		<-g.release
	}
	return g.result, g.err
}

func sampleResult() *generator.Result {
	return &generator.Result{
		MermaidCode:  "graph TD;\nnode0[\"SQS: q\"];\n",
		Architecture: &architecture.Architecture{Services: []architecture.Service{{Name: "q", Type: "SQS"}}},
		DiagramTitle: "AWS Architecture Diagram - 2024-01-01",
	}
}

func TestShell_Submit(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	gen := &stubGenerator{result: sampleResult()}
	shell := NewShell(gen)

	var seen []Status
	shell.OnChange = func(s ViewState) { seen = append(seen, s.Status) }

	state, err := shell.Submit(context.Background(), "a queue")
	require.NoError(err)
	assert.Equal(Success, state.Status)
	assert.Equal(gen.result, state.Result)
	assert.Equal([]Status{Loading, Success}, seen)
	assert.False(shell.Busy())
}

func TestShell_SubmitFailure(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("model unavailable")
	shell := NewShell(&stubGenerator{err: cause})

	state, err := shell.Submit(context.Background(), "a queue")
	assert.ErrorIs(err, cause)
	assert.Equal(Error, state.Status)
	assert.Equal("Failed to generate diagram: model unavailable", state.Error)

	state, err = shell.DismissError()
	assert.NoError(err)
	assert.Equal(Idle, state.Status)
}

func TestShell_BusyRejectsSecondSubmit(t *testing.T) {
	assert := assert.New(t)

	gen := &stubGenerator{
		result:  sampleResult(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	shell := NewShell(gen)

	done := make(chan error, 1)
	go func() {
		_, err := shell.Submit(context.Background(), "first")
		done <- err
	}()
	<-gen.started

	assert.True(shell.Busy())
	state, err := shell.Submit(context.Background(), "second")
	assert.ErrorIs(err, ErrBusy)
	assert.Equal(Loading, state.Status)
	assert.Equal("first", state.Prompt)

	close(gen.release)
	assert.NoError(<-done)

	gen.mu.Lock()
	assert.Equal(1, gen.calls, "the rejected submit never reaches the generator")
	gen.mu.Unlock()
	assert.Equal(Success, shell.State().Status)
}

func TestShell_ViewControls(t *testing.T) {
	assert := assert.New(t)

	shell := NewShell(&stubGenerator{})
	assert.Equal(1.1, shell.ZoomIn().Zoom)
	assert.Equal(1.0, shell.ZoomOut().Zoom)
	assert.Equal(0.9, shell.ZoomOut().Zoom)
	assert.Equal(DefaultZoom, shell.ResetZoom().Zoom)
	assert.True(shell.ToggleBestPractices().ShowBestPractices)
}

func TestShell_Export(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	shell := NewShell(&stubGenerator{result: sampleResult()})
	_, err := shell.Export(context.Background(), export.Mermaid)
	assert.ErrorIs(err, export.ErrNothingToExport)

	_, err = shell.Submit(context.Background(), "a queue")
	require.NoError(err)
	before := shell.State()

	f, err := shell.Export(context.Background(), export.Mermaid)
	require.NoError(err)
	assert.Equal("AWS Architecture Diagram - 2024-01-01.mmd", f.Path())
	assert.Equal(before, shell.State(), "export does not change the view")
}
