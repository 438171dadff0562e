package viewstate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/klothoplatform/archdiagram/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewState_Transitions(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := New()
	assert.Equal(Idle, s.Status)
	assert.Equal(DefaultZoom, s.Zoom)

	s = s.ToggleBestPractices()
	s, err := s.Submit("a queue")
	require.NoError(err)
	assert.Equal(Loading, s.Status)
	assert.Equal("a queue", s.Prompt)
	assert.False(s.ShowBestPractices, "submit collapses suggestions")

	_, err = s.Submit("again")
	assert.ErrorIs(err, ErrBusy)

	res := &generator.Result{MermaidCode: "graph TD;\n"}
	s, err = s.Succeed(res)
	require.NoError(err)
	assert.Equal(Success, s.Status)
	assert.Same(res, s.Result)

	s, err = s.Submit("next")
	require.NoError(err)
	assert.Same(res, s.Result, "previous result stays visible while loading")

	s, err = s.Fail(errors.New("boom"))
	require.NoError(err)
	assert.Equal(Error, s.Status)
	assert.Equal("Failed to generate diagram: boom", s.Error)

	s, err = s.Submit("retry")
	require.NoError(err)
	assert.Empty(s.Error, "submit clears the error")

	s, _ = s.Fail(errors.New("boom"))
	s, err = s.DismissError()
	require.NoError(err)
	assert.Equal(Idle, s.Status)
	assert.Empty(s.Error)
}

func TestViewState_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		do   func(ViewState) (ViewState, error)
		from Status
	}{
		{name: "succeed while idle", from: Idle, do: func(s ViewState) (ViewState, error) { return s.Succeed(nil) }},
		{name: "fail while success", from: Success, do: func(s ViewState) (ViewState, error) { return s.Fail(errors.New("x")) }},
		{name: "dismiss while loading", from: Loading, do: ViewState.DismissError},
		{name: "dismiss while idle", from: Idle, do: ViewState.DismissError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			s := New()
			s.Status = tt.from
			got, err := tt.do(s)

			var ite *InvalidTransitionError
			assert.ErrorAs(err, &ite)
			assert.Equal(tt.from, ite.From)
			assert.Equal(s, got, "state is unchanged")
		})
	}
}

func TestViewState_Zoom(t *testing.T) {
	tests := []struct {
		name  string
		steps func(ViewState) ViewState
		want  float64
	}{
		{
			name:  "in",
			steps: func(s ViewState) ViewState { return s.ZoomIn().ZoomIn().ZoomIn() },
			want:  1.3,
		},
		{
			name:  "out",
			steps: func(s ViewState) ViewState { return s.ZoomOut().ZoomOut() },
			want:  0.8,
		},
		{
			name: "clamped at max",
			steps: func(s ViewState) ViewState {
				for i := 0; i < 20; i++ {
					s = s.ZoomIn()
				}
				return s
			},
			want: MaxZoom,
		},
		{
			name: "clamped at min",
			steps: func(s ViewState) ViewState {
				for i := 0; i < 20; i++ {
					s = s.ZoomOut()
				}
				return s
			},
			want: MinZoom,
		},
		{
			name:  "reset",
			steps: func(s ViewState) ViewState { return s.ZoomIn().ZoomIn().ResetZoom() },
			want:  DefaultZoom,
		},
		{
			name:  "in and back out is exact",
			steps: func(s ViewState) ViewState { return s.ZoomIn().ZoomIn().ZoomIn().ZoomOut().ZoomOut().ZoomOut() },
			want:  DefaultZoom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.steps(New()).Zoom)
		})
	}
}

func TestViewState_ZoomAndToggleIgnoreStatus(t *testing.T) {
	assert := assert.New(t)

	s := New()
	s, _ = s.Submit("x")
	s = s.ZoomIn().ToggleBestPractices()
	assert.Equal(Loading, s.Status)
	assert.Equal(1.1, s.Zoom)
	assert.True(s.ShowBestPractices)
	assert.False(s.ToggleBestPractices().ShowBestPractices)
}

func TestViewState_JSON(t *testing.T) {
	assert := assert.New(t)

	s := New()
	b, err := json.Marshal(s)
	assert.NoError(err)
	assert.JSONEq(`{"status":"idle","prompt":"","zoom":1,"showBestPractices":false}`, string(b))

	var back ViewState
	assert.NoError(json.Unmarshal(b, &back))
	assert.Equal(s, back)
}
