package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/klothoplatform/archdiagram/pkg/diagram"
	"github.com/klothoplatform/archdiagram/pkg/llm"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/klothoplatform/archdiagram/pkg/prompt"
	"github.com/klothoplatform/archdiagram/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const reply = `Here is the architecture:
{
  "services": [
    {"name": "api", "type": "API Gateway"},
    {"name": "fn", "type": "Lambda"}
  ],
  "relationships": [
    {"from": "api", "to": "fn", "type": "invokes"},
    {"from": "fn", "to": "queue", "type": "sends"}
  ]
}
Best practices and suggestions for optimizing this architecture:
1. Security
- Use IAM authorizers`

func fixedNow() time.Time {
	return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctrl := gomock.NewController(t)

	completer := NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
			assert.Equal("model-x", req.ModelID)
			assert.Equal(1024, req.MaxTokens)
			assert.Contains(req.Prompt, "an API in front of a Lambda")
			assert.Contains(req.Prompt, prompt.Separator)
			return reply, nil
		}).
		Times(1)

	core, logs := observer.New(zap.DebugLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	g := &Generator{Completer: completer, ModelID: "model-x", MaxTokens: 1024, Now: fixedNow}
	res, err := g.Generate(ctx, "an API in front of a Lambda")
	require.NoError(err)

	assert.Equal("graph TD;\n"+
		"node0[\"API Gateway: api\"];\n"+
		"node1[\"Lambda: fn\"];\n"+
		"node0 -->|invokes| node1;\n", res.MermaidCode)
	assert.Equal("AWS Architecture Diagram - 2024-03-04", res.DiagramTitle)
	assert.Equal("1. Security\n- Use IAM authorizers", res.BestPractices)
	assert.Len(res.Architecture.Relationships, 2)

	assert.Equal(1, logs.FilterMessage("Dropped relationship with unknown service").Len())
	if dangling := logs.FilterMessage("Relationships reference unknown services").All(); assert.Len(dangling, 1) {
		assert.Equal([]interface{}{1}, dangling[0].ContextMap()["positions"])
		assert.Equal("drop", dangling[0].ContextMap()["policy"])
	}
	assert.Zero(logs.FilterMessage("Model reply describes no services").Len())
	assert.Equal(1, logs.FilterMessage("Generated diagram").Len())
	for _, e := range logs.All() {
		for _, f := range e.Context {
			assert.NotEqual("an API in front of a Lambda", f.String, "prompt text must not be logged")
		}
	}
}

func TestGenerate_EmptyArchitecture(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctrl := gomock.NewController(t)

	completer := NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{"services": [], "relationships": []}`, nil)

	core, logs := observer.New(zap.WarnLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	g := &Generator{Completer: completer, Now: fixedNow}
	res, err := g.Generate(ctx, "nothing much")
	require.NoError(err)

	assert.Equal("graph TD;\n", res.MermaidCode)
	assert.Equal(response.NoSuggestions, res.BestPractices)
	assert.Equal(1, logs.FilterMessage("Model reply describes no services").Len())
}

func TestGenerate_Errors(t *testing.T) {
	transportErr := &llm.TransportError{Provider: "bedrock", Cause: errors.New("throttled")}

	tests := []struct {
		name        string
		description string
		reply       string
		replyErr    error
		dangling    diagram.DanglingPolicy
		noCall      bool
		check       func(*assert.Assertions, error)
	}{
		{
			name:        "empty description never calls the model",
			description: "   ",
			noCall:      true,
			check: func(assert *assert.Assertions, err error) {
				assert.ErrorIs(err, prompt.ErrEmptyDescription)
			},
		},
		{
			name:     "transport failure",
			replyErr: transportErr,
			check: func(assert *assert.Assertions, err error) {
				var te *llm.TransportError
				assert.ErrorAs(err, &te)
				assert.Contains(err.Error(), "throttled")
			},
		},
		{
			name:  "no json in reply",
			reply: "I cannot help with that.",
			check: func(assert *assert.Assertions, err error) {
				assert.ErrorIs(err, response.ErrNoStructuredData)
			},
		},
		{
			name:  "unterminated object has no span",
			reply: `{"services": [`,
			check: func(assert *assert.Assertions, err error) {
				assert.Equal(response.ErrNoStructuredData, err)
			},
		},
		{
			name:  "truncated object",
			reply: `{"services": [}`,
			check: func(assert *assert.Assertions, err error) {
				var me *response.MalformedError
				assert.ErrorAs(err, &me)
			},
		},
		{
			name:     "dangling relationship under fail policy",
			reply:    reply,
			dangling: diagram.FailOnDangling,
			check: func(assert *assert.Assertions, err error) {
				var de *diagram.DanglingError
				assert.ErrorAs(err, &de)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			ctrl := gomock.NewController(t)

			completer := NewMockCompleter(ctrl)
			if !tt.noCall {
				completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(tt.reply, tt.replyErr).Times(1)
			}
			description := tt.description
			if description == "" {
				description = "a bucket"
			}

			g := &Generator{Completer: completer, Dangling: tt.dangling, Now: fixedNow}
			res, err := g.Generate(context.Background(), description)
			assert.Nil(res)
			assert.Error(err)
			tt.check(assert, err)
		})
	}
}

func TestResult_Sections(t *testing.T) {
	assert := assert.New(t)

	r := &Result{BestPractices: response.NoSuggestions}
	assert.Nil(r.Sections())

	r.BestPractices = "1. Cost\n- Use Graviton\n2. Security\n- Rotate keys"
	sections := r.Sections()
	if assert.Len(sections, 2) {
		assert.Equal("Cost", sections[0].Title)
		assert.Equal([]string{"Rotate keys"}, sections[1].Items)
	}
}

func TestResult_Diagram(t *testing.T) {
	assert := assert.New(t)

	r := &Result{
		DiagramTitle: "T",
		Architecture: &architecture.Architecture{
			Services: []architecture.Service{{Name: "b", Type: "S3"}},
		},
	}
	d, err := r.Diagram()
	assert.NoError(err)
	assert.Equal("T", d.Title)
	assert.True(strings.HasPrefix(d.String(), diagram.Header))
}
