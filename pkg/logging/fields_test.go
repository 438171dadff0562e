package logging

import (
	"testing"

	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name  string
		field zap.Field
		want  map[string]interface{}
	}{
		{
			name:  "prompt keeps only size and hash",
			field: PromptField("an API in front of a Lambda"),
			want: map[string]interface{}{
				"length": 27,
				"sha256": shortHash("an API in front of a Lambda"),
			},
		},
		{
			name:  "file",
			field: FileField(archio.InDir("web-app", &archio.RawFile{FPath: "diagram.mmd"})),
			want: map[string]interface{}{
				"path":      "web-app/diagram.mmd",
				"extension": ".mmd",
			},
		},
		{
			name:  "request",
			field: RequestField("r1", "POST", "/api/export"),
			want: map[string]interface{}{
				"id":     "r1",
				"method": "POST",
				"path":   "/api/export",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := zapcore.NewMapObjectEncoder()
			tt.field.AddTo(enc)
			assert.Equal(t, tt.want, enc.Fields[tt.field.Key])
		})
	}
}

func TestShortHash(t *testing.T) {
	assert := assert.New(t)
	assert.Len(shortHash("x"), 12)
	assert.Equal(shortHash("x"), shortHash("x"))
	assert.NotEqual(shortHash("x"), shortHash("y"))
}
