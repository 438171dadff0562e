package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevels(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  map[string]zapcore.Level
	}{
		{
			name:  "single",
			value: "llm=debug",
			want:  map[string]zapcore.Level{"llm": zap.DebugLevel},
		},
		{
			name:  "multiple with spaces",
			value: "llm=debug, server.access=warn",
			want:  map[string]zapcore.Level{"llm": zap.DebugLevel, "server.access": zap.WarnLevel},
		},
		{
			name:  "skips invalid entries",
			value: "llm,dot=loud,=error",
			want:  map[string]zapcore.Level{"": zap.ErrorLevel},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevels(tt.value))
		})
	}
}

func TestEntryLeveller(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(NewEntryLeveller(core, map[string]zapcore.Level{
		"dot":        zap.WarnLevel,
		"server.api": zap.ErrorLevel,
	}))

	log.Named("dot").Info("hidden")
	log.Named("dot").Named("exec").Info("hidden child")
	log.Named("dot").Warn("shown")
	log.Named("server").Info("shown parent")
	log.Named("server").Named("api").Warn("hidden api")
	log.Named("llm").Debug("shown default")

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal([]string{"shown", "shown parent", "shown default"}, messages)
}

func TestCategoryWriter(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	cw := NewCategoryWriter(zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg", NameKey: "logger"}), dir)
	log := zap.New(cw)

	log.Named("server").Named("access").Info("request served")
	log.Info("uncategorized")
	require.NoError(cw.Sync())

	content, err := os.ReadFile(filepath.Join(dir, "server.log"))
	require.NoError(err)
	assert.Contains(string(content), "request served")
	assert.Contains(string(content), "access")

	entries, err := os.ReadDir(dir)
	require.NoError(err)
	assert.Len(entries, 1)
}

func TestLogContext(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "r1")))

	GetLogger(ctx).Info("from context")
	assert.Equal(1, logs.Len())
	assert.Equal("r1", logs.All()[0].ContextMap()["request_id"])

	assert.Equal(zap.L(), GetLogger(context.Background()))
}

func TestCommand(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zap.DebugLevel)
	w := loggerWriter{logger: zap.New(core).Named("stdout"), level: zap.DebugLevel}

	n, err := w.Write([]byte("first\n\nsecond\n"))
	assert.NoError(err)
	assert.Equal(14, n)
	assert.Equal(2, logs.Len())
	assert.Equal("second", logs.All()[1].Message)
}

func TestNewCore_JSON(t *testing.T) {
	assert := assert.New(t)

	buf := new(bytes.Buffer)
	log := zap.New(LogOpts{Encoding: "json"}.NewCore(zapcore.AddSync(buf)))
	log.Debug("dropped")
	log.Info("kept", PromptField("hello"))

	assert.NotContains(buf.String(), "dropped")
	assert.Contains(buf.String(), `"msg":"kept"`)
	assert.Contains(buf.String(), `"length":5`)
	assert.NotContains(buf.String(), "hello")
}
