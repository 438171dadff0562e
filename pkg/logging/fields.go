package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// promptField carries a user-supplied description. Only its size and a hash are logged.
type promptField struct {
	text string
}

func (field promptField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("length", len(field.text))
	enc.AddString("sha256", shortHash(field.text))
	return nil
}

func PromptField(text string) zap.Field {
	return zap.Object("prompt", promptField{text: text})
}

type fileField struct {
	path string
}

func (field fileField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("path", field.path)
	enc.AddString("extension", filepath.Ext(field.path))
	return nil
}

func FileField(f archio.File) zap.Field {
	return zap.Object("file", fileField{path: f.Path()})
}

type requestField struct {
	id     string
	method string
	path   string
}

func (field requestField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", field.id)
	enc.AddString("method", field.method)
	enc.AddString("path", field.path)
	return nil
}

func RequestField(id, method, path string) zap.Field {
	return zap.Object("request", requestField{id: id, method: method, path: path})
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:6])
}
