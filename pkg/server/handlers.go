package server

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/klothoplatform/archdiagram/pkg/dot"
	"github.com/klothoplatform/archdiagram/pkg/export"
	"github.com/klothoplatform/archdiagram/pkg/generator"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/klothoplatform/archdiagram/pkg/prompt"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	GenerateRequest struct {
		Prompt string `json:"prompt"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Options.Version,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.jsonError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req GenerateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.Generator.Generate(r.Context(), req.Prompt)
	switch {
	case err == nil:
		s.jsonResponse(w, r, http.StatusOK, res)

	case errors.Is(err, prompt.ErrEmptyDescription):
		s.jsonError(w, r, http.StatusBadRequest, generator.FailureMessage(err))

	default:
		logging.GetLogger(r.Context()).Error("Error generating diagram", zap.Error(err))
		s.jsonError(w, r, http.StatusInternalServerError, generator.FailureMessage(err))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.jsonError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.jsonError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var res generator.Result
	if !s.decodeBody(w, r, &res) {
		return
	}

	f, err := export.Export(r.Context(), &res, format)
	switch {
	case err == nil:

	case errors.Is(err, export.ErrNothingToExport):
		s.jsonError(w, r, http.StatusBadRequest, err.Error())
		return

	case errors.Is(err, dot.ErrNotInstalled):
		s.jsonError(w, r, http.StatusNotImplemented, err.Error())
		return

	default:
		logging.GetLogger(r.Context()).Error("Error exporting diagram", zap.Error(err), zap.String("format", string(format)))
		s.jsonError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Path()}))
	w.WriteHeader(http.StatusOK)
	if _, err := f.WriteTo(w); err != nil {
		logging.GetLogger(r.Context()).Debug("Failed to write export", zap.Error(err))
	}
}

// decodeBody reads a size-limited JSON body into v, writing the error response itself when it returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	limit := s.Options.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultOptions().MaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.jsonError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
	} else {
		s.jsonError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
	}
	return false
}

func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.GetLogger(r.Context()).Debug("Failed to write response", zap.Error(err))
	}
}

func (s *Server) jsonError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, r, status, ErrorResponse{Error: message})
}
