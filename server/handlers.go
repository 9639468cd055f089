package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/aschepis/backscratcher/editord/convert"
	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/aschepis/backscratcher/editord/normalize"
)

const sourceHeader = "X-Conversion-Source"

// --- Request/Response types ---

type convertLatexRequest struct {
	Text string `json:"text"`
}

type convertLatexResponse struct {
	Latex        string `json:"latex"`
	OriginalText string `json:"original_text"`
}

type convertLatexBlockRequest struct {
	EnglishText string `json:"englishText"`
}

type convertLatexBlockResponse struct {
	LatexCode    string `json:"latexCode"`
	OriginalText string `json:"originalText"`
}

type convertTableRequest struct {
	Prompt string `json:"prompt"`
}

type convertTableResponse struct {
	TableData      []normalize.Row `json:"tableData"`
	OriginalPrompt string          `json:"originalPrompt"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// --- Handlers ---

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Text Editor API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleConvertLatex(w http.ResponseWriter, r *http.Request) {
	var req convertLatexRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := s.converter.Latex(r.Context(), req.Text)
	if err != nil {
		s.writeConvertError(w, r, err, "Text cannot be empty")
		return
	}

	w.Header().Set(sourceHeader, string(out.Source))
	writeJSON(w, http.StatusOK, convertLatexResponse{Latex: out.Latex, OriginalText: req.Text})
}

func (s *Server) handleConvertLatexBlock(w http.ResponseWriter, r *http.Request) {
	var req convertLatexBlockRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := s.converter.LatexBlock(r.Context(), req.EnglishText)
	if err != nil {
		s.writeConvertError(w, r, err, "English text cannot be empty")
		return
	}

	w.Header().Set(sourceHeader, string(out.Source))
	writeJSON(w, http.StatusOK, convertLatexBlockResponse{LatexCode: out.Latex, OriginalText: req.EnglishText})
}

func (s *Server) handleConvertTable(w http.ResponseWriter, r *http.Request) {
	var req convertTableRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := s.converter.Table(r.Context(), req.Prompt)
	if err != nil {
		s.writeConvertError(w, r, err, "Prompt cannot be empty")
		return
	}

	w.Header().Set(sourceHeader, string(out.Source))
	writeJSON(w, http.StatusOK, convertTableResponse{TableData: out.Rows, OriginalPrompt: req.Prompt})
}

// writeConvertError maps conversion errors to HTTP statuses.
func (s *Server) writeConvertError(w http.ResponseWriter, r *http.Request, err error, emptyDetail string) {
	status, detail := errorStatus(err, emptyDetail)
	if retryAfter := llm.ExtractRetryAfter(err); retryAfter != nil && status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}
	if status >= 500 {
		s.logger.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("Conversion failed")
	}
	writeError(w, status, detail)
}

func errorStatus(err error, emptyDetail string) (int, string) {
	switch {
	case errors.Is(err, convert.ErrEmptyInput):
		return http.StatusBadRequest, emptyDetail
	case llm.IsBlockedError(err):
		return http.StatusBadRequest, "Content was blocked by safety filters"
	case llm.IsStoppedError(err):
		return http.StatusBadRequest, "Generation was stopped"
	case llm.IsAuthError(err):
		return http.StatusUnauthorized, "LLM API authentication failed"
	case llm.IsRateLimitError(err):
		return http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// --- Helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Detail: msg})
}
