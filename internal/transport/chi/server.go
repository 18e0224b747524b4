// Package chi exposes the recognition service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/strokedex/strokedex/internal/db"
	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
	"github.com/strokedex/strokedex/internal/logger"
	"github.com/strokedex/strokedex/internal/match"
	"github.com/strokedex/strokedex/internal/version"
)

// Error response codes.
const (
	CodeBadRequest    = "bad_request"
	CodeQueryTooLarge = "query_too_large"
	CodeEmptyStroke   = "empty_stroke"
	CodeUnauthorized  = "unauthorized"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MatchRequest is the POST /match body. Strokes are ordered lists of [x, y]
// points in any caller-defined coordinate system.
type MatchRequest struct {
	Strokes [][][]float64 `json:"strokes"`
	Limit   int           `json:"limit,omitempty"`
}

// MatchResponse is the POST /match result, best candidate first.
type MatchResponse struct {
	Candidates []match.Candidate `json:"candidates"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	CorpusEntries int    `json:"corpus_entries"`
	Cache         string `json:"cache,omitempty"`
}

// Recognizer is the consumer interface over the recognition use case.
type Recognizer interface {
	Recognize(ctx context.Context, strokes []stroke.Stroke, limit int) ([]match.Candidate, error)
	CorpusSize() int
}

// Server implements the HTTP API. Handlers log through the request-scoped
// logger installed by the wide-event middleware.
type Server struct {
	recognizer Recognizer
	pinger     db.Pinger // nil when no cache backend is configured
}

// NewServer creates an HTTP API server.
func NewServer(recognizer Recognizer, pinger db.Pinger) *Server {
	return &Server{recognizer: recognizer, pinger: pinger}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/match", s.handleMatch)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	strokes, err := strokesFromRequest(req.Strokes)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	candidates, err := s.recognizer.Recognize(r.Context(), strokes, req.Limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []match.Candidate{}
	}

	writeJSON(w, http.StatusOK, MatchResponse{Candidates: candidates})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       version.Version,
		CorpusEntries: s.recognizer.CorpusSize(),
	}
	if s.pinger != nil {
		resp.Cache = "ok"
		if err := s.pinger.Ping(r.Context()); err != nil {
			// Cache is best-effort; matching still works without it.
			resp.Status = "degraded"
			resp.Cache = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQueryTooLarge):
		writeError(w, http.StatusBadRequest, CodeQueryTooLarge, err.Error())
	case errors.Is(err, domain.ErrEmptyStroke):
		writeError(w, http.StatusBadRequest, CodeEmptyStroke, err.Error())
	default:
		logger.FromContext(r.Context()).Error("match failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func strokesFromRequest(raw [][][]float64) ([]stroke.Stroke, error) {
	strokes := make([]stroke.Stroke, len(raw))
	for i, rawStroke := range raw {
		st := make(stroke.Stroke, len(rawStroke))
		for j, p := range rawStroke {
			if len(p) != 2 {
				return nil, errors.New("stroke points must be [x, y] pairs")
			}
			st[j] = geom.Point{X: p[0], Y: p[1]}
		}
		strokes[i] = st
	}
	return strokes, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
