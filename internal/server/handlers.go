// Package server provides the HTTP REST API for the application dashboard.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mathieu/apply-pilot/internal/compiler"
	"github.com/mathieu/apply-pilot/internal/pipeline"
	"github.com/mathieu/apply-pilot/internal/types"
)

// AnalyzeRequest is the request body for POST /api/analyze.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzeResponse summarizes a staged analysis for the dashboard.
type AnalyzeResponse struct {
	ID         string            `json:"id"`
	Job        *types.JobPosting `json:"job"`
	Language   string            `json:"language"`
	MatchScore int               `json:"matchScore"`
	LogoURL    string            `json:"logoUrl,omitempty"`
}

// PreviewResponse carries the staged drafts for the editing screen.
type PreviewResponse struct {
	CV          *types.CVDraft    `json:"cv"`
	CoverLetter *types.CoverDraft `json:"coverLetter"`
	JobInfo     *types.JobPosting `json:"jobInfo"`
	MatchScore  int               `json:"matchScore"`
}

// DraftsRequest is the request body for finalize and regenerate. Absent
// fields fall back to the drafts the server already holds.
type DraftsRequest struct {
	CV          *types.CVDraft    `json:"cv"`
	CoverLetter *types.CoverDraft `json:"coverLetter"`
}

// EditResponse carries the drafts to load into the editor.
type EditResponse struct {
	CV          *types.CVDraft    `json:"cv"`
	CoverLetter *types.CoverDraft `json:"coverLetter"`
}

// handleAnalyze runs the full analysis on a posting URL and stages the
// result. Nothing is persisted until finalize.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateJobURL(req.URL); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.pipeline.Analyze(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
		return
	}

	resp := AnalyzeResponse{
		ID:       result.ID,
		Job:      result.Posting,
		Language: result.Posting.Language,
		LogoURL:  result.LogoURL,
	}
	if result.Match != nil {
		resp.MatchScore = result.Match.Score
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePreview returns the staged analysis for an id.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := s.pipeline.Preview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Reading staged analysis failed: "+err.Error())
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "No staged analysis for this id (it may have expired)")
		return
	}

	resp := PreviewResponse{
		CV:          rec.CV,
		CoverLetter: rec.Cover,
		JobInfo:     rec.Posting,
	}
	if rec.Match != nil {
		resp.MatchScore = rec.Match.Score
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleFinalize compiles the staged (or edited) drafts and persists the
// application.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	req, err := decodeDrafts(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := s.pipeline.Finalize(r.Context(), id, req.CV, req.CoverLetter)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "No staged analysis for this id (it may have expired)")
		return
	}

	s.jsonResponse(w, http.StatusCreated, app)
}

// handleRegenerate recompiles an existing application's documents.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	req, err := decodeDrafts(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := s.pipeline.Regenerate(r.Context(), id, req.CV, req.CoverLetter)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleEditDrafts returns the drafts to load into the editor for an
// existing application.
func (s *Server) handleEditDrafts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cv, cover, err := s.pipeline.DraftsForEdit(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Loading drafts failed: "+err.Error())
		return
	}
	if cv == nil && cover == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, EditResponse{CV: cv, CoverLetter: cover})
}

// handleDownload streams a stored PDF. kind selects the document: cv or
// cover.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	kind := r.PathValue("kind")

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	var path string
	switch kind {
	case "cv":
		path = app.CVPath
	case "cover":
		path = app.CoverPath
	default:
		s.errorResponse(w, http.StatusBadRequest, "kind must be cv or cover")
		return
	}
	if path == "" {
		s.errorResponse(w, http.StatusNotFound, "No document generated for this application")
		return
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			s.errorResponse(w, http.StatusNotFound, "Document file is missing from disk")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Reading document failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

// pipelineError maps a finalize/regenerate failure onto a response.
// Compilation failures carry the engine log tail so the dashboard can show
// what LaTeX rejected.
func (s *Server) pipelineError(w http.ResponseWriter, err error) {
	var compErr *compiler.CompilationError
	switch {
	case errors.Is(err, pipeline.ErrNoDrafts):
		s.errorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &compErr):
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]string{
			"error": compErr.Error(),
			"log":   compErr.LogOutput,
		})
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeDrafts reads an optional drafts body. An empty body means keep
// whatever drafts the server already has.
func decodeDrafts(r *http.Request) (DraftsRequest, error) {
	var req DraftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return DraftsRequest{}, err
	}
	return req, nil
}

// validateJobURL rejects anything but an absolute http(s) URL.
func validateJobURL(raw string) error {
	if raw == "" {
		return &ErrValidation{Field: "url", Message: "required"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ErrValidation{Field: "url", Message: "must be an absolute http(s) URL"}
	}
	return nil
}
