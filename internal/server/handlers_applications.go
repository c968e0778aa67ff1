// Package server provides the HTTP REST API for the application dashboard.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/email"
	"github.com/mathieu/apply-pilot/internal/status"
	"github.com/mathieu/apply-pilot/internal/types"
)

// ListApplicationsResponse wraps the application list with its count.
type ListApplicationsResponse struct {
	Applications []db.Application `json:"applications"`
	Count        int              `json:"count"`
}

// UpdateStatusRequest is the request body for PATCH .../status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AnalyzeEmailRequest is the request body for POST .../email.
type AnalyzeEmailRequest struct {
	Text string `json:"text"`
}

// handleListApplications lists applications, optionally narrowed by status
// and by a free-text search over company, position and location.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	var filter db.ListFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		canonical, ok := status.Normalize(raw)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, unknownStatusMessage(raw))
			return
		}
		filter.Status = canonical
	}
	filter.Search = r.URL.Query().Get("search")

	apps, err := s.store.ListApplications(r.Context(), filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, ListApplicationsResponse{
		Applications: apps,
		Count:        len(apps),
	})
}

// handleGetApplication returns a single application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateStatus moves an application to a new status and notifies the
// owner about the move.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	canonical, ok := status.Normalize(req.Status)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, unknownStatusMessage(req.Status))
		return
	}

	current, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if current == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	updated, err := s.store.UpdateStatus(r.Context(), id, canonical)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	if updated.Status != current.Status {
		if err := s.notifier.StatusChanged(updated, current.Status); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("failed to send status notification")
		}
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteApplication removes the application and its compiled PDFs.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := s.pipeline.Delete(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Delete failed: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAnalyzeEmail turns a pasted recruiter email into a status-change
// proposal. The proposal is returned to the caller; nothing is committed
// until the separate apply call.
func (s *Server) handleAnalyzeEmail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	var req AnalyzeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	proposal, err := s.analyzer.Analyze(r.Context(), email.ApplicationContext{
		Company:       app.Company,
		Position:      app.Position,
		CurrentStatus: app.Status,
	}, req.Text)
	if err != nil {
		if errors.Is(err, email.ErrEmptyEmail) {
			s.errorResponse(w, http.StatusBadRequest, "text is required")
			return
		}
		s.errorResponse(w, http.StatusBadGateway, "Email analysis unavailable: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, proposal)
}

// handleApplyEmailProposal commits a previously returned proposal: the
// application moves to the proposed status.
func (s *Server) handleApplyEmailProposal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var proposal types.EmailProposal
	if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	canonical, ok := status.Normalize(proposal.SuggestedStatus)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, unknownStatusMessage(proposal.SuggestedStatus))
		return
	}

	current, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if current == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	updated, err := s.store.UpdateStatus(r.Context(), id, canonical)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	if updated.Status != current.Status {
		if err := s.notifier.StatusChanged(updated, current.Status); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("failed to send status notification")
		}
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

func unknownStatusMessage(raw string) string {
	return fmt.Sprintf("Unknown status %q (valid: %s)", raw, strings.Join(status.All, ", "))
}
