package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/staging"
	"github.com/mathieu/apply-pilot/internal/types"
)

func stageTestRecord(t *testing.T, ts *testServer, rec *staging.Record) {
	t.Helper()
	require.NoError(t, ts.staging.Put(context.Background(), rec))
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{invalid`))
	w := httptest.NewRecorder()

	ts.handleAnalyze(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_MissingURL(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	ts.handleAnalyze(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "url")
}

func TestAnalyze_RejectsNonHTTPURL(t *testing.T) {
	ts := newTestServer(t)

	for _, raw := range []string{"ftp://example.com/job", "not a url", "/relative/path", "http://"} {
		body, err := json.Marshal(AnalyzeRequest{URL: raw})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
		w := httptest.NewRecorder()

		ts.handleAnalyze(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "url %q should be rejected", raw)
	}
}

func TestPreviewEndpoint_Staged(t *testing.T) {
	ts := newTestServer(t)
	stageTestRecord(t, ts, &staging.Record{
		ID:        "ab12cd34",
		Posting:   &types.JobPosting{Title: "Data Engineer", Company: "Globex", Language: "fr"},
		Match:     &types.MatchResult{Score: 72},
		CV:        &types.CVDraft{Summary: "staged summary"},
		Cover:     &types.CoverDraft{Hook: "staged hook"},
		CreatedAt: time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/preview/ab12cd34", nil)
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handlePreview(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "staged summary", resp.CV.Summary)
	assert.Equal(t, "staged hook", resp.CoverLetter.Hook)
	assert.Equal(t, "Globex", resp.JobInfo.Company)
	assert.Equal(t, 72, resp.MatchScore)
}

func TestPreviewEndpoint_Unknown(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/preview/missing1", nil)
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handlePreview(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestFinalizeEndpoint_UnknownID(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/finalize/missing1", nil)
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleFinalize(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinalizeEndpoint_StagedWithoutDrafts(t *testing.T) {
	ts := newTestServer(t)
	// Analysis can stage a record whose draft composition failed; asking to
	// finalize it is a conflict, not a server fault.
	stageTestRecord(t, ts, &staging.Record{
		ID:        "ab12cd34",
		Posting:   &types.JobPosting{Title: "Data Engineer", Company: "Globex", Language: "fr"},
		CreatedAt: time.Now(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/finalize/ab12cd34", nil)
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleFinalize(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegenerateEndpoint_Unknown(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/applications/missing1/regenerate", nil)
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleRegenerate(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditDrafts_StoredDrafts(t *testing.T) {
	ts := newTestServer(t, &db.Application{
		ID:        "ab12cd34",
		Company:   "Globex",
		Position:  "Data Engineer",
		Status:    "submitted",
		Language:  "fr",
		CVData:    &types.CVDraft{Summary: "edited summary"},
		CoverData: &types.CoverDraft{Hook: "edited hook"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34/edit", nil)
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleEditDrafts(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp EditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "edited summary", resp.CV.Summary)
	assert.Equal(t, "edited hook", resp.CoverLetter.Hook)
}

func TestEditDrafts_ComposesDefaults(t *testing.T) {
	ts := newTestServer(t, &db.Application{
		ID:          "ab12cd34",
		Company:     "Globex",
		Position:    "Data Engineer",
		Status:      "submitted",
		Language:    "fr",
		Description: "Construire des pipelines Python sous Airflow.",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34/edit", nil)
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleEditDrafts(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp EditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.CV)
	require.NotNil(t, resp.CoverLetter)
	assert.NotEmpty(t, resp.CV.Summary)
	assert.NotEmpty(t, resp.CoverLetter.Hook)
}

func TestEditDrafts_Unknown(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/missing1/edit", nil)
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleEditDrafts(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload_UnknownApplication(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/missing1/download/cv", nil)
	req.SetPathValue("id", "missing1")
	req.SetPathValue("kind", "cv")
	w := httptest.NewRecorder()

	ts.handleDownload(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload_BadKind(t *testing.T) {
	ts := newTestServer(t, &db.Application{ID: "ab12cd34", Company: "Globex", Status: "submitted"})

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34/download/resume", nil)
	req.SetPathValue("id", "ab12cd34")
	req.SetPathValue("kind", "resume")
	w := httptest.NewRecorder()

	ts.handleDownload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cv or cover")
}

func TestDownload_NoDocumentGenerated(t *testing.T) {
	ts := newTestServer(t, &db.Application{ID: "ab12cd34", Company: "Globex", Status: "submitted"})

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34/download/cv", nil)
	req.SetPathValue("id", "ab12cd34")
	req.SetPathValue("kind", "cv")
	w := httptest.NewRecorder()

	ts.handleDownload(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload_MissingFile(t *testing.T) {
	ts := newTestServer(t, &db.Application{
		ID:      "ab12cd34",
		Company: "Globex",
		Status:  "submitted",
		CVPath:  filepath.Join(t.TempDir(), "gone.pdf"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34/download/cv", nil)
	req.SetPathValue("id", "ab12cd34")
	req.SetPathValue("kind", "cv")
	w := httptest.NewRecorder()

	ts.handleDownload(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "missing")
}

func TestDownload_ServesPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CV_Mathieu_Laurent_Globex.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

	ts := newTestServer(t, &db.Application{
		ID:      "ab12cd34",
		Company: "Globex",
		Status:  "submitted",
		CVPath:  path,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34/download/cv", nil)
	req.SetPathValue("id", "ab12cd34")
	req.SetPathValue("kind", "cv")
	w := httptest.NewRecorder()

	ts.handleDownload(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "CV_Mathieu_Laurent_Globex.pdf")
	assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
}

func TestDecodeDrafts_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/finalize/ab12cd34", nil)

	drafts, err := decodeDrafts(req)
	require.NoError(t, err)
	assert.Nil(t, drafts.CV)
	assert.Nil(t, drafts.CoverLetter)
}

func TestValidateJobURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://jobs.example.com/123", false},
		{"http://jobs.example.com/123", false},
		{"", true},
		{"ftp://example.com/job", true},
		{"not a url", true},
		{"http://", true},
	}

	for _, tt := range tests {
		err := validateJobURL(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "url %q", tt.raw)
		} else {
			assert.NoError(t, err, "url %q", tt.raw)
		}
	}
}
