package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/status"
	"github.com/mathieu/apply-pilot/internal/types"
)

func seedApplication(id, company, appStatus string) *db.Application {
	return &db.Application{
		ID:       id,
		Company:  company,
		Position: "Data Engineer",
		Location: "Paris",
		Status:   appStatus,
		Language: "fr",
	}
}

func TestListApplications_Empty(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	w := httptest.NewRecorder()

	ts.handleListApplications(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListApplicationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)

	// An empty list must serialize as [], not null
	assert.Contains(t, w.Body.String(), `"applications":[]`)
}

func TestListApplications_StatusFilter(t *testing.T) {
	ts := newTestServer(t,
		seedApplication("aaaa1111", "Globex", "submitted"),
		seedApplication("bbbb2222", "Initech", "offer"),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/applications?status=offer", nil)
	w := httptest.NewRecorder()

	ts.handleListApplications(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListApplicationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Initech", resp.Applications[0].Company)
}

func TestListApplications_NormalizesStatusParam(t *testing.T) {
	ts := newTestServer(t,
		seedApplication("aaaa1111", "Globex", "interview_scheduled"),
	)

	// The dashboard sends display forms like "Interview Scheduled"
	req := httptest.NewRequest(http.MethodGet, "/api/applications?status=Interview%20Scheduled", nil)
	w := httptest.NewRecorder()

	ts.handleListApplications(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListApplicationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestListApplications_UnknownStatus(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/applications?status=ghosted", nil)
	w := httptest.NewRecorder()

	ts.handleListApplications(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown status")
}

func TestListApplications_Search(t *testing.T) {
	ts := newTestServer(t,
		seedApplication("aaaa1111", "Globex", "submitted"),
		seedApplication("bbbb2222", "Initech", "submitted"),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/applications?search=glob", nil)
	w := httptest.NewRecorder()

	ts.handleListApplications(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListApplicationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Globex", resp.Applications[0].Company)
}

func TestGetApplication_OK(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	req := httptest.NewRequest(http.MethodGet, "/api/applications/ab12cd34", nil)
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleGetApplication(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var app db.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, "Globex", app.Company)
	assert.Equal(t, "submitted", app.Status)
}

func TestGetApplication_NotFound(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/missing1", nil)
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleGetApplication(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func patchStatus(ts *testServer, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch,
		fmt.Sprintf("/api/applications/%s/status", id), bytes.NewBufferString(body))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	ts.handleUpdateStatus(w, req)
	return w
}

func TestUpdateStatus_AllKnownStatuses(t *testing.T) {
	for _, target := range status.All {
		t.Run(target, func(t *testing.T) {
			ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

			w := patchStatus(ts, "ab12cd34", fmt.Sprintf(`{"status": %q}`, target))

			require.Equal(t, http.StatusOK, w.Code)

			var app db.Application
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
			assert.Equal(t, target, app.Status)
			assert.Equal(t, target, ts.store.apps["ab12cd34"].Status)
		})
	}
}

func TestUpdateStatus_NormalizesInput(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	w := patchStatus(ts, "ab12cd34", `{"status": "Interview Scheduled"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "interview_scheduled", ts.store.apps["ab12cd34"].Status)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	w := patchStatus(ts, "ab12cd34", `{"status": "ghosted"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown status")

	// The stored row must be untouched
	assert.Equal(t, "submitted", ts.store.apps["ab12cd34"].Status)
}

func TestUpdateStatus_UnknownApplication(t *testing.T) {
	ts := newTestServer(t)

	w := patchStatus(ts, "missing1", `{"status": "offer"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatus_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	w := patchStatus(ts, "ab12cd34", `{invalid`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteApplication_RemovesRow(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	req := httptest.NewRequest(http.MethodDelete, "/api/applications/ab12cd34", nil)
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleDeleteApplication(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.NotContains(t, ts.store.apps, "ab12cd34")
}

func TestDeleteApplication_Unknown(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/applications/missing1", nil)
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleDeleteApplication(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeEmail_HeuristicRejection(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	body := `{"text": "Nous avons examiné votre candidature. Malheureusement, nous avons retenu d'autres candidatures."}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications/ab12cd34/email", bytes.NewBufferString(body))
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleAnalyzeEmail(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var proposal types.EmailProposal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &proposal))
	assert.Equal(t, "rejected", proposal.SuggestedStatus)
	assert.Greater(t, proposal.Confidence, 0.5)

	// The proposal alone must not move the application
	assert.Equal(t, "submitted", ts.store.apps["ab12cd34"].Status)
}

func TestAnalyzeEmail_EmptyText(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	body := `{"text": "   "}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications/ab12cd34/email", bytes.NewBufferString(body))
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleAnalyzeEmail(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "text is required")
}

func TestAnalyzeEmail_UnknownApplication(t *testing.T) {
	ts := newTestServer(t)

	body := `{"text": "Bonjour"}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications/missing1/email", bytes.NewBufferString(body))
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleAnalyzeEmail(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyEmailProposal_MovesStatus(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	body := `{"suggested_status": "interview_scheduled", "confidence": 0.9}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications/ab12cd34/email/apply", bytes.NewBufferString(body))
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleApplyEmailProposal(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var app db.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, "interview_scheduled", app.Status)
	assert.Equal(t, "interview_scheduled", ts.store.apps["ab12cd34"].Status)
}

func TestApplyEmailProposal_UnknownStatus(t *testing.T) {
	ts := newTestServer(t, seedApplication("ab12cd34", "Globex", "submitted"))

	body := `{"suggested_status": "ghosted"}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications/ab12cd34/email/apply", bytes.NewBufferString(body))
	req.SetPathValue("id", "ab12cd34")
	w := httptest.NewRecorder()

	ts.handleApplyEmailProposal(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "submitted", ts.store.apps["ab12cd34"].Status)
}

func TestApplyEmailProposal_UnknownApplication(t *testing.T) {
	ts := newTestServer(t)

	body := `{"suggested_status": "offer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications/missing1/email/apply", bytes.NewBufferString(body))
	req.SetPathValue("id", "missing1")
	w := httptest.NewRecorder()

	ts.handleApplyEmailProposal(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
