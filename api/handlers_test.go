package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/sscs-pdf-email-common/api"
	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/docman"
	"github.com/hmcts/sscs-pdf-email-common/idam"
	"github.com/hmcts/sscs-pdf-email-common/notifications"
	"github.com/hmcts/sscs-pdf-email-common/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens := idam.Static{Bundle: idam.Tokens{ServiceAuthToken: "token", UserID: "u"}}
	updater := ccd.NewUpdater(store, tokens)
	engine := notifications.NewEngine(notifications.PassthroughRenderer{}, docman.NewMemory(), updater)

	server := httptest.NewServer(api.NewRouter(api.NewHandler(engine, updater, store)))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createCase(t *testing.T, server *httptest.Server, caseID int64) {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/cases", map[string]any{
		"caseId":        caseID,
		"caseReference": "SC123/45/67890",
		"state":         "appealCreated",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func correspondenceBody() map[string]any {
	return map[string]any{
		"sentOn":             "22 Jan 2021 11:00",
		"eventType":          "event",
		"correspondenceType": "Email",
		"from":               "from",
		"to":                 "to",
		"subject":            "a subject",
		"body":               "the body",
	}
}

// =============================================================================
// CASE LIFECYCLE
// =============================================================================

func TestAPI_CreateAndGetCase(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	resp, err := http.Get(server.URL + "/api/cases/123")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got api.CaseResponse
	decodeInto(t, resp, &got)
	assert.Equal(t, int64(123), got.CaseID)
	assert.Equal(t, "appealCreated", got.State)
	assert.Equal(t, "SC123/45/67890", got.Data.CaseReference)
	assert.Empty(t, got.Data.Correspondence)
}

func TestAPI_GetUnknownCaseIs404(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/cases/999")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateCaseRequiresCaseID(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/cases", map[string]any{"state": "appealCreated"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// CORRESPONDENCE
// =============================================================================

func TestAPI_MergeCorrespondence(t *testing.T) {
	// GIVEN: A seeded case
	// WHEN: A sent email is merged
	// THEN: The response reports a committed merge and the case record holds
	//       one linked ledger entry plus the audit event

	server := newTestServer(t)
	createCase(t, server, 123)

	resp := postJSON(t, server.URL+"/api/cases/123/correspondence", correspondenceBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var merge api.MergeResponse
	decodeInto(t, resp, &merge)
	assert.True(t, merge.Committed)
	assert.Equal(t, "event Email Notification Successfully Sent to to", merge.Summary)
	assert.Contains(t, merge.Description, "event 22 Jan 2021 11:00.pdf")
	assert.Empty(t, merge.Error)

	caseResp, err := http.Get(server.URL + "/api/cases/123")
	require.NoError(t, err)
	defer caseResp.Body.Close()

	var got api.CaseResponse
	decodeInto(t, caseResp, &got)
	require.Len(t, got.Data.Correspondence, 1)
	entry := got.Data.Correspondence[0]
	assert.Equal(t, "22 Jan 2021 11:00", entry.SentOn)
	require.NotNil(t, entry.DocumentLink)
	assert.Equal(t, "event 22 Jan 2021 11:00.pdf", entry.DocumentLink.DocumentFilename)

	eventsResp, err := http.Get(server.URL + "/api/cases/123/events")
	require.NoError(t, err)
	defer eventsResp.Body.Close()

	var events []api.EventResponse
	decodeInto(t, eventsResp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "notificationSent", events[0].EventID)
	assert.Equal(t, "Notification sent via Gov Notify", events[0].Description)
}

func TestAPI_MergeCorrespondenceOrdersLedgerNewestFirst(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	older := correspondenceBody()
	older["sentOn"] = "22 Oct 2020 11:33"
	require.Equal(t, http.StatusOK, postJSON(t, server.URL+"/api/cases/123/correspondence", older).StatusCode)
	require.Equal(t, http.StatusOK, postJSON(t, server.URL+"/api/cases/123/correspondence", correspondenceBody()).StatusCode)

	caseResp, err := http.Get(server.URL + "/api/cases/123")
	require.NoError(t, err)
	defer caseResp.Body.Close()

	var got api.CaseResponse
	decodeInto(t, caseResp, &got)
	require.Len(t, got.Data.Correspondence, 2)
	assert.Equal(t, "22 Jan 2021 11:00", got.Data.Correspondence[0].SentOn)
	assert.Equal(t, "22 Oct 2020 11:33", got.Data.Correspondence[1].SentOn)
}

func TestAPI_MergeCorrespondenceRejectsBadType(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	body := correspondenceBody()
	body["correspondenceType"] = "Fax"
	resp := postJSON(t, server.URL+"/api/cases/123/correspondence", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_MergeCorrespondenceUnknownCaseIs404(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/cases/999/correspondence", correspondenceBody())

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// LETTERS
// =============================================================================

func TestAPI_MergeLetter(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	body := correspondenceBody()
	body["correspondenceType"] = "Letter"
	body["letterPdf"] = []byte("letter pdf bytes")
	resp := postJSON(t, server.URL+"/api/cases/123/letters", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var merge api.MergeResponse
	decodeInto(t, resp, &merge)
	assert.True(t, merge.Committed)

	caseResp, err := http.Get(server.URL + "/api/cases/123")
	require.NoError(t, err)
	defer caseResp.Body.Close()

	var got api.CaseResponse
	decodeInto(t, caseResp, &got)
	require.Len(t, got.Data.Correspondence, 1)
	assert.Equal(t, ccd.Letter, got.Data.Correspondence[0].CorrespondenceType)
}

func TestAPI_MergeLetterRequiresPdf(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	body := correspondenceBody()
	body["correspondenceType"] = "Letter"
	resp := postJSON(t, server.URL+"/api/cases/123/letters", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// ADJUSTMENT LETTERS
// =============================================================================

func TestAPI_MergeAdjustmentLetter(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	body := correspondenceBody()
	body["correspondenceType"] = "Letter"
	body["letterPdf"] = []byte("letter pdf bytes")
	body["party"] = "appellant"
	resp := postJSON(t, server.URL+"/api/cases/123/adjustment-letters", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var merge api.MergeResponse
	decodeInto(t, resp, &merge)
	assert.True(t, merge.Committed)

	caseResp, err := http.Get(server.URL + "/api/cases/123")
	require.NoError(t, err)
	defer caseResp.Body.Close()

	var got api.CaseResponse
	decodeInto(t, caseResp, &got)
	require.NotNil(t, got.Data.ReasonableAdjustmentsLetters)
	require.Len(t, got.Data.ReasonableAdjustmentsLetters.Appellant, 1)
	assert.Equal(t, ccd.AdjustmentRequired, got.Data.ReasonableAdjustmentsLetters.Appellant[0].ReasonableAdjustmentStatus)
	assert.Equal(t, ccd.Yes, got.Data.ReasonableAdjustmentsOutstanding)
	assert.Empty(t, got.Data.Correspondence, "adjustment letters live in their bucket, not the main ledger")

	eventsResp, err := http.Get(server.URL + "/api/cases/123/events")
	require.NoError(t, err)
	defer eventsResp.Body.Close()

	var events []api.EventResponse
	decodeInto(t, eventsResp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "stopBulkPrintForReasonableAdjustment", events[0].EventID)
}

func TestAPI_MergeAdjustmentLetterUnknownPartyIs400(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	body := correspondenceBody()
	body["correspondenceType"] = "Letter"
	body["letterPdf"] = []byte("letter pdf bytes")
	body["party"] = "landlord"
	resp := postJSON(t, server.URL+"/api/cases/123/adjustment-letters", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestAPI_MergeDocument(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	resp := postJSON(t, server.URL+"/api/cases/123/documents", map[string]any{
		"fileName":     "Evidence.pdf",
		"content":      []byte("evidence"),
		"documentType": "appellantEvidence",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var merge api.MergeResponse
	decodeInto(t, resp, &merge)
	assert.True(t, merge.Committed)

	caseResp, err := http.Get(server.URL + "/api/cases/123")
	require.NoError(t, err)
	defer caseResp.Body.Close()

	var got api.CaseResponse
	decodeInto(t, caseResp, &got)
	require.Len(t, got.Data.SscsDocuments, 1)
	assert.Equal(t, "Evidence.pdf", got.Data.SscsDocuments[0].DocumentFileName)

	eventsResp, err := http.Get(server.URL + "/api/cases/123/events")
	require.NoError(t, err)
	defer eventsResp.Body.Close()

	var events []api.EventResponse
	decodeInto(t, eventsResp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "uploadDocument", events[0].EventID)
	assert.Equal(t, "Uploaded document into SSCS", events[0].Description)
}

func TestAPI_MergeDocumentRequiresContent(t *testing.T) {
	server := newTestServer(t)
	createCase(t, server, 123)

	resp := postJSON(t, server.URL+"/api/cases/123/documents", map[string]any{"fileName": "Evidence.pdf"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_InvalidCaseIDParamIs400(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/api/cases/abc", "/api/cases/0"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, fmt.Sprintf("path %s", path))
	}
}
