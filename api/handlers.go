/*
handlers.go - HTTP handlers for the consolidation endpoints

PURPOSE:
  Implements the HTTP surface over the consolidation engine. Handlers
  decode and validate requests, call the engine, and shape responses.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Case not found
  - 500: Render/storage errors (fatal to the event)

  A failed case commit is NOT an HTTP error: the evidence was stored and
  the failure was logged, so the response is 200 with committed=false.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/notifications"
	"github.com/hmcts/sscs-pdf-email-common/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine  *notifications.Engine
	Updater *ccd.Updater
	Store   *sqlite.Store
}

// NewHandler creates a new handler.
func NewHandler(engine *notifications.Engine, updater *ccd.Updater, store *sqlite.Store) *Handler {
	return &Handler{Engine: engine, Updater: updater, Store: store}
}

// =============================================================================
// CASE HANDLERS
// =============================================================================

// CreateCase seeds a new case record.
// POST /api/cases
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CaseID == 0 {
		writeError(w, http.StatusBadRequest, "caseId is required", nil)
		return
	}

	welsh := ccd.No
	if req.LanguagePreferenceWelsh {
		welsh = ccd.Yes
	}
	data := ccd.CaseData{
		CcdCaseID:               strconv.FormatInt(req.CaseID, 10),
		CaseReference:           req.CaseReference,
		LanguagePreferenceWelsh: welsh,
	}

	details, err := h.Store.Create(r.Context(), req.CaseID, req.State, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create case", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCaseResponse(details))
}

// GetCase returns the current case record.
// GET /api/cases/{caseId}
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	details, err := h.Updater.Load(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, ccd.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load case", err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseResponse(details))
}

// ListEvents returns the audit rows for a case.
// GET /api/cases/{caseId}/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	events, err := h.Store.Events(r.Context(), caseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events", err)
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			EventID:     e.EventID,
			Summary:     e.Summary,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// MERGE HANDLERS
// =============================================================================

// MergeCorrespondence consolidates an email/SMS communication event.
// POST /api/cases/{caseId}/correspondence
func (h *Handler) MergeCorrespondence(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	var req CorrespondenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	c, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid correspondence", err)
		return
	}

	outcome, err := h.Engine.MergeCorrespondenceByID(r.Context(), caseID, c)
	if err != nil {
		writeMergeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMergeResponse(caseID, c, outcome))
}

// MergeLetter consolidates an already-rendered letter.
// POST /api/cases/{caseId}/letters
func (h *Handler) MergeLetter(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	var req LetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	c, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid correspondence", err)
		return
	}
	if len(req.LetterPdf) == 0 {
		writeError(w, http.StatusBadRequest, "letterPdf is required", nil)
		return
	}

	outcome, err := h.Engine.MergeLetterCorrespondence(r.Context(), req.LetterPdf, caseID, c)
	if err != nil {
		writeMergeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMergeResponse(caseID, c, outcome))
}

// MergeAdjustmentLetter routes an adjustment letter into a party bucket.
// POST /api/cases/{caseId}/adjustment-letters
func (h *Handler) MergeAdjustmentLetter(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	var req AdjustmentLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	c, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid correspondence", err)
		return
	}
	c.ReasonableAdjustmentStatus = ccd.ReasonableAdjustmentStatus(req.Status)
	if c.ReasonableAdjustmentStatus == "" {
		c.ReasonableAdjustmentStatus = ccd.AdjustmentRequired
	}

	party := ccd.PartyKind(req.Party)
	outcome, err := h.Engine.MergeAdjustmentLetterPdfs(r.Context(), req.parts(), caseID, c, party)
	if err != nil {
		if errors.Is(err, ccd.ErrUnknownParty) {
			writeError(w, http.StatusBadRequest, "unknown party", err)
			return
		}
		writeMergeError(w, err)
		return
	}
	// Route rejects an unknown party inside the mutation, after the
	// document was already stored; surface it as a client error.
	if outcome.Err != nil && errors.Is(outcome.Err, ccd.ErrUnknownParty) {
		writeError(w, http.StatusBadRequest, "unknown party", outcome.Err)
		return
	}
	writeJSON(w, http.StatusOK, toMergeResponse(caseID, c, outcome))
}

// MergeDocument attaches an arbitrary document to the case's evidence list.
// POST /api/cases/{caseId}/documents
func (h *Handler) MergeDocument(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.FileName == "" || len(req.Content) == 0 {
		writeError(w, http.StatusBadRequest, "fileName and content are required", nil)
		return
	}

	details, err := h.Updater.Load(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, ccd.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load case", err)
		return
	}

	_, outcome, err := h.Engine.MergeDocument(r.Context(), req.FileName, req.Content, caseID, details.Data, req.Description, req.DocumentType)
	if err != nil {
		writeMergeError(w, err)
		return
	}
	resp := MergeResponse{CaseID: caseID, Committed: outcome.Committed}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func caseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	caseID, err := strconv.ParseInt(chi.URLParam(r, "caseId"), 10, 64)
	if err != nil || caseID == 0 {
		writeError(w, http.StatusBadRequest, "invalid case id", err)
		return 0, false
	}
	return caseID, true
}

func toCaseResponse(details ccd.CaseDetails) CaseResponse {
	return CaseResponse{CaseID: details.ID, State: details.State, Data: details.Data}
}

func toMergeResponse(caseID int64, c ccd.Correspondence, outcome ccd.Outcome) MergeResponse {
	resp := MergeResponse{
		CaseID:      caseID,
		Committed:   outcome.Committed,
		Summary:     notifications.DeliverySummary(c),
		Description: notifications.DocumentBullets(mergedEntries(outcome.Details.Data, c)),
	}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	return resp
}

// mergedEntries picks the entries this merge produced out of the committed
// snapshot: same event, same timestamp, document link present.
func mergedEntries(data ccd.CaseData, c ccd.Correspondence) []ccd.Correspondence {
	lists := [][]ccd.Correspondence{data.Correspondence}
	if data.ReasonableAdjustmentsLetters != nil {
		for _, party := range ccd.AllPartyKinds {
			lists = append(lists, data.ReasonableAdjustmentsLetters.Bucket(party))
		}
	}

	var merged []ccd.Correspondence
	for _, list := range lists {
		for _, entry := range list {
			if entry.EventType == c.EventType && entry.SentOn == c.SentOn && entry.DocumentLink != nil {
				merged = append(merged, entry)
			}
		}
	}
	return merged
}

func writeMergeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ccd.ErrCaseNotFound) {
		writeError(w, http.StatusNotFound, "case not found", nil)
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to store evidence", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
