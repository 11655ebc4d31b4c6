/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal case model from the external API contract.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers returned to clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/pdf"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateCaseRequest seeds a new case record.
type CreateCaseRequest struct {
	CaseID                  int64  `json:"caseId"`
	CaseReference           string `json:"caseReference"`
	State                   string `json:"state"`
	LanguagePreferenceWelsh bool   `json:"languagePreferenceWelsh"`
}

// CorrespondenceRequest carries the delivery metadata of one communication.
type CorrespondenceRequest struct {
	SentOn             string `json:"sentOn"`
	EventType          string `json:"eventType"`
	CorrespondenceType string `json:"correspondenceType"`
	From               string `json:"from"`
	To                 string `json:"to"`
	Subject            string `json:"subject"`
	Body               string `json:"body"`
}

func (r CorrespondenceRequest) toDomain() (ccd.Correspondence, error) {
	ct := ccd.CorrespondenceType(r.CorrespondenceType)
	switch ct {
	case ccd.Email, ccd.Sms, ccd.Letter:
	default:
		return ccd.Correspondence{}, fmt.Errorf("invalid correspondenceType %q", r.CorrespondenceType)
	}
	if r.SentOn == "" || r.EventType == "" {
		return ccd.Correspondence{}, fmt.Errorf("sentOn and eventType are required")
	}
	return ccd.Correspondence{
		SentOn:             r.SentOn,
		EventType:          r.EventType,
		CorrespondenceType: ct,
		From:               r.From,
		To:                 r.To,
		Subject:            r.Subject,
		Body:               r.Body,
	}, nil
}

// LetterRequest carries an already-rendered letter. LetterPdf is base64 in
// JSON.
type LetterRequest struct {
	CorrespondenceRequest
	LetterPdf []byte `json:"letterPdf"`
}

// NamedPdf is one part of a multi-part letter.
type NamedPdf struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// AdjustmentLetterRequest routes a letter into a party's adjustment bucket.
// Either LetterPdf or Pdfs (combined in order) supplies the document.
type AdjustmentLetterRequest struct {
	LetterRequest
	Party  string     `json:"party"`
	Status string     `json:"reasonableAdjustmentStatus"`
	Pdfs   []NamedPdf `json:"pdfs"`
}

func (r AdjustmentLetterRequest) parts() []pdf.Pdf {
	if len(r.Pdfs) == 0 {
		return []pdf.Pdf{{Data: r.LetterPdf, Name: "letter"}}
	}
	parts := make([]pdf.Pdf, 0, len(r.Pdfs))
	for _, p := range r.Pdfs {
		parts = append(parts, pdf.Pdf{Data: p.Data, Name: p.Name})
	}
	return parts
}

// DocumentRequest attaches an arbitrary document to the case's evidence
// list.
type DocumentRequest struct {
	FileName     string `json:"fileName"`
	Content      []byte `json:"content"`
	DocumentType string `json:"documentType"`
	Description  string `json:"description"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// MergeResponse reports the outcome of one merge operation. Committed false
// with an error message means the evidence was stored but the case write
// failed (and was logged).
type MergeResponse struct {
	CaseID      int64  `json:"caseId"`
	Committed   bool   `json:"committed"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CaseResponse is a case record in API responses.
type CaseResponse struct {
	CaseID int64        `json:"caseId"`
	State  string       `json:"state"`
	Data   ccd.CaseData `json:"data"`
}

// EventResponse is one audit row.
type EventResponse struct {
	EventID     string `json:"eventId"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
