/*
Package ccd models the slice of the case record this engine touches.

PURPOSE:
  This package contains the case-record types and algorithms for the
  correspondence consolidation engine: the correspondence ledger, the
  reasonable-adjustment party buckets, and the commit protocol against
  the remote case store.

KEY CONCEPTS IN THIS FILE (types.go):
  - Correspondence: an immutable record of one outbound communication
  - DocumentLink: reference to a stored evidence document
  - ReasonableAdjustmentLetters: per-party buckets for adjustment letters
  - CaseData: the fields of the case record this engine reads and writes

DESIGN PRINCIPLES:
  1. Immutability: a correspondence entry is never edited once its
     document link is set; new state is a new entry
  2. Append-only: correspondence history only grows
  3. Type safety: the party discriminator is a closed five-value type

SEE ALSO:
  - ledger.go: ordering and append rules for the correspondence list
  - adjustments.go: routing into the per-party buckets
  - commit.go: the remote read-modify-write protocol
*/
package ccd

// =============================================================================
// ENUMS
// =============================================================================

// YesNo mirrors the case store's string-typed boolean fields.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// CorrespondenceType identifies the outbound channel.
type CorrespondenceType string

const (
	Email  CorrespondenceType = "Email"
	Sms    CorrespondenceType = "Sms"
	Letter CorrespondenceType = "Letter"
)

// ReasonableAdjustmentStatus marks letters held back for an accessibility
// adjustment. Empty for ordinary correspondence.
type ReasonableAdjustmentStatus string

const (
	AdjustmentRequired ReasonableAdjustmentStatus = "required"
	AdjustmentActioned ReasonableAdjustmentStatus = "actioned"
)

// PartyKind is the closed set of recipients an adjustment letter can be
// addressed to. Any other value is rejected by Route.
type PartyKind string

const (
	PartyAppellant      PartyKind = "appellant"
	PartyAppointee      PartyKind = "appointee"
	PartyRepresentative PartyKind = "representative"
	PartyJointParty     PartyKind = "jointParty"
	PartyOtherParty     PartyKind = "otherParty"
)

// AllPartyKinds lists the five valid party kinds.
var AllPartyKinds = []PartyKind{
	PartyAppellant,
	PartyAppointee,
	PartyRepresentative,
	PartyJointParty,
	PartyOtherParty,
}

// =============================================================================
// DOCUMENT REFERENCES
// =============================================================================

// DocumentLink points at a document held by the document store.
type DocumentLink struct {
	DocumentURL       string `json:"documentUrl"`
	DocumentBinaryURL string `json:"documentBinaryUrl"`
	DocumentFilename  string `json:"documentFilename"`
}

// CaseDocument is an entry in the case's evidence document list.
// Distinct from correspondence: evidence documents carry no delivery
// metadata, only the link and a type tag.
type CaseDocument struct {
	DocumentType     string       `json:"documentType,omitempty"`
	DocumentFileName string       `json:"documentFileName"`
	DocumentLink     DocumentLink `json:"documentLink"`
}

// =============================================================================
// CORRESPONDENCE - One outbound communication, linked to its evidence
// =============================================================================

// Correspondence records one outbound communication. Values are immutable:
// once the document link is set the entry is never edited again.
type Correspondence struct {
	// SentOn is the delivery timestamp in the fixed "2 Jan 2006 15:04" format.
	SentOn string `json:"sentOn"`

	// EventType tags the business event that triggered the communication.
	EventType string `json:"eventType"`

	CorrespondenceType CorrespondenceType `json:"correspondenceType"`

	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// Subject and Body are set for emails only.
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	// DocumentLink is absent before storage and present after.
	DocumentLink *DocumentLink `json:"documentLink,omitempty"`

	// ReasonableAdjustmentStatus is set only for adjustment letters.
	ReasonableAdjustmentStatus ReasonableAdjustmentStatus `json:"reasonableAdjustmentStatus,omitempty"`
}

// WithDocumentLink returns a copy of the entry linked to a stored document.
// The receiver is left untouched.
func (c Correspondence) WithDocumentLink(link DocumentLink) Correspondence {
	c.DocumentLink = &link
	return c
}

// =============================================================================
// REASONABLE ADJUSTMENT LETTERS - Five per-party buckets
// =============================================================================

// ReasonableAdjustmentLetters holds adjustment letters bucketed by recipient
// party. Each bucket is independently ordered newest-first, like the main
// correspondence ledger.
type ReasonableAdjustmentLetters struct {
	Appellant      []Correspondence `json:"appellant,omitempty"`
	Appointee      []Correspondence `json:"appointee,omitempty"`
	Representative []Correspondence `json:"representative,omitempty"`
	JointParty     []Correspondence `json:"jointParty,omitempty"`
	OtherParty     []Correspondence `json:"otherParty,omitempty"`
}

// =============================================================================
// CASE RECORD
// =============================================================================

// NotificationResponse summarises the most recent correspondence for
// downstream auditing.
type NotificationResponse struct {
	CorrespondenceType CorrespondenceType `json:"correspondenceType"`
	SentOn             string             `json:"sentOn"`
	EventType          string             `json:"eventType"`
}

// CaseData is the in-memory copy of the case record. The case itself is
// owned by the remote store; this engine mutates a copy and hands it back.
type CaseData struct {
	CcdCaseID               string `json:"ccdCaseId"`
	CaseReference           string `json:"caseReference,omitempty"`
	LanguagePreferenceWelsh YesNo  `json:"languagePreferenceWelsh,omitempty"`

	// Correspondence is the case-wide ledger, strictly descending by SentOn.
	Correspondence []Correspondence `json:"correspondence,omitempty"`

	ReasonableAdjustmentsLetters     *ReasonableAdjustmentLetters `json:"reasonableAdjustmentsLetters,omitempty"`
	ReasonableAdjustmentsOutstanding YesNo                        `json:"reasonableAdjustmentsOutstanding,omitempty"`

	NotificationResponse *NotificationResponse `json:"notificationResponse,omitempty"`

	// SscsDocuments is the case's evidence document list, separate from
	// the correspondence ledger.
	SscsDocuments []CaseDocument `json:"sscsDocuments,omitempty"`

	// Version is the optimistic-concurrency token observed at fetch time.
	// The store rejects a write whose version no longer matches.
	Version int64 `json:"-"`
}

// IsLanguagePreferenceWelsh reports whether notifications for this case are
// rendered from the Welsh templates.
func (d CaseData) IsLanguagePreferenceWelsh() bool {
	return d.LanguagePreferenceWelsh == Yes
}

// CaseDetails is a case record as returned by the case store.
type CaseDetails struct {
	ID    int64
	State string
	Data  CaseData
}
