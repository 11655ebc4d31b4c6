/*
engine.go - Correspondence consolidation engine

PURPOSE:
  Attaches outbound-communication evidence to a case as ordered,
  append-only correspondence history. One merge call per physical
  communication event: render (emails only), store the evidence
  document, fan the stored references into correspondence entries,
  append them to the ledger (and the party bucket for adjustment
  letters), and commit the mutated case.

STATE MACHINE (per invocation):
  Start -> DocumentsMaterialized -> LedgerUpdated
        -> (AdjustmentRouted) -> RemoteWriteAttempted
        -> Committed | Failed-Logged

ERROR TAXONOMY:
  - Render/store failures are returned as errors: without a stored
    document there is nothing to link, so the event cannot proceed.
  - PDF combination failures are logged and best-effort output is used.
  - Commit failures are logged and folded into the Outcome; they never
    interrupt the caller, because the communication already happened.

AT-MOST-ONCE MATERIALIZATION:
  Documents are stored exactly once per merge call, before the commit
  loop. Conflict retries reapply only the ledger mutation against a
  fresh snapshot; they never re-store the document.

SEE ALSO:
  - ccd/ledger.go: append and ordering rules
  - ccd/commit.go: the two commit shapes
*/
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/docman"
	"github.com/hmcts/sscs-pdf-email-common/pdf"
)

// Engine consolidates correspondence into the case record.
type Engine struct {
	Renderer  Renderer
	Documents docman.Store
	Updater   *ccd.Updater

	// Log defaults to slog.Default.
	Log *slog.Logger
}

// NewEngine wires the engine's collaborators.
func NewEngine(renderer Renderer, documents docman.Store, updater *ccd.Updater) *Engine {
	return &Engine{Renderer: renderer, Documents: documents, Updater: updater}
}

// =============================================================================
// EMAIL / SMS CORRESPONDENCE
// =============================================================================

// MergeCorrespondence renders the sent-notification evidence for c, stores
// it, appends the linked entries to the snapshot's ledger, and commits the
// snapshot. Render and store failures are returned; commit failures are
// reported through the Outcome only.
func (e *Engine) MergeCorrespondence(ctx context.Context, data ccd.CaseData, c ccd.Correspondence) (ccd.Outcome, error) {
	caseID, err := strconv.ParseInt(data.CcdCaseID, 10, 64)
	if err != nil {
		return ccd.Outcome{}, fmt.Errorf("%w: %q", ccd.ErrMissingCaseID, data.CcdCaseID)
	}

	entries, err := e.renderAndStore(ctx, data.IsLanguagePreferenceWelsh(), c)
	if err != nil {
		return ccd.Outcome{}, err
	}

	data.Correspondence = ccd.AppendCorrespondence(data.Correspondence, entries)
	data.NotificationResponse = responseFor(c)

	e.logMerged(caseID, c, entries)
	return e.Updater.SubmitSnapshot(ctx, data, caseID,
		EventNotificationSent, SummaryNotificationSent, DescriptionNotificationSent), nil
}

// MergeCorrespondenceByID is the load-then-mutate shape of
// MergeCorrespondence: the case is fetched immediately before the write and
// the append is reapplied on conflict retries.
func (e *Engine) MergeCorrespondenceByID(ctx context.Context, caseID int64, c ccd.Correspondence) (ccd.Outcome, error) {
	details, err := e.Updater.Load(ctx, caseID)
	if err != nil {
		return ccd.Outcome{}, err
	}

	entries, err := e.renderAndStore(ctx, details.Data.IsLanguagePreferenceWelsh(), c)
	if err != nil {
		return ccd.Outcome{}, err
	}

	e.logMerged(caseID, c, entries)
	outcome := e.Updater.SubmitWithMutation(ctx, caseID,
		EventNotificationSent, SummaryNotificationSent, DescriptionNotificationSent,
		func(d *ccd.CaseData) error {
			d.Correspondence = ccd.AppendCorrespondence(d.Correspondence, entries)
			d.NotificationResponse = responseFor(c)
			return nil
		})
	return outcome, nil
}

// =============================================================================
// LETTER CORRESPONDENCE
// =============================================================================

// MergeLetterCorrespondence stores an already-rendered letter and appends
// the linked entries to the case's ledger via load-then-mutate.
func (e *Engine) MergeLetterCorrespondence(ctx context.Context, letter []byte, caseID int64, c ccd.Correspondence) (ccd.Outcome, error) {
	entries, err := e.materialize(ctx, letter, c)
	if err != nil {
		return ccd.Outcome{}, err
	}

	e.logMerged(caseID, c, entries)
	outcome := e.Updater.SubmitWithMutation(ctx, caseID,
		EventNotificationSent, SummaryNotificationSent, DescriptionNotificationSent,
		func(d *ccd.CaseData) error {
			d.Correspondence = ccd.AppendCorrespondence(d.Correspondence, entries)
			d.NotificationResponse = responseFor(c)
			return nil
		})
	return outcome, nil
}

// =============================================================================
// REASONABLE ADJUSTMENT LETTERS
// =============================================================================

// MergeAdjustmentLetter stores an adjustment letter and routes the linked
// entries into the bucket for party, recomputing the outstanding flag.
func (e *Engine) MergeAdjustmentLetter(ctx context.Context, letter []byte, caseID int64, c ccd.Correspondence, party ccd.PartyKind) (ccd.Outcome, error) {
	entries, err := e.materialize(ctx, letter, c)
	if err != nil {
		return ccd.Outcome{}, err
	}

	e.logMerged(caseID, c, entries)
	outcome := e.Updater.SubmitWithMutation(ctx, caseID,
		EventStopBulkPrint, SummaryStopBulkPrint, DescriptionStopBulkPrint,
		func(d *ccd.CaseData) error {
			letters, err := ccd.Route(d.ReasonableAdjustmentsLetters, entries, party)
			if err != nil {
				return err
			}
			d.ReasonableAdjustmentsLetters = &letters
			d.ReasonableAdjustmentsOutstanding = letters.OutstandingFlag()
			return nil
		})
	return outcome, nil
}

// MergeAdjustmentLetterPdfs combines the letter parts into one document
// (best-effort) and merges the result.
func (e *Engine) MergeAdjustmentLetterPdfs(ctx context.Context, pdfs []pdf.Pdf, caseID int64, c ccd.Correspondence, party ccd.PartyKind) (ccd.Outcome, error) {
	return e.MergeAdjustmentLetter(ctx, pdf.Combine(pdfs), caseID, c, party)
}

// =============================================================================
// EVIDENCE DOCUMENTS (not correspondence)
// =============================================================================

// MergeDocument stores an arbitrary document and attaches it to the case's
// evidence list. caseID zero means "no case yet": the document is stored but
// the remote write is skipped and the input data returned unchanged. An
// empty description falls back to the fixed upload description.
func (e *Engine) MergeDocument(ctx context.Context, filename string, content []byte, caseID int64, data ccd.CaseData, description, documentType string) (ccd.CaseData, ccd.Outcome, error) {
	docs, err := e.Documents.Store(ctx, content, filename, documentType)
	if err != nil {
		return data, ccd.Outcome{}, fmt.Errorf("store document %q: %w", filename, err)
	}

	if caseID == 0 {
		e.log().Info("no case id - skipping step to update ccd with document",
			"filename", filename)
		return data, ccd.Outcome{}, nil
	}

	attached := make([]ccd.CaseDocument, 0, len(data.SscsDocuments)+len(docs))
	attached = append(attached, data.SscsDocuments...)
	for _, doc := range docs {
		attached = append(attached, ccd.CaseDocument{
			DocumentType:     doc.Type,
			DocumentFileName: doc.Link.DocumentFilename,
			DocumentLink:     doc.Link,
		})
	}
	data.SscsDocuments = attached

	if description == "" {
		description = DefaultUploadDocumentDescription
	}
	outcome := e.Updater.SubmitSnapshot(ctx, data, caseID,
		EventUploadDocument, SummaryUploadDocument, description)
	return data, outcome, nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// renderAndStore renders the sent-notification evidence and materializes it.
func (e *Engine) renderAndStore(ctx context.Context, welsh bool, c ccd.Correspondence) ([]ccd.Correspondence, error) {
	tmpl, err := sentEmailTemplate(welsh)
	if err != nil {
		return nil, err
	}

	rendered, err := e.Renderer.Render(ctx, tmpl, Placeholders{
		Body:    c.Body,
		Subject: c.Subject,
		SentOn:  c.SentOn,
		From:    c.From,
		To:      c.To,
	})
	if err != nil {
		return nil, fmt.Errorf("render notification: %w", err)
	}
	return e.materialize(ctx, rendered, c)
}

// materialize stores the document bytes and fans the returned references
// into one linked correspondence entry per stored document.
func (e *Engine) materialize(ctx context.Context, content []byte, c ccd.Correspondence) ([]ccd.Correspondence, error) {
	filename := docman.Filename(c.EventType, c.SentOn)
	docs, err := e.Documents.Store(ctx, content, filename, string(c.CorrespondenceType))
	if err != nil {
		return nil, fmt.Errorf("store document %q: %w", filename, err)
	}

	entries := make([]ccd.Correspondence, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, c.WithDocumentLink(doc.Link))
	}
	return entries, nil
}

func responseFor(c ccd.Correspondence) *ccd.NotificationResponse {
	return &ccd.NotificationResponse{
		CorrespondenceType: c.CorrespondenceType,
		SentOn:             c.SentOn,
		EventType:          c.EventType,
	}
}

func (e *Engine) logMerged(caseID int64, c ccd.Correspondence, entries []ccd.Correspondence) {
	e.log().Info("correspondence evidence stored",
		"case_id", caseID,
		"summary", DeliverySummary(c),
		"documents", DocumentBullets(entries),
	)
}

func (e *Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}
