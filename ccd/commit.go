/*
commit.go - Read-modify-write protocol against the remote case store

PURPOSE:
  Wraps the case store behind the two commit shapes the engine needs:
  a single conditional write of an already-held snapshot, and a
  load-then-mutate write that fetches immediately before writing.

FAILURE SEMANTICS:
  A failed commit must never crash the calling workflow: by the time we
  write, the communication was already sent and its evidence already
  stored, and those side effects cannot be re-done. Commit failures are
  therefore logged with full context and folded into the Outcome rather
  than returned as errors. Callers that care inspect Outcome.Err.

CONCURRENCY:
  The load-then-mutate path closes the lost-update window with a
  bounded retry: on ErrConflict it re-fetches the case and reapplies
  the mutation against the fresh snapshot. The snapshot path does not
  retry - the caller owns the snapshot and must decide how to rebuild
  it - so a conflict there surfaces through the Outcome.

SEE ALSO:
  - store.go: the conditional-write contract
  - ccd/store/memory.go: in-memory store used by the tests
*/
package ccd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hmcts/sscs-pdf-email-common/idam"
)

// defaultMaxAttempts bounds conflict retries on the load-then-mutate path.
const defaultMaxAttempts = 3

// Outcome is the result of a commit attempt. Committed reports whether the
// write landed; Err carries the logged cause when it did not. A failed
// commit is observable here but is never raised to the caller.
type Outcome struct {
	Committed bool
	Details   CaseDetails
	Err       error
}

// Updater drives both commit shapes against a case store.
type Updater struct {
	Store  CaseStore
	Tokens idam.TokenProvider

	// MaxAttempts bounds conflict retries for SubmitWithMutation.
	// Zero means defaultMaxAttempts.
	MaxAttempts int

	// Log defaults to slog.Default.
	Log *slog.Logger
}

// NewUpdater creates an Updater with default retry and logging settings.
func NewUpdater(store CaseStore, tokens idam.TokenProvider) *Updater {
	return &Updater{Store: store, Tokens: tokens}
}

// Load fetches the current case record, acquiring a token bundle first.
func (u *Updater) Load(ctx context.Context, caseID int64) (CaseDetails, error) {
	tokens, err := u.Tokens.Tokens(ctx)
	if err != nil {
		return CaseDetails{}, fmt.Errorf("acquire tokens: %w", err)
	}
	details, err := u.Store.Fetch(ctx, caseID, tokens)
	if err != nil {
		return CaseDetails{}, fmt.Errorf("fetch case %d: %w", caseID, err)
	}
	return details, nil
}

// SubmitSnapshot issues a single conditional write carrying the caller's
// mutated snapshot. A store failure, conflicts included, is logged and
// folded into the Outcome.
func (u *Updater) SubmitSnapshot(ctx context.Context, data CaseData, caseID int64, eventID, summary, description string) Outcome {
	tokens, err := u.Tokens.Tokens(ctx)
	if err != nil {
		return u.failed(caseID, data.CaseReference, eventID, fmt.Errorf("acquire tokens: %w", err))
	}

	details, err := u.Store.Update(ctx, caseID, data, eventID, summary, description, tokens)
	if err != nil {
		return u.failed(caseID, data.CaseReference, eventID, err)
	}
	return Outcome{Committed: true, Details: details}
}

// SubmitWithMutation fetches the current case, applies mutate to the fresh
// copy, and writes it back, retrying the whole fetch-mutate-write cycle on
// version conflict. A mutation error aborts without writing; store failures
// are logged and folded into the Outcome.
func (u *Updater) SubmitWithMutation(ctx context.Context, caseID int64, eventID, summary, description string, mutate func(*CaseData) error) Outcome {
	tokens, err := u.Tokens.Tokens(ctx)
	if err != nil {
		return u.failed(caseID, "", eventID, fmt.Errorf("acquire tokens: %w", err))
	}

	attempts := u.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var lastErr error
	reference := ""
	for attempt := 1; attempt <= attempts; attempt++ {
		details, err := u.Store.Fetch(ctx, caseID, tokens)
		if err != nil {
			return u.failed(caseID, reference, eventID, fmt.Errorf("fetch case: %w", err))
		}

		data := details.Data
		reference = data.CaseReference
		if err := mutate(&data); err != nil {
			return u.failed(caseID, reference, eventID, fmt.Errorf("apply mutation: %w", err))
		}

		updated, err := u.Store.Update(ctx, caseID, data, eventID, summary, description, tokens)
		if err == nil {
			return Outcome{Committed: true, Details: updated}
		}
		lastErr = err
		if !errors.Is(err, ErrConflict) {
			break
		}
	}
	return u.failed(caseID, reference, eventID, lastErr)
}

// failed logs the commit failure with full context and carries on.
func (u *Updater) failed(caseID int64, reference, eventID string, err error) Outcome {
	log := u.Log
	if log == nil {
		log = slog.Default()
	}
	log.Error("failed to update ccd case but carrying on",
		"case_id", caseID,
		"case_reference", reference,
		"event_id", eventID,
		"error", err,
	)
	return Outcome{Err: err}
}
