/*
store.go - Persistence interface for the remote case record

PURPOSE:
  Defines the interface between the consolidation logic and the case
  store. The engine never caches a case across calls: every invocation
  re-fetches or is handed a fresh snapshot.

CONDITIONAL WRITES:
  Update carries the version observed at fetch time. A write whose
  version no longer matches fails with ErrConflict instead of silently
  clobbering a concurrent writer's append. The load-then-mutate path in
  commit.go retries on that conflict.

IMPLEMENTATIONS:
  - store/sqlite: durable store with a version column
  - ccd/store:    in-memory store for tests and dev
*/
package ccd

import (
	"context"

	"github.com/hmcts/sscs-pdf-email-common/idam"
)

// CaseStore persists case records.
type CaseStore interface {
	// Fetch loads the current case record. Returns ErrCaseNotFound for an
	// unknown id.
	Fetch(ctx context.Context, caseID int64, tokens idam.Tokens) (CaseDetails, error)

	// Update writes data conditionally on data.Version and records the
	// event with its audit summary and description. Returns ErrConflict
	// when the version no longer matches the stored record.
	Update(ctx context.Context, caseID int64, data CaseData, eventID, summary, description string, tokens idam.Tokens) (CaseDetails, error)
}
