/*
errors.go - Centralized error types for the ccd package

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Collaborating packages wrap these with additional context.

ERROR CATEGORIES:
  1. Store errors - case fetch/write failures
  2. Routing errors - invalid party discriminator
  3. Concurrency errors - optimistic-lock conflicts

USAGE:
  if errors.Is(err, ccd.ErrConflict) {
      // stale snapshot, re-fetch and reapply
  }
*/
package ccd

import "errors"

var (
	// ErrCaseNotFound is returned when the case id is unknown to the store.
	ErrCaseNotFound = errors.New("case not found")

	// ErrConflict is returned when a conditional write loses against a
	// concurrent writer. The load-then-mutate path retries on this.
	ErrConflict = errors.New("case version conflict")

	// ErrUnknownParty is returned when an adjustment letter is routed to a
	// party outside the five known kinds.
	ErrUnknownParty = errors.New("unknown adjustment letter party")

	// ErrMissingCaseID is returned when an operation needs a numeric case id
	// and the case data carries none.
	ErrMissingCaseID = errors.New("missing ccd case id")
)
