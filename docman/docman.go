/*
Package docman talks to the evidence document store.

PURPOSE:
  The document store is the durable home of the evidence bytes. Storing
  a document is the one step of consolidation that must succeed: without
  a stored document there is nothing to link into the correspondence
  ledger, so store failures surface as errors instead of being swallowed
  like commit failures are.

FAN-OUT:
  One store call may return several stored documents (the store can
  shard or convert the upload). Callers create one correspondence entry
  per returned document, all sharing the same business metadata.
*/
package docman

import (
	"context"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
)

// StoredDocument is the store's reference to one persisted document.
type StoredDocument struct {
	ID   string
	Type string
	Link ccd.DocumentLink
}

// Store persists document bytes. Storage is durable once Store returns nil.
type Store interface {
	// Store persists content under filename with a category tag and
	// returns one reference per physical document created.
	Store(ctx context.Context, content []byte, filename, documentType string) ([]StoredDocument, error)
}
