package docman

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
)

// ErrEmptyDocument is returned when there are no bytes to store.
var ErrEmptyDocument = errors.New("empty document")

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory document store. Documents are addressable by the
// uuid minted at store time, mirroring the real store's URL scheme.
type Memory struct {
	mu      sync.RWMutex
	docs    map[string][]byte
	baseURL string
}

func NewMemory() *Memory {
	return &Memory{
		docs:    make(map[string][]byte),
		baseURL: "http://dm-store/documents",
	}
}

// Store persists content and returns a single stored-document reference.
func (m *Memory) Store(_ context.Context, content []byte, filename, documentType string) ([]StoredDocument, error) {
	if len(content) == 0 {
		return nil, ErrEmptyDocument
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.docs[id] = append([]byte(nil), content...)

	url := m.baseURL + "/" + id
	return []StoredDocument{{
		ID:   id,
		Type: documentType,
		Link: ccd.DocumentLink{
			DocumentURL:       url,
			DocumentBinaryURL: url + "/binary",
			DocumentFilename:  filename,
		},
	}}, nil
}

// Get returns the stored bytes for a document id.
func (m *Memory) Get(id string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.docs[id]
	return content, ok
}
