package docman_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/sscs-pdf-email-common/docman"
)

// =============================================================================
// FILENAME NORMALIZATION
// =============================================================================

func TestNormalizeEventType(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		want      string
	}{
		{"dwp prefix stripped and case folded", "dwpUploadResponse", "uploadResponse"},
		{"no prefix unchanged", "hearingBooked", "hearingBooked"},
		{"prefix alone unchanged", "dwp", "dwp"},
		{"prefix mid-word untouched", "sentDwpResponse", "sentDwpResponse"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, docman.NormalizeEventType(tt.eventType))
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "event 22 Jan 2021 11:00.pdf", docman.Filename("event", "22 Jan 2021 11:00"))
	assert.Equal(t, "uploadResponse 22 Jan 2021 11:00.pdf", docman.Filename("dwpUploadResponse", "22 Jan 2021 11:00"))
}

// =============================================================================
// MEMORY STORE
// =============================================================================

func TestMemoryStore_ReturnsLinkedReference(t *testing.T) {
	store := docman.NewMemory()

	docs, err := store.Store(context.Background(), []byte("pdf bytes"), "event 22 Jan 2021 11:00.pdf", "Email")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "Email", doc.Type)
	assert.Equal(t, "event 22 Jan 2021 11:00.pdf", doc.Link.DocumentFilename)
	assert.NotEmpty(t, doc.Link.DocumentURL)
	assert.Equal(t, doc.Link.DocumentURL+"/binary", doc.Link.DocumentBinaryURL)

	content, ok := store.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("pdf bytes"), content)
}

func TestMemoryStore_RejectsEmptyContent(t *testing.T) {
	store := docman.NewMemory()

	_, err := store.Store(context.Background(), nil, "empty.pdf", "Letter")

	assert.ErrorIs(t, err, docman.ErrEmptyDocument)
}
