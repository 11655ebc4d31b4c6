package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/idam"
	"github.com/hmcts/sscs-pdf-email-common/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedCase(t *testing.T, store *sqlite.Store) ccd.CaseDetails {
	t.Helper()

	details, err := store.Create(context.Background(), 123, "appealCreated", ccd.CaseData{
		CcdCaseID:     "123",
		CaseReference: "SC123/45/67890",
	})
	require.NoError(t, err)
	return details
}

func TestStore_CreateFetchRoundtrip(t *testing.T) {
	store := newTestStore(t)
	created := seedCase(t, store)
	assert.Equal(t, int64(0), created.Data.Version)

	fetched, err := store.Fetch(context.Background(), 123, idam.Tokens{})
	require.NoError(t, err)

	assert.Equal(t, int64(123), fetched.ID)
	assert.Equal(t, "appealCreated", fetched.State)
	assert.Equal(t, "SC123/45/67890", fetched.Data.CaseReference)
	assert.Equal(t, int64(0), fetched.Data.Version)
}

func TestStore_FetchUnknownCase(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Fetch(context.Background(), 999, idam.Tokens{})

	assert.ErrorIs(t, err, ccd.ErrCaseNotFound)
}

func TestStore_UpdateBumpsVersionAndPersistsPayload(t *testing.T) {
	store := newTestStore(t)
	seedCase(t, store)
	ctx := context.Background()

	details, err := store.Fetch(ctx, 123, idam.Tokens{})
	require.NoError(t, err)

	data := details.Data
	data.Correspondence = []ccd.Correspondence{{
		SentOn:             "22 Jan 2021 11:00",
		EventType:          "event",
		CorrespondenceType: ccd.Email,
	}}

	updated, err := store.Update(ctx, 123, data, "notificationSent", "Notification sent", "Notification sent via Gov Notify", idam.Tokens{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Data.Version)

	fetched, err := store.Fetch(ctx, 123, idam.Tokens{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Data.Version)
	require.Len(t, fetched.Data.Correspondence, 1)
	assert.Equal(t, "22 Jan 2021 11:00", fetched.Data.Correspondence[0].SentOn)
}

func TestStore_UpdateStaleVersionConflicts(t *testing.T) {
	// GIVEN: Two snapshots of the same case
	// WHEN: Both try to write
	// THEN: The second write sees ErrConflict and leaves no audit row

	store := newTestStore(t)
	seedCase(t, store)
	ctx := context.Background()

	first, err := store.Fetch(ctx, 123, idam.Tokens{})
	require.NoError(t, err)
	second, err := store.Fetch(ctx, 123, idam.Tokens{})
	require.NoError(t, err)

	_, err = store.Update(ctx, 123, first.Data, "notificationSent", "s", "d", idam.Tokens{})
	require.NoError(t, err)

	_, err = store.Update(ctx, 123, second.Data, "stopBulkPrintForReasonableAdjustment", "s", "d", idam.Tokens{})
	assert.ErrorIs(t, err, ccd.ErrConflict)

	events, err := store.Events(ctx, 123)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "notificationSent", events[0].EventID)
}

func TestStore_UpdateUnknownCase(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), 999, ccd.CaseData{}, "notificationSent", "s", "d", idam.Tokens{})

	assert.ErrorIs(t, err, ccd.ErrCaseNotFound)
}

func TestStore_EventsRecordedOldestFirst(t *testing.T) {
	store := newTestStore(t)
	seedCase(t, store)
	ctx := context.Background()

	details, err := store.Fetch(ctx, 123, idam.Tokens{})
	require.NoError(t, err)
	updated, err := store.Update(ctx, 123, details.Data, "notificationSent", "Notification sent", "Notification sent via Gov Notify", idam.Tokens{})
	require.NoError(t, err)
	_, err = store.Update(ctx, 123, updated.Data, "uploadDocument", "SSCS - upload document event", "Uploaded document into SSCS", idam.Tokens{})
	require.NoError(t, err)

	events, err := store.Events(ctx, 123)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "notificationSent", events[0].EventID)
	assert.Equal(t, "uploadDocument", events[1].EventID)
	assert.Equal(t, "Uploaded document into SSCS", events[1].Description)
}
