// Package store provides CaseStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/idam"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory case store with the same conditional-write
// semantics as the sqlite store.
type Memory struct {
	mu     sync.RWMutex
	cases  map[int64]ccd.CaseDetails
	events map[int64][]Event
}

// Event is an audit row recorded by Update.
type Event struct {
	EventID     string
	Summary     string
	Description string
}

func NewMemory() *Memory {
	return &Memory{
		cases:  make(map[int64]ccd.CaseDetails),
		events: make(map[int64][]Event),
	}
}

// Put seeds a case. The stored version starts at the snapshot's version.
func (m *Memory) Put(details ccd.CaseDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases[details.ID] = details
}

// Fetch returns a copy of the current case record.
func (m *Memory) Fetch(_ context.Context, caseID int64, _ idam.Tokens) (ccd.CaseDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	details, ok := m.cases[caseID]
	if !ok {
		return ccd.CaseDetails{}, ccd.ErrCaseNotFound
	}
	return details, nil
}

// Update writes data conditionally on data.Version and bumps the version.
func (m *Memory) Update(_ context.Context, caseID int64, data ccd.CaseData, eventID, summary, description string, _ idam.Tokens) (ccd.CaseDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.cases[caseID]
	if !ok {
		return ccd.CaseDetails{}, ccd.ErrCaseNotFound
	}
	if data.Version != current.Data.Version {
		return ccd.CaseDetails{}, ccd.ErrConflict
	}

	data.Version = current.Data.Version + 1
	updated := ccd.CaseDetails{ID: caseID, State: current.State, Data: data}
	m.cases[caseID] = updated
	m.events[caseID] = append(m.events[caseID], Event{
		EventID:     eventID,
		Summary:     summary,
		Description: description,
	})
	return updated, nil
}

// Events returns the audit rows recorded for a case, oldest first.
func (m *Memory) Events(caseID int64) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, len(m.events[caseID]))
	copy(out, m.events[caseID])
	return out
}
