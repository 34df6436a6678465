// Package history keeps a bounded undo/redo trail of committed adjustment
// parameter sets. Entries are value snapshots, never pixel data, so memory
// use stays flat regardless of image size.
package history

import (
	"sync"

	"engrave-prep/internal/models"
)

// DefaultCapacity bounds the trail; the oldest entry is evicted on overflow.
const DefaultCapacity = 10

// Stack is a fixed-capacity undo/redo stack with a cursor. The zero value is
// not usable; construct with New.
type Stack struct {
	mu      sync.Mutex
	entries []models.AdjustmentParams
	cursor  int // index of the current entry, -1 when empty
	cap     int
}

// New creates an empty stack with the given capacity; values below 1 fall
// back to DefaultCapacity.
func New(capacity int) *Stack {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Stack{
		entries: make([]models.AdjustmentParams, 0, capacity),
		cursor:  -1,
		cap:     capacity,
	}
}

// Push records a committed parameter set. Any redo entries past the cursor
// are discarded; on overflow the oldest entry is evicted and the cursor
// shifted so it keeps pointing at the same logical entry.
func (s *Stack) Push(params models.AdjustmentParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries[:s.cursor+1], params)
	s.cursor++
	if len(s.entries) > s.cap {
		s.entries = s.entries[1:]
		s.cursor--
	}
}

// Undo moves the cursor back one entry and returns it, or nil when already at
// the oldest entry.
func (s *Stack) Undo() *models.AdjustmentParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor <= 0 {
		return nil
	}
	s.cursor--
	entry := s.entries[s.cursor]
	return &entry
}

// Redo moves the cursor forward one entry and returns it, or nil when already
// at the newest entry.
func (s *Stack) Redo() *models.AdjustmentParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.entries)-1 {
		return nil
	}
	s.cursor++
	entry := s.entries[s.cursor]
	return &entry
}

// Clear drops every entry. Called when a new baseline is established.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	s.cursor = -1
}

// Len returns the number of stored entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CanUndo reports whether Undo would return an entry.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor > 0
}

// CanRedo reports whether Redo would return an entry.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.entries)-1
}

// Current returns the entry at the cursor, or nil when empty.
func (s *Stack) Current() *models.AdjustmentParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < 0 {
		return nil
	}
	entry := s.entries[s.cursor]
	return &entry
}
