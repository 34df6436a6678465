package history

import (
	"testing"

	"engrave-prep/internal/models"
)

func entry(brightness int) models.AdjustmentParams {
	p := models.DefaultParams(128)
	p.Brightness = brightness
	return p
}

func TestPushEvictsOldestBeyondCapacity(t *testing.T) {
	s := New(10)
	for i := 0; i < 15; i++ {
		s.Push(entry(i))
	}
	if s.Len() != 10 {
		t.Fatalf("len = %d after 15 pushes, want 10", s.Len())
	}
	// walk back: entries 14..5 must remain, 0..4 evicted
	for want := 13; want >= 5; want-- {
		got := s.Undo()
		if got == nil {
			t.Fatalf("unexpected nil undo at brightness %d", want)
		}
		if got.Brightness != want {
			t.Fatalf("undo returned brightness %d, want %d", got.Brightness, want)
		}
	}
	if s.Undo() != nil {
		t.Fatalf("undo past the oldest surviving entry must return nil")
	}
}

func TestUndoRedoAtBounds(t *testing.T) {
	s := New(10)
	if s.Undo() != nil || s.Redo() != nil {
		t.Fatalf("empty stack must return nil for undo and redo")
	}
	s.Push(entry(1))
	if s.Undo() != nil {
		t.Fatalf("undo with a single entry must return nil")
	}
	if s.Redo() != nil {
		t.Fatalf("redo at the newest entry must return nil")
	}
}

func TestUndoThenRedoRoundTrip(t *testing.T) {
	s := New(10)
	s.Push(entry(1))
	s.Push(entry(2))
	s.Push(entry(3))

	if got := s.Undo(); got == nil || got.Brightness != 2 {
		t.Fatalf("undo: got %+v, want brightness 2", got)
	}
	if got := s.Undo(); got == nil || got.Brightness != 1 {
		t.Fatalf("undo: got %+v, want brightness 1", got)
	}
	if got := s.Redo(); got == nil || got.Brightness != 2 {
		t.Fatalf("redo: got %+v, want brightness 2", got)
	}
	if got := s.Redo(); got == nil || got.Brightness != 3 {
		t.Fatalf("redo: got %+v, want brightness 3", got)
	}
	if s.Redo() != nil {
		t.Fatalf("redo at the top must return nil")
	}
}

func TestPushTruncatesRedoTail(t *testing.T) {
	s := New(10)
	s.Push(entry(1))
	s.Push(entry(2))
	s.Push(entry(3))
	s.Undo()
	s.Undo() // cursor at entry 1

	s.Push(entry(9))
	if s.CanRedo() {
		t.Fatalf("push must truncate the redo tail")
	}
	if got := s.Current(); got == nil || got.Brightness != 9 {
		t.Fatalf("current = %+v, want brightness 9", got)
	}
	if got := s.Undo(); got == nil || got.Brightness != 1 {
		t.Fatalf("undo after truncation: got %+v, want brightness 1", got)
	}
}

func TestClear(t *testing.T) {
	s := New(10)
	s.Push(entry(1))
	s.Push(entry(2))
	s.Clear()
	if s.Len() != 0 || s.Current() != nil || s.Undo() != nil || s.Redo() != nil {
		t.Fatalf("clear did not empty the stack")
	}
	s.Push(entry(7))
	if got := s.Current(); got == nil || got.Brightness != 7 {
		t.Fatalf("stack unusable after clear: %+v", got)
	}
}
