package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Session navigation
// ---------------------------------------------------------------------------

func sampleSnapshot() *trace.Snapshot {
	r := trace.NewRecorder()
	r.Push("f", []any{1, 2}, nil)
	r.Push("g", []any{"x"}, &trace.Location{File: "fib.r", Line: 2})
	r.Push("h", nil, &trace.Location{File: "fib.r", Line: 3})
	return r.Capture()
}

func TestSessionStartsInnermost(t *testing.T) {
	s, err := NewStore().Create("crash", sampleSnapshot())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.Cursor() != 0 {
		t.Errorf("cursor should start at 0, got %d", s.Cursor())
	}
	if s.Current().Fn != "h" {
		t.Errorf("initial frame should be h, got %q", s.Current().Fn)
	}
}

func TestSessionUpDown(t *testing.T) {
	s, _ := NewStore().Create("", sampleSnapshot())

	if err := s.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if s.Current().Fn != "g" {
		t.Errorf("after Up the frame should be g, got %q", s.Current().Fn)
	}

	if err := s.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if s.Current().Fn != "f" {
		t.Errorf("after two Ups the frame should be f, got %q", s.Current().Fn)
	}

	if err := s.Down(); err != nil {
		t.Fatalf("Down failed: %v", err)
	}
	if s.Current().Fn != "g" {
		t.Errorf("after Down the frame should be g, got %q", s.Current().Fn)
	}
}

func TestSessionNavigationBounds(t *testing.T) {
	s, _ := NewStore().Create("", sampleSnapshot())

	if err := s.Down(); !errors.Is(err, trace.ErrFrameRange) {
		t.Errorf("Down past the innermost frame should be ErrFrameRange, got %v", err)
	}
	if s.Cursor() != 0 {
		t.Errorf("failed move should not change the cursor, got %d", s.Cursor())
	}

	s.Select(2)
	if err := s.Up(); !errors.Is(err, trace.ErrFrameRange) {
		t.Errorf("Up past the program entry should be ErrFrameRange, got %v", err)
	}
	if s.Cursor() != 2 {
		t.Errorf("failed move should not change the cursor, got %d", s.Cursor())
	}
}

func TestSessionSelect(t *testing.T) {
	s, _ := NewStore().Create("", sampleSnapshot())

	if err := s.Select(1); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if s.Current().Fn != "g" {
		t.Errorf("frame 1 should be g, got %q", s.Current().Fn)
	}

	if err := s.Select(3); !errors.Is(err, trace.ErrFrameRange) {
		t.Errorf("Select(3) on 3 frames should be ErrFrameRange, got %v", err)
	}
	if idx, ok := trace.FrameIndexFrom(s.Select(-1)); !ok || idx != -1 {
		t.Errorf("error should carry the frame index, got %d (ok=%v)", idx, ok)
	}
}

func TestSessionArgs(t *testing.T) {
	s, _ := NewStore().Create("", sampleSnapshot())
	s.Select(2)

	args := s.Args()
	if len(args) != 2 || args[0] != "1" || args[1] != "2" {
		t.Errorf("frame f should have args [1 2], got %v", args)
	}
}

func TestSessionWhere(t *testing.T) {
	s, _ := NewStore().Create("", sampleSnapshot())
	s.Select(1)

	var b strings.Builder
	if err := s.Where(&b); err != nil {
		t.Fatalf("Where failed: %v", err)
	}

	want := strings.Join([]string{
		"  3: h() fib.r#3",
		`* 2: g("x") fib.r#2`,
		"  1: f(1, 2)",
		"",
	}, "\n")
	if b.String() != want {
		t.Errorf("Where mismatch:\ngot:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestSessionEmptySnapshot(t *testing.T) {
	_, err := NewStore().Create("", trace.NewRecorder().Capture())
	if !errors.Is(err, ErrNoFrames) {
		t.Fatalf("empty snapshot should be ErrNoFrames, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Store bookkeeping
// ---------------------------------------------------------------------------

func TestStoreCreateGetDestroy(t *testing.T) {
	store := NewStore()

	s1, err := store.Create("alpha", sampleSnapshot())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s2, _ := store.Create("beta", sampleSnapshot())
	if s1.ID == s2.ID {
		t.Errorf("sessions should get distinct ids, both %s", s1.ID)
	}

	got, err := store.Get(s1.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s1 {
		t.Error("Get should return the same session instance")
	}

	if len(store.List()) != 2 {
		t.Errorf("store should list 2 sessions, got %d", len(store.List()))
	}

	store.Destroy(s1.ID)
	_, err = store.Get(s1.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("destroyed session should be ErrSessionNotFound, got %v", err)
	}
	if id, ok := SessionIDFrom(err); !ok || id != s1.ID {
		t.Errorf("error should carry the session id, got %q (ok=%v)", id, ok)
	}

	store.Destroy("s-missing") // no-op
}
