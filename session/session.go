// Package session implements post-mortem inspection of archived call
// stacks: a frame cursor over one snapshot, and a store of concurrent
// inspection sessions.
package session

import (
	"fmt"
	"io"

	"github.com/shiwano/errdef"

	"github.com/chazu/unwind/trace"
)

// ErrNoFrames is returned when a session is opened on an empty snapshot
// or navigation is attempted on one.
var ErrNoFrames = errdef.Define("no_frames")

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// Session is an interactive inspection of one snapshot: a cursor over
// its frames, starting at the innermost call. Navigation never wraps;
// moving past either end reports trace.ErrFrameRange.
//
// A Session mirrors one inspecting client and is not locked; the Store
// that hands out sessions carries the synchronization.
type Session struct {
	ID     string
	Name   string
	snap   *trace.Snapshot
	cursor int
}

// newSession opens a session positioned on the innermost frame.
func newSession(id, name string, snap *trace.Snapshot) (*Session, error) {
	if snap.Len() == 0 {
		return nil, ErrNoFrames.New("cannot inspect an empty snapshot")
	}
	return &Session{ID: id, Name: name, snap: snap}, nil
}

// Snapshot returns the snapshot under inspection.
func (s *Session) Snapshot() *trace.Snapshot {
	return s.snap
}

// Cursor returns the current frame index, innermost first.
func (s *Session) Cursor() int {
	return s.cursor
}

// Current returns the frame under the cursor.
func (s *Session) Current() trace.Frame {
	f, _ := s.snap.Frame(s.cursor)
	return f
}

// Args returns the rendered argument values of the current frame.
func (s *Session) Args() []string {
	return s.Current().Args
}

// Up moves the cursor one frame outward, toward the program entry.
func (s *Session) Up() error {
	return s.Select(s.cursor + 1)
}

// Down moves the cursor one frame inward, toward the failure point.
func (s *Session) Down() error {
	return s.Select(s.cursor - 1)
}

// Select moves the cursor to frame i. The cursor is unchanged on error.
func (s *Session) Select(i int) error {
	if i < 0 || i >= s.snap.Len() {
		return trace.ErrFrameRange.WithOptions(trace.FrameIndex(i)).
			Errorf("frame %d of %d", i, s.snap.Len())
	}
	s.cursor = i
	return nil
}

// Where writes the traceback with the cursor's frame marked, in the
// same innermost-first order as Snapshot.WriteTraceback:
//
//	  3: h() fib.r#3
//	* 2: g("x") fib.r#2
//	  1: f(1, 2)
func (s *Session) Where(w io.Writer) error {
	frames := s.snap.Frames()
	for i, f := range frames {
		marker := " "
		if i == s.cursor {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %d: %s\n", marker, len(frames)-i, f.String()); err != nil {
			return err
		}
	}
	return nil
}
