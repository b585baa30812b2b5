package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/shiwano/errdef"
)

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

// ErrFrameRange is returned when a frame index is outside a snapshot.
var ErrFrameRange = errdef.Define("frame_range")

// FrameIndex attaches the offending frame index to a frame_range error.
var FrameIndex, FrameIndexFrom = errdef.DefineField[int]("frame_index")

// Snapshot is an immutable capture of a call stack at one instant.
// Frame 0 is the innermost (most recently entered) call; the last frame
// is the program entry. Frame i was called by frame i+1.
type Snapshot struct {
	frames []Frame
}

// newSnapshot takes ownership of frames, which must already be
// innermost-first and unaliased.
func newSnapshot(frames []Frame) *Snapshot {
	return &Snapshot{frames: frames}
}

// Len returns the number of frames.
func (s *Snapshot) Len() int {
	return len(s.frames)
}

// Frame returns the frame at index i, innermost first.
func (s *Snapshot) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(s.frames) {
		return Frame{}, ErrFrameRange.WithOptions(FrameIndex(i)).
			Errorf("frame %d of %d", i, len(s.frames))
	}
	return copyFrame(s.frames[i]), nil
}

// Frames returns a copy of all frames, innermost first.
func (s *Snapshot) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	for i, f := range s.frames {
		out[i] = copyFrame(f)
	}
	return out
}

// WriteTraceback writes one line per frame, innermost first. Each line
// carries the frame's distance from the program entry, so the output
// reads like the interpreter's own traceback:
//
//	3: h() fib.r#3
//	2: g("x") fib.r#2
//	1: f(1, 2)
func (s *Snapshot) WriteTraceback(w io.Writer) error {
	for i, f := range s.frames {
		if _, err := fmt.Fprintf(w, "%d: %s\n", len(s.frames)-i, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// String returns the traceback as a single string. An empty snapshot
// renders as an empty string.
func (s *Snapshot) String() string {
	var b strings.Builder
	s.WriteTraceback(&b)
	return b.String()
}
