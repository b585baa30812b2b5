package trace

import (
	"github.com/shiwano/errdef"
)

// ---------------------------------------------------------------------------
// Error definitions
// ---------------------------------------------------------------------------

var (
	// ErrEmptyStack is returned by Pop when no frames are active.
	// It signals programmer misuse by the host runtime, not a
	// recoverable condition.
	ErrEmptyStack = errdef.Define("empty_stack")

	// ErrBadFrame is returned by Push when the frame is malformed
	// (empty callable name).
	ErrBadFrame = errdef.Define("bad_frame")
)

// Depth attaches the stack depth at the time of the failure.
var Depth, DepthFrom = errdef.DefineField[int]("depth")

// ---------------------------------------------------------------------------
// Recorder
// ---------------------------------------------------------------------------

// Recorder mirrors one logical thread of control's call stack. The host
// runtime pushes a frame when a call begins and pops it when the call
// returns or an error propagates out of it.
//
// A Recorder is not safe for concurrent use. Each concurrent task needs
// its own Recorder; shared infrastructure (session stores, archives)
// carries the locking instead.
type Recorder struct {
	frames  []Frame
	hooks   []FailureHook
	failing error // error currently propagating through Call frames
}

// NewRecorder creates a Recorder with no active frames.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Push registers a new active frame at the top of the stack.
// Argument values are rendered for display immediately; the caller keeps
// ownership of args and loc.
func (r *Recorder) Push(name string, args []any, loc *Location) error {
	if name == "" {
		return ErrBadFrame.WithOptions(Depth(len(r.frames))).New("push with empty callable name")
	}
	f := Frame{Fn: name, Args: formatArgs(args)}
	if loc != nil {
		l := *loc
		f.Loc = &l
	}
	r.frames = append(r.frames, f)
	return nil
}

// Pop removes the top frame. Popping an empty stack is a bug in the
// host runtime and reports ErrEmptyStack.
func (r *Recorder) Pop() error {
	if len(r.frames) == 0 {
		return ErrEmptyStack.WithOptions(Depth(0)).New("pop on empty stack")
	}
	r.frames[len(r.frames)-1] = Frame{}
	r.frames = r.frames[:len(r.frames)-1]
	return nil
}

// Depth returns the number of active frames.
func (r *Recorder) Depth() int {
	return len(r.frames)
}

// Capture returns an immutable copy of the active frames, innermost
// first. It is valid at any depth; a fresh Recorder yields an empty
// snapshot. Capture has no side effects on the stack itself.
func (r *Recorder) Capture() *Snapshot {
	frames := make([]Frame, len(r.frames))
	for i, f := range r.frames {
		// Reverse: frames[0] is the program entry, the snapshot
		// wants the most recent call at index 0.
		frames[len(r.frames)-1-i] = copyFrame(f)
	}
	return newSnapshot(frames)
}

// copyFrame deep-copies a frame so a snapshot cannot alias the
// recorder's backing storage.
func copyFrame(f Frame) Frame {
	out := Frame{Fn: f.Fn}
	if len(f.Args) > 0 {
		out.Args = make([]string, len(f.Args))
		copy(out.Args, f.Args)
	}
	if f.Loc != nil {
		l := *f.Loc
		out.Loc = &l
	}
	return out
}
