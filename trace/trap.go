package trace

import "errors"

// ---------------------------------------------------------------------------
// Failure hooks
// ---------------------------------------------------------------------------
// The host runtime's error hook (the moral equivalent of an interpreter's
// options(error = ...) setting) generalizes to observers registered on a
// Recorder instance. There is no process-wide handler: each Recorder owns
// its own hook list.

// FailureHook observes a failure. It receives the error that was
// recorded and the snapshot captured at that instant.
type FailureHook func(cause error, snap *Snapshot)

// OnFailure registers a hook. Hooks run synchronously, in registration
// order, every time Fail is called.
func (r *Recorder) OnFailure(hook FailureHook) {
	r.hooks = append(r.hooks, hook)
}

// Fail captures the current stack and notifies every registered hook.
// The snapshot is returned so the caller can archive or render it. The
// cause is recorded, not handled; error propagation stays with the host
// runtime.
func (r *Recorder) Fail(cause error) *Snapshot {
	r.failing = cause
	snap := r.Capture()
	for _, hook := range r.hooks {
		hook(cause, snap)
	}
	return snap
}

// Call runs fn inside a recorded frame: the frame is pushed before fn
// and popped afterwards even if fn fails. If fn returns a new error,
// the stack is captured and hooks fire before the frame is popped, so
// the failing call is still the innermost frame of the snapshot. An
// error already propagating through outer Call frames does not fire
// the hooks again. The error is returned unchanged.
func (r *Recorder) Call(name string, args []any, loc *Location, fn func() error) error {
	if err := r.Push(name, args, loc); err != nil {
		return err
	}
	err := fn()
	if err != nil && (r.failing == nil || !errors.Is(err, r.failing)) {
		r.Fail(err)
	}
	r.Pop()
	if len(r.frames) == 0 {
		r.failing = nil
	}
	return err
}
