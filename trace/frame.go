package trace

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Frames and source locations
// ---------------------------------------------------------------------------

// Location is a position in interpreted source. Line is 1-based.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// String renders the location in the conventional traceback form,
// e.g. "fib.r#12".
func (l Location) String() string {
	return fmt.Sprintf("%s#%d", l.File, l.Line)
}

// Frame represents one active invocation on the call stack.
//
// Argument values are display-only: they are rendered to strings when the
// frame is pushed, so a frame never aliases live runtime values and stays
// valid inside an immutable Snapshot.
type Frame struct {
	Fn   string    `json:"fn"`
	Args []string  `json:"args,omitempty"`
	Loc  *Location `json:"loc,omitempty"`
}

// String renders the frame as "fn(arg, ...)" with an optional
// "file#line" suffix.
func (f Frame) String() string {
	var b strings.Builder
	b.WriteString(f.Fn)
	b.WriteByte('(')
	b.WriteString(strings.Join(f.Args, ", "))
	b.WriteByte(')')
	if f.Loc != nil {
		b.WriteByte(' ')
		b.WriteString(f.Loc.String())
	}
	return b.String()
}

// FormatValue renders an argument value for display in a frame.
// The zoo of runtime value types is open-ended, so anything without a
// specific rendering falls through to %v.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatArgs renders a slice of argument values at push time.
func formatArgs(args []any) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = FormatValue(a)
	}
	return out
}
