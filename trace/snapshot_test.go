package trace

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Traceback rendering
// ---------------------------------------------------------------------------

func TestLocationString(t *testing.T) {
	loc := Location{File: "fib.r", Line: 12}
	if loc.String() != "fib.r#12" {
		t.Errorf("location should render as fib.r#12, got %q", loc.String())
	}
}

func TestFrameString(t *testing.T) {
	cases := []struct {
		frame Frame
		want  string
	}{
		{Frame{Fn: "f"}, "f()"},
		{Frame{Fn: "f", Args: []string{"1", `"x"`}}, `f(1, "x")`},
		{Frame{Fn: "g", Loc: &Location{File: "fib.r", Line: 2}}, "g() fib.r#2"},
		{
			Frame{Fn: "h", Args: []string{"nil"}, Loc: &Location{File: "a.r", Line: 9}},
			"h(nil) a.r#9",
		},
	}
	for _, tc := range cases {
		if got := tc.frame.String(); got != tc.want {
			t.Errorf("frame should render as %q, got %q", tc.want, got)
		}
	}
}

func TestTracebackInnermostFirst(t *testing.T) {
	r := NewRecorder()
	r.Push("f", []any{1, 2}, nil)
	r.Push("g", []any{"x"}, &Location{File: "fib.r", Line: 2})
	r.Push("h", nil, &Location{File: "fib.r", Line: 3})

	want := strings.Join([]string{
		"3: h() fib.r#3",
		`2: g("x") fib.r#2`,
		"1: f(1, 2)",
		"",
	}, "\n")

	if got := r.Capture().String(); got != want {
		t.Errorf("traceback mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteTraceback(t *testing.T) {
	r := NewRecorder()
	r.Push("main", nil, nil)

	var b strings.Builder
	if err := r.Capture().WriteTraceback(&b); err != nil {
		t.Fatalf("WriteTraceback failed: %v", err)
	}
	if b.String() != "1: main()\n" {
		t.Errorf("traceback should be %q, got %q", "1: main()\n", b.String())
	}
}

// ---------------------------------------------------------------------------
// Wire round-trips
// ---------------------------------------------------------------------------

func TestSnapshotCBORRoundTrip(t *testing.T) {
	r := NewRecorder()
	r.Push("f", []any{1}, &Location{File: "x.r", Line: 4})
	r.Push("g", nil, nil)
	snap := r.Capture()

	data, err := MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("MarshalSnapshot failed: %v", err)
	}
	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot failed: %v", err)
	}
	if got.String() != snap.String() {
		t.Errorf("round trip changed content:\ngot %q\nwant %q", got.String(), snap.String())
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	r := NewRecorder()
	r.Push("f", []any{"a"}, nil)
	snap := r.Capture()

	data, err := snap.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var got Snapshot
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if got.String() != snap.String() {
		t.Errorf("round trip changed content:\ngot %q\nwant %q", got.String(), snap.String())
	}
}

func TestUnmarshalSnapshotRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte("not cbor at all")); err == nil {
		t.Error("garbage input should fail to unmarshal")
	}
}
