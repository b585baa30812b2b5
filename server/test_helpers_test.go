package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/chazu/unwind/store"
	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Shared test infrastructure for server package tests.
//
// Each test gets its own archive-backed server; the archive lives in a
// per-test temp dir so tests stay independent.
// ---------------------------------------------------------------------------

func newTestServer(t *testing.T) (*Server, *store.Archive) {
	t.Helper()

	archive, err := store.OpenArchive(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	return New(archive), archive
}

func sampleSnapshot() *trace.Snapshot {
	r := trace.NewRecorder()
	r.Push("f", []any{1, 2}, nil)
	r.Push("g", []any{"x"}, &trace.Location{File: "fib.r", Line: 2})
	r.Push("h", nil, &trace.Location{File: "fib.r", Line: 3})
	return r.Capture()
}

// do runs one request against the server and decodes a JSON response
// into out (if out is non-nil).
func do(t *testing.T, s *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusMultipleChoices {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// archiveSample stores a sample snapshot and returns its id.
func archiveSample(t *testing.T, archive *store.Archive) string {
	t.Helper()
	id, err := archive.Put("sample", sampleSnapshot())
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	return id
}
