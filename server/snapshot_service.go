package server

import (
	"encoding/json"
	"net/http"

	"github.com/chazu/unwind/store"
	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Snapshot endpoints
// ---------------------------------------------------------------------------

type archiveResponse struct {
	ID string `json:"id"`
}

// handleArchiveSnapshot stores a snapshot posted as JSON. The optional
// "label" query parameter names the snapshot in listings.
func (s *Server) handleArchiveSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap trace.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeBadRequest(w, "malformed snapshot: "+err.Error())
		return
	}

	id, err := s.archive.Put(r.URL.Query().Get("label"), &snap)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Infof("archived snapshot %s (%d frames)", id, snap.Len())
	writeJSON(w, http.StatusCreated, archiveResponse{ID: id})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	metas, err := s.archive.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if metas == nil {
		metas = []store.Meta{}
	}
	writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.archive.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleTraceback renders a snapshot as plain text, one frame per line,
// innermost first.
func (s *Server) handleTraceback(w http.ResponseWriter, r *http.Request) {
	snap, err := s.archive.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	snap.WriteTraceback(w)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
