package server

import (
	"encoding/json"
	"net/http"

	"github.com/chazu/unwind/session"
	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Session endpoints
// ---------------------------------------------------------------------------

type createSessionRequest struct {
	SnapshotID string `json:"snapshot_id"`
	Name       string `json:"name,omitempty"`
}

type moveRequest struct {
	Op    string `json:"op"`              // "up", "down", or "select"
	Index int    `json:"index,omitempty"` // used by "select"
}

// sessionView is the JSON shape of a session's current state.
type sessionView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Cursor int         `json:"cursor"`
	Frames int         `json:"frames"`
	Frame  trace.Frame `json:"frame"`
}

type sessionListResponse struct {
	Sessions []string `json:"sessions"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		ID:     s.ID,
		Name:   s.Name,
		Cursor: s.Cursor(),
		Frames: s.Snapshot().Len(),
		Frame:  s.Current(),
	}
}

// handleCreateSession opens an inspection session over an archived
// snapshot.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request: "+err.Error())
		return
	}

	snap, err := s.archive.Get(req.SnapshotID)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.sessions.Create(req.Name, snap)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Infof("session %s inspecting snapshot %s", sess.ID, req.SnapshotID)
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.List()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: ids})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// handleMoveSession navigates a session's frame cursor.
func (s *Server) handleMoveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request: "+err.Error())
		return
	}

	switch req.Op {
	case "up":
		err = sess.Up()
	case "down":
		err = sess.Down()
	case "select":
		err = sess.Select(req.Index)
	default:
		writeBadRequest(w, "unknown op: "+req.Op)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Destroy(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
