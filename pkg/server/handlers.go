package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/export"
	"github.com/aretw0/inkjournal/pkg/ink"
)

// NoteRequest is the body of POST /notes and PUT /notes/{id}.
type NoteRequest struct {
	ID      string        `json:"id,omitempty"`
	Strokes []core.Stroke `json:"strokes"`
	// Smooth applies the moving average before saving. Clients that capture
	// raw points set it; clients that already smoothed leave it off.
	Smooth bool `json:"smooth,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNothingToExport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRecordUnreadable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.State())
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.SearchNotes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	note, err := s.svc.GetNote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) decodeNote(w http.ResponseWriter, r *http.Request) (NoteRequest, bool) {
	var req NoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid note body: %v", err))
		return req, false
	}
	if req.Smooth {
		req.Strokes = ink.SmoothStrokes(req.Strokes, s.window)
	}
	return req, true
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeNote(w, r)
	if !ok {
		return
	}
	note, err := s.svc.SaveNote(r.Context(), req.ID, req.Strokes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/notes/"+note.ID)
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeNote(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if req.ID != "" && req.ID != id {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("body id %q does not match path id %q", req.ID, id))
		return
	}
	note, err := s.svc.SaveNote(r.Context(), id, req.Strokes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteNote(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport renders into memory first so a failed render never sends a
// partial document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	note, err := s.svc.GetNote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.PDF(note, &buf, s.export); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(note, s.export.Location)))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	note, err := s.svc.GetNote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Preview(note, &buf, s.preview); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}
