package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type addEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateEntryRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	items, err := s.Entries.List(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.Entries.Create(r.Context(), currentUser(r), req.Title, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.Entries.Update(r.Context(), id, currentUser(r), models.EntryPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.Entries.Delete(r.Context(), id, currentUser(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) exportEntries(w http.ResponseWriter, r *http.Request) {
	if s.Exporter == nil {
		s.writeError(w, r, errExportDisabled)
		return
	}

	res, err := s.Exporter.Export(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) liveEntries(w http.ResponseWriter, r *http.Request) {
	if s.Feed == nil {
		s.writeError(w, r, errFeedDisabled)
		return
	}
	s.Feed.ServeWs(w, r, currentUser(r))
}

func entryID(r *http.Request) (int64, error) {
	return parseID(chi.URLParam(r, "id"))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("validation error: id must be a positive integer")
	}
	return id, nil
}
