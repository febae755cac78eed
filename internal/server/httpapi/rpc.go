package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// rpcEntryRequest covers every entry procedure's payload. The owner always
// comes from the resolved session; a userId in the payload is ignored.
type rpcEntryRequest struct {
	ID      int64   `json:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// rpc serves POST /rpc/{procedure}. Procedures mirror the REST routes and
// share their status codes.
func (s *Server) rpc(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "procedure") {
	case "register":
		s.register(w, r)
	case "login":
		s.login(w, r)
	case "getEntries":
		s.requireUser(http.HandlerFunc(s.listEntries)).ServeHTTP(w, r)
	case "addEntry":
		s.requireUser(http.HandlerFunc(s.rpcAddEntry)).ServeHTTP(w, r)
	case "deleteEntry":
		s.requireUser(http.HandlerFunc(s.rpcDeleteEntry)).ServeHTTP(w, r)
	case "updateEntry":
		s.requireUser(http.HandlerFunc(s.rpcUpdateEntry)).ServeHTTP(w, r)
	default:
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not Found"})
	}
}

func (s *Server) rpcAddEntry(w http.ResponseWriter, r *http.Request) {
	var req rpcEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.Entries.Create(r.Context(), currentUser(r), deref(req.Title), deref(req.Content))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) rpcDeleteEntry(w http.ResponseWriter, r *http.Request) {
	var req rpcEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ID <= 0 {
		s.writeError(w, r, badRequest("validation error: id must be a positive integer"))
		return
	}

	if err := s.Entries.Delete(r.Context(), req.ID, currentUser(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) rpcUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req rpcEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ID <= 0 {
		s.writeError(w, r, badRequest("validation error: id must be a positive integer"))
		return
	}

	e, err := s.Entries.Update(r.Context(), req.ID, currentUser(r), models.EntryPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
