package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// TalentView is one pool entry as the detail endpoints return it.
type TalentView struct {
	Index   int            `json:"index"`
	Card    talent.Card    `json:"card"`
	Profile *talent.Record `json:"profile"`
}

func (s *Server) listTalents(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.List(r.Context())
	if err != nil {
		s.logger.Error("list talents failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(recs),
		"rows":  talent.Rows(recs),
	})
}

func (s *Server) getTalent(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	rec, err := s.repo.Get(r.Context(), idx)
	if errors.Is(err, talent.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TalentView{Index: idx, Card: rec.Card(), Profile: rec})
}

func (s *Server) appendTalent(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := talent.ParseRecord(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	idx, err := s.proc.Confirm(r.Context(), rec)
	if err != nil {
		s.logger.Error("append talent failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, TalentView{Index: idx, Card: rec.Card(), Profile: rec})
}

func (s *Server) removeTalent(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	rec, err := s.proc.Remove(r.Context(), idx)
	if errors.Is(err, talent.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TalentView{Index: idx, Card: rec.Card(), Profile: rec})
}

func (s *Server) exportTalents(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="Pool.json"`)
	if err := talent.Export(w, recs); err != nil {
		s.logger.Error("export talents failed", "error", err)
	}
}

func (s *Server) importTalents(w http.ResponseWriter, r *http.Request) {
	recs, err := talent.Import(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.repo.Replace(r.Context(), recs); err != nil {
		s.logger.Error("import talents failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("talents imported", "count", len(recs))
	writeJSON(w, http.StatusOK, map[string]int{"count": len(recs)})
}

func (s *Server) findDuplicates(w http.ResponseWriter, r *http.Request) {
	s.runDedup(w, r, false)
}

func (s *Server) executeDedup(w http.ResponseWriter, r *http.Request) {
	s.runDedup(w, r, true)
}

func (s *Server) runDedup(w http.ResponseWriter, r *http.Request, execute bool) {
	res, err := s.dedup.Scan(r.Context(), execute)
	if err != nil {
		s.logger.Error("dedup failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		writeError(w, http.StatusBadRequest, "invalid index "+strconv.Quote(raw))
		return 0, false
	}
	return idx, true
}
