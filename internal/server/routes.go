package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/store"
	"github.com/lazypower/monologue/internal/transcript"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Log     string `json:"log"`
		Speaker string `json:"speaker"`
		Policy  string `json:"policy"`
		Format  string `json:"format"`
		Dedupe  bool   `json:"dedupe"`
	}
	if !decodeBody(w, r, maxLogBytes, &req) {
		return
	}
	if req.Speaker == "" {
		writeError(w, http.StatusBadRequest, "speaker required")
		return
	}

	policy, err := transcript.ParsePolicy(req.Policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := transcript.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engine.Process(req.Log, engine.Options{
		Speaker: req.Speaker,
		Policy:  policy,
		Format:  format,
		Dedupe:  req.Dedupe,
	})
	if err != nil {
		if engine.IsWarning(err) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   err.Error(),
				"matched": res.Matched,
				"dropped": res.Dropped,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"speaker":    res.Speaker,
		"matched":    res.Matched,
		"kept":       res.Kept,
		"dropped":    res.Dropped,
		"duplicates": res.Duplicates,
		"messages":   res.Messages,
		"transcript": res.Transcript,
	})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, maxTextBytes, &req) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": transcript.Normalize(req.Text)})
}

func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	if s.corpus.Path == "" {
		writeError(w, http.StatusNotFound, "no corpus configured")
		return
	}

	c, err := engine.LoadCorpusWithFallback(s.corpus.Path, s.corpus.Format)
	if err != nil {
		if errors.Is(err, engine.ErrInputNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"path":     c.Path,
		"count":    len(c.Segments),
		"segments": c.Segments,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, []store.Run{})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := s.db.GetRecentRuns(r.URL.Query().Get("speaker"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "archive disabled")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "runID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := s.db.GetRun(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	msgs, err := s.db.GetRunMessages(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []store.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":      run,
		"messages": msgs,
	})
}
