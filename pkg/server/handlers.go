package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pedigree/pkg/annotation"
	"github.com/matzehuels/pedigree/pkg/chart"
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/family"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pipeline"
	"github.com/matzehuels/pedigree/pkg/render"
)

// maxBody caps annotation uploads.
const maxBody = 1 << 20

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Diagnostics is the body of GET /family/{id}/diagnostics.
type Diagnostics struct {
	FamilyID      string                        `json:"family_id"`
	PassID        string                        `json:"pass_id"`
	Members       int                           `json:"members"`
	Unplaced      []string                      `json:"unplaced"`
	Overlaps      map[string]pedigree.Placement `json:"overlaps"`
	DepthExceeded []string                      `json:"depth_exceeded"`
	Repaired      []string                      `json:"repaired"`
	Placeholders  []string                      `json:"placeholders"`
	Extents       pedigree.Extents              `json:"extents"`
	BranchShifts  int                           `json:"branch_shifts"`
}

type annotationsRequest struct {
	Positions map[string]chart.Position `json:"positions"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := perrors.HTTPStatus(err)
	code := string(perrors.GetCode(err))
	if code == "" {
		code = string(perrors.ErrCodeInternal)
	}
	if status >= 500 {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: perrors.UserMessage(err)})
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleFamilies(w http.ResponseWriter, _ *http.Request) {
	ids, err := pipeline.ListFamilies(s.cfg.Data.Dir)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"families": ids})
}

func (s *Server) loadFamily(r *http.Request) (*family.Dataset, error) {
	path, err := pipeline.FamilyPath(s.cfg.Data.Dir, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return s.runner.Load(r.Context(), path)
}

func (s *Server) handleFamily(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadFamily(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := family.MarshalJSON(ds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// options builds pipeline options from the configuration and the query
// string.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.FromConfig(s.cfg)
	opts.Logger = s.log
	q := r.URL.Query()

	if v := q.Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, perrors.New(perrors.ErrCodeInvalidInput, "max_depth must be a non-negative integer")
		}
		opts.MaxDepth = n
	}
	for name, dst := range map[string]*bool{
		"strict":          &opts.Strict,
		"skip_separation": &opts.SkipSeparation,
		"labels":          &opts.Labels,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, perrors.New(perrors.ErrCodeInvalidInput, "%s must be a boolean", name)
			}
			*dst = b
		}
	}
	return opts, nil
}

func (s *Server) layout(r *http.Request, opts pipeline.Options) (*pipeline.Layout, error) {
	ds, err := s.loadFamily(r)
	if err != nil {
		return nil, err
	}
	return s.runner.Layout(r.Context(), ds, opts)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, err := s.layout(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.runner.Chart(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := render.FormatSVG
	switch r.URL.Query().Get("engine") {
	case "", "svg":
		opts.Interactive = true
		opts.DragURL = "/annotations/" + chi.URLParam(r, "id")
	case "graphviz":
		format = render.FormatGraphviz
	default:
		s.writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "engine must be svg or graphviz"))
		return
	}
	opts.Formats = []string{string(format)}

	l, err := s.layout(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.runner.Chart(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), c, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(artifacts[string(format)])
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Strict = false
	l, err := s.layout(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res := l.Result
	writeJSON(w, http.StatusOK, Diagnostics{
		FamilyID:      l.FamilyID(),
		PassID:        res.PassID,
		Members:       len(res.Tree),
		Unplaced:      nonNil(res.Unplaced),
		Overlaps:      res.Overlaps,
		DepthExceeded: nonNil(res.DepthExceeded),
		Repaired:      nonNil(res.Repaired),
		Placeholders:  nonNil(res.Placeholders),
		Extents:       res.Extents,
		BranchShifts:  res.BranchShifts,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) store() (annotation.Store, error) {
	if s.runner.Annotations == nil {
		return nil, perrors.New(perrors.ErrCodeUnsupported, "annotations are disabled")
	}
	return s.runner.Annotations, nil
}

func (s *Server) handleGetAnnotations(w http.ResponseWriter, r *http.Request) {
	store, err := s.store()
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := perrors.ValidateFamilyID(id); err != nil {
		s.writeError(w, err)
		return
	}
	a, err := annotation.LoadOrEmpty(r.Context(), store, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleSaveAnnotations merges the posted positions into the saved ones,
// or replaces them with ?replace=true.
func (s *Server) handleSaveAnnotations(w http.ResponseWriter, r *http.Request) {
	store, err := s.store()
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := perrors.ValidateFamilyID(id); err != nil {
		s.writeError(w, err)
		return
	}

	var req annotationsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid annotations body"))
		return
	}

	a := annotation.New(id)
	if replace, _ := strconv.ParseBool(r.URL.Query().Get("replace")); !replace {
		existing, err := annotation.LoadOrEmpty(r.Context(), store, id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		a.Merge(existing)
	}
	a.Merge(&annotation.Annotations{Positions: req.Positions})

	if err := store.Save(r.Context(), id, a); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("saved annotations", "family", id, "positions", a.Len())
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAnnotations(w http.ResponseWriter, r *http.Request) {
	store, err := s.store()
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, annotation.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
