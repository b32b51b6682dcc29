package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/n1rna/fossflow-cli/internal/collection"
	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/icons"
	"github.com/n1rna/fossflow-cli/internal/shell"
	"github.com/n1rna/fossflow-cli/internal/usage"
)

const maxBodyBytes = 32 << 20

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api/diagram", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Post("/model", s.handleModelUpdated)
		r.Put("/name", s.handleRename)
		r.Post("/new", s.handleNew)
		r.Post("/save", s.handleSave)
		r.Post("/quicksave", s.handleQuickSave)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
		r.Get("/unload-guard", s.handleUnloadGuard)
	})

	r.Route("/api/diagrams", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/{id}/load", s.handleLoad)
		r.Delete("/{id}", s.handleDelete)
	})

	r.Get("/api/pending", s.handlePending)
	r.Post("/api/pending", s.handleResolve)

	r.Route("/api/storage", func(r chi.Router) {
		r.Get("/", s.handleStorage)
		r.Get("/export", s.handleExportAll)
		r.Post("/clear", s.handleClearAll)
	})

	r.Get("/api/notices", s.handleNotices)
	r.Get("/api/icons", s.handleIcons)
}

// diagramSummary is a saved diagram without its data.
type diagramSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func summarize(r collection.Record) diagramSummary {
	return diagramSummary{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type storageResponse struct {
	usage.Report
	Percent       float64     `json:"percent"`
	Level         usage.Level `json:"level"`
	UsedHuman     string      `json:"usedHuman"`
	CapacityHuman string      `json:"capacityHuman"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

func (s *Server) handleModelUpdated(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	update, err := diagram.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.shell.ModelUpdated(update)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.shell.Rename(req.Name)
	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	if pending := s.shell.NewDiagram(); pending != nil {
		writeJSON(w, http.StatusConflict, pending)
		return
	}
	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name *string `json:"name"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	name := s.shell.Snapshot().Name
	if req.Name != nil {
		name = *req.Name
	}

	rec, err := s.shell.Save(name)
	s.writeSaveResult(w, rec, err)
}

func (s *Server) handleQuickSave(w http.ResponseWriter, r *http.Request) {
	rec, err := s.shell.QuickSave()
	s.writeSaveResult(w, rec, err)
}

func (s *Server) writeSaveResult(w http.ResponseWriter, rec collection.Record, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, summarize(rec))
	case errors.Is(err, shell.ErrBlankName):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, shell.ErrNothingToSave):
		writeError(w, http.StatusConflict, err)
	default:
		writeShellError(w, err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if _, err := s.shell.Import(body); err != nil {
		writeShellError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file, err := s.shell.Export()
	if err != nil {
		writeShellError(w, err)
		return
	}
	writeFile(w, file)
}

func (s *Server) handleUnloadGuard(w http.ResponseWriter, r *http.Request) {
	prompt, block := s.shell.BeforeUnload()
	writeJSON(w, http.StatusOK, map[string]any{"block": block, "prompt": prompt})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records := s.shell.Diagrams()
	out := make([]diagramSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, summarize(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	pending, err := s.shell.Load(chi.URLParam(r, "id"))
	if err != nil {
		writeShellError(w, err)
		return
	}
	if pending != nil {
		writeJSON(w, http.StatusConflict, pending)
		return
	}
	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	pending, err := s.shell.Delete(chi.URLParam(r, "id"))
	if err != nil {
		writeShellError(w, err)
		return
	}
	writeJSON(w, http.StatusConflict, pending)
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	pending, ok := s.shell.Pending()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Approve bool `json:"approve"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.shell.Resolve(req.Approve); err != nil {
		writeShellError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request) {
	report, err := s.shell.StorageReport()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, storageResponse{
		Report:        report,
		Percent:       report.Percent(),
		Level:         report.Level(),
		UsedHuman:     usage.FormatBytes(report.Used),
		CapacityHuman: usage.FormatBytes(report.Capacity),
	})
}

func (s *Server) handleExportAll(w http.ResponseWriter, r *http.Request) {
	file, ok := s.shell.ExportAll()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no saved diagrams to export"))
		return
	}
	writeFile(w, file)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusConflict, s.shell.ClearAll())
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.notices.Drain())
}

func (s *Server) handleIcons(w http.ResponseWriter, r *http.Request) {
	all := s.catalog.Icons()
	if minimal, _ := strconv.ParseBool(r.URL.Query().Get("minimal")); minimal {
		all = icons.MinimalSubset(all)
	}
	writeJSON(w, http.StatusOK, all)
}

// writeShellError maps shell and model errors to status codes.
func writeShellError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, diagram.ErrMalformed), errors.Is(err, shell.ErrBlankName):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, shell.ErrNotFound), errors.Is(err, shell.ErrNoPendingAction):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, shell.ErrNotPersisted):
		writeError(w, http.StatusInsufficientStorage, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return nil, false
	}
	return body, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeFile(w http.ResponseWriter, f diagram.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Content)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
