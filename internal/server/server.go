package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/config"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/pipeline"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/storage"
)

const maxUploadBytes = 64 << 20

// Server exposes the processing pipeline over HTTP: upload documents,
// inspect and correct extracted records, download the styled workbook.
type Server struct {
	db     *storage.DB
	cfg    config.Config
	svc    *pipeline.ProcessingService
	logger *slog.Logger
}

func New(db *storage.DB, cfg config.Config, svc *pipeline.ProcessingService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{db: db, cfg: cfg, svc: svc, logger: logger}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", s.handleUpload)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}/records", s.handleDocumentRecords)
		r.Patch("/records/{id}", s.handleUpdateRecord)
		r.Get("/export", s.handleExport)
		r.Get("/stats", s.handleStats)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		http.Error(w, "no files in request", http.StatusBadRequest)
		return
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := s.saveUpload(fh)
		if err != nil {
			s.logger.Error("upload save failed", "file", fh.Filename, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		paths = append(paths, path)
	}

	results := s.svc.ProcessBatch(r.Context(), paths)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.cfg.UploadDir, filepath.Base(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.db.ListDocuments()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleDocumentRecords(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}
	records, err := s.db.ListRecords(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	existing, err := s.db.GetRecord(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("record %d not found", id), http.StatusNotFound)
		return
	}

	var patch struct {
		Code     *string `json:"code"`
		Name     *string `json:"name"`
		Quantity *string `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec := internal.Record{Code: existing.Code, Name: existing.Name, Quantity: existing.Quantity}
	if patch.Code != nil {
		rec.Code = *patch.Code
	}
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Quantity != nil {
		rec.Quantity = *patch.Quantity
	}

	if err := s.db.UpdateRecord(id, rec); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	updated, err := s.db.GetRecord(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleExport streams the styled workbook. ?document=<id> narrows it to one
// document, otherwise every stored record is included.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	documentID := 0
	if raw := r.URL.Query().Get("document"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			http.Error(w, "invalid document id", http.StatusBadRequest)
			return
		}
		documentID = id
	}

	records, err := s.db.ListRecords(documentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	blob, err := pipeline.ExportRecords(records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.ExportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListRecords(0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Summarize(records))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
