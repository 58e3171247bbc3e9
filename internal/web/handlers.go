package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/internal/pipeline"
	"github.com/tmfelwu/obsidian-file-rename/internal/vault"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIErrorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, ValidationError{
		Field:   field,
		Message: message,
	})
}

// effectiveSettings is what the next rename applies: the persisted settings
// plus any per-process overrides from the config file.
func (s *Server) effectiveSettings() config.Settings {
	if s.pipeline != nil {
		return s.pipeline.Settings()
	}
	return s.settings.Snapshot()
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.effectiveSettings())
}

// handleUpdateSettings applies a partial settings object. Every accepted
// change is persisted before the response is written.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch config.Partial
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.settings.Update(patch); err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			writeValidationError(w, validationErr.Field, validationErr.Message)
			return
		}

		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.effectiveSettings())
}

// handleListFiles lists rename candidates. Without ?ext= the markdownOnly
// setting decides between Markdown notes and every file.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	exts := r.URL.Query()["ext"]
	if len(exts) == 0 && s.effectiveSettings().MarkdownOnly {
		exts = []string{"md"}
	}

	files, err := s.vault.Files(exts...)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, files)
}

type ActiveResponse struct {
	Active    bool   `json:"active"`
	Path      string `json:"path,omitempty"`
	BaseName  string `json:"base_name,omitempty"`
	Extension string `json:"extension,omitempty"`
}

type ActiveRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleGetActive(w http.ResponseWriter, r *http.Request) {
	desc, ok, err := s.vault.ActiveFile()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, ActiveResponse{})
		return
	}
	writeJSON(w, http.StatusOK, ActiveResponse{
		Active:    true,
		Path:      desc.Path,
		BaseName:  desc.BaseName,
		Extension: desc.Extension,
	})
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req ActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.vault.SetActiveFile(req.Path); err != nil {
		writeVaultError(w, err)
		return
	}
	s.handleGetActive(w, r)
}

func writeVaultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vault.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, vault.ErrNotAFile):
		writeAPIError(w, http.StatusBadRequest, err.Error())
	default:
		writeAPIError(w, http.StatusInternalServerError, err.Error())
	}
}

// RenameRequest optionally names a file; without it the active file is used.
type RenameRequest struct {
	Path string `json:"path"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.runRename(w, r, true)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	s.runRename(w, r, false)
}

func (s *Server) runRename(w http.ResponseWriter, r *http.Request, dryRun bool) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		result types.RenameResult
		err    error
	)
	if req.Path != "" {
		desc, descErr := s.vault.Describe(req.Path)
		if descErr != nil {
			writeVaultError(w, descErr)
			return
		}
		result, err = s.pipeline.Rename(desc, dryRun)
	} else if dryRun {
		result, err = s.pipeline.PreviewActive()
	} else {
		result, err = s.pipeline.RenameActive()
	}

	switch {
	case err == nil, pipeline.IsNoop(err):
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, pipeline.ErrBusy):
		writeAPIError(w, http.StatusConflict, "rename already running")
	case errors.Is(err, pipeline.ErrNoActiveTarget):
		writeAPIError(w, http.StatusServiceUnavailable, result.Message)
	default:
		writeAPIError(w, http.StatusInternalServerError, result.Message)
	}
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	// Get limit from query parameter (default 20, max 100)
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
			if limit > 100 {
				limit = 100
			} else if limit < 1 {
				limit = 20
			}
		}
	}

	records := []types.RenameRecord{}
	if s.journal != nil {
		records = append(records, s.journal.Recent(limit)...)
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) broadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.hub.broadcast <- data
}

func (s *Server) broadcastProgress(update pipeline.ProgressUpdate) {
	s.broadcastJSON(update)
}

// Version handler

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}
