package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/internal/pipeline"
	"github.com/tmfelwu/obsidian-file-rename/internal/state"
	"github.com/tmfelwu/obsidian-file-rename/internal/vault"
)

type Server struct {
	router   *mux.Router
	hub      *Hub
	version  string
	pipeline *pipeline.Pipeline
	vault    *vault.Vault
	settings *config.SettingsStore
	journal  *state.Journal
}

// NewServer exposes the rename command over HTTP. Notices produced by the
// pipeline are broadcast to websocket clients.
func NewServer(p *pipeline.Pipeline, v *vault.Vault, settings *config.SettingsStore, journal *state.Journal) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		hub:      NewHub(),
		version:  "unknown",
		pipeline: p,
		vault:    v,
		settings: settings,
		journal:  journal,
	}

	go s.hub.Run()

	if p != nil {
		p.SetProgressCallback(s.broadcastProgress)
	}

	s.setupRoutes()
	return s
}

func (s *Server) SetVersion(v string) {
	s.version = v
}

// Handler returns the root router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", s.handleVersion).Methods("GET")
	api.HandleFunc("/ws", s.handleWebSocket)

	api.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	api.HandleFunc("/settings", s.handleUpdateSettings).Methods("PATCH", "POST")

	api.HandleFunc("/files", s.handleListFiles).Methods("GET")
	api.HandleFunc("/active", s.handleGetActive).Methods("GET")
	api.HandleFunc("/active", s.handleSetActive).Methods("PUT")

	api.HandleFunc("/preview", s.handlePreview).Methods("POST")
	api.HandleFunc("/rename", s.handleRename).Methods("POST")
	api.HandleFunc("/history", s.handleGetHistory).Methods("GET")
}

func (s *Server) Start(addr string) error {
	fmt.Printf("Starting obsidian-file-rename web API at http://%s\n", addr)
	return http.ListenAndServe(addr, s.router)
}
