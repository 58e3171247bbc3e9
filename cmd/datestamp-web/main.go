package main

import (
	"flag"
	"log"

	"github.com/tmfelwu/obsidian-file-rename/internal/app"
	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/internal/web"
)

var (
	version = "dev" // set by ldflags during build
)

func main() {
	addr := flag.String("addr", "localhost:8080", "HTTP server address")
	cfgFile := flag.String("config", "", "config file path")
	vault := flag.String("vault", "", "vault root directory")
	dataDir := flag.String("data-dir", "", "directory for settings and history")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *cfgFile != "" {
		loaded, err := config.LoadFromFile(*cfgFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *vault != "" {
		cfg.Vault = *vault
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	a, err := app.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	server := web.NewServer(a.Pipeline, a.Vault, a.Settings, a.Journal)
	server.SetVersion(version)

	if err := server.Start(*addr); err != nil {
		log.Fatal(err)
	}
}
