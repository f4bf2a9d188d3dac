package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/ironquest/internal/config"
	"github.com/claude/ironquest/internal/mcp"
	"github.com/claude/ironquest/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	remoteURL := flag.String("server", "", "remote IronQuest server URL; when set, data is fetched over HTTP instead of a local database")
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironquest-mcp", Version)
		return
	}

	// Logs must not mix with the stdio protocol on stdout.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remoteURL != "" {
		ds = mcp.NewHTTPClient(strings.TrimRight(*remoteURL, "/"))
		log.Info("remote mode", "server", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("local mode", "database", cfg.Database.Name)
	}

	s := mcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
