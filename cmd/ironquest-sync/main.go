package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/ironquest/internal/sync"
	"github.com/claude/ironquest/internal/wellness"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "IronQuest server URL (e.g. https://ironquest.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("IRONQUEST_AUTH_API_KEY"), "ingest API key (or IRONQUEST_AUTH_API_KEY)")
	providerURL := flag.String("provider-url", os.Getenv("IRONQUEST_PROVIDER_BASE_URL"), "metrics provider base URL (or IRONQUEST_PROVIDER_BASE_URL)")
	providerKey := flag.String("provider-key", os.Getenv("IRONQUEST_PROVIDER_API_KEY"), "metrics provider API key (or IRONQUEST_PROVIDER_API_KEY)")
	days := flag.Int("days", 7, "days of wellness history to backfill, today included")
	dryRun := flag.Bool("dry-run", false, "fetch from the provider but don't push to the server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironquest-sync", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *providerURL == "" || *providerKey == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironquest-sync -server <URL> -api-key <key> -provider-url <URL> -provider-key <key> [-days N] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if (*serverURL == "" || *apiKey == "") && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server and -api-key are required (or use -dry-run)\n")
		os.Exit(1)
	}

	*serverURL = strings.TrimRight(*serverURL, "/")

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".ironquest-sync")

	state, err := wellness.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Create push client (nil-safe in dry-run mode)
	var push *sync.Client
	if !*dryRun {
		push = sync.NewClient(*serverURL, *apiKey)
	}

	if *dryRun {
		log.Info("DRY RUN mode — data will be fetched but not pushed")
	}

	provider := wellness.NewClient(strings.TrimRight(*providerURL, "/"), *providerKey)
	syncer := sync.New(provider, push, state, *days, *dryRun, log)

	stats, err := syncer.Run(context.Background())
	if err != nil {
		log.Error("sync failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("sync complete")
}

func printStats(stats *sync.Stats) {
	fmt.Println()
	fmt.Println("=== Sync Summary ===")
	fmt.Printf("  Days checked:     %d\n", stats.DaysChecked)
	fmt.Printf("  Days synced:      %d\n", stats.DaysSynced)
	fmt.Printf("  Days skipped:     %d (already synced)\n", stats.DaysSkipped)
	fmt.Printf("  Days errored:     %d\n", stats.DaysErrored)
	fmt.Println()
	fmt.Printf("  Events sent:      %d\n", stats.EventsSent)
	fmt.Printf("  Activity days:    %d\n", stats.ActivityDaysSent)
	fmt.Println()
}
