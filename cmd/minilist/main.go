// ABOUTME: Entry point for the local minilist variant
// ABOUTME: Serves the UI on localhost with a SQLite-backed snapshot store

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/minilist/internal/config"
	"github.com/2389/minilist/internal/list"
	"github.com/2389/minilist/internal/logging"
	"github.com/2389/minilist/internal/store"
	"github.com/2389/minilist/internal/web"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
           _       _ _ _     _
 _ __ ___ (_)_ __ (_) (_)___| |_
| '_ ' _ \| | '_ \| | | / __| __|
| | | | | | | | | | | | \__ \ |_
|_| |_| |_|_|_| |_|_|_|_|___/\__|
`

// getConfigPath returns the path to the config file.
// Priority: MINILIST_CONFIG env var > XDG_CONFIG_HOME/minilist/minilist.yaml
// > ~/.config/minilist/minilist.yaml
func getConfigPath() string {
	if envPath := os.Getenv("MINILIST_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "minilist.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "minilist", "minilist.yaml")
}

func main() {
	configPath := flag.String("config", getConfigPath(), "path to config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s (local)\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Setup(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Store:  %s\n", cfg.Database.Path)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:   http://%s\n", cfg.Server.HTTPAddr)
	fmt.Println()

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	app := web.NewLocalApp(list.NewLocalController(s))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: app.Routes(),
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		srv.Shutdown(context.Background())
	}()

	logger.Info("starting minilist",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
