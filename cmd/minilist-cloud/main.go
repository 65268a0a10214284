// ABOUTME: Entry point for the networked minilist variant
// ABOUTME: Delegates persistence and auth to the hosted backend service

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
	"github.com/2389/minilist/internal/remote"
	"github.com/2389/minilist/internal/session"
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
	gray.Printf("    version: %s (cloud)\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The hosted service settings are load-bearing here: without them no
	// auth or data call can be made, so refuse to start at all.
	if err := cfg.ValidateService(); err != nil {
		return fmt.Errorf("configuration incomplete, cloud variant disabled: %w", err)
	}

	logger := logging.Setup(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:  %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Service: %s\n", cfg.Service.URL)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:    http://%s\n", cfg.Server.HTTPAddr)
	fmt.Println()

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	sessions := session.NewManager(cfg.Service.URL, cfg.Service.APIKey, s)
	client := remote.NewClient(cfg.Service.URL, cfg.Service.APIKey, sessions)
	app := web.NewCloudApp(sessions, list.NewRemoteController(client, sessions))

	// Pick up where the last run left off before accepting commands.
	app.Restore(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: app.Routes(),
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		srv.Shutdown(context.Background())
	}()

	logger.Info("starting minilist-cloud",
		"config", configPath,
		"service", cfg.Service.URL,
		"http_addr", cfg.Server.HTTPAddr,
	)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
