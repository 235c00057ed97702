package main

import (
	"fmt"
	"log/slog"
	"os"

	audioimpl "github.com/foxseedlab/kikitori/external/audio"
	configloader "github.com/foxseedlab/kikitori/external/config"
	discordimpl "github.com/foxseedlab/kikitori/external/discord"
	repositoryimpl "github.com/foxseedlab/kikitori/external/repository"
	streamimpl "github.com/foxseedlab/kikitori/external/stream"
	summarizerimpl "github.com/foxseedlab/kikitori/external/summarizer"
	webhookimpl "github.com/foxseedlab/kikitori/external/webhook"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/session"
	"github.com/samber/do/v2"
)

func main() {
	a := &app{}
	root := newRootCommand(a)
	err := root.Execute()
	a.shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app builds configuration and the dependency graph on first use, so
// commands like languages run without any environment.
type app struct {
	cfg      *config.Config
	injector do.Injector
}

func (a *app) setup() (do.Injector, error) {
	if a.injector != nil {
		return a.injector, nil
	}
	cfg, err := configloader.Load()
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	initLogger(cfg)
	slog.Debug("configuration loaded", "env", cfg.Env, "history_enabled", cfg.HistoryEnabled(), "discord_enabled", cfg.DiscordEnabled())
	a.cfg = cfg
	a.injector = setupDI(cfg)
	return a.injector, nil
}

func (a *app) shutdown() {
	if a.injector == nil {
		return
	}
	if report := a.injector.Shutdown(); !report.Succeed {
		slog.Warn("shutdown incomplete", "error", report.Error())
	}
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	streamimpl.RegisterDI(injector)
	summarizerimpl.RegisterDI(injector)
	discordimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}
