// Package main provides the entry point for the Circuit Sketch application.
package main

import (
	"flag"
	"log/slog"

	"circuit-sketch/internal/analysis"
	"circuit-sketch/internal/app"
	"circuit-sketch/internal/config"
	"circuit-sketch/internal/logging"
	"circuit-sketch/internal/version"
	"circuit-sketch/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appID    = "io.github.circuit-sketch"
	appTitle = "Circuit Sketch"
)

func main() {
	configPath := flag.String("config", "", "settings file (default: user config dir)")
	flag.Parse()

	log := logging.FromEnv()
	log.Info("starting", slog.String("app", appTitle), slog.String("version", version.String()))

	path := *configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Warn("using default settings", slog.String("path", path), slog.Any("err", err))
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.CircuitTheme{})

	state := app.NewState(cfg, newAnalyzer(log, cfg.Service))

	win := mainwindow.New(fyneApp, state)
	win.SetMaster()

	if path != "" {
		watcher := watchConfig(log, path, state)
		if watcher != nil {
			defer watcher.Stop()
		}
	}

	win.ShowAndRun()
	log.Info("exiting")
}

// newAnalyzer returns nil when the service settings are unusable, which the
// session reports on the first Analyze.
func newAnalyzer(log *slog.Logger, svc config.ServiceConfig) app.Analyzer {
	client, err := analysis.NewClient(svc)
	if err != nil {
		log.Error("analysis service unavailable", slog.String("url", svc.URL()), slog.Any("err", err))
		return nil
	}
	log.Info("analysis service", slog.String("url", svc.URL()), slog.Duration("timeout", client.Timeout()))
	return client
}

// watchConfig queues the settings file for the session whenever it changes.
func watchConfig(log *slog.Logger, path string, state *app.State) *config.Watcher {
	w, err := config.NewWatcher(path)
	if err != nil {
		log.Info("settings not watched", slog.String("path", path), slog.Any("err", err))
		return nil
	}

	// OnChange runs on the watcher goroutine.
	prev := state.Config().Service
	w.OnChange(func(cfg config.Config) {
		state.QueueConfig(cfg)
		if cfg.Service != prev {
			prev = cfg.Service
			state.SetAnalyzer(newAnalyzer(log, cfg.Service))
		}
	})
	w.Start()
	log.Info("watching settings", slog.String("path", w.Path()))
	return w
}
