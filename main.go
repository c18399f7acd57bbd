package main

import (
	"context"
	"embed"
	"flag"
	"os"

	"SleepTimer/config"
	"SleepTimer/history"
	"SleepTimer/i18n"
	"SleepTimer/suspend"
	"SleepTimer/ui"

	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"
)

//go:embed assets/*
var content embed.FS

const appID = "com.denemir.sleeptimer"

func main() {
	dryRun := flag.Bool("dry-run", os.Getenv("SLEEPTIMER_DRY_RUN") == "1", "log instead of suspending the machine")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	i18n.Init(logger)

	path, err := config.DefaultPath()
	if err != nil {
		logger.Fatal("failed to resolve settings path", zap.Error(err))
	}
	settings, err := config.NewManager(path, logger)
	if err != nil {
		logger.Fatal("failed to load settings", zap.Error(err))
	}

	store, err := history.Open(history.DefaultPath(path))
	if err != nil {
		logger.Warn("run history disabled", zap.Error(err))
	} else {
		defer store.Close()
	}

	var suspender suspend.Suspender = suspend.System{Logger: logger}
	if *dryRun {
		suspender = suspend.DryRun{Logger: logger}
	}

	a, err := NewAppManager(Deps{
		Content:   content,
		Settings:  settings,
		History:   store,
		Suspender: suspender,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	a.LoadAudio()

	fyneApp := app.NewWithID(appID)
	fyneApp.Settings().SetTheme(ui.NewTheme(settings.Theme()))

	w := ui.CreateMainWindow(a, fyneApp)
	a.SetMainWindow(w)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		err := settings.Watch(ctx, func(s config.Settings) {
			if err := a.ApplySettings(s); err != nil {
				logger.Warn("failed to apply settings", zap.Error(err))
			}
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("settings watcher stopped", zap.Error(err))
		}
	}()

	win := w.Window()
	win.SetOnClosed(func() {
		cancel()
		a.Shutdown()
	})
	win.SetMaster()

	logger.Info("sleep timer ready", zap.String("version", config.Version), zap.String("lang", i18n.GetLang()))
	win.ShowAndRun()
}
