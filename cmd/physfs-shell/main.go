package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clayne/physfs/internal/configuration"
	"github.com/clayne/physfs/internal/platform"
	"github.com/clayne/physfs/internal/syscalls"
	"github.com/clayne/physfs/internal/ui"
	"github.com/clayne/physfs/internal/verify"
	"github.com/lmittmann/tint"
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	uiEnabled    = flag.Bool("ui", true, "enable the interactive browser")
	startDir     = flag.String("dir", "", "directory to browse (defaults to the working directory)")
	omitSymlinks = flag.Bool("omit-symlinks", false, "hide symbolic links during enumeration")
	settingsFile = flag.String("settings", "physfs-shell.env", "optional settings file")
)

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}),
	))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()
}

// applySettings folds an optional settings file into the flag defaults;
// explicit flags win over the file.
func applySettings(configHandler *configuration.Handler) {
	envMap, err := configHandler.ReadGeneric(*settingsFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Settings file could not be read",
				"file", *settingsFile,
				"err", err,
			)
		}

		return
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["dir"] {
		if dir := configHandler.MapKeyToString(envMap, configuration.KeyStartDir); dir != "" {
			*startDir = dir
		}
	}

	if !set["omit-symlinks"] {
		*omitSymlinks = configHandler.MapKeyToBool(envMap, configuration.KeyOmitSymlinks)
	}
}

func main() {
	defer func() { os.Exit(ExitCode) }()

	flag.Parse()
	setupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandlers(cancel)

	configHandler := configuration.NewHandler(&configuration.GodotenvProvider{})
	applySettings(configHandler)

	platformHandler := platform.NewHandler(syscalls.RealOS{}, syscalls.RealUnix{}, syscalls.RealUser{})
	if err := platformHandler.Init(); err != nil {
		slog.Error("Failed to initialize the platform layer", "err", err)
		ExitCode = 1

		return
	}
	defer platformHandler.Deinit() //nolint:errcheck

	verifyHandler := verify.NewHandler(platformHandler)

	dir := *startDir
	if dir == "" {
		cwd, err := platformHandler.CurrentDir()
		if err != nil {
			slog.Error("Failed to resolve the working directory", "err", err)
			ExitCode = 1

			return
		}
		dir = cwd
	}

	app := NewApp(platformHandler, verifyHandler, dir, *omitSymlinks)

	if *uiEnabled {
		app.uiHandler = ui.NewHandler(ctx, platformHandler, verifyHandler, dir, *omitSymlinks)
	}

	slog.Info("Starting physfs-shell", "version", Version, "dir", dir)

	if err := app.Launch(ctx); err != nil {
		slog.Error("Unrecoverable failure", "err", err)
		ExitCode = 1
	}
}
