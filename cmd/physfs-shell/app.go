package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clayne/physfs/internal/platform"
	"github.com/clayne/physfs/internal/ui"
	"github.com/clayne/physfs/internal/verify"
	"github.com/dustin/go-humanize"
)

type App struct {
	platformHandler *platform.Handler
	verifyHandler   *verify.Handler
	uiHandler       *ui.Handler

	startDir     string
	omitSymlinks bool
}

func NewApp(platformHandler *platform.Handler,
	verifyHandler *verify.Handler,
	startDir string,
	omitSymlinks bool,
) *App {
	return &App{
		platformHandler: platformHandler,
		verifyHandler:   verifyHandler,
		startDir:        startDir,
		omitSymlinks:    omitSymlinks,
	}
}

func (app *App) Launch(ctx context.Context) error {
	if app.uiHandler != nil {
		if err := app.uiHandler.Launch(); err != nil {
			return fmt.Errorf("(app-ui) %w", err)
		}

		return nil
	}

	if err := app.Report(ctx); err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	return nil
}

// Report prints a one-shot summary of the platform layer's view of the
// process: identity, directories, the start directory's listing and any
// removable media.
func (app *App) Report(ctx context.Context) error {
	baseDir, err := app.platformHandler.CalcBaseDir(os.Args[0])
	if err != nil {
		return fmt.Errorf("failed to calc base dir: %w", err)
	}
	fmt.Printf("Base directory:    %s\n", baseDir)

	currentDir, err := app.platformHandler.CurrentDir()
	if err != nil {
		return fmt.Errorf("failed to get current dir: %w", err)
	}
	fmt.Printf("Current directory: %s\n", currentDir)

	if userDir, err := app.platformHandler.UserDir(); err == nil {
		fmt.Printf("User directory:    %s\n", userDir)
	}

	if userName, err := app.platformHandler.UserName(); err == nil {
		fmt.Printf("User name:         %s\n", userName)
	}

	fmt.Printf("\nListing of %s:\n", app.startDir)
	app.platformHandler.Enumerate(app.startDir, app.omitSymlinks, func(origDir, name string) {
		if ctx.Err() != nil {
			return
		}

		path := app.platformHandler.CvtToDependent(strings.TrimRight(origDir, platform.DirSeparator)+platform.DirSeparator, name, "")

		exists, info, err := app.platformHandler.Stat(path)
		if !exists || err != nil {
			fmt.Printf("  %-40s ?\n", name)

			return
		}

		switch info.FileType {
		case platform.FileTypeDirectory:
			fmt.Printf("  %-40s <dir>\n", name+"/")
		case platform.FileTypeRegular:
			fmt.Printf("  %-40s %s\n", name, humanize.IBytes(info.FileSize))
		default:
			fmt.Printf("  %-40s <special>\n", name)
		}
	})

	fmt.Printf("\nRemovable media:\n")
	found := false
	app.platformHandler.DetectRemovableMedia(func(mountPoint string) {
		found = true
		fmt.Printf("  %s\n", mountPoint)
	})
	if !found {
		fmt.Printf("  (none)\n")
	}

	return nil
}
