package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fsweep/fsweep/hashing"
	"github.com/fsweep/fsweep/internal/configuration"
	"github.com/fsweep/fsweep/internal/sweep"
	"github.com/fsweep/fsweep/internal/ui"
	"github.com/fsweep/fsweep/pathing"
	"github.com/fsweep/fsweep/verify"
	"github.com/fsweep/fsweep/walk"
)

// App wires the library handlers behind the command-line modes.
type App struct {
	config *configuration.AppConfiguration

	hashHandler    *hashing.Handler
	walkHandler    *walk.Handler
	pathingHandler *pathing.Handler
	verifyHandler  *verify.Handler
	sweepHandler   *sweep.Handler
	uiHandler      *ui.Handler
}

// NewApp returns a pointer to a new [App].
func NewApp(config *configuration.AppConfiguration,
	hashHandler *hashing.Handler,
	walkHandler *walk.Handler,
	pathingHandler *pathing.Handler,
	verifyHandler *verify.Handler,
	sweepHandler *sweep.Handler,
	uiHandler *ui.Handler,
) *App {
	return &App{
		config:         config,
		hashHandler:    hashHandler,
		walkHandler:    walkHandler,
		pathingHandler: pathingHandler,
		verifyHandler:  verifyHandler,
		sweepHandler:   sweepHandler,
		uiHandler:      uiHandler,
	}
}

// Launch dispatches to the mode selected on the command line.
func (app *App) Launch(ctx context.Context) error {
	switch {
	case *sumFile:
		return app.Sum(flag.Arg(0))
	case *sameFiles:
		return app.Same(ctx, flag.Arg(0), flag.Arg(1))
	case *findFiles:
		return app.Find(flag.Arg(0))
	default:
		return app.Sweep(ctx, flag.Arg(0))
	}
}

// Sweep removes the empty directories beneath the root argument and logs a
// summary, including the best-effort free space change.
func (app *App) Sweep(ctx context.Context, root string) error {
	if root == "" {
		return fmt.Errorf("(app-sweep) %w: no root given", ErrInvalidArguments)
	}

	report, err := app.sweepHandler.Sweep(ctx, root, sweep.Options{
		Recursive: !*shallow,
		DryRun:    *dryRun,
	})
	if err != nil {
		return fmt.Errorf("(app-sweep) %w", err)
	}

	slog.Info("Sweep finished.",
		"root", app.pathingHandler.RelToWorkingDir(root),
		"found", report.Found,
		"removed", report.Removed,
		"skipped", report.Skipped,
		"dryRun", report.DryRun,
	)

	if report.FreeSpaceAfter >= report.FreeSpaceBefore {
		slog.Info("Free space reclaimed.",
			"bytes", humanize.IBytes(report.FreeSpaceAfter-report.FreeSpaceBefore),
			"freeNow", humanize.IBytes(report.FreeSpaceAfter),
		)
	}

	return nil
}

// Find prints the files beneath the root argument passing the configured
// extension and exclusion filters, optionally with their content digests.
func (app *App) Find(root string) error {
	if root == "" {
		return fmt.Errorf("(app-find) %w: no root given", ErrInvalidArguments)
	}

	filter := walk.Filter{
		Extensions:   app.config.Extensions,
		ExcludedDirs: app.config.ExcludedDirs,
	}
	if *extensions != "" {
		filter.Extensions = splitExtensions(*extensions)
	}

	it := app.walkHandler.Files(root, filter)
	for it.Next() {
		path := it.Path()

		if *printSums {
			sum, err := app.hashHandler.SumFile(path, app.config.ChunkSize)
			if err != nil {
				return fmt.Errorf("(app-find) %w", err)
			}
			fmt.Printf("%s  %s\n", sum, app.pathingHandler.RelToWorkingDir(path))

			continue
		}

		fmt.Println(app.pathingHandler.RelToWorkingDir(path))
	}

	if err := it.Err(); err != nil {
		return fmt.Errorf("(app-find) %w", err)
	}

	return nil
}

// Sum prints the strong (buffered and mapped) and weak digests of a file,
// alongside its size.
func (app *App) Sum(path string) error {
	if path == "" {
		return fmt.Errorf("(app-sum) %w: no file given", ErrInvalidArguments)
	}

	info, err := app.hashHandler.OSOps.Stat(path)
	if err != nil {
		return fmt.Errorf("(app-sum) %w", err)
	}

	strong, err := app.hashHandler.SumFile(path, app.config.ChunkSize)
	if err != nil {
		return fmt.Errorf("(app-sum) %w", err)
	}

	mapped, err := app.hashHandler.SumFileMapped(path)
	if err != nil {
		return fmt.Errorf("(app-sum) %w", err)
	}

	weak, err := app.hashHandler.WeakSum(path, info.Size(), app.config.ChunkSize)
	if err != nil {
		return fmt.Errorf("(app-sum) %w", err)
	}

	fmt.Printf("file:   %s (%s)\n", app.pathingHandler.RelToWorkingDir(path), humanize.IBytes(uint64(info.Size())))
	fmt.Printf("strong: %s\n", strong)
	fmt.Printf("mapped: %s\n", mapped)
	fmt.Printf("weak:   %s\n", weak)

	return nil
}

// Same reports whether two files carry identical content.
func (app *App) Same(ctx context.Context, pathA string, pathB string) error {
	if pathA == "" || pathB == "" {
		return fmt.Errorf("(app-same) %w: two files required", ErrInvalidArguments)
	}

	equal, err := app.verifyHandler.FilesEqual(ctx, pathA, pathB)
	if err != nil {
		return fmt.Errorf("(app-same) %w", err)
	}

	if equal {
		fmt.Println("identical")
	} else {
		fmt.Println("different")
		ExitCode = 1
	}

	return nil
}

// splitExtensions parses the comma-separated -ext argument.
func splitExtensions(arg string) []string {
	var exts []string
	for _, part := range strings.Split(arg, ",") {
		if part = strings.TrimSpace(part); part != "" {
			exts = append(exts, part)
		}
	}

	return exts
}
