// fsweep finds and removes empty directories, searches trees for files and
// computes content digests, built on the fsweep library packages.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsweep/fsweep/hashing"
	"github.com/fsweep/fsweep/internal/configuration"
	"github.com/fsweep/fsweep/internal/sweep"
	"github.com/fsweep/fsweep/internal/ui"
	"github.com/fsweep/fsweep/pathing"
	"github.com/fsweep/fsweep/sysfs"
	"github.com/fsweep/fsweep/verify"
	"github.com/fsweep/fsweep/walk"
	"github.com/lmittmann/tint"
)

// defaultConfigFile is the application configuration read from the working
// directory when present.
const defaultConfigFile = ".fsweep.env"

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	uiEnabled  = flag.Bool("ui", true, "enable the UI (sweep mode only)")
	dryRun     = flag.Bool("dry-run", false, "report removable directories without removing")
	shallow    = flag.Bool("shallow", false, "inspect only the root's direct children")
	findFiles  = flag.Bool("find", false, "list matching files under the root instead of sweeping")
	printSums  = flag.Bool("sums", false, "print content digests next to found files")
	sumFile    = flag.Bool("sum", false, "print the digests of a single file")
	sameFiles  = flag.Bool("same", false, "compare the contents of two files")
	extensions = flag.String("ext", "", "comma-separated file extensions for -find (e.g. .txt,.log)")
	configFile = flag.String("config", defaultConfigFile, "application configuration file")
)

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
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

func startApp(ctx context.Context, wg *sync.WaitGroup, app *App) {
	defer wg.Done()

	if app.uiHandler != nil {
		slog.Info("Waiting for UI...")
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if app.uiHandler.Ready.Load() || app.uiHandler.Failed.Load() {
				break
			}
		}
	}

	if err := app.Launch(ctx); err != nil {
		slog.Error("Failure during processing.", "err", err)
		ExitCode = 1
	}
}

func startUI(ctx context.Context, wg *sync.WaitGroup, app *App) {
	defer wg.Done()

	if app.uiHandler != nil {
		defer setupLogging(false)

		slog.SetDefault(slog.New(
			tint.NewHandler(app.uiHandler.LogWriter, &tint.Options{
				Level:      slog.LevelDebug,
				TimeFormat: time.Kitchen,
			}),
		))

		if err := app.uiHandler.Launch(); err != nil {
			slog.Error("UI failure: falling back to terminal.", "err", err)
		}
	}
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Parse()
	setupLogging(false)
	setupSignalHandlers(cancel)

	osProvider := &sysfs.OS{}
	unixProvider := &sysfs.Unix{}
	configProvider := &configuration.GodotenvProvider{}

	configHandler := configuration.NewHandler(configProvider)

	appConfig := configuration.NewAppConfiguration()
	if err := appConfig.LoadFile(configHandler, *configFile); err != nil {
		slog.Error("Failed to read the configuration file.",
			"file", *configFile,
			"err", err,
		)
		ExitCode = 1

		return
	}

	hashHandler := hashing.NewHandler(osProvider, unixProvider)
	walkHandler := walk.NewHandler(osProvider)
	pathingHandler := pathing.NewHandler(osProvider, unixProvider)
	verifyHandler := verify.NewHandler(osProvider, hashHandler)
	sweepHandler := sweep.NewHandler(walkHandler, pathingHandler, unixProvider)

	var uiHandler *ui.Handler
	if *uiEnabled && sweepMode() {
		uiHandler = ui.NewHandler(ctx, cancel, sweepHandler)
	}

	app := NewApp(appConfig,
		hashHandler, walkHandler, pathingHandler, verifyHandler, sweepHandler,
		uiHandler,
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go startUI(ctx, &wg, app)

	wg.Add(1)
	go startApp(ctx, &wg, app)

	wg.Wait()
}

// sweepMode reports whether the invocation runs the long-lived sweep (the
// only mode driving the UI).
func sweepMode() bool {
	return !*findFiles && !*sumFile && !*sameFiles
}
