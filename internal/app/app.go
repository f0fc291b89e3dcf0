// Package app implements the application layer for pathwatch.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/pathwatch/internal/adapters/detector"
	"go.trai.ch/pathwatch/internal/adapters/fs"
	"go.trai.ch/pathwatch/internal/adapters/ignore"
	"go.trai.ch/pathwatch/internal/adapters/transport"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/pathwatch/internal/engine/sequencer"
	"go.trai.ch/pathwatch/internal/engine/tracker"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Components holds the top-level objects the CLI needs.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
}

// jsonSwitcher is implemented by loggers that can change their format.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	watcher      ports.Watcher
	prober       ports.FileProber
	tracer       ports.Tracer
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	watcher ports.Watcher,
	prober ports.FileProber,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		watcher:      watcher,
		prober:       prober,
		tracer:       tracer,
		stdout:       os.Stdout,
	}
}

// WithStdout redirects the JSON update stream.
// This is primarily used for testing.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// SetLogFormat applies a --log-format value ("auto", "pretty" or "json").
func (a *App) SetLogFormat(flag string) {
	format := detector.ResolveFormat(detector.DetectEnvironment(), flag)
	if s, ok := a.logger.(jsonSwitcher); ok {
		s.SetJSON(format == detector.FormatJSON)
	}
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Listen overrides the configured server address when non-empty.
	Listen string
	// Stdout also writes every update as a JSON line to stdout.
	Stdout bool
	// NoServer disables the websocket server. Stdout is implied.
	NoServer bool
	// Ready, when set, is called with the bound server address (empty when
	// the server is disabled) once the first snapshot has been delivered.
	Ready func(addr string)
}

// Watch tracks root until ctx is cancelled, publishing every update to
// websocket clients and, optionally, stdout.
func (a *App) Watch(ctx context.Context, rootArg string, opts WatchOptions) error {
	root, cfg, err := a.prepare(rootArg)
	if err != nil {
		return err
	}

	var consumers transport.Fanout
	var hub *transport.Hub
	if !opts.NoServer {
		hub = transport.NewHub(a.logger)
		consumers = append(consumers, hub)
	}
	if opts.Stdout || opts.NoServer {
		consumers = append(consumers, transport.NewStream(a.stdout))
	}

	seq := sequencer.New(a.logger)
	defer func() {
		seq.Close()
		seq.Wait()
	}()

	ref := tracker.NewConsumerRef(consumers)
	defer ref.Release()

	trk := a.newTracker(root, cfg, seq, ref, a.watcher)
	if err := trk.Initialize(ctx); err != nil {
		return errors.Join(err, trk.Dispose())
	}

	// The hub keeps the initial snapshot and replays it to clients that
	// connect once the server is up.
	var server *transport.Server
	addr := ""
	if hub != nil {
		hub.SetStatus(func() any { return trk.Status() })
		if opts.Listen != "" {
			cfg.Listen = opts.Listen
		}
		if server, err = transport.Listen(cfg.Listen, hub); err != nil {
			return errors.Join(err, trk.Dispose())
		}
		addr = server.Addr()
		a.logger.Info(fmt.Sprintf("serving workspace updates on ws://%s/ws", addr))
	}
	a.logger.Info("watching " + root)
	if opts.Ready != nil {
		opts.Ready(addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(func() error {
			return server.Serve(gctx)
		})
	}
	g.Go(func() error {
		err := trk.Run(gctx, a.watcher.Events())
		if gctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = domain.ErrWatcherStopped
		}
		return err
	})
	g.Go(func() error {
		// Stopping the watcher ends the event stream and thereby Run.
		<-gctx.Done()
		return trk.Dispose()
	})

	return g.Wait()
}

// List performs a single full scan of root and writes one workspaceUpdated
// message to w.
func (a *App) List(ctx context.Context, rootArg string, w io.Writer) error {
	root, cfg, err := a.prepare(rootArg)
	if err != nil {
		return err
	}

	seq := sequencer.New(a.logger)
	defer func() {
		seq.Close()
		seq.Wait()
	}()

	ref := tracker.NewConsumerRef(transport.NewStream(w))
	defer ref.Release()

	trk := a.newTracker(root, cfg, seq, ref, nil)
	return errors.Join(trk.Initialize(ctx), trk.Dispose())
}

// prepare resolves the project root and loads its configuration.
func (a *App) prepare(rootArg string) (string, *domain.Config, error) {
	root, err := a.resolveRoot(rootArg)
	if err != nil {
		return "", nil, err
	}

	cfg, err := a.configLoader.Load(root)
	if err != nil {
		return "", nil, zerr.Wrap(err, "failed to load configuration")
	}
	return root, cfg, nil
}

// resolveRoot turns the CLI argument into an absolute directory. Without an
// argument the root is discovered from the working directory.
func (a *App) resolveRoot(rootArg string) (string, error) {
	var root string
	if rootArg == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
		}
		if root, err = a.configLoader.DiscoverRoot(cwd); err != nil {
			return "", err
		}
	} else {
		abs, err := filepath.Abs(rootArg)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "root", rootArg)
		}
		root = abs
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", zerr.With(domain.ErrRootNotDirectory, "root", root)
	}
	return root, nil
}

func (a *App) newTracker(
	root string,
	cfg *domain.Config,
	seq *sequencer.Sequencer,
	ref *tracker.ConsumerRef,
	watcher ports.Watcher,
) *tracker.Tracker {
	engine := ignore.NewEngine(root, a.logger)
	return tracker.New(root, ref, tracker.Deps{
		Sequencer: seq,
		Lister:    fs.NewLister(engine, cfg.Exclude),
		Prober:    a.prober,
		Ignore:    engine,
		Watcher:   watcher,
		Logger:    a.logger,
		Tracer:    a.tracer,
	}, tracker.Options{
		Exclude:        cfg.Exclude,
		Debounce:       cfg.Debounce,
		MaxPaths:       cfg.MaxPaths,
		FloodThreshold: cfg.FloodThreshold,
	})
}
