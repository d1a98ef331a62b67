package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/config"
	"github.com/aretw0/parley/pkg/adapters/audio"
	"github.com/aretw0/parley/pkg/adapters/terminal"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/runner"
)

// PlayOptions contains the per-invocation settings of the play command.
// Everything shared with other commands comes from config.Config.
type PlayOptions struct {
	// Name is the conversation to open; empty picks the only one in the source.
	Name string
	// Headless plays without a terminal screen, writing a transcript to Stdout.
	Headless bool
	// Keys is a key script for headless mode ("-" reads Stdin).
	Keys string
	// AutoConfirm keeps pressing confirm once the key script runs out.
	AutoConfirm bool
	// PageLines pages long blocks this many lines at a time; zero never pages.
	PageLines int

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Play opens one conversation and drives it to the end.
func Play(ctx context.Context, cfg config.Config, opts PlayOptions) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if cfg.Source == "" {
		return errors.New("no script source: pass --source or set it in the config")
	}

	logger := createLogger(cfg.Debug, opts.Stderr)

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, metrics.Handler(), logger)
		defer stop()
	}
	hooks := metrics.Hooks()
	if cfg.Debug {
		hooks = hooks.Merge(observability.LoggingHooks(logger))
	}

	var (
		eng       *parley.Engine
		screen    *terminal.Terminal
		presenter ports.Presenter
		input     ports.InputReader
		runOpts   = []runner.Option{
			runner.WithLogger(logger),
			runner.WithFrame(cfg.Frame),
			runner.WithMaxFrames(cfg.MaxFrames),
		}
	)

	if opts.Headless {
		frames, err := readKeys(opts)
		if err != nil {
			return err
		}
		feedOpts := []runner.FeedOption{runner.WithGate(func() bool { return eng.State().Awaiting() })}
		if opts.AutoConfirm || opts.Keys == "" {
			feedOpts = append(feedOpts, runner.WithAutoConfirm())
		}
		transcript := runner.NewTranscript(opts.Stdout)
		transcript.Labels = func() []string { return eng.Labels() }
		presenter = transcript
		input = runner.NewFeed(frames, feedOpts...)
	} else {
		screen, err = terminal.Open()
		if err != nil {
			return err
		}
		defer screen.Close()

		presenter = screen
		if cfg.Sound {
			spk := &audio.Speaker{}
			if err := spk.Init(); err != nil {
				logger.Warn("Sound disabled", "err", err)
			} else {
				defer spk.Close()
				presenter = audio.NewBlip(screen, spk)
			}
		}
		input = screen
		runOpts = append(runOpts,
			runner.WithRealtime(true),
			runner.WithInterruptSource(screen.Interrupts()),
		)
	}

	eng, err = parley.New(cfg.Source,
		parley.WithLogger(logger),
		parley.WithLifecycleHooks(hooks),
		parley.WithCadence(cfg.Cadence),
		parley.WithPageLines(opts.PageLines),
		parley.WithNodeID(cfg.NodeID),
		parley.WithPresenter(presenter),
		parley.WithInput(input),
	)
	if err != nil {
		return fmt.Errorf("error initializing parley: %w", err)
	}
	if screen != nil {
		screen.Labels = eng.Labels
		screen.Start()
	}

	name, err := resolveName(ctx, eng, opts.Name)
	if err != nil {
		return err
	}
	if err := eng.BeginNamed(ctx, name); err != nil {
		return err
	}
	id := eng.ConversationID()

	res, runErr := runner.New(runOpts...).Run(ctx, eng)
	switch {
	case errors.Is(runErr, context.Canceled):
		printSystemMessage(opts.Stderr, "Interrupted '%s' (%s).", name, id)
		return nil
	case runErr != nil:
		return runErr
	case res.Interrupted:
		printSystemMessage(opts.Stderr, "Closed '%s' (%s) early.", name, id)
		return nil
	}

	if opts.Headless {
		printSystemMessage(opts.Stdout, "Finished '%s' after %d frames (%s).", name, res.Frames, res.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func readKeys(opts PlayOptions) ([]domain.Input, error) {
	switch opts.Keys {
	case "":
		return nil, nil
	case "-":
		return runner.ParseKeys(opts.Stdin)
	}
	f, err := os.Open(opts.Keys)
	if err != nil {
		return nil, fmt.Errorf("failed to open key script: %w", err)
	}
	defer f.Close()
	frames, err := runner.ParseKeys(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Keys, err)
	}
	return frames, nil
}

// serveMetrics exposes h on addr until the returned stop function is called.
func serveMetrics(addr string, h http.Handler, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
