package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"blockrender/internal/config"
	"blockrender/internal/profiling"
	"blockrender/internal/registry"
	"blockrender/internal/render"
	"blockrender/internal/texturepack"
	"blockrender/internal/world"

	"github.com/spf13/pflag"
	"github.com/xlab/closer"
)

const (
	exitStartup = 1
	exitUsage   = 2
)

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	setupLogging(os.Stderr, cfg.Verbose)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		// stop handing out blocks and let in-flight ones finish
		cancel()
		<-done
	})

	go func() {
		err := run(ctx, cfg, os.Stdout)
		close(done)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("blockrender failed", "err", err)
			closer.Exit(exitStartup)
			return
		}
		closer.Close()
	}()
	closer.Hold()
}

// parseFlags builds the run configuration: built-in defaults, then the
// optional config file, then any flag given explicitly.
func parseFlags(args []string, stderr io.Writer) (config.Config, error) {
	fs := pflag.NewFlagSet("blockrender", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		flags   = config.Default()
		cfgPath string
	)
	fs.StringVarP(&flags.Input, "input", "i", "", "path to the voxel file to take blocks from (required)")
	fs.StringVarP(&flags.Output, "output", "o", flags.Output, "output folder")
	fs.StringVarP(&flags.Textures, "textures", "t", "", "texture pack directory or zip")
	fs.IntVar(&flags.Threads, "threads", 0, "worker count (0 = one per CPU)")
	fs.IntVar(&flags.Size, "size", flags.Size, "edge length in pixels of each view")
	fs.StringVarP(&cfgPath, "config", "c", "", "TOML file with default settings")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "log every written file")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := config.Default()
	if cfgPath != "" {
		if err := cfg.LoadFile(cfgPath); err != nil {
			return config.Config{}, err
		}
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = flags.Input
		case "output":
			cfg.Output = flags.Output
		case "textures":
			cfg.Textures = flags.Textures
		case "threads":
			cfg.Threads = flags.Threads
		case "size":
			cfg.Size = flags.Size
		case "verbose":
			cfg.Verbose = flags.Verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// run loads the palette and renders every block. Only startup problems are
// returned as errors; failed blocks are logged and counted.
func run(ctx context.Context, cfg config.Config, progressOut io.Writer) error {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	var pack *texturepack.Pack
	if cfg.Textures != "" {
		var err error
		pack, err = texturepack.Open(cfg.Textures)
		if err != nil {
			return err
		}
		defer pack.Close()
	}
	reg := registry.New(pack)

	stop := profiling.Track("world.Load")
	palette, err := world.Load(cfg.Input, reg)
	stop()
	if err != nil {
		return err
	}
	slog.Info("loaded palette", "blocks", palette.Size(), "states", reg.Len(), "workers", cfg.Workers())

	batch := &render.Batch{
		Palette:  palette,
		Renderer: render.NewRenderer(cfg.Size),
		Workers:  cfg.Workers(),
		OutDir:   cfg.Output,
		Progress: profiling.NewProgress(palette.Size(), progressOut),
	}
	summary, err := batch.Run(ctx)
	slog.Info("done", "written", summary.Written, "failed", summary.Failed, "total", summary.Total)
	slog.Debug("stage timings", "top", profiling.TopN(4))
	if errors.Is(err, context.Canceled) {
		slog.Warn("interrupted before all blocks were rendered")
	}
	return err
}
