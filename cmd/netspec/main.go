// Package main provides the netspec CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/netspec/internal/config"
	"github.com/born-ml/netspec/internal/dataset"
	"github.com/born-ml/netspec/internal/train"
)

const version = "v0.1.0-dev"

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "netspec: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "netspec %s\n", version)
		return nil
	case "describe":
		return describe(args[1:], stdout, stderr)
	case "train":
		return trainCmd(ctx, args[1:], stdout, stderr)
	default:
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "netspec - network topology and dataset pipeline")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  describe   Print the layer summary of a network")
	fmt.Fprintln(w, "  train      Feed a dataset through a network with the dry-run engine")
}

// commonFlags are shared by describe and train.
type commonFlags struct {
	config    *string
	preset    *string
	batchSize *int
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:    fs.String("config", "", "Path to YAML config"),
		preset:    fs.String("preset", "", "Network preset (alexnet, lenet)"),
		batchSize: fs.Int("batch-size", 0, "Batch size"),
	}
}

func (f commonFlags) load(o config.Overrides) (*config.Config, error) {
	cfg := &config.Config{}
	if *f.config != "" {
		var err error
		if cfg, err = config.Load(*f.config); err != nil {
			return nil, err
		}
	}
	o.Preset = *f.preset
	o.BatchSize = *f.batchSize
	cfg.ApplyOverrides(o)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func describe(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := common.load(config.Overrides{})
	if err != nil {
		return err
	}
	topo, err := cfg.Network.Build()
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	fmt.Fprintln(stdout, topo)
	return nil
}

func trainCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	labels := fs.String("labels", "", "Override label file")
	root := fs.String("root", "", "Override sample directory")
	epochs := fs.Int("epochs", 0, "Number of epochs")
	workers := fs.Int("workers", 0, "Number of decode workers")
	seed := fs.Int64("seed", 0, "Shuffle seed")
	normalize := fs.Int("normalize-batches", 0, "Estimate per-channel normalization from N batches (0 disables)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := common.load(config.Overrides{
		Labels:  *labels,
		Root:    *root,
		Epochs:  *epochs,
		Workers: *workers,
		Seed:    *seed,
	})
	if err != nil {
		return err
	}
	if err := cfg.Dataset.Ready(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	topo, err := cfg.Network.Build()
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}

	li, err := dataset.LoadLabels(cfg.Dataset.Labels, cfg.Dataset.LabelOptions())
	if err != nil {
		return err
	}
	for _, row := range li.SkippedRows() {
		logger.Warn("label row skipped", "line", row.Line, "err", row.Err)
	}

	src := dataset.NewDirSource(cfg.Dataset.Root, cfg.Dataset.Extensions)
	index, err := dataset.BuildIndex(ctx, li, src)
	if err != nil {
		return err
	}
	st := index.Stats()
	logger.Info("dataset indexed",
		"root", index.Root(),
		"samples", index.Len(),
		"classes", len(index.Classes()),
		"excluded", st.Excluded(),
		"duplicates", src.Duplicates())

	dec, err := dataset.NewImageDecoder(src, topo.Input())
	if err != nil {
		return err
	}
	it, err := dataset.NewIterator(index, dataset.IteratorOptions{
		BatchSize: topo.BatchSize(),
		Shape:     topo.Input(),
		Decoder:   dec,
		Parallel:  cfg.Train.Parallel(),
	})
	if err != nil {
		return err
	}

	if *normalize > 0 {
		stats, err := dataset.EstimateChannelStats(ctx, it, *normalize)
		if err != nil {
			return fmt.Errorf("estimate channel stats: %w", err)
		}
		for c, s := range stats {
			logger.Info("channel stats", "channel", c, "mean", s.Mean, "std", s.Std)
			if s.Std == 0 {
				stats[c].Std = 1
			}
		}
		dec.Normalize = stats
	}

	engine := train.NewDryRun()
	driver, err := train.NewDriver(topo, it, engine, train.Config{
		Epochs:  cfg.Train.Epochs,
		Shuffle: cfg.Train.Shuffle,
		Seed:    cfg.Train.Seed,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	report, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Fprintf(stdout, "run=%s epochs=%d batches=%d samples=%d decode_failure_rate=%.3f\n",
		report.RunID, len(report.Epochs), report.Batches(), engine.Samples(), report.DecodeFailureRate())
	return nil
}
