package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/propply/compliance-engine/internal/model"
)

var (
	batchBorough string
	batchSave    bool
	batchNotify  bool
	batchLimit   int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Build compliance reports for a file of addresses",
	Long:  "Reads one address per line (blank lines and #-comments skipped) and processes them concurrently. A line may carry its own borough after a | separator.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		entries, err := readAddressFile(args[0])
		if err != nil {
			return err
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		return processBatch(ctx, env, entries, batchLimit, cfg.Batch.MaxConcurrentAddresses)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchBorough, "borough", "", "borough hint applied to lines without their own")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist each record to the configured store")
	batchCmd.Flags().BoolVar(&batchNotify, "notify", false, "forward each record to the configured webhook")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of addresses to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// batchEntry is one address to process, with an optional per-line
// borough hint.
type batchEntry struct {
	Address string
	Borough string
}

func readAddressFile(path string) ([]batchEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open address file %s", path)
	}
	defer f.Close()

	var entries []batchEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry := batchEntry{Address: line, Borough: batchBorough}
		if i := strings.Index(line, "|"); i >= 0 {
			entry.Address = strings.TrimSpace(line[:i])
			entry.Borough = strings.TrimSpace(line[i+1:])
		}
		if entry.Address == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read address file %s", path)
	}
	return entries, nil
}

// processBatch runs the entries concurrently. Individual failures are
// counted and logged, never aborting the batch.
func processBatch(ctx context.Context, env *engineEnv, entries []batchEntry, limit, concurrency int) error {
	if len(entries) == 0 {
		zap.L().Info("no addresses to process")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("addresses", len(entries)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed, unresolved atomic.Int64

	for _, entry := range entries {
		g.Go(func() error {
			log := zap.L().With(zap.String("address", entry.Address))

			record, err := env.Aggregator.Report(gctx, entry.Address, entry.Borough)
			if err != nil {
				failed.Add(1)
				log.Error("report failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			if record.DataSources == model.SourceResolutionFailed {
				unresolved.Add(1)
			}

			if batchSave && env.Store != nil {
				if err := env.Store.SaveRecord(gctx, record); err != nil {
					failed.Add(1)
					log.Error("save failed", zap.Error(err))
					return nil
				}
			}
			if batchNotify && env.Relay != nil {
				if _, err := env.Relay.Forward(gctx, record, map[string]string{"address": entry.Address}); err != nil {
					log.Warn("webhook forward failed", zap.Error(err))
				}
			}

			succeeded.Add(1)
			log.Info("report complete",
				zap.Float64("overall_score", record.OverallScore),
				zap.String("bin", record.BIN),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("unresolved", unresolved.Load()),
	)
	return nil
}
