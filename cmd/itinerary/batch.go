package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/async"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/ingest"
)

func batchCmd() *cobra.Command {
	var includeHidden bool
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Store every itinerary text file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			ing := ingest.NewFSIngestor(a.trips, yearFlag, logger)
			skipHidden := cfg.Ingest.SkipHidden && !includeHidden
			results, stats, err := ing.IngestDirectory(cmd.Context(), args[0], skipHidden)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"File", "Itinerary", "Days", "Status"})
			for _, r := range results {
				state := "stored"
				switch {
				case r.Err != "":
					state = r.Err
				case r.Deduplicated:
					state = "duplicate"
				}
				table.Append([]string{r.SourcePath, r.ItineraryID, strconv.Itoa(r.Days), state})
			}
			table.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d matched=%d stored=%d duplicates=%d failed=%d\n",
				stats.Scanned, stats.Matched, stats.Succeeded-stats.Deduplicated, stats.Deduplicated, stats.Failed)
			if stats.Failed > 0 {
				return fmt.Errorf("%d file(s) failed", stats.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "include dot files and dot directories")
	return cmd
}

func watchCmd() *cobra.Command {
	var noScan bool
	cmd := &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Store itinerary files as they appear under the given directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				roots = cfg.Ingest.Roots
			}
			if len(roots) == 0 {
				return fmt.Errorf("no directories to watch: pass them as arguments or set ITINERARY_INGEST_ROOTS")
			}

			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			out := cmd.OutOrStdout()
			queue := async.NewProcessorQueue(ingest.NewFSIngestor(a.trips, yearFlag, logger), logger,
				async.WithWorkers(cfg.Ingest.Workers),
				async.WithQueueSize(cfg.Ingest.Queue),
				async.WithResultHandler(func(job async.Job, res ingest.IngestionResult, err error) {
					switch {
					case err != nil:
						fmt.Fprintf(out, "failed\t%s\t%v\n", job.Path, err)
					case res.Deduplicated:
						fmt.Fprintf(out, "duplicate\t%s\t%s\n", job.Path, res.ItineraryID)
					default:
						fmt.Fprintf(out, "stored\t%s\t%s\n", job.Path, res.ItineraryID)
					}
				}),
			)

			ctx := cmd.Context()
			paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       roots,
				InitialScan: !noScan,
				SkipHidden:  cfg.Ingest.SkipHidden,
				Debounce:    cfg.Ingest.Debounce,
				Logger:      logger,
			})
			if err != nil {
				queue.Shutdown(context.Background())
				return err
			}
			logger.Info("watch.started", "roots", roots)

			for paths != nil || errs != nil {
				select {
				case p, ok := <-paths:
					if !ok {
						paths = nil
						continue
					}
					if err := queue.Enqueue(ctx, async.Job{Path: p, TraceID: uuid.NewString()}); err != nil {
						logger.Warn("watch.enqueue.failed", "path", p, "error", err)
					}
				case werr, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					logger.Error("watch.error", "error", werr)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			queue.Shutdown(shutdownCtx)
			logger.Info("watch.stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noScan, "no-scan", false, "skip files that already exist")
	return cmd
}
