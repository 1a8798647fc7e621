package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/export"
	repo "github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/server"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

var (
	yearFlag int
	dbFlag   string
	cfg      *common.Config
	logger   *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "itinerary",
		Short:         "Parse, format and store travel itinerary texts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = common.LoadConfig(); err != nil {
				return err
			}
			if dbFlag != "" {
				cfg.Database.DSN = dbFlag
			}
			if yearFlag <= 0 {
				yearFlag = cfg.Parse.DefaultYear
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			slog.SetDefault(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().IntVarP(&yearFlag, "year", "y", 0, "year for M/D dates (default: from the text, then the current year)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "database DSN (overrides ITINERARY_DB_DSN)")

	rootCmd.AddCommand(
		parseCmd(), formatCmd(), basicInfoCmd(), quoteCmd(), importCmd(),
		saveCmd(), listCmd(), showCmd(), deleteCmd(), exportCmd(),
		batchCmd(), watchCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

// readInput reads the file named by the first argument, or stdin when no
// argument or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), "", err
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(b), args[0], nil
}

// app bundles the storage-backed services a command needs.
type app struct {
	db     *repo.DB
	itRepo repo.ItineraryRepository
	trips  *trips.Service
	export *export.Service
}

func openApp(ctx context.Context) (*app, func(), error) {
	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	itRepo := repo.NewItineraryRepository(db, logger)
	a := &app{
		db:     db,
		itRepo: itRepo,
		trips:  trips.NewService(itRepo, repo.NewQuotationRepository(db, logger), yearFlag, logger),
		export: export.NewService(itRepo, export.PDFOptions{FontPath: cfg.Export.FontPath}, logger),
	}
	return a, func() { server.CloseDB(db, logger) }, nil
}
