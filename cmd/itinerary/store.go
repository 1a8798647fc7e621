package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/export"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/ingest"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
)

func saveCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "save [file|-]",
		Short: "Parse a trip document and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			rec, err := a.trips.Save(cmd.Context(), trips.SaveRequest{
				Text:        text,
				Title:       title,
				SourcePath:  path,
				ContentHash: ingest.HashHex([]byte(text)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d days\n", rec.ID, rec.Title, rec.DayCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title for the stored itinerary")
	return cmd
}

func listCmd() *cobra.Command {
	var req trips.ListRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored itineraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			recs, err := a.trips.List(cmd.Context(), req)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Title", "Client", "Dates", "Days", "Created"})
			for _, r := range recs {
				table.Append([]string{
					r.ID.String(), r.Title, r.ClientName,
					r.StartDate + " ~ " + r.EndDate,
					strconv.Itoa(r.DayCount()),
					humanize.Time(r.CreatedAt),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FromDate, "from", "", "only trips ending on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&req.ToDate, "to", "", "only trips starting on or before YYYY-MM-DD")
	cmd.Flags().StringVar(&req.ClientName, "client", "", "client name substring")
	cmd.Flags().IntVar(&req.Limit, "limit", 50, "maximum rows")
	cmd.Flags().IntVar(&req.Offset, "offset", 0, "rows to skip")
	return cmd
}

func showCmd() *cobra.Command {
	var asText bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			rec, err := a.trips.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !asText {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.RawText)
			if rec.Quotation != nil {
				fmt.Fprintln(cmd.OutOrStdout())
				renderQuotation(cmd.OutOrStdout(), rec.Quotation.Model())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asText, "text", false, "print the stored text instead of JSON")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			if err := a.trips.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var formatFlag, outDir string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored itinerary as an xlsx or pdf file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			rec, err := a.trips.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, name, err := a.export.Export(cmd.Context(), rec.ID, format)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Export.OutDir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			dst := filepath.Join(outDir, name)
			if err := os.WriteFile(dst, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", dst, humanize.Bytes(uint64(len(data))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "xlsx", "xlsx or pdf")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: ITINERARY_EXPORT_OUT_DIR)")
	return cmd
}
