package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/basicinfo"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/docschema"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/document"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func parseCmd() *cobra.Command {
	var itineraryOnly bool
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a trip document and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if itineraryOnly {
				var opts []itinerary.Option
				if yearFlag > 0 {
					opts = append(opts, itinerary.WithYear(yearFlag))
				}
				res := itinerary.Parse(text, opts...)
				logger.Info("itinerary.parse.ok", "days", len(res.Days), "warnings", len(res.Warnings))
				return writeJSON(cmd.OutOrStdout(), res)
			}
			doc := document.ParseText(text, yearFlag)
			for _, w := range doc.Itinerary.Warnings {
				logger.Warn("itinerary.parse.warning", "code", string(w.Code), "line", w.Line, "message", w.Message)
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&itineraryOnly, "itinerary-only", false, "treat the whole input as the day-by-day block")
	return cmd
}

func formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format [file|-]",
		Short: "Rewrite itinerary text in the canonical layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			doc := document.ParseText(text, yearFlag)
			if !doc.Itinerary.Success {
				return fmt.Errorf("no itinerary days found")
			}
			out := itinerary.Format(doc.Itinerary.Days)
			if len(doc.Quotation.Items) > 0 || doc.Quotation.Total != nil {
				out += "\n\n【報價】\n" + quotation.Format(doc.Quotation)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func basicInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "basicinfo [file|-]",
		Short: "Extract client, dates and headcount from a basic-info block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), basicinfo.Parse(text))
		},
	}
}

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote [file|-]",
		Short: "Print the quotation block as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var opts []quotation.Option
			if yearFlag > 0 {
				opts = append(opts, quotation.WithYear(yearFlag))
			}
			renderQuotation(cmd.OutOrStdout(), quotation.Parse(text, opts...))
			return nil
		},
	}
}

func renderQuotation(w io.Writer, q quotation.Quotation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Description", "Unit Price", "Qty", "Amount"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, it := range q.Items {
		qty := strconv.Itoa(it.Quantity) + it.Unit
		table.Append([]string{it.Date, it.Description, quotation.FormatAmount(it.UnitPrice), qty, quotation.FormatAmount(it.Amount())})
	}
	total := "-"
	if q.Total != nil {
		total = quotation.FormatAmount(*q.Total)
	}
	table.SetFooter([]string{"", "", "", "Total", total})
	table.Render()

	if q.Total != nil && *q.Total != q.Sum() {
		fmt.Fprintf(w, "note: items add up to %s\n", quotation.FormatAmount(q.Sum()))
	}
	if q.Note != "" {
		fmt.Fprintf(w, "備註: %s\n", q.Note)
	}
}

func importCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "import [file.json|-]",
		Short: "Convert a JSON day list to itinerary text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			imp, err := docschema.Import([]byte(raw), logger)
			if err != nil {
				return err
			}
			for _, c := range imp.Changes {
				logger.Info("import.normalized", "change", c)
			}
			if !save {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), imp.Text)
				return err
			}

			a, closeApp, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()
			rec, err := a.trips.Save(cmd.Context(), trips.SaveRequest{Text: imp.Text, Title: imp.Title, SourcePath: path})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the imported itinerary instead of printing it")
	return cmd
}
