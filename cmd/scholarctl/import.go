package main

import (
	"ScholarsBox/internal/config"
	"ScholarsBox/internal/scholarship"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var serialImport bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Reconcile a scholarship CSV with the record store",
	Long: `Parse, validate and upsert every row of a scholarship CSV by email.

Rejected rows are listed with their line number and reason; they never stop the
rest of the file from being imported. --serial switches to the per-row
lookup/insert strategy that only updates the status of existing records.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&serialImport, "serial", false, "Reconcile row by row instead of one bulk write")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	return withDatabase(cmd.Context(), func(ctx context.Context, c *config.MongoDBClient) error {
		importer := scholarship.NewImporter(scholarship.NewScholarshipRepository(c.Database), logger)
		run := importer.Import
		if serialImport {
			run = importer.ImportSerial
		}

		result, err := run(ctx, f)
		if err != nil {
			color.Red("Import failed: %v", err)
			return err
		}
		printImportResult(cmd.OutOrStdout(), result)
		return nil
	})
}

func printImportResult(w io.Writer, result *scholarship.ImportResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Parsed", "Inserted", "Updated", "Invalid"})
	table.Append([]string{
		strconv.Itoa(result.ParsedRows),
		strconv.Itoa(result.InsertedCount),
		strconv.Itoa(result.UpdatedCount),
		strconv.Itoa(len(result.InvalidRecords)),
	})
	table.Render()

	if len(result.InvalidRecords) == 0 {
		color.New(color.FgGreen).Fprintln(w, "All rows imported.")
		return
	}

	color.New(color.FgYellow).Fprintf(w, "%d row(s) rejected:\n", len(result.InvalidRecords))
	rejected := tablewriter.NewWriter(w)
	rejected.SetHeader([]string{"Line", "Email", "Error"})
	rejected.SetAutoWrapText(false)
	for _, inv := range result.InvalidRecords {
		rejected.Append([]string{strconv.Itoa(inv.Row), cell(inv.Record, "email"), inv.Error})
	}
	rejected.Render()
}

// cell looks a column up by header name, ignoring case and padding.
func cell(record map[string]string, header string) string {
	for k, v := range record {
		if strings.EqualFold(strings.TrimSpace(k), header) {
			return v
		}
	}
	return ""
}
