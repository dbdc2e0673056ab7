package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marzoli/go-cmdr-stats/internal/aggregator"
	"github.com/marzoli/go-cmdr-stats/internal/document"
	"github.com/marzoli/go-cmdr-stats/internal/report"
	"github.com/marzoli/go-cmdr-stats/internal/storage"
	"github.com/marzoli/go-cmdr-stats/internal/weighting"
)

var (
	exportAlpha      float64
	exportTopTriples int
	exportMaxUnique  int
	exportOut        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stats document as JSON",
	Long: `Run the aggregation over every stored game and write the versioned
stats document (` + document.Schema + `) consumed by the static frontend.
The output is deterministic for an unchanged database except for the
generation timestamp.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Float64Var(&exportAlpha, "alpha", weighting.DefaultAlpha, "win-weighting coefficient (0 disables weighting)")
	exportCmd.Flags().IntVar(&exportTopTriples, "top-triples", aggregator.DefaultTopTriples, "max rows in the triple table")
	exportCmd.Flags().IntVar(&exportMaxUnique, "max-unique", aggregator.DefaultMaxUniqueTriples, "max rows in the distinct-triple table")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	res, err := aggregateFromStore(exportAlpha, exportTopTriples, exportMaxUnique)
	if err != nil {
		return err
	}

	doc := document.Build(res, time.Now())

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := doc.WriteJSON(out); err != nil {
		return fmt.Errorf("write stats document: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d games, %d entries)\n", exportOut, res.GameCount, res.EntryCount)
	}
	report.PrintWarnings(os.Stderr, res.Warnings)
	return nil
}

// aggregateFromStore loads the snapshot and runs a single aggregation pass.
func aggregateFromStore(alpha float64, topTriples, maxUnique int) (*aggregator.Result, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return aggregator.Aggregate(games, aggregator.Options{
		Alpha:            alpha,
		TopTriples:       topTriples,
		MaxUniqueTriples: maxUnique,
	}), nil
}
