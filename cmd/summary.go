package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/marzoli/go-cmdr-stats/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate information about the stored games: total game and
entry counts, date range, distinct players and commanders, and the
bracket distribution of entries.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'cmdrstats add' to record one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", ov.Games)
	fmt.Fprintf(os.Stdout, "  Entries       : %d\n", ov.Entries)
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", ov.Earliest, ov.Latest)
	fmt.Fprintf(os.Stdout, "  Players seen  : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Commanders    : %d\n", ov.Commanders)

	res, err := aggregateFromStore(0, 0, 0)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n--- Brackets ---\n\n")
	bt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	bt.Header("BRACKET", "ENTRIES", "WINNERS")
	for _, row := range res.Tiers {
		bt.Append(row.Tier,
			fmt.Sprintf("%d", res.TierEntryCounts[row.Tier]),
			fmt.Sprintf("%d", res.TierWinnerCounts[row.Tier]))
	}
	bt.Render()

	// Pod sizes are only worth showing when more than one size is present.
	if len(res.Sizes) > 1 {
		fmt.Fprintf(os.Stdout, "\n--- Pod Sizes ---\n\n")
		pt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		pt.Header("POD", "PLAYER ROWS", "PAIR ROWS")
		for _, size := range res.Sizes {
			pt.Append(fmt.Sprintf("%d", size),
				fmt.Sprintf("%d", len(res.PlayersBySize[size])),
				fmt.Sprintf("%d", len(res.PairsBySize[size])))
		}
		pt.Render()
	}

	return nil
}
