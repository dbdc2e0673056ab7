package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marzoli/go-cmdr-stats/internal/aggregator"
	"github.com/marzoli/go-cmdr-stats/internal/report"
	"github.com/marzoli/go-cmdr-stats/internal/weighting"
)

var (
	statsAlpha      float64
	statsTopTriples int
	statsMaxUnique  int
	statsFocus      string
	statsPods       bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute and print win-rate statistics",
	Long: `Run the aggregation over every stored game and print the player,
commander, bracket and triple tables. Wins are weighted by the bracket
mismatch between the winner and the table average; --alpha 0 disables
the weighting.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Float64Var(&statsAlpha, "alpha", weighting.DefaultAlpha, "win-weighting coefficient (0 disables weighting)")
	statsCmd.Flags().IntVar(&statsTopTriples, "top-triples", aggregator.DefaultTopTriples, "max rows in the triple table")
	statsCmd.Flags().IntVar(&statsMaxUnique, "max-unique", aggregator.DefaultMaxUniqueTriples, "max rows in the distinct-triple table")
	statsCmd.Flags().StringVar(&statsFocus, "player", "", "highlight this player's rows")
	statsCmd.Flags().BoolVar(&statsPods, "pods", false, "also print per-pod-size tables")
}

func runStats(cmd *cobra.Command, args []string) error {
	res, err := aggregateFromStore(statsAlpha, statsTopTriples, statsMaxUnique)
	if err != nil {
		return err
	}
	if res.GameCount == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'cmdrstats add' to record one.")
		return nil
	}

	report.PrintSnapshotSummary(os.Stdout, res)
	report.PrintPlayerTable(os.Stdout, res.Players, statsFocus)
	fmt.Fprintln(os.Stdout)
	report.PrintPairTable(os.Stdout, res.Pairs, statsFocus)
	fmt.Fprintln(os.Stdout)
	report.PrintTierTable(os.Stdout, res.Tiers)
	fmt.Fprintln(os.Stdout)
	report.PrintTripleTable(os.Stdout, res.Triples, statsFocus)
	if statsPods {
		report.PrintPodSizeTables(os.Stdout, res, statsFocus)
	}
	report.PrintWarnings(os.Stderr, res.Warnings)
	return nil
}
