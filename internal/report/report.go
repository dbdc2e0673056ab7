package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/marzoli/go-cmdr-stats/internal/aggregator"
	"github.com/marzoli/go-cmdr-stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSnapshotSummary prints the one-line header for a stats run.
func PrintSnapshotSummary(w io.Writer, res *aggregator.Result) {
	fmt.Fprintf(w, "\nGames: %d  |  Entries: %d  |  Players: %d  |  Commanders: %d  |  alpha=%.2f\n\n",
		res.GameCount, res.EntryCount, len(res.FilterPlayers), len(res.FilterCommanders), res.Alpha)
}

// PrintPlayerTable prints the per-player table. If focusPlayer is non-empty,
// that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, rows []model.PlayerRow, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "GAMES", "WINS", "WIN%", "DECKS", "TOP_COMMANDER", "TOP_N")

	for _, r := range rows {
		marker := " "
		if focusPlayer != "" && r.Player == focusPlayer {
			marker = ">"
		}
		table.Append(
			marker,
			r.Player,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			pct(r.Winrate),
			strconv.Itoa(r.UniqueCommanders),
			r.TopCommander,
			strconv.Itoa(r.TopCommanderGames),
		)
	}
	table.Render()
}

// PrintPairTable prints the per-(player, commander) table.
func PrintPairTable(w io.Writer, rows []model.PairRow, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "COMMANDER", "GAMES", "WINS", "WIN%")

	for _, r := range rows {
		marker := " "
		if focusPlayer != "" && r.Player == focusPlayer {
			marker = ">"
		}
		table.Append(
			marker,
			r.Player,
			r.Commander,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			pct(r.Winrate),
		)
	}
	table.Render()
}

// PrintTierTable prints the per-bracket table.
func PrintTierTable(w io.Writer, rows []model.TierRow) {
	table := newTable(w)
	table.Header("BRACKET", "GAMES", "WINS", "WIN%")

	for _, r := range rows {
		table.Append(
			r.Tier,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			pct(r.Winrate),
		)
	}
	table.Render()
}

// PrintTripleTable prints the full (player, commander, bracket) table with
// the weighted scheme and pressure columns.
func PrintTripleTable(w io.Writer, rows []model.TripleRow, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "COMMANDER", "BRACKET", "GAMES", "WINS", "WIN%",
		"W_WIN%", "PRESSURE", "LABEL", "COVERAGE", "TABLE_AVG")

	for _, r := range rows {
		marker := " "
		if focusPlayer != "" && r.Player == focusPlayer {
			marker = ">"
		}

		pressure := "—"
		if r.PressureIndex != nil {
			pressure = fmt.Sprintf("%+.2f", *r.PressureIndex)
		}
		coverage := "—"
		if r.WinCoverage != nil {
			coverage = pct(*r.WinCoverage)
		}
		tableAvg := "—"
		if r.AvgTableTier != nil {
			tableAvg = fmt.Sprintf("%.2f", *r.AvgTableTier)
		}

		table.Append(
			marker,
			r.Player,
			r.Commander,
			r.Tier,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			pct(r.Winrate),
			pct(r.WeightedWinrate),
			pressure,
			r.PressureLabel,
			coverage,
			tableAvg,
		)
	}
	table.Render()
}

// PrintPodSizeTables prints the player and pair tables for every observed
// table size. The per-size player table skips the commander rollup columns,
// which are only computed across the whole snapshot.
func PrintPodSizeTables(w io.Writer, res *aggregator.Result, focusPlayer string) {
	for _, size := range res.Sizes {
		fmt.Fprintf(w, "\n--- Pods of %d ---\n\n", size)
		printPlayerWinTable(w, res.PlayersBySize[size], focusPlayer)
		fmt.Fprintln(w)
		PrintPairTable(w, res.PairsBySize[size], focusPlayer)
	}
}

func printPlayerWinTable(w io.Writer, rows []model.PlayerRow, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "GAMES", "WINS", "WIN%")

	for _, r := range rows {
		marker := " "
		if focusPlayer != "" && r.Player == focusPlayer {
			marker = ">"
		}
		table.Append(
			marker,
			r.Player,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			pct(r.Winrate),
		)
	}
	table.Render()
}

// PrintWarnings lists the data-quality anomalies recovered during the run.
func PrintWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\nData-quality warnings (%d):\n", len(warnings))
	for _, msg := range warnings {
		fmt.Fprintf(w, "  ! %s\n", msg)
	}
}

func pct(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}
