package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marzoli/go-cmdr-stats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'cmdrstats add' to record one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-20s  %4s  %s\n",
		"ID", "DATE", "WINNER", "POD", "NOTES")
	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-20s  %4s  %s\n",
		"──────", "──────────", "────────────────────", "────", "─────")
	for _, g := range games {
		winner := g.WinnerName
		if winner == "" {
			winner = "—"
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-10s  %-20s  %4d  %s\n",
			g.ID, g.PlayedAt.Format("2006-01-02"), winner, g.TableSize, g.Notes)
	}
	return nil
}
