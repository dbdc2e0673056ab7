package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marzoli/go-cmdr-stats/internal/storage"
)

var dropCmd = &cobra.Command{
	Use:   "drop <game-id>",
	Short: "Delete a stored game and its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func runDrop(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid game id %q", args[0])
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	deleted, err := db.DeleteGame(id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if !deleted {
		fmt.Fprintf(os.Stderr, "No game found with id %d\n", id)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted game #%d\n", id)
	return nil
}
