package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marzoli/go-cmdr-stats/internal/model"
	"github.com/marzoli/go-cmdr-stats/internal/parser"
	"github.com/marzoli/go-cmdr-stats/internal/storage"
)

var (
	addWinner string
	addDate   string
	addNotes  string
)

var addCmd = &cobra.Command{
	Use:   "add [\"Player - Commander - Bracket\" ...]",
	Short: "Record a game with its participants",
	Long: `Record one game. Each argument is one participant in the form

  Player - Commander - Bracket

where Bracket is 1-5 or "n/a". With no arguments, entry lines are read
from stdin (one per line) until EOF, matching the paste format of the
original tracker UI.

Example:
  cmdrstats add --winner Bea \
    "Ale - Atraxa - 3" "Bea - Krenko - 4" "Carlo - Sisay - n/a"`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addWinner, "winner", "", "winner player name (must match one entry)")
	addCmd.Flags().StringVar(&addDate, "date", "", "game date, YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-text notes")
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, "\n")
	if len(args) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read entries from stdin: %w", err)
		}
		text = string(raw)
	}

	entries, err := parser.ParseEntries(text)
	if err != nil {
		return err
	}

	playedAt := time.Now().UTC()
	if addDate != "" {
		playedAt, err = time.Parse("2006-01-02", addDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", addDate, err)
		}
	}

	game := model.Game{
		PlayedAt:   playedAt,
		WinnerName: addWinner,
		Notes:      addNotes,
		Entries:    entries,
	}
	if match, _ := game.ResolveWinner(); addWinner != "" && match != model.WinnerUnique {
		fmt.Fprintf(os.Stderr, "warning: winner %q has %s entry match; the game is stored but will not count a win\n",
			addWinner, match)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	id, err := db.InsertGame(game)
	if err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Stored game #%d with %d entries", id, len(entries))
	if addWinner != "" {
		fmt.Fprintf(os.Stdout, " (winner: %s)", addWinner)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}
