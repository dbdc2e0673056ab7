package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/marzoli/go-cmdr-stats/internal/model"
)

const timeLayout = time.RFC3339

// InsertGame stores a game and its entries in one transaction and returns
// the new game id.
func (db *DB) InsertGame(g model.Game) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO game(played_at, winner_player, notes) VALUES (?, ?, ?)`,
		g.PlayedAt.UTC().Format(timeLayout), nullIfEmpty(g.WinnerName), nullIfEmpty(g.Notes),
	)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	gameID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO gameentry(game_id, player, commander, bracket) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range g.Entries {
		var bracket any
		if e.Tier.Known {
			bracket = e.Tier.Level
		}
		if _, err := stmt.Exec(gameID, e.Player, e.Commander, bracket); err != nil {
			return 0, fmt.Errorf("insert entry for %s: %w", e.Player, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return gameID, nil
}

// ListGames returns summaries of all stored games, newest first.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT g.id, g.played_at, COALESCE(g.winner_player, ''), COALESCE(g.notes, ''),
		       (SELECT COUNT(*) FROM gameentry ge WHERE ge.game_id = g.id)
		FROM game g
		ORDER BY g.played_at DESC, g.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var s model.GameSummary
		var playedAt string
		if err := rows.Scan(&s.ID, &playedAt, &s.WinnerName, &s.Notes, &s.TableSize); err != nil {
			return nil, err
		}
		s.PlayedAt, _ = time.Parse(timeLayout, playedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadSnapshot reads every game with its entries in a stable order. The
// returned slice is the immutable input of one aggregation run.
func (db *DB) LoadSnapshot() ([]model.Game, error) {
	rows, err := db.conn.Query(`
		SELECT id, played_at, COALESCE(winner_player, ''), COALESCE(notes, '')
		FROM game ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	index := make(map[int64]int)
	for rows.Next() {
		var g model.Game
		var playedAt string
		if err := rows.Scan(&g.ID, &playedAt, &g.WinnerName, &g.Notes); err != nil {
			return nil, err
		}
		g.PlayedAt, _ = time.Parse(timeLayout, playedAt)
		index[g.ID] = len(games)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := db.conn.Query(`
		SELECT game_id, player, commander, bracket
		FROM gameentry ORDER BY game_id ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var gameID int64
		var e model.GameEntry
		var bracket sql.NullInt64
		if err := entryRows.Scan(&gameID, &e.Player, &e.Commander, &bracket); err != nil {
			return nil, err
		}
		if bracket.Valid {
			e.Tier = model.TierOf(int(bracket.Int64))
		}
		if i, ok := index[gameID]; ok {
			games[i].Entries = append(games[i].Entries, e)
		}
	}
	return games, entryRows.Err()
}

// DeleteGame removes a game and its entries. It reports whether a game row
// was actually deleted. Entries are deleted explicitly so the result does
// not depend on the connection's foreign-key pragma.
func (db *DB) DeleteGame(id int64) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM gameentry WHERE game_id = ?`, id); err != nil {
		return false, err
	}
	res, err := tx.Exec(`DELETE FROM game WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Overview is a high-level description of the stored data.
type Overview struct {
	Games      int
	Entries    int
	Players    int
	Commanders int
	Earliest   string
	Latest     string
}

// GetOverview returns the store-wide counts and date range.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(MIN(played_at), ''),
		       COALESCE(MAX(played_at), '')
		FROM game`).Scan(&ov.Games, &ov.Earliest, &ov.Latest)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT player), COUNT(DISTINCT commander)
		FROM gameentry`).Scan(&ov.Entries, &ov.Players, &ov.Commanders)
	return ov, err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
