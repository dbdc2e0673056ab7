package model

import (
	"strconv"
	"time"
)

// Tier bounds for a valid power-level bracket.
const (
	TierMin = 1
	TierMax = 5
)

// TierNA is the display bucket for entries without a usable tier.
const TierNA = "n/a"

// Tier is an optional power-level bracket. Known=false means the entry was
// recorded without a bracket; arithmetic must skip it.
type Tier struct {
	Level int
	Known bool
}

// TierOf returns a known tier at the given level.
func TierOf(level int) Tier {
	return Tier{Level: level, Known: true}
}

// NoTier returns the absent tier.
func NoTier() Tier {
	return Tier{}
}

// InRange reports whether a known tier sits inside [TierMin, TierMax].
// Unknown tiers are trivially in range.
func (t Tier) InRange() bool {
	return !t.Known || (t.Level >= TierMin && t.Level <= TierMax)
}

// Key returns the bucket key used for grouping and serialization:
// the decimal level for known tiers, "n/a" otherwise.
func (t Tier) Key() string {
	if !t.Known {
		return TierNA
	}
	return strconv.Itoa(t.Level)
}

// ---- Source snapshot ----

// GameEntry is one participant row within a Game. Entries are owned by
// their game and never shared across games.
type GameEntry struct {
	Player    string
	Commander string
	Tier      Tier
}

// Game is one recorded session. WinnerName is a free-text player name that
// is expected to match exactly one entry; the aggregator resolves it per
// game and tolerates games where it does not.
type Game struct {
	ID         int64
	PlayedAt   time.Time
	WinnerName string
	Notes      string
	Entries    []GameEntry
}

// TableSize is the participant count of the game.
func (g *Game) TableSize() int {
	return len(g.Entries)
}

// WinnerMatch is the outcome of resolving a game's winner name against its
// entries.
type WinnerMatch int

const (
	WinnerNone WinnerMatch = iota
	WinnerUnique
	WinnerAmbiguous
)

func (m WinnerMatch) String() string {
	switch m {
	case WinnerUnique:
		return "unique"
	case WinnerAmbiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// ResolveWinner matches WinnerName against the game's entries. The returned
// index is valid only for WinnerUnique.
func (g *Game) ResolveWinner() (WinnerMatch, int) {
	if g.WinnerName == "" {
		return WinnerNone, -1
	}
	idx := -1
	matches := 0
	for i, e := range g.Entries {
		if e.Player == g.WinnerName {
			matches++
			idx = i
		}
	}
	switch matches {
	case 0:
		return WinnerNone, -1
	case 1:
		return WinnerUnique, idx
	default:
		return WinnerAmbiguous, -1
	}
}

// ---- Aggregate rows ----

// PlayerRow is the per-player aggregate across all games.
type PlayerRow struct {
	Player            string  `json:"player"`
	Games             int     `json:"games"`
	Wins              int     `json:"wins"`
	Winrate           float64 `json:"winrate"`
	UniqueCommanders  int     `json:"unique_commanders"`
	TopCommander      string  `json:"top_commander"`
	TopCommanderGames int     `json:"top_commander_games"`
}

// PairRow is the per-(player, commander) aggregate.
type PairRow struct {
	Player    string  `json:"player"`
	Commander string  `json:"commander"`
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	Winrate   float64 `json:"winrate"`
}

// TierRow is the per-tier-bucket aggregate. Tier is the bucket key
// ("1".."5" or "n/a").
type TierRow struct {
	Tier    string  `json:"bracket"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`
}

// TripleRow is the full (player, commander, tier) aggregate, carrying the
// weighted win scheme and the pressure index.
type TripleRow struct {
	Player    string `json:"player"`
	Commander string `json:"commander"`
	Tier      string `json:"bracket"`

	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`

	WeightedWins    float64 `json:"weighted_wins"`
	WeightedGames   float64 `json:"weighted_games"`
	WeightedWinrate float64 `json:"weighted_winrate"`

	// PressureIndex is the mean bracket delta over qualifying wins; nil
	// when fewer than two wins had a computable delta.
	PressureIndex *float64 `json:"pressure_index"`
	PressureLabel string   `json:"pressure_label"`

	// WinCoverage is qualifying wins / wins; nil when the row has no wins.
	WinCoverage *float64 `json:"win_coverage"`

	// AvgTableTier is the mean table-average tier across qualifying wins;
	// nil when the row has none.
	AvgTableTier *float64 `json:"avg_table_tier"`
}

// UniqueTripleRow is the distinct (commander, player, tier) existence
// record used for coverage and data-hygiene reporting.
type UniqueTripleRow struct {
	Commander string `json:"commander"`
	Player    string `json:"player"`
	Tier      string `json:"bracket"`
	Entries   int    `json:"entries"`
}

// GameSummary is a lightweight record for list commands.
type GameSummary struct {
	ID         int64
	PlayedAt   time.Time
	WinnerName string
	Notes      string
	TableSize  int
}
