// Package document assembles one aggregation run into the versioned JSON
// payload consumed by the static frontend. Consumers treat the document as
// read-only and do their own filtering and sorting over it.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/marzoli/go-cmdr-stats/internal/aggregator"
	"github.com/marzoli/go-cmdr-stats/internal/model"
)

// Schema is the document version tag. v1 carried percent winrates; v2
// switched every rate to a fraction in [0, 1].
const Schema = "stats.v2"

// Counts are the snapshot totals.
type Counts struct {
	Games   int `json:"games"`
	Entries int `json:"entries"`
}

// Filters are the distinct values for downstream filter population.
type Filters struct {
	Players    []string `json:"players"`
	Commanders []string `json:"commanders"`
	Brackets   []string `json:"brackets"`
}

// Limits echoes the effective row caps and weighting coefficient.
type Limits struct {
	Alpha      float64 `json:"alpha"`
	TopTriples int     `json:"top_triples"`
	MaxUnique  int     `json:"max_unique"`
}

// Document is the full stats payload for one run.
type Document struct {
	Schema       string  `json:"schema"`
	GeneratedUTC string  `json:"generated_utc"`
	Counts       Counts  `json:"counts"`
	Filters      Filters `json:"filters"`

	Sizes      []int             `json:"sizes"`
	PlayerRows []model.PlayerRow `json:"player_rows"`
	PairRows   []model.PairRow   `json:"pair_rows"`

	PlayerBySizeTables map[string][]model.PlayerRow `json:"player_by_size_tables"`
	PairBySizeTables   map[string][]model.PairRow   `json:"pair_by_size_tables"`

	BracketEntryCounts  map[string]int  `json:"bracket_entry_counts"`
	BracketWinnerCounts map[string]int  `json:"bracket_winner_counts"`
	BracketRows         []model.TierRow `json:"bracket_rows"`

	UniqueTripleRows []model.UniqueTripleRow `json:"unique_triples_rows"`
	TripleRows       []model.TripleRow       `json:"triple_rows"`

	Warnings []string `json:"warnings"`
	Limits   Limits   `json:"limits"`
}

// Build assembles the document from a finished run. The timestamp is the
// only field that varies between runs over an unchanged snapshot.
func Build(res *aggregator.Result, now time.Time) *Document {
	doc := &Document{
		Schema:       Schema,
		GeneratedUTC: now.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z"),
		Counts:       Counts{Games: res.GameCount, Entries: res.EntryCount},
		Filters: Filters{
			Players:    emptyNotNil(res.FilterPlayers),
			Commanders: emptyNotNil(res.FilterCommanders),
			Brackets:   emptyNotNil(res.FilterTiers),
		},
		Sizes:               res.Sizes,
		PlayerRows:          res.Players,
		PairRows:            res.Pairs,
		PlayerBySizeTables:  make(map[string][]model.PlayerRow, len(res.PlayersBySize)),
		PairBySizeTables:    make(map[string][]model.PairRow, len(res.PairsBySize)),
		BracketEntryCounts:  res.TierEntryCounts,
		BracketWinnerCounts: res.TierWinnerCounts,
		BracketRows:         res.Tiers,
		UniqueTripleRows:    res.UniqueTriples,
		TripleRows:          res.Triples,
		Warnings:            emptyNotNil(res.Warnings),
		Limits: Limits{
			Alpha:      res.Alpha,
			TopTriples: res.TopTriples,
			MaxUnique:  res.MaxUniqueTriples,
		},
	}
	if doc.Sizes == nil {
		doc.Sizes = []int{}
	}
	for size, rows := range res.PlayersBySize {
		doc.PlayerBySizeTables[strconv.Itoa(size)] = rows
	}
	for size, rows := range res.PairsBySize {
		doc.PairBySizeTables[strconv.Itoa(size)] = rows
	}
	return doc
}

// WriteJSON serializes the document with stable indentation. A write
// failure is fatal for the run and surfaced to the caller.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode stats document: %w", err)
	}
	return nil
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
