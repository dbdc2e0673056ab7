// Package aggregator turns an immutable snapshot of games into the grouped
// win-rate tables. One call is one run: all state lives in a per-run
// context and is discarded when the run ends.
package aggregator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/marzoli/go-cmdr-stats/internal/model"
	"github.com/marzoli/go-cmdr-stats/internal/weighting"
)

// Caps and defaults for the bounded output tables.
const (
	DefaultTopTriples = 50
	MinTopTriples     = 10
	MaxTopTriples     = 500

	DefaultMaxUniqueTriples = 200
	MinMaxUniqueTriples     = 10
	MaxMaxUniqueTriples     = 5000
)

// Options are the run tunables. The zero value gets the defaults.
type Options struct {
	// Alpha is the win-weighting coefficient; negative values are
	// clamped to 0 (weighting disabled).
	Alpha float64

	// TopTriples caps the triple table; 0 means DefaultTopTriples.
	TopTriples int

	// MaxUniqueTriples caps the distinct-triple table; 0 means
	// DefaultMaxUniqueTriples.
	MaxUniqueTriples int

	// Labels classifies the pressure index; the zero value is replaced
	// by weighting.DefaultLabelScale.
	Labels weighting.LabelScale
}

func (o Options) normalized() Options {
	if o.Alpha < 0 {
		o.Alpha = 0
	}
	if o.TopTriples == 0 {
		o.TopTriples = DefaultTopTriples
	}
	o.TopTriples = clamp(o.TopTriples, MinTopTriples, MaxTopTriples)
	if o.MaxUniqueTriples == 0 {
		o.MaxUniqueTriples = DefaultMaxUniqueTriples
	}
	o.MaxUniqueTriples = clamp(o.MaxUniqueTriples, MinMaxUniqueTriples, MaxMaxUniqueTriples)
	if o.Labels == (weighting.LabelScale{}) {
		o.Labels = weighting.DefaultLabelScale()
	}
	return o
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Result holds every table of one aggregation run.
type Result struct {
	GameCount  int
	EntryCount int

	Players       []model.PlayerRow
	Pairs         []model.PairRow
	Tiers         []model.TierRow
	Triples       []model.TripleRow
	UniqueTriples []model.UniqueTripleRow

	// Pod-size segmentation: player and pair tables restricted to games
	// of each observed table size.
	Sizes         []int
	PlayersBySize map[int][]model.PlayerRow
	PairsBySize   map[int][]model.PairRow

	TierEntryCounts  map[string]int
	TierWinnerCounts map[string]int

	// Distinct values for downstream filter population.
	FilterPlayers    []string
	FilterCommanders []string
	FilterTiers      []string

	// Warnings are data-quality anomalies recovered during the pass.
	Warnings []string

	// Effective tunables after clamping.
	Alpha            float64
	TopTriples       int
	MaxUniqueTriples int
}

type pairKey struct {
	player, commander string
}

type tripleKey struct {
	player, commander, tier string
}

type countWin struct {
	games int
	wins  int
}

type tripleAccum struct {
	games         int
	wins          int
	weightedWins  float64
	weightedGames float64
	deltas        []float64 // bracket deltas of qualifying wins
	tableAvgs     []float64 // table-average tier of qualifying wins
}

// pass is the per-run aggregation context.
type pass struct {
	opts Options

	playerStats      map[string]*countWin
	playerCommanders map[string]map[string]int
	pairStats        map[pairKey]*countWin
	tierStats        map[string]*countWin
	triples          map[tripleKey]*tripleAccum
	uniqueTriples    map[tripleKey]int
	tierWinnerCounts map[string]int

	playerBySize map[int]map[string]*countWin
	pairBySize   map[int]map[pairKey]*countWin

	commanders map[string]struct{}
	tierLevels map[int]struct{}

	entryCount int
	warnings   []string
}

// Aggregate runs a single pass over the snapshot and materializes every
// grouped table. It never fails on data-quality anomalies; those are
// recorded in Result.Warnings and the pass continues.
func Aggregate(games []model.Game, opts Options) *Result {
	opts = opts.normalized()
	p := &pass{
		opts:             opts,
		playerStats:      make(map[string]*countWin),
		playerCommanders: make(map[string]map[string]int),
		pairStats:        make(map[pairKey]*countWin),
		tierStats:        make(map[string]*countWin),
		triples:          make(map[tripleKey]*tripleAccum),
		uniqueTriples:    make(map[tripleKey]int),
		tierWinnerCounts: make(map[string]int),
		playerBySize:     make(map[int]map[string]*countWin),
		pairBySize:       make(map[int]map[pairKey]*countWin),
		commanders:       make(map[string]struct{}),
		tierLevels:       make(map[int]struct{}),
	}

	for i := range games {
		p.addGame(&games[i])
	}
	return p.result(len(games))
}

// addGame folds one game into the accumulators.
func (p *pass) addGame(g *model.Game) {
	size := g.TableSize()

	// Normalize tiers once; out-of-range brackets fall back to n/a.
	tiers := make([]model.Tier, len(g.Entries))
	for i, e := range g.Entries {
		t := e.Tier
		if !t.InRange() {
			p.warnf("game %d: %s/%s has bracket %d outside %d-%d, counted as %s",
				g.ID, e.Player, e.Commander, t.Level, model.TierMin, model.TierMax, model.TierNA)
			t = model.NoTier()
		}
		tiers[i] = t
	}

	// Table-average tier over entries with a known tier.
	var tierSum float64
	tierN := 0
	for _, t := range tiers {
		if t.Known {
			tierSum += float64(t.Level)
			tierN++
		}
	}
	tableAvg := 0.0
	tableAvgKnown := tierN > 0
	if tableAvgKnown {
		tableAvg = tierSum / float64(tierN)
	}

	match, winnerIdx := g.ResolveWinner()
	if g.WinnerName != "" && match != model.WinnerUnique {
		p.warnf("game %d: winner %q has %s entry match, wins not counted", g.ID, g.WinnerName, match)
	}

	// Winner tier bucket, one count per game.
	winnerTierKey := model.TierNA
	if match == model.WinnerUnique {
		winnerTierKey = tiers[winnerIdx].Key()
	}
	p.tierWinnerCounts[winnerTierKey]++

	// Win weight for the winning entry, from the bracket delta against
	// the table average. Undefined on either side means weight 1.
	winWeight := 1.0
	winDelta := 0.0
	winDeltaKnown := false
	if match == model.WinnerUnique && tiers[winnerIdx].Known && tableAvgKnown {
		winDelta = float64(tiers[winnerIdx].Level) - tableAvg
		winDeltaKnown = true
		winWeight = weighting.WinWeight(winDelta, p.opts.Alpha)
	}

	for i, e := range g.Entries {
		tier := tiers[i]
		tierKey := tier.Key()
		won := match == model.WinnerUnique && i == winnerIdx

		p.entryCount++
		p.commanders[e.Commander] = struct{}{}
		if tier.Known {
			p.tierLevels[tier.Level] = struct{}{}
		}

		p.bump(p.playerStats, e.Player, won)
		pk := pairKey{e.Player, e.Commander}
		p.bumpPair(p.pairStats, pk, won)
		p.bump(p.tierStats, tierKey, won)

		if p.playerCommanders[e.Player] == nil {
			p.playerCommanders[e.Player] = make(map[string]int)
		}
		p.playerCommanders[e.Player][e.Commander]++

		// Pod-size segment.
		if p.playerBySize[size] == nil {
			p.playerBySize[size] = make(map[string]*countWin)
			p.pairBySize[size] = make(map[pairKey]*countWin)
		}
		p.bump(p.playerBySize[size], e.Player, won)
		p.bumpPair(p.pairBySize[size], pk, won)

		// Triple accumulation with the weighted scheme. Every entry
		// grows the denominator by 1; the winning entry's net effect on
		// both numerator and denominator is its weight.
		tk := tripleKey{e.Player, e.Commander, tierKey}
		rec := p.triples[tk]
		if rec == nil {
			rec = &tripleAccum{}
			p.triples[tk] = rec
		}
		rec.games++
		rec.weightedGames += 1.0
		if won {
			rec.wins++
			if winDeltaKnown {
				rec.weightedWins += winWeight
				rec.weightedGames += winWeight - 1.0
				rec.deltas = append(rec.deltas, winDelta)
				rec.tableAvgs = append(rec.tableAvgs, tableAvg)
			} else {
				rec.weightedWins += 1.0
			}
		}

		p.uniqueTriples[tk]++
	}
}

func (p *pass) bump(m map[string]*countWin, key string, won bool) {
	cw := m[key]
	if cw == nil {
		cw = &countWin{}
		m[key] = cw
	}
	cw.games++
	if won {
		cw.wins++
	}
}

func (p *pass) bumpPair(m map[pairKey]*countWin, key pairKey, won bool) {
	cw := m[key]
	if cw == nil {
		cw = &countWin{}
		m[key] = cw
	}
	cw.games++
	if won {
		cw.wins++
	}
}

func (p *pass) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// result materializes the sorted tables from the accumulators.
func (p *pass) result(gameCount int) *Result {
	res := &Result{
		GameCount:        gameCount,
		EntryCount:       p.entryCount,
		PlayersBySize:    make(map[int][]model.PlayerRow),
		PairsBySize:      make(map[int][]model.PairRow),
		TierEntryCounts:  make(map[string]int),
		TierWinnerCounts: p.tierWinnerCounts,
		Warnings:         p.warnings,
		Alpha:            p.opts.Alpha,
		TopTriples:       p.opts.TopTriples,
		MaxUniqueTriples: p.opts.MaxUniqueTriples,
	}

	res.Players = p.playerRows(p.playerStats, true)
	res.Pairs = p.pairRows(p.pairStats)

	res.Tiers = make([]model.TierRow, 0, len(p.tierStats))
	for key, cw := range p.tierStats {
		res.Tiers = append(res.Tiers, model.TierRow{
			Tier:    key,
			Games:   cw.games,
			Wins:    cw.wins,
			Winrate: rate(cw.wins, cw.games),
		})
		res.TierEntryCounts[key] = cw.games
	}
	sort.Slice(res.Tiers, func(i, j int) bool {
		return tierOrder(res.Tiers[i].Tier) < tierOrder(res.Tiers[j].Tier)
	})

	for size := range p.playerBySize {
		res.Sizes = append(res.Sizes, size)
		res.PlayersBySize[size] = p.playerRows(p.playerBySize[size], false)
		res.PairsBySize[size] = p.pairRows(p.pairBySize[size])
	}
	sort.Ints(res.Sizes)

	res.Triples = p.tripleRows()
	res.UniqueTriples = p.uniqueTripleRows()

	for player := range p.playerStats {
		res.FilterPlayers = append(res.FilterPlayers, player)
	}
	sort.Strings(res.FilterPlayers)
	for commander := range p.commanders {
		res.FilterCommanders = append(res.FilterCommanders, commander)
	}
	sort.Strings(res.FilterCommanders)
	levels := make([]int, 0, len(p.tierLevels))
	for lvl := range p.tierLevels {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	for _, lvl := range levels {
		res.FilterTiers = append(res.FilterTiers, strconv.Itoa(lvl))
	}

	return res
}

func (p *pass) playerRows(stats map[string]*countWin, withCommanders bool) []model.PlayerRow {
	rows := make([]model.PlayerRow, 0, len(stats))
	for player, cw := range stats {
		row := model.PlayerRow{
			Player:  player,
			Games:   cw.games,
			Wins:    cw.wins,
			Winrate: rate(cw.wins, cw.games),
		}
		if withCommanders {
			cmds := p.playerCommanders[player]
			row.UniqueCommanders = len(cmds)
			for c, n := range cmds {
				if n > row.TopCommanderGames ||
					(n == row.TopCommanderGames && less(c, row.TopCommander)) {
					row.TopCommander = c
					row.TopCommanderGames = n
				}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return less(rows[i].Player, rows[j].Player)
	})
	return rows
}

func (p *pass) pairRows(stats map[pairKey]*countWin) []model.PairRow {
	rows := make([]model.PairRow, 0, len(stats))
	for key, cw := range stats {
		rows = append(rows, model.PairRow{
			Player:    key.player,
			Commander: key.commander,
			Games:     cw.games,
			Wins:      cw.wins,
			Winrate:   rate(cw.wins, cw.games),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Player != b.Player {
			return less(a.Player, b.Player)
		}
		return less(a.Commander, b.Commander)
	})
	return rows
}

func (p *pass) tripleRows() []model.TripleRow {
	rows := make([]model.TripleRow, 0, len(p.triples))
	for key, rec := range p.triples {
		row := model.TripleRow{
			Player:          key.player,
			Commander:       key.commander,
			Tier:            key.tier,
			Games:           rec.games,
			Wins:            rec.wins,
			Winrate:         rate(rec.wins, rec.games),
			WeightedWins:    rec.weightedWins,
			WeightedGames:   rec.weightedGames,
			WeightedWinrate: frate(rec.weightedWins, rec.weightedGames),
		}
		if len(rec.deltas) >= 2 {
			idx := mean(rec.deltas)
			row.PressureIndex = &idx
		}
		row.PressureLabel = p.opts.Labels.Label(row.PressureIndex)
		if rec.wins > 0 {
			cov := float64(len(rec.deltas)) / float64(rec.wins)
			row.WinCoverage = &cov
		}
		if len(rec.tableAvgs) > 0 {
			avg := mean(rec.tableAvgs)
			row.AvgTableTier = &avg
		}
		rows = append(rows, row)
	}

	// Selection rank: busiest and strongest rows stay under the cap.
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		if a.WeightedWinrate != b.WeightedWinrate {
			return a.WeightedWinrate > b.WeightedWinrate
		}
		if a.Winrate != b.Winrate {
			return a.Winrate > b.Winrate
		}
		if a.Player != b.Player {
			return less(a.Player, b.Player)
		}
		return less(a.Commander, b.Commander)
	})
	if len(rows) > p.opts.TopTriples {
		rows = rows[:p.opts.TopTriples]
	}

	// Presentation order: ascending by grouping key, so repeated runs
	// over the same snapshot diff cleanly.
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Player != b.Player {
			return less(a.Player, b.Player)
		}
		if a.Commander != b.Commander {
			return less(a.Commander, b.Commander)
		}
		return tierOrder(a.Tier) < tierOrder(b.Tier)
	})
	return rows
}

func (p *pass) uniqueTripleRows() []model.UniqueTripleRow {
	rows := make([]model.UniqueTripleRow, 0, len(p.uniqueTriples))
	for key, n := range p.uniqueTriples {
		rows = append(rows, model.UniqueTripleRow{
			Commander: key.commander,
			Player:    key.player,
			Tier:      key.tier,
			Entries:   n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Commander != b.Commander {
			return less(a.Commander, b.Commander)
		}
		if a.Player != b.Player {
			return less(a.Player, b.Player)
		}
		return tierOrder(a.Tier) < tierOrder(b.Tier)
	})
	if len(rows) > p.opts.MaxUniqueTriples {
		rows = rows[:p.opts.MaxUniqueTriples]
	}
	return rows
}

// tierOrder sorts numeric tier keys ascending with "n/a" last.
func tierOrder(key string) int {
	if key == model.TierNA {
		return 1 << 30
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 1 << 30
	}
	return n
}

// less is a case-insensitive string order with a case-sensitive tiebreak.
func less(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func rate(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(wins) / float64(games)
}

func frate(wins, games float64) float64 {
	if games == 0 {
		return 0
	}
	return wins / games
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
