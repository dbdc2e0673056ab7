// Package parser reads the tracker's entry-line format, one participant
// per line:
//
//	Player - Commander - Bracket
//
// Bracket is an integer 1-5 or "n/a" (also accepted: empty, "na", "none",
// "null"). The two-field form "Player - Commander" is accepted for
// backward compatibility. " - " is the preferred separator so names may
// contain plain hyphens; a bare "-" is used as fallback.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marzoli/go-cmdr-stats/internal/model"
)

// ParseEntries parses a block of entry lines. Blank lines are skipped.
// The write path is strict: any malformed line fails the whole block.
func ParseEntries(text string) ([]model.GameEntry, error) {
	var out []model.GameEntry
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		entry, err := ParseEntryLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no entries found")
	}
	return out, nil
}

// ParseEntryLine parses a single "Player - Commander - Bracket" line.
func ParseEntryLine(line string) (model.GameEntry, error) {
	sep := " - "
	if !strings.Contains(line, sep) {
		sep = "-"
	}
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return model.GameEntry{}, fmt.Errorf("invalid entry line: %q", line)
	}

	player := parts[0]
	if player == "" {
		return model.GameEntry{}, fmt.Errorf("invalid entry line: %q", line)
	}

	tier := model.NoTier()
	commanderParts := parts[1:]
	if len(parts) >= 3 {
		token := strings.ToLower(parts[len(parts)-1])
		commanderParts = parts[1 : len(parts)-1]
		switch token {
		case "", "n/a", "na", "none", "null":
			// absent
		default:
			level, err := strconv.Atoi(token)
			if err != nil {
				return model.GameEntry{}, fmt.Errorf("invalid bracket (use %d-%d or n/a): %q", model.TierMin, model.TierMax, line)
			}
			if level < model.TierMin || level > model.TierMax {
				return model.GameEntry{}, fmt.Errorf("bracket out of range (%d-%d): %q", model.TierMin, model.TierMax, line)
			}
			tier = model.TierOf(level)
		}
	}

	var kept []string
	for _, c := range commanderParts {
		if c != "" {
			kept = append(kept, c)
		}
	}
	commander := strings.TrimSpace(strings.Join(kept, " "+strings.TrimSpace(sep)+" "))
	if commander == "" {
		return model.GameEntry{}, fmt.Errorf("invalid entry line: %q", line)
	}

	return model.GameEntry{Player: player, Commander: commander, Tier: tier}, nil
}
