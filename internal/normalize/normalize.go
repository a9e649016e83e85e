// Package normalize turns raw season rows into one canonical record per player.
package normalize

import (
	"strings"

	"github.com/verte-zerg/courtside/internal/model"
)

// PositionNormalizer maps a raw position string to a canonical position.
type PositionNormalizer interface {
	NormalizePosition(raw string) model.Position
}

// PositionRule is the canonical position mapping.
//
// Hybrid positions collapse by letter presence: guard-forwards become SF,
// forward-centers become PF.
type PositionRule struct{}

// NormalizePosition applies the precedence G+F, G, F+C, F, C.
func (PositionRule) NormalizePosition(raw string) model.Position {
	pos := strings.ToUpper(raw)
	hasG := strings.Contains(pos, "G")
	hasF := strings.Contains(pos, "F")
	hasC := strings.Contains(pos, "C")
	switch {
	case hasG && hasF:
		return model.SmallForward
	case hasG:
		return model.PointGuard
	case hasF && hasC:
		return model.PowerForward
	case hasF:
		return model.SmallForward
	case hasC:
		return model.Center
	default:
		return model.UnknownPosition
	}
}

// Normalizer resolves multi-team seasons and canonicalizes positions.
type Normalizer struct {
	Positions PositionNormalizer
}

// Normalize runs the default Normalizer.
func Normalize(raw []model.PlayerSeasonRecord) []model.PlayerSeasonRecord {
	return Normalizer{}.Normalize(raw)
}

// Normalize returns canonical records in first-appearance order of each player.
// The input slice is not modified.
func (n Normalizer) Normalize(raw []model.PlayerSeasonRecord) []model.PlayerSeasonRecord {
	positions := n.Positions
	if positions == nil {
		positions = PositionRule{}
	}

	order := make([]int, 0, len(raw))
	groups := make(map[int][]model.PlayerSeasonRecord)
	for _, rec := range raw {
		if _, ok := groups[rec.PlayerID]; !ok {
			order = append(order, rec.PlayerID)
		}
		groups[rec.PlayerID] = append(groups[rec.PlayerID], rec)
	}

	out := make([]model.PlayerSeasonRecord, 0, len(order))
	for _, id := range order {
		for _, rec := range resolve(groups[id]) {
			rec.Position = string(positions.NormalizePosition(rec.Position))
			out = append(out, rec)
		}
	}
	return out
}

// resolve collapses a player's rows. A TOT row is kept and attributed to the
// stint with the most games; without one every stint passes through.
func resolve(group []model.PlayerSeasonRecord) []model.PlayerSeasonRecord {
	totalIdx := -1
	for i, rec := range group {
		if rec.IsTotal() {
			totalIdx = i
			break
		}
	}
	if totalIdx < 0 {
		return group
	}

	total := group[totalIdx]
	bestGames := -1
	for _, rec := range group {
		if rec.IsTotal() {
			continue
		}
		if rec.Games > bestGames {
			bestGames = rec.Games
			total.Team = rec.Team
		}
	}
	return []model.PlayerSeasonRecord{total}
}
