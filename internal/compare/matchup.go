package compare

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/query"
	"github.com/verte-zerg/courtside/internal/sample"
)

// ErrEmptyPool is returned when a random pick has no candidates.
var ErrEmptyPool = errors.New("no valid players in filter pool")

// Side is one half of a matchup: a manual pick, or a pool to draw from.
type Side struct {
	Pick *model.PlayerSeasonRecord
	Pool []model.PlayerSeasonRecord
}

// Random reports whether the side is drawn from its pool.
func (s Side) Random() bool {
	return s.Pick == nil
}

// Matchup is a resolved comparison.
type Matchup struct {
	Result  model.ComparisonResult
	RandomA bool
	RandomB bool
	// Gap is the winner's lead as a percentage of the winner's value.
	Gap float64
}

// ResolveMatchup picks any random sides and compares them on key.
// Random picks only consider players with a value for key, and side B avoids
// side A's player unless nobody else qualifies.
func ResolveMatchup(src sample.Source, a, b Side, key model.StatKey) (Matchup, error) {
	first, err := pick(src, a, key, "")
	if err != nil {
		return Matchup{}, fmt.Errorf("player 1: %w", err)
	}
	second, err := pick(src, b, key, first.PlayerName)
	if err != nil {
		return Matchup{}, fmt.Errorf("player 2: %w", err)
	}
	result, err := Compare(&first, &second, key)
	if err != nil {
		return Matchup{}, err
	}
	return Matchup{
		Result:  result,
		RandomA: a.Random(),
		RandomB: b.Random(),
		Gap:     Gap(result),
	}, nil
}

func pick(src sample.Source, side Side, key model.StatKey, avoid string) (model.PlayerSeasonRecord, error) {
	if side.Pick != nil {
		return *side.Pick, nil
	}
	hasStat := func(r model.PlayerSeasonRecord) bool {
		_, ok := r.Stat(key)
		return ok
	}
	pool := query.Apply(side.Pool, hasStat)
	if avoid != "" {
		others := query.Apply(pool, func(r model.PlayerSeasonRecord) bool { return r.PlayerName != avoid })
		if len(others) > 0 {
			pool = others
		}
	}
	chosen, ok := sample.Uniform(src, pool)
	if !ok {
		return model.PlayerSeasonRecord{}, ErrEmptyPool
	}
	return chosen, nil
}
