// Package compare runs head-to-head stat comparisons between players.
package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/courtside/internal/model"
)

var (
	// ErrMissingSubject is returned when either side of a comparison is nil.
	ErrMissingSubject = errors.New("both players are required")
	// ErrIdenticalSubjects is returned when both sides are the same player.
	ErrIdenticalSubjects = errors.New("players must be different")
	// ErrMissingStat is returned when either side has no value for the stat.
	ErrMissingStat = errors.New("one or both players have no data")
)

// Compare compares a against b on key. Difference is a minus b and a tie is
// not a win for a.
func Compare(a, b *model.PlayerSeasonRecord, key model.StatKey) (model.ComparisonResult, error) {
	if a == nil || b == nil {
		return model.ComparisonResult{}, ErrMissingSubject
	}
	if a.PlayerName == b.PlayerName {
		return model.ComparisonResult{}, fmt.Errorf("%s: %w", a.PlayerName, ErrIdenticalSubjects)
	}
	va, okA := a.Stat(key)
	vb, okB := b.Stat(key)
	if !okA || !okB {
		return model.ComparisonResult{}, fmt.Errorf("%s: %w", model.StatLabel(key), ErrMissingStat)
	}
	diff := va - vb
	return model.ComparisonResult{
		SubjectA:   *a,
		SubjectB:   *b,
		Stat:       key,
		ValueA:     va,
		ValueB:     vb,
		Difference: diff,
		WinnerIsA:  diff > 0,
		FormattedA: FormatStat(key, va),
		FormattedB: FormatStat(key, vb),
	}, nil
}

// FormatStat renders TS% as a percentage with one decimal and every other
// stat with two decimals.
func FormatStat(key model.StatKey, v float64) string {
	if key == model.StatTSPercent {
		return fmt.Sprintf("%.1f%%", v*100)
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatCardStat renders a value for a player card: one decimal, TS% as a percentage.
func FormatCardStat(key model.StatKey, v float64) string {
	if key == model.StatTSPercent {
		return FormatStat(key, v)
	}
	return fmt.Sprintf("%.1f", v)
}

// Gap returns how far ahead the winner is, as a percentage of the winner's value.
// It is 0 when the winner's value is 0.
func Gap(r model.ComparisonResult) float64 {
	best := r.ValueB
	if r.WinnerIsA {
		best = r.ValueA
	}
	if best == 0 {
		return 0
	}
	return math.Abs(r.Difference) / best * 100
}
