// Package stats contains season aggregates and text reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/courtside/internal/model"
)

// AggregateByTeam summarizes players per team code. Averages only count
// players that report the stat and fall back to 0 when none do.
func AggregateByTeam(players []model.PlayerSeasonRecord, names model.TeamNames) map[string]model.TeamAggregate {
	type acc struct {
		count     int
		perSum    float64
		perCount  int
		tsSum     float64
		tsCount   int
		winShares float64
	}
	accs := make(map[string]*acc)
	for _, p := range players {
		a, ok := accs[p.Team]
		if !ok {
			a = &acc{}
			accs[p.Team] = a
		}
		a.count++
		if v, ok := p.Stat(model.StatPER); ok {
			a.perSum += v
			a.perCount++
		}
		if v, ok := p.Stat(model.StatTSPercent); ok {
			a.tsSum += v
			a.tsCount++
		}
		a.winShares += p.StatOrZero(model.StatWinShares)
	}

	out := make(map[string]model.TeamAggregate, len(accs))
	for code, a := range accs {
		agg := model.TeamAggregate{
			TeamCode:        code,
			TeamName:        names.Name(code),
			PlayerCount:     a.count,
			TotalWinShares:  a.winShares,
			HasPER:          a.perCount > 0,
			HasTrueShooting: a.tsCount > 0,
		}
		if a.perCount > 0 {
			agg.AveragePER = a.perSum / float64(a.perCount)
		}
		if a.tsCount > 0 {
			agg.AverageTrueShootingPct = a.tsSum / float64(a.tsCount)
		}
		out[code] = agg
	}
	return out
}

// RankTeams orders aggregates by average PER, best first.
func RankTeams(aggs map[string]model.TeamAggregate) []model.TeamAggregate {
	out := make([]model.TeamAggregate, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AveragePER == out[j].AveragePER {
			return out[i].TeamCode < out[j].TeamCode
		}
		return out[i].AveragePER > out[j].AveragePER
	})
	return out
}

// PositionCount is the number of players at one position.
type PositionCount struct {
	Position model.Position
	Count    int
}

// PositionCounts tallies canonical positions. The five roster positions are
// always listed; Unknown only when some player has it.
func PositionCounts(players []model.PlayerSeasonRecord) []PositionCount {
	counts := make(map[model.Position]int)
	for _, p := range players {
		counts[model.Position(p.Position)]++
	}
	out := make([]PositionCount, 0, len(model.Positions)+1)
	for _, pos := range model.Positions {
		out = append(out, PositionCount{Position: pos, Count: counts[pos]})
	}
	if n := counts[model.UnknownPosition]; n > 0 {
		out = append(out, PositionCount{Position: model.UnknownPosition, Count: n})
	}
	return out
}
