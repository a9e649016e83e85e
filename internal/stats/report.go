package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/query"
)

// TopChartSize is how many players the top performers chart shows.
const TopChartSize = 5

// Report contains precomputed data for the summary charts.
type Report struct {
	Teams     []model.TeamAggregate
	Positions []PositionCount
	TopStat   model.StatKey
	Top       []model.PlayerSeasonRecord
}

// BuildReport prepares chart data. Teams always cover the full roster while
// positions and top performers follow the filtered view.
func BuildReport(all, filtered []model.PlayerSeasonRecord, names model.TeamNames, topStat model.StatKey) Report {
	return Report{
		Teams:     RankTeams(AggregateByTeam(all, names)),
		Positions: PositionCounts(filtered),
		TopStat:   topStat,
		Top:       query.TopPerformers(filtered, topStat, TopChartSize),
	}
}

// RenderReport prints the team, position and top performer charts.
func RenderReport(w io.Writer, r Report, width int, forceColor bool) error {
	if err := RenderBars(w, "Average PER by Team", teamBars(r.Teams), width, forceColor); err != nil {
		return err
	}
	if err := RenderPositions(w, r.Positions, width, forceColor); err != nil {
		return err
	}
	return RenderTop(w, r.Top, r.TopStat, width, forceColor)
}

func teamBars(teams []model.TeamAggregate) []Bar {
	bars := make([]Bar, 0, len(teams))
	for _, t := range teams {
		text := "-"
		if t.HasPER {
			text = fmt.Sprintf("%.2f", t.AveragePER)
		}
		bars = append(bars, Bar{Label: t.TeamCode, Value: t.AveragePER, Text: text})
	}
	return bars
}
