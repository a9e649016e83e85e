package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/model"
)

var rosterStats = []model.StatKey{
	model.StatPER,
	model.StatTSPercent,
	model.StatWinShares,
	model.StatVORP,
	model.StatBox,
}

// RenderRoster prints one row per player. A sort stat outside the default
// columns is appended as an extra column.
func RenderRoster(w io.Writer, players []model.PlayerSeasonRecord, names model.TeamNames, sortKey model.StatKey) error {
	if len(players) == 0 {
		_, err := fmt.Fprintln(w, "No players found.")
		return err
	}
	keys := rosterStats
	if sortKey != "" && !containsKey(keys, sortKey) {
		keys = append(append([]model.StatKey{}, rosterStats...), sortKey)
	}

	headers := []string{"Player", "Team", "Pos", "G"}
	for _, key := range keys {
		headers = append(headers, model.StatLabel(key))
	}
	rightAlign := map[int]bool{3: true}
	for i := range keys {
		rightAlign[4+i] = true
	}

	rows := make([][]string, 0, len(players))
	for _, p := range players {
		row := []string{p.PlayerName, names.Name(p.Team), p.Position, strconv.Itoa(p.Games)}
		for _, key := range keys {
			row = append(row, statCell(p, key))
		}
		rows = append(rows, row)
	}
	return writeLines(w, formatTable(headers, rows, rightAlign))
}

// RenderTeams prints the team aggregate table followed by the average PER chart.
func RenderTeams(w io.Writer, teams []model.TeamAggregate, width int, forceColor bool) error {
	if len(teams) == 0 {
		_, err := fmt.Fprintln(w, "No teams found.")
		return err
	}
	headers := []string{"Team", "Name", "Players", "Avg PER", "Total WS", "Avg TS%"}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		per, ts := "-", "-"
		if t.HasPER {
			per = fmt.Sprintf("%.2f", t.AveragePER)
		}
		if t.HasTrueShooting {
			ts = compare.FormatStat(model.StatTSPercent, t.AverageTrueShootingPct)
		}
		rows = append(rows, []string{
			t.TeamCode,
			t.TeamName,
			strconv.Itoa(t.PlayerCount),
			per,
			fmt.Sprintf("%.1f", t.TotalWinShares),
			ts,
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderBars(w, "Average PER by Team", teamBars(teams), width, forceColor)
}

// RenderPositions prints the position distribution with shares of the total.
func RenderPositions(w io.Writer, counts []PositionCount, width int, forceColor bool) error {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No players found.")
		return err
	}
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		share := float64(c.Count) / float64(total) * 100
		bars = append(bars, Bar{
			Label: string(c.Position),
			Value: float64(c.Count),
			Text:  fmt.Sprintf("%d (%.1f%%)", c.Count, share),
		})
	}
	return RenderBars(w, "Position Distribution", bars, width, forceColor)
}

// RenderTop prints the ranked players for key as a bar chart.
func RenderTop(w io.Writer, players []model.PlayerSeasonRecord, key model.StatKey, width int, forceColor bool) error {
	title := fmt.Sprintf("Top Performers (%s)", model.StatLabel(key))
	if len(players) == 0 {
		_, err := fmt.Fprintf(w, "%s\nNo players with %s data.\n\n", title, model.StatLabel(key))
		return err
	}
	bars := make([]Bar, 0, len(players))
	for _, p := range players {
		v := p.StatOrZero(key)
		bars = append(bars, Bar{Label: p.PlayerName, Value: v, Text: compare.FormatStat(key, v)})
	}
	return RenderBars(w, title, bars, width, forceColor)
}

// RenderComparison prints a resolved arena matchup.
func RenderComparison(w io.Writer, m compare.Matchup, names model.TeamNames) error {
	r := m.Result
	label := model.StatLabel(r.Stat)
	headers := []string{"", "Player", "Team", label, "Selection"}
	rows := [][]string{
		{"1", r.SubjectA.PlayerName, names.Name(r.SubjectA.Team), r.FormattedA, selection(m.RandomA)},
		{"2", r.SubjectB.PlayerName, names.Name(r.SubjectB.Team), r.FormattedB, selection(m.RandomB)},
	}
	if _, err := fmt.Fprintf(w, "Arena: %s\n", label); err != nil {
		return err
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{3: true})); err != nil {
		return err
	}

	var verdict string
	switch {
	case r.Difference == 0:
		verdict = "Result: tie"
	case r.WinnerIsA:
		verdict = "Winner: " + r.SubjectA.PlayerName
	default:
		verdict = "Winner: " + r.SubjectB.PlayerName
	}
	if _, err := fmt.Fprintln(w, verdict); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Difference: %.2f (%.1f%% better)\n", math.Abs(r.Difference), m.Gap); err != nil {
		return err
	}
	return nil
}

func selection(random bool) string {
	if random {
		return "random from filters"
	}
	return "manual"
}

func statCell(p model.PlayerSeasonRecord, key model.StatKey) string {
	v, ok := p.Stat(key)
	if !ok {
		return "-"
	}
	return compare.FormatStat(key, v)
}

func containsKey(keys []model.StatKey, key model.StatKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
