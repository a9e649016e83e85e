package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/model"
)

// RenderCard draws a bordered player card in the team's colors. Stats the
// player has no value for are left off.
func RenderCard(p model.PlayerSeasonRecord, names model.TeamNames) string {
	colors := TeamColors(p.Team)
	primary := lipgloss.Color(colors.Primary)
	secondary := lipgloss.Color(colors.Secondary)

	header := lipgloss.NewStyle().Bold(true).Foreground(secondary)
	sub := lipgloss.NewStyle().Faint(true)
	label := lipgloss.NewStyle().Faint(true)
	value := lipgloss.NewStyle().Bold(true).Foreground(primary)

	var rows [][2]string
	labelWidth := 0
	for _, key := range model.CardStats {
		v, ok := p.Stat(key)
		if !ok {
			continue
		}
		l := model.StatLabel(key) + ":"
		if w := displayWidth(l); w > labelWidth {
			labelWidth = w
		}
		rows = append(rows, [2]string{l, compare.FormatCardStat(key, v)})
	}

	lines := []string{
		header.Render(p.PlayerName),
		sub.Render(fmt.Sprintf("%s • %s", names.Name(p.Team), p.Position)),
		"",
	}
	for _, row := range rows {
		lines = append(lines, label.Render(padCell(row[0], labelWidth, false))+" "+value.Render(row[1]))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(0, 1)
	return box.Render(strings.Join(lines, "\n"))
}
