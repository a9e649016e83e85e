package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/store"
)

func TestRenderRoster(t *testing.T) {
	var buf bytes.Buffer
	names := model.TeamNames{"BOS": "Boston Celtics"}
	if err := RenderRoster(&buf, sampleRoster()[:2], names, model.StatStealPercent); err != nil {
		t.Fatalf("RenderRoster failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Player") || !strings.Contains(lines[0], "Steal %") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Boston Celtics") || !strings.Contains(lines[1], "60.0%") {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "-") {
		t.Fatalf("expected missing stat placeholder, got %q", lines[2])
	}
}

func TestRenderRosterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRoster(&buf, nil, nil, ""); err != nil {
		t.Fatalf("RenderRoster failed: %v", err)
	}
	if buf.String() != "No players found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderTeams(t *testing.T) {
	var buf bytes.Buffer
	teams := RankTeams(AggregateByTeam(sampleRoster(), model.TeamNames{"DEN": "Denver Nuggets"}))
	if err := RenderTeams(&buf, teams, 60, false); err != nil {
		t.Fatalf("RenderTeams failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Denver Nuggets") || !strings.Contains(out, "Average PER by Team") {
		t.Fatalf("unexpected output %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "XYZ") && !strings.HasSuffix(line, "-") {
			t.Fatalf("expected no-data marker for XYZ, got %q", line)
		}
	}
}

func TestRenderPositions(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPositions(&buf, PositionCounts(sampleRoster()), 60, false); err != nil {
		t.Fatalf("RenderPositions failed: %v", err)
	}
	if !strings.Contains(buf.String(), "2 (40.0%)") {
		t.Fatalf("expected PG share, got %q", buf.String())
	}
}

func TestRenderTop(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTop(&buf, nil, model.StatVORP, 60, false); err != nil {
		t.Fatalf("RenderTop failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No players with VORP data.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestBuildReport(t *testing.T) {
	all := sampleRoster()
	report := BuildReport(all, all[:3], nil, model.StatWinShares)
	if len(report.Teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(report.Teams))
	}
	if len(report.Top) != 2 || report.Top[0].PlayerName != "Jayson Tatum" {
		t.Fatalf("unexpected top performers %+v", report.Top)
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 60, false); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()
	for _, title := range []string{"Average PER by Team", "Position Distribution", "Top Performers (Win Shares)"} {
		if !strings.Contains(out, title) {
			t.Fatalf("expected %q in output", title)
		}
	}
}

func TestRenderComparison(t *testing.T) {
	a := model.PlayerSeasonRecord{PlayerName: "Alpha", Team: "BOS", PER: ptr(20)}
	b := model.PlayerSeasonRecord{PlayerName: "Beta", Team: "DEN", PER: ptr(15)}
	m, err := compare.ResolveMatchup(nil, compare.Side{Pick: &a}, compare.Side{Pick: &b}, model.StatPER)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderComparison(&buf, m, nil); err != nil {
		t.Fatalf("RenderComparison failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Winner: Alpha") || !strings.Contains(out, "Difference: 5.00 (25.0% better)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderCard(t *testing.T) {
	card := RenderCard(sampleRoster()[1], model.TeamNames{"BOS": "Boston Celtics"})
	for _, want := range []string{"Jrue Holiday", "Boston Celtics • PG", "PER:", "14.0"} {
		if !strings.Contains(card, want) {
			t.Fatalf("expected %q in card:\n%s", want, card)
		}
	}
	if strings.Contains(card, "TS%") {
		t.Fatalf("expected missing stats to be left off:\n%s", card)
	}
}

func TestRenderSnapshots(t *testing.T) {
	var buf bytes.Buffer
	snaps := []store.SnapshotInfo{
		{ID: 12, Season: "2024", Source: "stats.json", FetchedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), PlayerCount: 572},
		{ID: 3, Season: "2023", Source: "old.json", FetchedAt: time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC), PlayerCount: 9},
	}
	if err := RenderSnapshots(&buf, snaps); err != nil {
		t.Fatalf("RenderSnapshots failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "12  2024") || !strings.HasPrefix(lines[2], " 3  2023") {
		t.Fatalf("unexpected rows %q", lines[1:])
	}
	if !strings.Contains(lines[1], "572") || !strings.HasSuffix(lines[1], "stats.json") {
		t.Fatalf("unexpected row %q", lines[1])
	}

	buf.Reset()
	if err := RenderSnapshots(&buf, nil); err != nil {
		t.Fatalf("RenderSnapshots failed: %v", err)
	}
	if !strings.Contains(buf.String(), "courtside sync") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
