package normalize

import (
	"testing"

	"github.com/verte-zerg/courtside/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestNormalizeTradedPlayer(t *testing.T) {
	raw := []model.PlayerSeasonRecord{
		{PlayerID: 1, PlayerName: "Traded Guy", Team: "AAA", Games: 10, Position: "G"},
		{PlayerID: 1, PlayerName: "Traded Guy", Team: "BBB", Games: 25, Position: "G"},
		{PlayerID: 1, PlayerName: "Traded Guy", Team: "TOT", Games: 35, Position: "G", PER: ptr(14)},
	}
	got := Normalize(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Team != "BBB" {
		t.Fatalf("expected team BBB, got %s", got[0].Team)
	}
	if got[0].Games != 35 || got[0].PER == nil || *got[0].PER != 14 {
		t.Fatalf("expected TOT stats to be kept, got %+v", got[0])
	}
	if got[0].Position != "PG" {
		t.Fatalf("expected PG, got %s", got[0].Position)
	}
	if raw[2].Team != "TOT" || raw[2].Position != "G" {
		t.Fatalf("input was modified: %+v", raw[2])
	}
}

func TestNormalizeTieKeepsFirstStint(t *testing.T) {
	raw := []model.PlayerSeasonRecord{
		{PlayerID: 4, Team: "TOT", Games: 40},
		{PlayerID: 4, Team: "NYK", Games: 20},
		{PlayerID: 4, Team: "MIA", Games: 20},
	}
	got := Normalize(raw)
	if len(got) != 1 || got[0].Team != "NYK" {
		t.Fatalf("expected NYK, got %+v", got)
	}
}

func TestNormalizeLoneTotalRow(t *testing.T) {
	raw := []model.PlayerSeasonRecord{{PlayerID: 2, Team: "TOT", Games: 50, Position: "C"}}
	got := Normalize(raw)
	if len(got) != 1 || got[0].Team != "TOT" {
		t.Fatalf("expected lone TOT record unchanged, got %+v", got)
	}
	if got[0].Position != "C" {
		t.Fatalf("expected C, got %s", got[0].Position)
	}
}

func TestNormalizeKeepsStintsWithoutTotal(t *testing.T) {
	raw := []model.PlayerSeasonRecord{
		{PlayerID: 3, Team: "LAL", Games: 30, Position: "F-C"},
		{PlayerID: 5, Team: "DEN", Games: 70, Position: "C"},
		{PlayerID: 3, Team: "LAC", Games: 12, Position: "F-C"},
	}
	got := Normalize(raw)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	want := []string{"LAL", "LAC", "DEN"}
	for i, team := range want {
		if got[i].Team != team {
			t.Fatalf("record %d: expected %s, got %s", i, team, got[i].Team)
		}
	}
	if got[0].Position != "PF" {
		t.Fatalf("expected PF, got %s", got[0].Position)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %d", len(got))
	}
}

func TestPositionRule(t *testing.T) {
	cases := map[string]model.Position{
		"G-F":   model.SmallForward,
		"F-G":   model.SmallForward,
		"G":     model.PointGuard,
		"SG":    model.PointGuard,
		"PG":    model.PointGuard,
		"F-C":   model.PowerForward,
		"PF":    model.SmallForward,
		"F":     model.SmallForward,
		"C":     model.Center,
		"":      model.UnknownPosition,
		"XYZ":   model.UnknownPosition,
		"c-f":   model.PowerForward,
		"guard": model.PointGuard,
	}
	rule := PositionRule{}
	for raw, want := range cases {
		if got := rule.NormalizePosition(raw); got != want {
			t.Fatalf("%q: expected %s, got %s", raw, want, got)
		}
	}
}

type fixedPositions struct{}

func (fixedPositions) NormalizePosition(string) model.Position { return model.Center }

func TestNormalizerUsesInjectedPositions(t *testing.T) {
	got := Normalizer{Positions: fixedPositions{}}.Normalize([]model.PlayerSeasonRecord{{PlayerID: 1, Position: "G"}})
	if got[0].Position != "C" {
		t.Fatalf("expected injected rule, got %s", got[0].Position)
	}
}
