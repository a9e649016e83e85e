package model

import (
	"encoding/json"
	"testing"
)

func TestDecodeRecordKeepsNullStatsAbsent(t *testing.T) {
	data := []byte(`{"playerId":7,"playerName":"A B","team":"BOS","season":2024,"position":"PG","games":60,"per":18.5,"tsPercent":null}`)
	var rec PlayerSeasonRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Season != "2024" {
		t.Fatalf("expected season 2024, got %q", rec.Season)
	}
	if v, ok := rec.Stat(StatPER); !ok || v != 18.5 {
		t.Fatalf("expected per 18.5, got %v %v", v, ok)
	}
	if _, ok := rec.Stat(StatTSPercent); ok {
		t.Fatalf("expected tsPercent to be absent")
	}
	if _, ok := rec.Stat(StatVORP); ok {
		t.Fatalf("expected missing vorp to be absent")
	}
	if _, ok := rec.Stat(StatKey("points")); ok {
		t.Fatalf("expected unknown key to be absent")
	}
}

func TestSeasonAcceptsString(t *testing.T) {
	var s Season
	if err := json.Unmarshal([]byte(`"2023-24"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != "2023-24" {
		t.Fatalf("unexpected season %q", s)
	}
}

func TestTeamNamesFallsBackToCode(t *testing.T) {
	names := TeamNames{"BOS": "Boston Celtics"}
	if got := names.Name("BOS"); got != "Boston Celtics" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := names.Name("XYZ"); got != "XYZ" {
		t.Fatalf("expected fallback to code, got %q", got)
	}
}

func TestParseStatKey(t *testing.T) {
	key, ok := ParseStatKey("TSPERCENT")
	if !ok || key != StatTSPercent {
		t.Fatalf("expected tsPercent, got %q %v", key, ok)
	}
	if _, ok := ParseStatKey("points"); ok {
		t.Fatalf("expected unknown stat to fail")
	}
	if StatLabel(StatBox) != "Box +/-" {
		t.Fatalf("unexpected label %q", StatLabel(StatBox))
	}
}
