package compare

import (
	"errors"
	"testing"

	"github.com/verte-zerg/courtside/internal/model"
)

type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

func pool() []model.PlayerSeasonRecord {
	return []model.PlayerSeasonRecord{
		{PlayerName: "No Stat"},
		{PlayerName: "Alpha", WinShares: ptr(8)},
		{PlayerName: "Beta", WinShares: ptr(4)},
	}
}

func TestResolveMatchupManualPicks(t *testing.T) {
	a := model.PlayerSeasonRecord{PlayerName: "Alpha", WinShares: ptr(8)}
	b := model.PlayerSeasonRecord{PlayerName: "Beta", WinShares: ptr(4)}
	got, err := ResolveMatchup(fixedSource(0), Side{Pick: &a}, Side{Pick: &b}, model.StatWinShares)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.RandomA || got.RandomB {
		t.Fatalf("expected manual sides")
	}
	if !got.Result.WinnerIsA || got.Gap != 50 {
		t.Fatalf("unexpected matchup %+v", got)
	}
}

func TestResolveMatchupRandomSkipsMissingStatAndSelf(t *testing.T) {
	got, err := ResolveMatchup(fixedSource(0), Side{Pool: pool()}, Side{Pool: pool()}, model.StatWinShares)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Result.SubjectA.PlayerName != "Alpha" || got.Result.SubjectB.PlayerName != "Beta" {
		t.Fatalf("unexpected subjects %s vs %s", got.Result.SubjectA.PlayerName, got.Result.SubjectB.PlayerName)
	}
	if !got.RandomA || !got.RandomB {
		t.Fatalf("expected random sides")
	}
}

func TestResolveMatchupSinglePlayerPoolsAreIdentical(t *testing.T) {
	only := []model.PlayerSeasonRecord{{PlayerName: "Solo", WinShares: ptr(3)}}
	_, err := ResolveMatchup(fixedSource(0), Side{Pool: only}, Side{Pool: only}, model.StatWinShares)
	if !errors.Is(err, ErrIdenticalSubjects) {
		t.Fatalf("expected ErrIdenticalSubjects, got %v", err)
	}
}

func TestResolveMatchupEmptyPool(t *testing.T) {
	a := model.PlayerSeasonRecord{PlayerName: "Alpha", WinShares: ptr(8)}
	empty := []model.PlayerSeasonRecord{{PlayerName: "No Stat"}}
	_, err := ResolveMatchup(fixedSource(0), Side{Pick: &a}, Side{Pool: empty}, model.StatWinShares)
	if !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	_, err = ResolveMatchup(fixedSource(0), Side{}, Side{Pick: &a}, model.StatWinShares)
	if !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool for side A, got %v", err)
	}
}
