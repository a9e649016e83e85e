package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/courtside/internal/dataset"
	"github.com/verte-zerg/courtside/internal/model"
)

func ptr(v float64) *float64 { return &v }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "courtside.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func seasonData() dataset.Data {
	return dataset.Data{
		Players: []model.PlayerSeasonRecord{
			{PlayerID: 9, PlayerName: "Traded", Team: "TOT", Season: "2024", Position: "G", Games: 50, PER: ptr(12.5)},
			{PlayerID: 9, PlayerName: "Traded", Team: "NYK", Season: "2024", Position: "G", Games: 30},
			{PlayerID: 3, PlayerName: "Stays", Team: "BOS", Season: "2024", Position: "C", Games: 70, TSPercent: ptr(0.61)},
		},
		Teams: model.TeamNames{"BOS": "Boston Celtics", "NYK": "New York Knicks"},
	}
}

func TestSaveAndLoadLatestSnapshot(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.SaveSnapshot(ctx, "2023", "old.json", dataset.Data{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	id, err := st.SaveSnapshot(ctx, "2024", "stats.json", seasonData())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := st.LatestSnapshot(ctx, "2024")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.ID != id || snap.Source != "stats.json" || snap.PlayerCount != 3 {
		t.Fatalf("unexpected snapshot info %+v", snap.SnapshotInfo)
	}
	if len(snap.Data.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(snap.Data.Players))
	}
	if snap.Data.Players[0].Team != "TOT" || snap.Data.Players[2].PlayerName != "Stays" {
		t.Fatalf("expected raw order to be kept, got %+v", snap.Data.Players)
	}
	if snap.Data.Players[0].PER == nil || *snap.Data.Players[0].PER != 12.5 || snap.Data.Players[1].PER != nil {
		t.Fatalf("expected optional stats to round-trip, got %+v", snap.Data.Players[:2])
	}
	if snap.Data.Teams.Name("NYK") != "New York Knicks" {
		t.Fatalf("unexpected teams %+v", snap.Data.Teams)
	}

	anySeason, err := st.LatestSnapshot(ctx, "")
	if err != nil || anySeason.ID != id {
		t.Fatalf("expected newest snapshot for any season, got %+v %v", anySeason.SnapshotInfo, err)
	}
	old, err := st.LatestSnapshot(ctx, "2023")
	if err != nil || old.PlayerCount != 0 || len(old.Data.Players) != 0 {
		t.Fatalf("unexpected 2023 snapshot %+v %v", old, err)
	}
}

func TestLatestSnapshotMissing(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LatestSnapshot(context.Background(), "1999"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := st.Provider("").Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot from provider, got %v", err)
	}
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, season := range []model.Season{"2022", "2023", "2024"} {
		if _, err := st.SaveSnapshot(ctx, season, "src", seasonData()); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	list, err := st.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Season != "2024" || list[2].Season != "2022" {
		t.Fatalf("unexpected snapshots %+v", list)
	}
	if list[0].FetchedAt.IsZero() {
		t.Fatalf("expected fetched time")
	}
}

func TestProviderLoadsLatest(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.SaveSnapshot(ctx, "2024", "src", seasonData()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := st.Provider("2024").Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Players) != 3 || len(data.Teams) != 2 {
		t.Fatalf("unexpected data %+v", data)
	}
}
