// Package store handles SQLite persistence of season snapshots.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/courtside/internal/dataset"
	"github.com/verte-zerg/courtside/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSnapshot is returned when no stored snapshot matches.
var ErrNoSnapshot = errors.New("no stored snapshot")

// Store wraps SQLite access for season snapshots.
type Store struct {
	db *sql.DB
}

// SnapshotInfo describes one stored season download.
type SnapshotInfo struct {
	ID          int64
	Season      model.Season
	Source      string
	FetchedAt   time.Time
	PlayerCount int
}

// Snapshot is a stored season with its raw records in download order.
type Snapshot struct {
	SnapshotInfo
	Data dataset.Data
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY,
			season TEXT NOT NULL,
			source TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			player_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot_players (
			snapshot_id INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, ord)
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot_teams (
			snapshot_id INTEGER NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, code)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_season ON snapshots(season, fetched_at);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_players_player ON snapshot_players(player_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot stores raw season records and team names as a new snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, season model.Season, source string, data dataset.Data) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (season, source, fetched_at, player_count) VALUES (?, ?, ?, ?)`,
		string(season),
		source,
		time.Now().UTC().Format(time.RFC3339Nano),
		len(data.Players),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err = insertPlayers(ctx, tx, id, data.Players); err != nil {
		return 0, err
	}
	if err = insertTeams(ctx, tx, id, data.Teams); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertPlayers(ctx context.Context, tx *sql.Tx, id int64, players []model.PlayerSeasonRecord) error {
	if len(players) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_players (snapshot_id, ord, player_id, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, p := range players {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode player %d: %w", p.PlayerID, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, p.PlayerID, string(payload)); err != nil {
			return err
		}
	}
	return nil
}

func insertTeams(ctx context.Context, tx *sql.Tx, id int64, teams model.TeamNames) error {
	if len(teams) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_teams (snapshot_id, code, name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for code, name := range teams {
		if _, err := stmt.ExecContext(ctx, id, code, name); err != nil {
			return err
		}
	}
	return nil
}

// ListSnapshots returns every stored snapshot, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, season, source, fetched_at, player_count FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []SnapshotInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LatestSnapshot loads the newest snapshot for season. An empty season
// matches any season.
func (s *Store) LatestSnapshot(ctx context.Context, season model.Season) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, season, source, fetched_at, player_count FROM snapshots
		 WHERE (? = '' OR season = ?)
		 ORDER BY id DESC
		 LIMIT 1`, string(season), string(season))
	info, err := scanInfo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if season == "" {
				return Snapshot{}, ErrNoSnapshot
			}
			return Snapshot{}, fmt.Errorf("season %s: %w", season, ErrNoSnapshot)
		}
		return Snapshot{}, err
	}

	players, err := s.snapshotPlayers(ctx, info.ID)
	if err != nil {
		return Snapshot{}, err
	}
	teams, err := s.snapshotTeams(ctx, info.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{SnapshotInfo: info, Data: dataset.Data{Players: players, Teams: teams}}, nil
}

// Provider returns a dataset.Provider reading the latest snapshot for season.
func (s *Store) Provider(season model.Season) dataset.Provider {
	return dataset.ProviderFunc(func(ctx context.Context) (dataset.Data, error) {
		snap, err := s.LatestSnapshot(ctx, season)
		if err != nil {
			return dataset.Data{}, err
		}
		return snap.Data, nil
	})
}

func (s *Store) snapshotPlayers(ctx context.Context, id int64) ([]model.PlayerSeasonRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM snapshot_players WHERE snapshot_id = ? ORDER BY ord ASC`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var players []model.PlayerSeasonRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var p model.PlayerSeasonRecord
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode stored player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (s *Store) snapshotTeams(ctx context.Context, id int64) (model.TeamNames, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name FROM snapshot_teams WHERE snapshot_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	teams := model.TeamNames{}
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, err
		}
		teams[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (SnapshotInfo, error) {
	var info SnapshotInfo
	var season, fetchedAt string
	if err := row.Scan(&info.ID, &season, &info.Source, &fetchedAt, &info.PlayerCount); err != nil {
		return SnapshotInfo{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return SnapshotInfo{}, err
	}
	info.Season = model.Season(season)
	info.FetchedAt = parsed
	return info, nil
}
