// Package session holds the normalized roster for one data load.
package session

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/normalize"
	"github.com/verte-zerg/courtside/internal/query"
	"github.com/verte-zerg/courtside/internal/stats"
)

// Session is a read-only view over one normalized season load.
type Session struct {
	players  []model.PlayerSeasonRecord
	teams    model.TeamNames
	loadedAt time.Time
}

// New normalizes raw once and orders the roster by last name.
func New(raw []model.PlayerSeasonRecord, teams model.TeamNames) *Session {
	return NewWith(normalize.Normalizer{}, raw, teams)
}

// NewWith is New with an explicit Normalizer.
func NewWith(n normalize.Normalizer, raw []model.PlayerSeasonRecord, teams model.TeamNames) *Session {
	names := make(model.TeamNames, len(teams))
	for code, name := range teams {
		names[code] = name
	}
	return &Session{
		players:  query.SortByLastName(n.Normalize(raw)),
		teams:    names,
		loadedAt: time.Now(),
	}
}

// Players returns a copy of the canonical roster.
func (s *Session) Players() []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, len(s.players))
	copy(out, s.players)
	return out
}

// Len returns the number of canonical records.
func (s *Session) Len() int { return len(s.players) }

// LoadedAt returns when the session was built.
func (s *Session) LoadedAt() time.Time { return s.loadedAt }

// TeamName resolves a code to its display name.
func (s *Session) TeamName(code string) string { return s.teams.Name(code) }

// TeamNames returns a copy of the team name map.
func (s *Session) TeamNames() model.TeamNames {
	out := make(model.TeamNames, len(s.teams))
	for code, name := range s.teams {
		out[code] = name
	}
	return out
}

// Filter returns the players matching criteria in roster order.
func (s *Session) Filter(criteria model.FilterCriteria) []model.PlayerSeasonRecord {
	return query.Filter(s.players, criteria)
}

// Sorted filters and then orders by key. An empty key keeps roster order.
func (s *Session) Sorted(criteria model.FilterCriteria, key model.StatKey) []model.PlayerSeasonRecord {
	filtered := s.Filter(criteria)
	if key == "" {
		return filtered
	}
	return query.SortByStat(filtered, key)
}

// Search matches q against player names, case-insensitively.
func (s *Session) Search(q string, limit int) []model.PlayerSeasonRecord {
	return query.SearchByName(s.players, q, limit)
}

// Top ranks the filtered players by key, skipping empty values.
func (s *Session) Top(criteria model.FilterCriteria, key model.StatKey, limit int) []model.PlayerSeasonRecord {
	return query.TopPerformers(s.Filter(criteria), key, limit)
}

// Find returns the player whose name equals name, ignoring case.
func (s *Session) Find(name string) (model.PlayerSeasonRecord, error) {
	return query.FindByExactName(s.players, name)
}

// Compare looks up both players by exact name and compares them on key.
func (s *Session) Compare(nameA, nameB string, key model.StatKey) (model.ComparisonResult, error) {
	a, err := s.Find(nameA)
	if err != nil {
		return model.ComparisonResult{}, err
	}
	b, err := s.Find(nameB)
	if err != nil {
		return model.ComparisonResult{}, err
	}
	return compare.Compare(&a, &b, key)
}

// TeamAggregates summarizes every team, best average PER first.
func (s *Session) TeamAggregates() []model.TeamAggregate {
	return stats.RankTeams(stats.AggregateByTeam(s.players, s.teams))
}

// Teams returns the distinct team codes on the roster.
func (s *Session) Teams() []string {
	return query.TeamCodes(s.players)
}

// Positions returns the position distribution of the filtered roster.
func (s *Session) Positions(criteria model.FilterCriteria) []stats.PositionCount {
	return stats.PositionCounts(s.Filter(criteria))
}

// Seasons returns the distinct seasons on the roster, sorted.
func (s *Session) Seasons() []model.Season {
	seen := make(map[model.Season]struct{})
	var out []model.Season
	for _, p := range s.players {
		if _, ok := seen[p.Season]; ok || p.Season == "" {
			continue
		}
		seen[p.Season] = struct{}{}
		out = append(out, p.Season)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Report builds the chart data for the filtered roster.
func (s *Session) Report(criteria model.FilterCriteria, topStat model.StatKey) stats.Report {
	return stats.BuildReport(s.players, s.Filter(criteria), s.teams, topStat)
}

// Holder publishes the current session. Refreshes replace it wholesale and
// readers keep whichever session they already loaded.
type Holder struct {
	current atomic.Pointer[Session]
}

// Load returns the current session, or nil before the first Store.
func (h *Holder) Load() *Session {
	return h.current.Load()
}

// Store replaces the current session.
func (h *Holder) Store(s *Session) {
	h.current.Store(s)
}
