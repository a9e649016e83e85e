package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/courtside/internal/model"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("player not found")

// SortByStat returns a copy ordered by key descending. Absent values sort as 0
// and ties keep their input order.
func SortByStat(players []model.PlayerSeasonRecord, key model.StatKey) []model.PlayerSeasonRecord {
	out := clone(players)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StatOrZero(key) > out[j].StatOrZero(key)
	})
	return out
}

// SearchByName returns up to limit records whose name contains q, ignoring case.
// A limit of 0 or less returns every match.
func SearchByName(players []model.PlayerSeasonRecord, q string, limit int) []model.PlayerSeasonRecord {
	needle := strings.ToLower(q)
	out := make([]model.PlayerSeasonRecord, 0)
	for _, p := range players {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(p.PlayerName), needle) {
			out = append(out, p)
		}
	}
	return out
}

// TopPerformers returns the limit best records for key. Records with an absent
// or zero value are skipped. A limit of 0 or less keeps every ranked record.
func TopPerformers(players []model.PlayerSeasonRecord, key model.StatKey, limit int) []model.PlayerSeasonRecord {
	ranked := Apply(players, func(r model.PlayerSeasonRecord) bool {
		v, ok := r.Stat(key)
		return ok && v != 0
	})
	ranked = SortByStat(ranked, key)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// FindByExactName returns the first record whose name equals name, ignoring case.
func FindByExactName(players []model.PlayerSeasonRecord, name string) (model.PlayerSeasonRecord, error) {
	for _, p := range players {
		if strings.EqualFold(p.PlayerName, name) {
			return p, nil
		}
	}
	return model.PlayerSeasonRecord{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// LastName returns the final space-separated token of a full name.
func LastName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// SortByLastName returns a copy ordered by last name, ignoring case.
func SortByLastName(players []model.PlayerSeasonRecord) []model.PlayerSeasonRecord {
	out := clone(players)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(LastName(out[i].PlayerName)) < strings.ToLower(LastName(out[j].PlayerName))
	})
	return out
}

// TeamCodes returns the distinct team codes in players, sorted.
func TeamCodes(players []model.PlayerSeasonRecord) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, p := range players {
		if _, ok := seen[p.Team]; ok || p.Team == "" {
			continue
		}
		seen[p.Team] = struct{}{}
		codes = append(codes, p.Team)
	}
	sort.Strings(codes)
	return codes
}

func clone(players []model.PlayerSeasonRecord) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, len(players))
	copy(out, players)
	return out
}
