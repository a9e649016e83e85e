// Package query provides roster filtering, sorting and search helpers.
package query

import (
	"strings"

	"github.com/verte-zerg/courtside/internal/model"
)

// FilterFunc returns true when a record should be kept.
type FilterFunc func(model.PlayerSeasonRecord) bool

// FiltersFor returns one FilterFunc per constrained dimension of criteria.
func FiltersFor(criteria model.FilterCriteria) []FilterFunc {
	var filters []FilterFunc
	if criteria.Team != "" {
		team := criteria.Team
		filters = append(filters, func(r model.PlayerSeasonRecord) bool { return r.Team == team })
	}
	if criteria.Position != "" {
		pos := string(criteria.Position)
		filters = append(filters, func(r model.PlayerSeasonRecord) bool { return r.Position == pos })
	}
	if criteria.MinPER != nil {
		minPER := *criteria.MinPER
		filters = append(filters, func(r model.PlayerSeasonRecord) bool {
			return r.StatOrZero(model.StatPER) >= minPER
		})
	}
	if criteria.Season != "" {
		season := criteria.Season
		filters = append(filters, func(r model.PlayerSeasonRecord) bool { return r.Season == season })
	}
	if criteria.NameContains != "" {
		needle := strings.ToLower(criteria.NameContains)
		filters = append(filters, func(r model.PlayerSeasonRecord) bool {
			return strings.Contains(strings.ToLower(r.PlayerName), needle)
		})
	}
	return filters
}

// Filter keeps the records matching every constraint in criteria, in input order.
func Filter(players []model.PlayerSeasonRecord, criteria model.FilterCriteria) []model.PlayerSeasonRecord {
	return Apply(players, FiltersFor(criteria)...)
}

// Apply keeps the records accepted by all filters, in input order.
func Apply(players []model.PlayerSeasonRecord, filters ...FilterFunc) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, 0, len(players))
	for _, p := range players {
		if keep(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

func keep(p model.PlayerSeasonRecord, filters []FilterFunc) bool {
	for _, f := range filters {
		if !f(p) {
			return false
		}
	}
	return true
}
