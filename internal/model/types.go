// Package model defines shared data structures.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TotalTeam marks a record that combines every stint a player had in a season.
const TotalTeam = "TOT"

// Position is a canonical roster position.
type Position string

// Canonical positions.
const (
	PointGuard      Position = "PG"
	ShootingGuard   Position = "SG"
	SmallForward    Position = "SF"
	PowerForward    Position = "PF"
	Center          Position = "C"
	UnknownPosition Position = "Unknown"
)

// Positions lists the filterable positions in display order.
var Positions = []Position{PointGuard, ShootingGuard, SmallForward, PowerForward, Center}

// ParsePosition matches a filter value against the five filterable positions.
func ParsePosition(s string) (Position, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, p := range Positions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Season holds a season identifier that may arrive as a JSON number or string.
type Season string

// UnmarshalJSON accepts 2024 and "2024" alike.
func (s *Season) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Season(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid season %s: %w", data, err)
	}
	*s = Season(num.String())
	return nil
}

// PlayerSeasonRecord is one player's line for one team stint of a season.
// After normalization the same shape carries the canonical record.
type PlayerSeasonRecord struct {
	PlayerID            int      `json:"playerId"`
	PlayerName          string   `json:"playerName"`
	Team                string   `json:"team"`
	Season              Season   `json:"season"`
	Position            string   `json:"position"`
	Games               int      `json:"games"`
	PER                 *float64 `json:"per"`
	TSPercent           *float64 `json:"tsPercent"`
	WinShares           *float64 `json:"winShares"`
	VORP                *float64 `json:"vorp"`
	Box                 *float64 `json:"box"`
	AssistPercent       *float64 `json:"assistPercent"`
	TotalReboundPercent *float64 `json:"totalReboundPercent"`
	UsagePercent        *float64 `json:"usagePercent"`
	OffensiveRBPercent  *float64 `json:"offensiveRBPercent"`
	DefensiveRBPercent  *float64 `json:"defensiveRBPercent"`
	StealPercent        *float64 `json:"stealPercent"`
	BlockPercent        *float64 `json:"blockPercent"`
}

// IsTotal reports whether the record is a combined-season row.
func (r PlayerSeasonRecord) IsTotal() bool {
	return r.Team == TotalTeam
}

// Stat returns the value for key and whether it is present.
func (r PlayerSeasonRecord) Stat(key StatKey) (float64, bool) {
	p := r.statPtr(key)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// StatOrZero returns the value for key, treating absent values as 0.
func (r PlayerSeasonRecord) StatOrZero(key StatKey) float64 {
	v, _ := r.Stat(key)
	return v
}

func (r PlayerSeasonRecord) statPtr(key StatKey) *float64 {
	switch key {
	case StatPER:
		return r.PER
	case StatTSPercent:
		return r.TSPercent
	case StatWinShares:
		return r.WinShares
	case StatVORP:
		return r.VORP
	case StatBox:
		return r.Box
	case StatAssistPercent:
		return r.AssistPercent
	case StatTotalReboundPercent:
		return r.TotalReboundPercent
	case StatUsagePercent:
		return r.UsagePercent
	case StatOffensiveRBPercent:
		return r.OffensiveRBPercent
	case StatDefensiveRBPercent:
		return r.DefensiveRBPercent
	case StatStealPercent:
		return r.StealPercent
	case StatBlockPercent:
		return r.BlockPercent
	default:
		return nil
	}
}

// TeamNames maps a three-letter team code to its display name.
type TeamNames map[string]string

// Name returns the display name for code, or the code itself when unmapped.
func (t TeamNames) Name(code string) string {
	if name, ok := t[code]; ok && name != "" {
		return name
	}
	return code
}

// FilterCriteria narrows a roster. Zero-valued fields impose no constraint.
type FilterCriteria struct {
	Team         string
	Position     Position
	MinPER       *float64
	Season       Season
	NameContains string
}

// ComparisonResult is the outcome of a head-to-head stat comparison.
type ComparisonResult struct {
	SubjectA   PlayerSeasonRecord
	SubjectB   PlayerSeasonRecord
	Stat       StatKey
	ValueA     float64
	ValueB     float64
	Difference float64
	WinnerIsA  bool
	FormattedA string
	FormattedB string
}

// TeamAggregate summarizes one team's canonical players.
type TeamAggregate struct {
	TeamCode               string
	TeamName               string
	PlayerCount            int
	AveragePER             float64
	TotalWinShares         float64
	AverageTrueShootingPct float64
	// HasPER is false when no player on the team reported a PER.
	HasPER bool
	// HasTrueShooting is false when no player on the team reported a TS%.
	HasTrueShooting bool
}
