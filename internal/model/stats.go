package model

import "strings"

// StatKey names a numeric stat on PlayerSeasonRecord.
type StatKey string

// Stat keys, matching the JSON field names of the season dataset.
const (
	StatPER                 StatKey = "per"
	StatTSPercent           StatKey = "tsPercent"
	StatWinShares           StatKey = "winShares"
	StatVORP                StatKey = "vorp"
	StatBox                 StatKey = "box"
	StatAssistPercent       StatKey = "assistPercent"
	StatTotalReboundPercent StatKey = "totalReboundPercent"
	StatUsagePercent        StatKey = "usagePercent"
	StatOffensiveRBPercent  StatKey = "offensiveRBPercent"
	StatDefensiveRBPercent  StatKey = "defensiveRBPercent"
	StatStealPercent        StatKey = "stealPercent"
	StatBlockPercent        StatKey = "blockPercent"
)

// StatKeys lists every comparable stat in display order.
var StatKeys = []StatKey{
	StatPER,
	StatTSPercent,
	StatWinShares,
	StatVORP,
	StatBox,
	StatAssistPercent,
	StatTotalReboundPercent,
	StatUsagePercent,
	StatOffensiveRBPercent,
	StatDefensiveRBPercent,
	StatStealPercent,
	StatBlockPercent,
}

// CardStats lists the stats shown on a player card.
var CardStats = StatKeys[:8]

var statLabels = map[StatKey]string{
	StatPER:                 "PER",
	StatTSPercent:           "TS%",
	StatWinShares:           "Win Shares",
	StatVORP:                "VORP",
	StatBox:                 "Box +/-",
	StatAssistPercent:       "Assist %",
	StatTotalReboundPercent: "Total Rebound %",
	StatUsagePercent:        "Usage %",
	StatOffensiveRBPercent:  "Offensive Rebound %",
	StatDefensiveRBPercent:  "Defensive Rebound %",
	StatStealPercent:        "Steal %",
	StatBlockPercent:        "Block %",
}

// StatLabel returns the display label for key.
func StatLabel(key StatKey) string {
	if label, ok := statLabels[key]; ok {
		return label
	}
	return string(key)
}

// ParseStatKey resolves a stat key case-insensitively.
func ParseStatKey(s string) (StatKey, bool) {
	s = strings.TrimSpace(s)
	for _, key := range StatKeys {
		if strings.EqualFold(string(key), s) {
			return key, true
		}
	}
	return "", false
}
