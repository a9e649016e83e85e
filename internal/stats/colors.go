package stats

// TeamColor holds a team's primary and secondary hex colors.
type TeamColor struct {
	Primary   string
	Secondary string
}

var defaultTeamColor = TeamColor{Primary: "#6c757d", Secondary: "#dee2e6"}

var teamColors = map[string]TeamColor{
	"ATL": {Primary: "#E03A3E", Secondary: "#C1D32F"},
	"BOS": {Primary: "#007A33", Secondary: "#BA9653"},
	"BRK": {Primary: "#000000", Secondary: "#FFFFFF"},
	"CHA": {Primary: "#1D1160", Secondary: "#00788C"},
	"CHI": {Primary: "#CE1141", Secondary: "#000000"},
	"CLE": {Primary: "#6F263D", Secondary: "#FFB81C"},
	"DAL": {Primary: "#00538C", Secondary: "#002B5E"},
	"DEN": {Primary: "#0E2240", Secondary: "#FEC524"},
	"DET": {Primary: "#C8102E", Secondary: "#006BB6"},
	"GSW": {Primary: "#1D428A", Secondary: "#FFC72C"},
	"HOU": {Primary: "#CE1141", Secondary: "#000000"},
	"IND": {Primary: "#002D62", Secondary: "#FDBB30"},
	"LAC": {Primary: "#C8102E", Secondary: "#1D428A"},
	"LAL": {Primary: "#552583", Secondary: "#FDB927"},
	"MEM": {Primary: "#5D76A9", Secondary: "#12173F"},
	"MIA": {Primary: "#98002E", Secondary: "#F9A01B"},
	"MIL": {Primary: "#00471B", Secondary: "#EEE1C6"},
	"MIN": {Primary: "#0C2340", Secondary: "#236192"},
	"NOP": {Primary: "#0C2340", Secondary: "#C8102E"},
	"NYK": {Primary: "#006BB6", Secondary: "#F58426"},
	"OKC": {Primary: "#007AC1", Secondary: "#EF3B24"},
	"ORL": {Primary: "#0077C0", Secondary: "#C4CED4"},
	"PHI": {Primary: "#006BB6", Secondary: "#ED174C"},
	"PHX": {Primary: "#1D1160", Secondary: "#E56020"},
	"POR": {Primary: "#E03A3E", Secondary: "#000000"},
	"SAC": {Primary: "#5A2D81", Secondary: "#63727A"},
	"SAS": {Primary: "#C4CED4", Secondary: "#000000"},
	"TOR": {Primary: "#CE1141", Secondary: "#000000"},
	"UTA": {Primary: "#002B5C", Secondary: "#00471B"},
	"WAS": {Primary: "#002B5C", Secondary: "#E31837"},
}

// TeamColors returns the colors for a team code, or neutral grays when unknown.
func TeamColors(code string) TeamColor {
	if c, ok := teamColors[code]; ok {
		return c
	}
	return defaultTeamColor
}
