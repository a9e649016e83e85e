package model

import "time"

// SourceConfig locates the season documents.
type SourceConfig struct {
	// Mode is "remote" to fetch Stats/Teams, or "db" to read the latest stored snapshot.
	Mode   string
	Stats  string
	Teams  string
	Season Season
}

// FetchConfig tunes how remote documents are loaded.
type FetchConfig struct {
	Retries      int
	Backoff      time.Duration
	Timeout      time.Duration
	CacheTTL     time.Duration
	PollInterval time.Duration
	// RequestsPerSecond caps remote requests. Zero disables the limit.
	RequestsPerSecond float64
}

// DisplayConfig defines defaults for rendered output.
type DisplayConfig struct {
	Sort  StatKey
	Limit int
	Color bool
}
