// Package main provides the CLI entrypoint for courtside.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/courtside/internal/config"
	"github.com/verte-zerg/courtside/internal/dashboard"
	"github.com/verte-zerg/courtside/internal/dataset"
	"github.com/verte-zerg/courtside/internal/logger"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/session"
	"github.com/verte-zerg/courtside/internal/store"
)

const (
	defaultStats        = "data/stats.json"
	defaultTeams        = "data/teams.json"
	defaultSourceMode   = sourceRemote
	defaultRetries      = 3
	defaultBackoff      = 500 * time.Millisecond
	defaultTimeout      = 30 * time.Second
	defaultCacheTTL     = time.Duration(0)
	defaultPollInterval = dataset.DefaultPollInterval
	defaultSearchLimit  = 20
	defaultTopLimit     = 10
)

const (
	sourceRemote = "remote"
	sourceDB     = "db"
)

// seasonAPI is the public endpoint the sync command reads with --api.
const seasonAPI = "http://rest.nbaapi.com/api/PlayerDataAdvanced/season/%s"

var (
	dataStats  string
	dataTeams  string
	dataSource string
	dataSeason string
	dbPath     string

	fetchRetries  int
	fetchBackoff  time.Duration
	fetchTimeout  time.Duration
	fetchCacheTTL time.Duration
	fetchPoll     time.Duration
	fetchRate     float64

	logLevel string
	logJSON  bool
	color    bool

	dashboardSort string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "courtside",
		Short:         "NBA season stats explorer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataStats, "stats", defaultStats, "season stats document (path, file:// or http(s):// URL)")
	flags.StringVar(&dataTeams, "teams", defaultTeams, "team names document (path, file:// or http(s):// URL)")
	flags.StringVar(&dataSource, "source", defaultSourceMode, "data source: remote or db")
	flags.StringVar(&dataSeason, "season", "", "season to load and filter by (default: any)")
	flags.StringVar(&dbPath, "db", "", "snapshot database path (default: XDG data dir)")
	flags.IntVar(&fetchRetries, "retries", defaultRetries, "attempts per remote request")
	flags.DurationVar(&fetchBackoff, "backoff", defaultBackoff, "base retry backoff, doubled per attempt")
	flags.DurationVar(&fetchTimeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.DurationVar(&fetchCacheTTL, "cache-ttl", defaultCacheTTL, "document cache lifetime (0 keeps entries)")
	flags.DurationVar(&fetchPoll, "poll-interval", defaultPollInterval, "live update interval (0 disables in the dashboard)")
	flags.Float64Var(&fetchRate, "rate", 0, "max remote requests per second (0 is unlimited)")
	flags.StringVar(&logLevel, "log-level", "", "log level (default: LOG_LEVEL or info)")
	flags.BoolVar(&logJSON, "log-json", false, "emit JSON logs")
	flags.BoolVar(&color, "color", false, "force colored charts")

	rootCmd.Flags().StringVar(&dashboardSort, "sort", "", "initial roster sort stat")

	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newTopCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newTeamsCmd())
	rootCmd.AddCommand(newPositionsCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newSeasonsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// settings is the resolved configuration after flags and the config file.
type settings struct {
	source  model.SourceConfig
	fetch   model.FetchConfig
	display model.DisplayConfig
	dbPath  string
}

// loadSettings merges the config file under the flags. Flags the user set win.
func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "stats", &dataStats, fileCfg.Data.Stats)
	applyStringConfig(cmd, "teams", &dataTeams, fileCfg.Data.Teams)
	applyStringConfig(cmd, "source", &dataSource, fileCfg.Data.Source)
	applyStringConfig(cmd, "season", &dataSeason, fileCfg.Data.Season)
	applyIntConfig(cmd, "retries", &fetchRetries, fileCfg.Fetch.Retries)
	applyDurationConfig(cmd, "backoff", &fetchBackoff, fileCfg.Fetch.Backoff)
	applyDurationConfig(cmd, "timeout", &fetchTimeout, fileCfg.Fetch.Timeout)
	applyDurationConfig(cmd, "cache-ttl", &fetchCacheTTL, fileCfg.Fetch.CacheTTL)
	applyDurationConfig(cmd, "poll-interval", &fetchPoll, fileCfg.Fetch.PollInterval)
	applyFloatConfig(cmd, "rate", &fetchRate, fileCfg.Fetch.Rate)
	applyBoolConfig(cmd, "color", &color, fileCfg.Display.Color)

	logger.Init(logLevel, logJSON)

	s := settings{
		source: model.SourceConfig{
			Mode:   strings.ToLower(strings.TrimSpace(dataSource)),
			Stats:  dataStats,
			Teams:  dataTeams,
			Season: model.Season(strings.TrimSpace(dataSeason)),
		},
		fetch: model.FetchConfig{
			Retries:           fetchRetries,
			Backoff:           fetchBackoff,
			Timeout:           fetchTimeout,
			CacheTTL:          fetchCacheTTL,
			PollInterval:      fetchPoll,
			RequestsPerSecond: fetchRate,
		},
		display: model.DisplayConfig{Color: color},
		dbPath:  dbPath,
	}
	if fileCfg.Display.Sort != nil {
		key, err := parseOptionalStat(*fileCfg.Display.Sort)
		if err != nil {
			return settings{}, fmt.Errorf("invalid display sort: %w", err)
		}
		s.display.Sort = key
	}
	if fileCfg.Display.Limit != nil {
		s.display.Limit = *fileCfg.Display.Limit
	}
	if s.dbPath == "" {
		s.dbPath = config.DefaultDBPath()
	}
	if err := validateSettings(s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func validateSettings(s settings) error {
	switch s.source.Mode {
	case sourceRemote:
		if s.source.Stats == "" || s.source.Teams == "" {
			return fmt.Errorf("--stats and --teams must not be empty")
		}
	case sourceDB:
	default:
		return fmt.Errorf("--source must be %q or %q", sourceRemote, sourceDB)
	}
	if s.fetch.Retries < 1 {
		return fmt.Errorf("--retries must be >= 1")
	}
	if s.fetch.Backoff < 0 || s.fetch.Timeout < 0 || s.fetch.CacheTTL < 0 || s.fetch.PollInterval < 0 {
		return fmt.Errorf("durations must be >= 0")
	}
	if s.fetch.RequestsPerSecond < 0 {
		return fmt.Errorf("--rate must be >= 0")
	}
	if s.display.Limit < 0 {
		return fmt.Errorf("display limit must be >= 0")
	}
	return nil
}

// backend is an opened data source.
type backend struct {
	provider dataset.Provider
	fetcher  *dataset.Fetcher
	loader   *dataset.Loader
	store    *store.Store
}

func (b *backend) close() {
	if b.store == nil {
		return
	}
	if cerr := b.store.Close(); cerr != nil {
		logger.WithComponent("store").WithError(cerr).Warn("failed to close db")
	}
}

// poll subscribes fn to updates from the backend. Remote sources bypass the cache.
func (b *backend) poll(ctx context.Context, interval time.Duration, fn func(dataset.Update)) (stop func()) {
	if b.loader != nil {
		return b.loader.Watch(ctx, interval, fn)
	}
	return dataset.Poll(ctx, b.provider, interval, fn)
}

func openBackend(s settings) (*backend, error) {
	if s.source.Mode == sourceDB {
		st, err := store.Open(s.dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		return &backend{provider: st.Provider(s.source.Season), store: st}, nil
	}
	fetcher := dataset.NewFetcher(s.fetch)
	loader := dataset.NewLoader(fetcher, dataset.Source{Stats: s.source.Stats, Teams: s.source.Teams})
	return &backend{provider: dataset.ProviderFunc(loader.Load), fetcher: fetcher, loader: loader}, nil
}

// loadSession resolves settings and loads one normalized session.
func loadSession(cmd *cobra.Command) (*session.Session, settings, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, settings{}, err
	}
	b, err := openBackend(s)
	if err != nil {
		return nil, settings{}, err
	}
	defer b.close()

	data, err := b.provider.Load(commandContext(cmd))
	if err != nil {
		return nil, settings{}, fmt.Errorf("failed to load season data: %w", err)
	}
	sess := session.New(data.Players, data.Teams)
	logger.WithComponent("cli").WithFields(logrus.Fields{
		"source":  s.source.Mode,
		"records": len(data.Players),
		"players": sess.Len(),
	}).Debug("season loaded")
	return sess, s, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	sortKey := s.display.Sort
	if cmd.Flags().Changed("sort") {
		key, err := parseOptionalStat(dashboardSort)
		if err != nil {
			return err
		}
		sortKey = key
	}

	logFile, err := openLogFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			// Best-effort log file close.
			_ = cerr
		}
	}()

	b, err := openBackend(s)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	data, err := b.provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load season data: %w", err)
	}
	holder := &session.Holder{}
	holder.Store(session.New(data.Players, data.Teams))

	// The dashboard owns the terminal from here on.
	logger.SetOutput(logFile)
	log := logger.WithComponent("cli")
	if b.fetcher != nil {
		info := b.fetcher.CacheInfo()
		log.WithFields(logrus.Fields{"cache_entries": info.Size, "cache_bytes": info.Bytes}).Info("initial load complete")
	}

	m := dashboard.NewModel(holder, dashboard.Options{
		Criteria:  model.FilterCriteria{Season: s.source.Season},
		Sort:      sortKey,
		ArenaStat: model.StatPER,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if s.fetch.PollInterval > 0 {
		stop := b.poll(ctx, s.fetch.PollInterval, func(u dataset.Update) {
			program.Send(dashboard.HandleUpdate(holder, u))
		})
		defer stop()
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# courtside configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# stats = %q    # Season stats document (path or URL)
# teams = %q    # Team names document (path or URL)
# source = %q   # "remote" or "db" (latest synced snapshot)
# season = "2024"     # Season to load and filter by

[fetch]
# retries = %d           # Attempts per remote request
# backoff = %q       # Base retry backoff, doubled per attempt
# timeout = %q       # HTTP request timeout
# cache-ttl = "0s"      # Document cache lifetime (0 keeps entries)
# poll-interval = %q # Live update interval
# rate = 0.0            # Max remote requests per second (0 is unlimited)

[display]
# sort = "per"     # Default roster sort stat
# limit = 0        # Default players limit (0 shows all)
# color = false    # Force colored charts
`,
		defaultStats,
		defaultTeams,
		defaultSourceMode,
		defaultRetries,
		defaultBackoff.String(),
		defaultTimeout.String(),
		defaultPollInterval.String(),
	)
}

// parseOptionalStat resolves a stat flag. Empty keeps roster order.
func parseOptionalStat(value string) (model.StatKey, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	key, ok := model.ParseStatKey(value)
	if !ok {
		return "", unknownStatError(value)
	}
	return key, nil
}

func unknownStatError(value string) error {
	keys := make([]string, len(model.StatKeys))
	for i, key := range model.StatKeys {
		keys[i] = string(key)
	}
	return fmt.Errorf("unknown stat %q (available: %s)", value, strings.Join(keys, ", "))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
