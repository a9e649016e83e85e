package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/dataset"
	"github.com/verte-zerg/courtside/internal/logger"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/normalize"
	"github.com/verte-zerg/courtside/internal/sample"
	"github.com/verte-zerg/courtside/internal/stats"
	"github.com/verte-zerg/courtside/internal/store"
)

// filterFlags binds the roster filter flags of one command.
type filterFlags struct {
	team     string
	position string
	minPER   float64
	name     string
}

func (f *filterFlags) register(cmd *cobra.Command, withName bool) {
	cmd.Flags().StringVar(&f.team, "team", "", "team code filter")
	cmd.Flags().StringVar(&f.position, "position", "", "position filter (PG, SG, SF, PF, C)")
	cmd.Flags().Float64Var(&f.minPER, "min-per", 0, "minimum PER")
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "name substring filter")
	}
}

func (f *filterFlags) criteria(cmd *cobra.Command, season model.Season) (model.FilterCriteria, error) {
	c := model.FilterCriteria{
		Team:         strings.ToUpper(strings.TrimSpace(f.team)),
		Season:       season,
		NameContains: strings.TrimSpace(f.name),
	}
	if f.position != "" {
		pos, ok := model.ParsePosition(f.position)
		if !ok {
			return model.FilterCriteria{}, fmt.Errorf("--position must be one of PG, SG, SF, PF, C")
		}
		c.Position = pos
	}
	if cmd.Flags().Changed("min-per") {
		v := f.minPER
		c.MinPER = &v
	}
	return c, nil
}

func newPlayersCmd() *cobra.Command {
	var (
		filters filterFlags
		sortBy  string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "players",
		Short: "List players matching filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			criteria, err := filters.criteria(cmd, s.source.Season)
			if err != nil {
				return err
			}
			key := s.display.Sort
			if cmd.Flags().Changed("sort") {
				if key, err = parseOptionalStat(sortBy); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("limit") {
				limit = s.display.Limit
			}
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			players := sess.Sorted(criteria, key)
			if limit > 0 && limit < len(players) {
				players = players[:limit]
			}
			return stats.RenderRoster(cmd.OutOrStdout(), players, sess.TeamNames(), key)
		},
	}
	filters.register(cmd, true)
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort stat, highest first (default: last name)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max rows (0 shows all)")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search players by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(cmd)
			if err != nil {
				return err
			}
			players := sess.Search(args[0], limit)
			return stats.RenderRoster(cmd.OutOrStdout(), players, sess.TeamNames(), "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultSearchLimit, "max results (0 shows all)")
	return cmd
}

func newTopCmd() *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "top <stat>",
		Short: "Show top performers for a stat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := model.ParseStatKey(args[0])
			if !ok {
				return unknownStatError(args[0])
			}
			sess, s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			criteria, err := filters.criteria(cmd, s.source.Season)
			if err != nil {
				return err
			}
			players := sess.Top(criteria, key, limit)
			return stats.RenderTop(cmd.OutOrStdout(), players, key, 0, s.display.Color)
		},
	}
	filters.register(cmd, false)
	cmd.Flags().IntVar(&limit, "limit", defaultTopLimit, "max players (0 shows all)")
	return cmd
}

func newPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <name>",
		Short: "Show a player card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(cmd)
			if err != nil {
				return err
			}
			p, err := sess.Find(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), stats.RenderCard(p, sess.TeamNames()))
			return err
		},
	}
}

func newCompareCmd() *cobra.Command {
	var (
		statName  string
		teamA     string
		positionA string
		teamB     string
		positionB string
		filtersA  filterFlags
		filtersB  filterFlags
	)
	cmd := &cobra.Command{
		Use:   "compare [playerA] [playerB]",
		Short: "Compare two players on a stat",
		Long: `Compare two players on a stat. A missing name, or "random", draws a player
from the roster narrowed by that side's --team-* and --position-* flags.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := model.ParseStatKey(statName)
			if !ok {
				return unknownStatError(statName)
			}
			sess, s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			filtersA.team, filtersA.position = teamA, positionA
			filtersB.team, filtersB.position = teamB, positionB

			sides := make([]compare.Side, 2)
			for i, f := range []*filterFlags{&filtersA, &filtersB} {
				criteria, err := f.criteria(cmd, s.source.Season)
				if err != nil {
					return fmt.Errorf("player %d: %w", i+1, err)
				}
				sides[i].Pool = sess.Filter(criteria)
				if i < len(args) && !isRandomName(args[i]) {
					p, err := sess.Find(args[i])
					if err != nil {
						return err
					}
					sides[i].Pick = &p
				}
			}

			m, err := compare.ResolveMatchup(sample.New(), sides[0], sides[1], key)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			names := sess.TeamNames()
			if err := stats.RenderComparison(out, m, names); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%s\n%s\n",
				stats.RenderCard(m.Result.SubjectA, names),
				stats.RenderCard(m.Result.SubjectB, names))
			return err
		},
	}
	cmd.Flags().StringVar(&statName, "stat", string(model.StatPER), "stat to compare")
	cmd.Flags().StringVar(&teamA, "team-a", "", "team filter for a random player 1")
	cmd.Flags().StringVar(&positionA, "position-a", "", "position filter for a random player 1")
	cmd.Flags().StringVar(&teamB, "team-b", "", "team filter for a random player 2")
	cmd.Flags().StringVar(&positionB, "position-b", "", "position filter for a random player 2")
	return cmd
}

func isRandomName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, "random")
}

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Show team aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			return stats.RenderTeams(cmd.OutOrStdout(), sess.TeamAggregates(), 0, s.display.Color)
		},
	}
}

func newPositionsCmd() *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show the position distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			criteria, err := filters.criteria(cmd, s.source.Season)
			if err != nil {
				return err
			}
			return stats.RenderPositions(cmd.OutOrStdout(), sess.Positions(criteria), 0, s.display.Color)
		},
	}
	filters.register(cmd, false)
	return cmd
}

func newSyncCmd() *cobra.Command {
	var useAPI bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download a season and store it as a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			src := dataset.Source{Stats: s.source.Stats, Teams: s.source.Teams}
			if useAPI {
				if s.source.Season == "" {
					return fmt.Errorf("--api requires --season")
				}
				src.Stats = fmt.Sprintf(seasonAPI, s.source.Season)
			}
			log := logger.WithComponent("sync").WithField("stats", src.Stats)

			ctx := commandContext(cmd)
			data, err := dataset.NewLoader(dataset.NewFetcher(s.fetch), src).Refresh(ctx)
			if err != nil {
				return fmt.Errorf("failed to download season: %w", err)
			}
			season := s.source.Season
			if season == "" && len(data.Players) > 0 {
				season = data.Players[0].Season
			}
			canonical := normalize.Normalize(data.Players)

			st, err := store.Open(s.dbPath)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					log.WithError(cerr).Warn("failed to close db")
				}
			}()
			id, err := st.SaveSnapshot(ctx, season, src.Stats, data)
			if err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
			log.WithFields(logrus.Fields{
				"snapshot": id,
				"season":   string(season),
				"records":  len(data.Players),
				"players":  len(canonical),
			}).Info("snapshot saved")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %d for season %s: %d records, %d players after normalization\n",
				id, orAnySeason(season), len(data.Players), len(canonical))
			return err
		},
	}
	cmd.Flags().BoolVar(&useAPI, "api", false, "read stats from the public season API for --season")
	return cmd
}

func orAnySeason(season model.Season) string {
	if season == "" {
		return "unknown"
	}
	return string(season)
}

func newSeasonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(s.dbPath)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logger.WithComponent("store").WithError(cerr).Warn("failed to close db")
				}
			}()
			snaps, err := st.ListSnapshots(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}
			return stats.RenderSnapshots(cmd.OutOrStdout(), snaps)
		},
	}
}

func newWatchCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the data source and report each update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if count < 0 {
				return fmt.Errorf("--count must be >= 0")
			}
			b, err := openBackend(s)
			if err != nil {
				return err
			}
			defer b.close()

			ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return watch(ctx, cancel, b, s.fetch, count, cmd)
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "stop after N updates (0 runs until interrupted)")
	return cmd
}

func watch(ctx context.Context, cancel context.CancelFunc, b *backend, fetch model.FetchConfig, count int, cmd *cobra.Command) error {
	log := logger.WithComponent("watch")
	out := cmd.OutOrStdout()
	var seen atomic.Int64
	var writeErr atomic.Value

	stop := b.poll(ctx, fetch.PollInterval, func(u dataset.Update) {
		var line string
		if u.Kind == dataset.UpdateError {
			log.WithError(u.Err).Warn("update failed")
			line = fmt.Sprintf("%s  error  %v", u.At.Format("15:04:05"), u.Err)
		} else {
			players := len(normalize.Normalize(u.Data.Players))
			fields := logrus.Fields{"records": len(u.Data.Players), "players": players}
			if b.fetcher != nil {
				fields["breaker"] = b.fetcher.BreakerState().String()
			}
			log.WithFields(fields).Info("data update")
			line = fmt.Sprintf("%s  update  %d records  %d players", u.At.Format("15:04:05"), len(u.Data.Players), players)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			writeErr.Store(err)
			cancel()
			return
		}
		if n := seen.Add(1); count > 0 && n >= int64(count) {
			cancel()
		}
	})
	<-ctx.Done()
	stop()
	if err, ok := writeErr.Load().(error); ok {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
