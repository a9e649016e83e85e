package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/courtside/internal/model"
)

// Source locates the player stats and team name documents.
type Source struct {
	Stats string
	Teams string
}

// Data is one raw season load.
type Data struct {
	Players []model.PlayerSeasonRecord
	Teams   model.TeamNames
}

// Provider yields one complete season load.
type Provider interface {
	Load(ctx context.Context) (Data, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Data, error)

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context) (Data, error) { return f(ctx) }

// Loader fetches and decodes both season documents.
type Loader struct {
	Fetcher *Fetcher
	Source  Source
}

// NewLoader returns a Loader for src.
func NewLoader(f *Fetcher, src Source) *Loader {
	return &Loader{Fetcher: f, Source: src}
}

// Load fetches both documents concurrently, using the cache.
func (l *Loader) Load(ctx context.Context) (Data, error) {
	return l.load(ctx, true)
}

// Refresh is Load without the cache.
func (l *Loader) Refresh(ctx context.Context) (Data, error) {
	return l.load(ctx, false)
}

func (l *Loader) load(ctx context.Context, useCache bool) (Data, error) {
	var data Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := l.Fetcher.Fetch(gctx, l.Source.Stats, useCache)
		if err != nil {
			return err
		}
		players, err := DecodePlayers(body)
		if err != nil {
			return err
		}
		data.Players = players
		return nil
	})
	g.Go(func() error {
		body, err := l.Fetcher.Fetch(gctx, l.Source.Teams, useCache)
		if err != nil {
			return err
		}
		teams, err := DecodeTeams(body)
		if err != nil {
			return err
		}
		data.Teams = teams
		return nil
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}
	return data, nil
}

// DecodePlayers parses a JSON array of season records.
func DecodePlayers(body []byte) ([]model.PlayerSeasonRecord, error) {
	var players []model.PlayerSeasonRecord
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("failed to decode player stats: %w", err)
	}
	return players, nil
}

// DecodeTeams parses a JSON object of team code to name.
func DecodeTeams(body []byte) (model.TeamNames, error) {
	var teams model.TeamNames
	if err := json.Unmarshal(body, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode team names: %w", err)
	}
	if teams == nil {
		teams = model.TeamNames{}
	}
	return teams, nil
}
