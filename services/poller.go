package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-standings/brackets"
)

const (
	DefaultPollInterval    = 30 * time.Second
	DefaultPollConcurrency = 4
)

// RoomLister reports the websocket rooms that currently have subscribers.
type RoomLister interface {
	ActiveRooms() []string
}

// Poller periodically refreshes every tournament someone is watching.
type Poller struct {
	service     TournamentService
	rooms       RoomLister
	interval    time.Duration
	concurrency int
	logger      *slog.Logger
}

func NewPoller(service TournamentService, rooms RoomLister, interval time.Duration, concurrency int, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if concurrency <= 0 {
		concurrency = DefaultPollConcurrency
	}
	return &Poller{
		service:     service,
		rooms:       rooms,
		interval:    interval,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run refreshes on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("tournament poller started", slog.Duration("interval", p.interval), slog.Int("concurrency", p.concurrency))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("tournament poller stopped")
			return
		case <-ticker.C:
			refreshed := p.RefreshAll(ctx)
			if refreshed > 0 {
				p.logger.Debug("poll finished", slog.Int("tournaments", refreshed))
			}
		}
	}
}

// RefreshAll refreshes the watched tournaments concurrently and returns how
// many were refreshed. A failure for one tournament does not stop the others.
func (p *Poller) RefreshAll(ctx context.Context) int {
	var ids []int
	for _, room := range p.rooms.ActiveRooms() {
		if id, ok := brackets.TournamentFromRoom(room); ok {
			ids = append(ids, id)
		}
	}

	results := make([]bool, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if _, err := p.service.Refresh(gctx, id); err != nil {
				if !errors.Is(err, context.Canceled) {
					p.logger.Warn("tournament refresh failed", slog.Int("tournament_id", id), slog.Any("error", err))
				}
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	refreshed := 0
	for _, ok := range results {
		if ok {
			refreshed++
		}
	}
	return refreshed
}
