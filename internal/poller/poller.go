// Package poller owns the periodic refresh of the three data feeds. The
// meteo.lt client never retries; all resilience lives here: each feed has an
// independent interval and its own circuit breaker, a failed round is logged
// and skipped, and the store keeps the last known good snapshot untouched.
package poller

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sony/gobreaker"

	"github.com/tomasrudz/meteolt-bridge/internal/meteolt"
	"github.com/tomasrudz/meteolt-bridge/internal/readings"
	"github.com/tomasrudz/meteolt-bridge/internal/store"
)

// Fetcher is the subset of the meteo.lt client the poller depends on.
type Fetcher interface {
	PlaceForecast(ctx context.Context, placeCode string) (meteolt.Document, error)
	StationObservations(ctx context.Context, stationCode, date string) (meteolt.Document, error)
	HydroObservations(ctx context.Context, stationCode, observationType, date string) (meteolt.Document, error)
}

// SnapshotStore is the write side of the snapshot store.
type SnapshotStore interface {
	SaveSnapshot(snapshot store.Snapshot)
}

// Config selects which feeds to poll and how often. An empty or "none" code
// disables the corresponding feed; the forecast feed is mandatory.
type Config struct {
	PlaceCode        string
	StationCode      string
	HydroStationCode string

	ForecastInterval     time.Duration
	ObservationsInterval time.Duration
	HydroInterval        time.Duration

	FetchTimeout time.Duration
}

type feed struct {
	name     string
	interval time.Duration
	breaker  *gobreaker.CircuitBreaker
	refresh  func(ctx context.Context) (readings.Set, error)
}

// Poller periodically fetches the configured feeds and stores snapshots.
type Poller struct {
	scheduler *gocron.Scheduler
	store     SnapshotStore
	cfg       Config
	feeds     []feed
}

// New creates a Poller over the given client and store.
func New(client Fetcher, snapshots SnapshotStore, cfg Config) *Poller {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	scheduler := gocron.NewScheduler(time.UTC)
	// Start already runs a synchronous first refresh; scheduled jobs wait
	// out their first interval instead of firing again immediately.
	scheduler.WaitForScheduleAll()

	p := &Poller{
		scheduler: scheduler,
		store:     snapshots,
		cfg:       cfg,
	}

	p.feeds = append(p.feeds, feed{
		name:     store.FeedForecast,
		interval: cfg.ForecastInterval,
		breaker:  newBreaker(store.FeedForecast),
		refresh: func(ctx context.Context) (readings.Set, error) {
			doc, err := client.PlaceForecast(ctx, cfg.PlaceCode)
			if err != nil {
				return readings.Set{}, err
			}
			return readings.FromForecast(doc)
		},
	})

	if enabled(cfg.StationCode) {
		p.feeds = append(p.feeds, feed{
			name:     store.FeedObservations,
			interval: cfg.ObservationsInterval,
			breaker:  newBreaker(store.FeedObservations),
			refresh: func(ctx context.Context) (readings.Set, error) {
				doc, err := client.StationObservations(ctx, cfg.StationCode, "latest")
				if err != nil {
					return readings.Set{}, err
				}
				return readings.FromObservations(doc)
			},
		})
	}

	if enabled(cfg.HydroStationCode) {
		p.feeds = append(p.feeds, feed{
			name:     store.FeedHydro,
			interval: cfg.HydroInterval,
			breaker:  newBreaker(store.FeedHydro),
			refresh: func(ctx context.Context) (readings.Set, error) {
				doc, err := client.HydroObservations(ctx, cfg.HydroStationCode, "measured", "latest")
				if err != nil {
					return readings.Set{}, err
				}
				return readings.FromHydro(doc)
			},
		})
	}

	return p
}

// Start runs one synchronous refresh of every feed, then schedules the
// periodic jobs. A forecast failure during the initial refresh is terminal;
// failures of the optional feeds only log, matching their best-effort role.
func (p *Poller) Start(ctx context.Context) error {
	for _, f := range p.feeds {
		if err := p.runOnce(ctx, f); err != nil {
			if f.name == store.FeedForecast {
				return fmt.Errorf("initial %s refresh: %w", f.name, err)
			}
			log.Printf("poller: initial %s refresh failed: %v", f.name, err)
		}
	}

	for _, f := range p.feeds {
		f := f
		if _, err := p.scheduler.Every(f.interval).Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), p.cfg.FetchTimeout)
			defer cancel()

			if err := p.runOnce(ctx, f); err != nil {
				log.Printf("poller: %s refresh failed: %v", f.name, err)
			}
		}); err != nil {
			return fmt.Errorf("schedule %s job: %w", f.name, err)
		}
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (p *Poller) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

func (p *Poller) runOnce(ctx context.Context, f feed) error {
	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.refresh(ctx)
	})
	if err != nil {
		return err
	}

	set, ok := result.(readings.Set)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}

	p.store.SaveSnapshot(store.Snapshot{
		Feed:      f.name,
		FetchedAt: time.Now().UTC(),
		Readings:  set,
	})
	return nil
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})
}

func enabled(code string) bool {
	return code != "" && code != "none"
}
