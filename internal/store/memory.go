package store

import (
	"errors"
	"sync"
	"time"

	"github.com/tomasrudz/meteolt-bridge/internal/readings"
)

var (
	// ErrNotFound is returned when no snapshot is available for a feed.
	ErrNotFound = errors.New("no data for feed")
)

// Feed names used as store keys.
const (
	FeedForecast     = "forecast"
	FeedObservations = "observations"
	FeedHydro        = "hydro"
)

// Snapshot is one successful poll result. A failed poll never produces a
// snapshot, so the newest snapshot of a feed is always the last known good
// value.
type Snapshot struct {
	Feed      string       `json:"feed"`
	FetchedAt time.Time    `json:"fetchedAt"` // always UTC
	Readings  readings.Set `json:"readings"`
}

// snapshotHistory holds a time-ordered list of snapshots for one feed.
type snapshotHistory struct {
	snapshots []Snapshot
}

// MemoryStore is a concurrency-safe in-memory snapshot store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: feed name, value: history
	data map[string]*snapshotHistory

	// retention configuration
	maxHistory int           // max number of snapshots per feed
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveSnapshot appends a new snapshot for a feed and enforces retention.
func (s *MemoryStore) SaveSnapshot(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[snapshot.Feed]
	if !ok {
		history = &snapshotHistory{}
		s.data[snapshot.Feed] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age, but never drop the newest snapshot: it
	// remains the last known good value no matter how old it is.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// GetLatest returns the most recent snapshot for a feed.
func (s *MemoryStore) GetLatest(feed string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[feed]
	if !ok || len(history.snapshots) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// GetRange returns all snapshots for a feed fetched between from and to
// (inclusive).
func (s *MemoryStore) GetRange(feed string, from, to time.Time) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[feed]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []Snapshot
	for _, snap := range history.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
