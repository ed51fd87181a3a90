// Package state is the dashboard's in-memory application state: one store,
// typed reducers, and selector methods. It replaces ad-hoc caches so every
// consumer (HTTP handlers, websocket fanout) reads the same snapshot.
package state

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"tradedash/internal/models"
)

// EventType tags a store event. Values match the engine stream's message
// types so frames map straight onto reducers.
type EventType string

const (
	EventAIDecision      EventType = "ai_decision"
	EventSignalGenerated EventType = "signal_generated"
	EventRegimeChange    EventType = "regime_change"
	EventPortfolioUpdate EventType = "portfolio_update"
	EventPositionUpdate  EventType = "position_update"
)

// Event is one state transition. Exactly one payload field is set,
// matching Type.
type Event struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`

	Decision  *models.Decision          `json:"decision,omitempty"`
	Signal    *models.Signal            `json:"signal,omitempty"`
	Portfolio *models.PortfolioSnapshot `json:"portfolio,omitempty"`
	Position  *models.Position          `json:"position,omitempty"`
	Regime    string                    `json:"regime,omitempty"`
}

// Snapshot is the current application state. Copies handed out by
// selectors are the caller's to keep; the store never mutates them.
type Snapshot struct {
	Portfolio      models.PortfolioSnapshot
	Positions      map[string]models.Position
	RecentSignals  []models.Signal
	Regime         string
	LastDecisionAt time.Time
}

// Store holds the snapshot and fans applied events out to subscribers.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	subMu         sync.Mutex
	subs          []chan Event
	droppedFanout uint64

	maxSignals int
}

func NewStore(maxSignals int) *Store {
	if maxSignals <= 0 {
		maxSignals = 50
	}
	return &Store{
		snap: Snapshot{
			Positions: map[string]models.Position{},
		},
		maxSignals: maxSignals,
	}
}

// Apply runs the reducer for the event type and then notifies subscribers.
// Unknown event types reduce to a no-op but still fan out, so raw event
// mirrors downstream stay complete.
func (s *Store) Apply(ev Event) {
	if s == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	s.mu.Lock()
	switch ev.Type {
	case EventAIDecision:
		s.reduceDecision(ev)
	case EventSignalGenerated:
		s.reduceSignal(ev)
	case EventRegimeChange:
		s.reduceRegime(ev)
	case EventPortfolioUpdate:
		s.reducePortfolio(ev)
	case EventPositionUpdate:
		s.reducePosition(ev)
	}
	s.mu.Unlock()

	s.fanout(ev)
}

func (s *Store) reduceDecision(ev Event) {
	if ev.Decision == nil {
		return
	}
	if ev.Decision.Timestamp.After(s.snap.LastDecisionAt) {
		s.snap.LastDecisionAt = ev.Decision.Timestamp
	}
}

func (s *Store) reduceSignal(ev Event) {
	if ev.Signal == nil {
		return
	}
	s.snap.RecentSignals = append([]models.Signal{*ev.Signal}, s.snap.RecentSignals...)
	if len(s.snap.RecentSignals) > s.maxSignals {
		s.snap.RecentSignals = s.snap.RecentSignals[:s.maxSignals]
	}
}

func (s *Store) reduceRegime(ev Event) {
	if ev.Regime != "" {
		s.snap.Regime = ev.Regime
	}
}

func (s *Store) reducePortfolio(ev Event) {
	if ev.Portfolio == nil {
		return
	}
	s.snap.Portfolio = *ev.Portfolio
}

func (s *Store) reducePosition(ev Event) {
	if ev.Position == nil || ev.Position.Symbol == "" {
		return
	}
	if ev.Position.Quantity.IsZero() {
		delete(s.snap.Positions, ev.Position.Symbol)
		return
	}
	s.snap.Positions[ev.Position.Symbol] = *ev.Position
}

// --- selectors ---------------------------------------------------------------

func (s *Store) Portfolio() models.PortfolioSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Portfolio
}

// Positions returns open positions sorted by symbol.
func (s *Store) Positions() []models.Position {
	s.mu.RLock()
	out := make([]models.Position, 0, len(s.snap.Positions))
	for _, p := range s.snap.Positions {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// RecentSignals returns up to n signals, newest first.
func (s *Store) RecentSignals(n int) []models.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.snap.RecentSignals) {
		n = len(s.snap.RecentSignals)
	}
	out := make([]models.Signal, n)
	copy(out, s.snap.RecentSignals[:n])
	return out
}

func (s *Store) Regime() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Regime
}

func (s *Store) LastDecisionAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.LastDecisionAt
}

// --- fanout ------------------------------------------------------------------

// Subscribe returns a channel receiving every applied event. Slow readers
// lose events rather than stalling the ingest path.
func (s *Store) Subscribe(buf int) <-chan Event {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan Event, buf)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel previously returned by Subscribe.
func (s *Store) Unsubscribe(ch <-chan Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// fanout sends while holding subMu so an Unsubscribe cannot close a
// channel mid-send. Sends never block, so the lock is held only briefly.
func (s *Store) fanout(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			atomic.AddUint64(&s.droppedFanout, 1)
		}
	}
}

// DroppedFanout counts events discarded because a subscriber was full.
func (s *Store) DroppedFanout() uint64 {
	return atomic.LoadUint64(&s.droppedFanout)
}
