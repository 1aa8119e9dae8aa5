// Package learning implements the adjustment learner: a small tabular model
// that records which routing action was taken for which exception state,
// turns resolution outcomes into rewards, and feeds a severity adjustment
// and a routing preference back into triage. All state lives behind one
// mutex so concurrent pipeline runs never lose rewards.
package learning

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"recon-engine/internal/config"
	"recon-engine/internal/domain"
)

// Episode is one completed (state, action, reward) observation.
type Episode struct {
	State      string                    `json:"state"`
	Action     domain.RoutingDestination `json:"action"`
	Reward     float64                   `json:"reward"`
	RecordedAt time.Time                 `json:"recorded_at"`
}

// pending is a triage-time (state, action) pair awaiting its resolution.
type pending struct {
	State  string                    `json:"state"`
	Action domain.RoutingDestination `json:"action"`
}

// snapshot is the opaque persistence blob an external collaborator stores.
type snapshot struct {
	Estimates map[string]map[domain.RoutingDestination]float64 `json:"estimates"`
	History   []Episode                                        `json:"history"`
	Pending   map[string]pending                               `json:"pending"`
	Alpha     *float64                                         `json:"alpha,omitempty"`
	Epsilon   *float64                                         `json:"epsilon,omitempty"`
}

// Learner is the adjustment learner. The zero value is not usable; construct
// with New.
type Learner struct {
	mu           sync.RWMutex
	estimates    map[string]map[domain.RoutingDestination]float64
	history      []Episode
	pending      map[string]pending
	pendingOrder []string
	cfg          config.Learner
	rng          *rand.Rand
	logger       *zap.Logger
	now          func() time.Time
}

// Option customizes a Learner, mainly for tests.
type Option func(*Learner)

// WithRandSource fixes the exploration randomness.
func WithRandSource(src rand.Source) Option {
	return func(l *Learner) { l.rng = rand.New(src) }
}

// WithClock fixes the episode timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Learner) { l.now = now }
}

// New creates a cold-start learner: empty estimates, empty history.
func New(cfg config.Learner, logger *zap.Logger, opts ...Option) *Learner {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Learner{
		estimates: make(map[string]map[domain.RoutingDestination]float64),
		pending:   make(map[string]pending),
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reward maps a resolution outcome onto the learning signal.
func Reward(onTime, routingCorrect bool) float64 {
	switch {
	case onTime && routingCorrect:
		return 1.0
	case onTime:
		return 0.5
	case routingCorrect:
		return -0.5
	default:
		return -1.0
	}
}

// StateKey hashes the exception's feature vector (kind, reason codes, match
// score band, retry count) into a stable state identifier.
func StateKey(exc domain.ExceptionCase) string {
	codes := make([]string, 0, len(exc.ReasonCodes))
	for _, c := range exc.ReasonCodes {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)

	scoreBand := "none"
	if exc.MatchScore != nil {
		scoreBand = fmt.Sprintf("%.1f", math.Round(*exc.MatchScore*10)/10)
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%v|%s|%d", exc.Kind, codes, scoreBand, exc.RetryCount)
	return fmt.Sprintf("%016x", h.Sum64())
}

// RecordEpisode stores the (state, action) pair chosen at triage time so the
// eventual resolution can be rewarded. Pending episodes are bounded by the
// same limit as the history; never-resolved ones age out oldest first.
func (l *Learner) RecordEpisode(exc domain.ExceptionCase, action domain.RoutingDestination) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[exc.ID]; !ok {
		l.pendingOrder = append(l.pendingOrder, exc.ID)
	}
	l.pending[exc.ID] = pending{State: StateKey(exc), Action: action}
	l.evictPendingLocked()
}

// ResolveOutcome closes the loop for one exception: it computes the reward,
// updates the running estimate for the recorded (state, action), and appends
// the episode to the bounded history. Unknown exception ids are ignored.
func (l *Learner) ResolveOutcome(out domain.ResolutionOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.pending[out.ExceptionID]
	if !ok {
		l.logger.Warn("resolution for unknown exception, skipping reward",
			zap.String("exception_id", out.ExceptionID))
		return
	}
	delete(l.pending, out.ExceptionID)
	if len(l.pendingOrder) > 2*(len(l.pending)+1) {
		l.compactPendingOrderLocked()
	}

	reward := Reward(out.ResolvedOnTime, out.RoutingCorrect)
	l.updateEstimateLocked(p.State, p.Action, reward)

	l.history = append(l.history, Episode{
		State:      p.State,
		Action:     p.Action,
		Reward:     reward,
		RecordedAt: l.now(),
	})
	if len(l.history) > l.cfg.MaxHistory {
		l.history = l.history[len(l.history)-l.cfg.MaxHistory:]
	}
}

// ApplyOverride is the supervised correction path: when a human routes an
// exception differently, the estimate for the human's action is pushed
// toward +1.0.
func (l *Learner) ApplyOverride(exc domain.ExceptionCase, humanAction domain.RoutingDestination) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updateEstimateLocked(StateKey(exc), humanAction, 1.0)
}

// RoutePreference returns the learned routing preference for the exception's
// state, or false when the learner has nothing to say. With probability
// epsilon a uniformly random action is returned instead of the best
// estimate; exploration only happens once the state has been seen, so a
// fresh learner always defers to the business rules.
func (l *Learner) RoutePreference(exc domain.ExceptionCase) (domain.RoutingDestination, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	actions, ok := l.estimates[StateKey(exc)]
	if !ok || len(actions) == 0 {
		return "", false
	}
	if l.rng.Float64() < l.cfg.Epsilon {
		all := domain.AllRoutingDestinations()
		return all[l.rng.Intn(len(all))], true
	}

	var best domain.RoutingDestination
	bestVal := math.Inf(-1)
	for _, action := range domain.AllRoutingDestinations() {
		if v, ok := actions[action]; ok && v > bestVal {
			best = action
			bestVal = v
		}
	}
	return best, true
}

// SeverityAdjustment averages the reward of all past episodes sharing the
// exception's state, scaled and clamped to the configured bound. An empty
// history yields 0.0.
func (l *Learner) SeverityAdjustment(exc domain.ExceptionCase) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state := StateKey(exc)
	var sum float64
	var n int
	for _, ep := range l.history {
		if ep.State == state {
			sum += ep.Reward
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	adj := (sum / float64(n)) * l.cfg.AdjustmentScale
	bound := l.cfg.AdjustmentBound
	return math.Max(-bound, math.Min(bound, adj))
}

// Snapshot serializes the learner state as an opaque blob for the external
// persistence collaborator.
func (l *Learner) Snapshot() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	alpha, epsilon := l.cfg.Alpha, l.cfg.Epsilon
	snap := snapshot{
		Estimates: make(map[string]map[domain.RoutingDestination]float64, len(l.estimates)),
		History:   append([]Episode(nil), l.history...),
		Pending:   make(map[string]pending, len(l.pending)),
		Alpha:     &alpha,
		Epsilon:   &epsilon,
	}
	for state, actions := range l.estimates {
		inner := make(map[domain.RoutingDestination]float64, len(actions))
		for a, v := range actions {
			inner[a] = v
		}
		snap.Estimates[state] = inner
	}
	for id, p := range l.pending {
		snap.Pending[id] = p
	}
	return json.Marshal(snap)
}

// Restore replaces the learner state from a snapshot blob, including the
// hyperparameters recorded at save time, so a restored learner behaves the
// way it was trained. A missing or corrupt blob is non-fatal: the learner
// logs a warning and stays at (or resets to) a cold start.
func (l *Learner) Restore(blob []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(blob) == 0 {
		l.logger.Warn("empty learner snapshot, starting cold")
		l.resetLocked()
		return
	}
	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		l.logger.Warn("corrupt learner snapshot, starting cold", zap.Error(err))
		l.resetLocked()
		return
	}
	l.estimates = snap.Estimates
	if l.estimates == nil {
		l.estimates = make(map[string]map[domain.RoutingDestination]float64)
	}
	l.history = snap.History
	if l.cfg.MaxHistory > 0 && len(l.history) > l.cfg.MaxHistory {
		l.history = l.history[len(l.history)-l.cfg.MaxHistory:]
	}
	l.pending = snap.Pending
	if l.pending == nil {
		l.pending = make(map[string]pending)
	}
	l.pendingOrder = make([]string, 0, len(l.pending))
	for id := range l.pending {
		l.pendingOrder = append(l.pendingOrder, id)
	}
	sort.Strings(l.pendingOrder)
	l.evictPendingLocked()

	if snap.Alpha != nil && *snap.Alpha > 0 && *snap.Alpha < 1 {
		l.cfg.Alpha = *snap.Alpha
	}
	if snap.Epsilon != nil && *snap.Epsilon >= 0 && *snap.Epsilon < 1 {
		l.cfg.Epsilon = *snap.Epsilon
	}
}

// EpisodeCount reports how many resolved episodes the learner holds.
func (l *Learner) EpisodeCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.history)
}

func (l *Learner) updateEstimateLocked(state string, action domain.RoutingDestination, reward float64) {
	actions, ok := l.estimates[state]
	if !ok {
		actions = make(map[domain.RoutingDestination]float64)
		l.estimates[state] = actions
	}
	est := actions[action]
	actions[action] = est + l.cfg.Alpha*(reward-est)
}

// evictPendingLocked drops the oldest unresolved episodes once the pending
// set outgrows the history bound. An evicted episode can no longer earn a
// reward.
func (l *Learner) evictPendingLocked() {
	for len(l.pending) > l.cfg.MaxHistory && len(l.pendingOrder) > 0 {
		oldest := l.pendingOrder[0]
		l.pendingOrder = l.pendingOrder[1:]
		if _, ok := l.pending[oldest]; ok {
			delete(l.pending, oldest)
			l.logger.Warn("evicting unresolved episode", zap.String("exception_id", oldest))
		}
	}
}

// compactPendingOrderLocked drops order entries whose episode has already
// been resolved, keeping the slice proportional to the pending set.
func (l *Learner) compactPendingOrderLocked() {
	keep := l.pendingOrder[:0]
	for _, id := range l.pendingOrder {
		if _, ok := l.pending[id]; ok {
			keep = append(keep, id)
		}
	}
	l.pendingOrder = keep
}

func (l *Learner) resetLocked() {
	l.estimates = make(map[string]map[domain.RoutingDestination]float64)
	l.history = nil
	l.pending = make(map[string]pending)
	l.pendingOrder = nil
}
