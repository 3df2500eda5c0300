package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cfbwatch/scoreboard/internal/domain/scoreboard"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
)

// PollState is the lifecycle of the live-score refresh loop.
type PollState string

const (
	// PollStateAwaitingInit means no week has been selected yet; ticks are
	// skipped until MarkReady.
	PollStateAwaitingInit PollState = "awaiting_init"
	// PollStatePolling means ticks fetch the scoreboard and diff snapshots.
	PollStatePolling PollState = "polling"
	// PollStateSettled means a poll observed zero in-progress games; ticks
	// are skipped until an explicit Reset.
	PollStateSettled PollState = "settled"
)

// PollUpdate is the outcome of a single tick.
type PollUpdate struct {
	// Changed is true when the in-progress snapshot differs from the
	// previous one.
	Changed bool
	// InProgress is the current in-progress snapshot, in provider order.
	InProgress []scoreboard.LiveScore
	// State is the loop state after the tick.
	State PollState
	// Skipped is true when the tick did no fetch (not ready, settled, or
	// another tick was already running).
	Skipped bool
}

// PollService drives the scoreboard refresh cycle. At most one tick runs at
// a time; overlapping ticks are skipped rather than queued so a slow
// provider cannot pile up requests.
type PollService struct {
	feeds  *FeedService
	logger *logging.Logger

	ticking atomic.Bool

	mu       sync.Mutex
	state    PollState
	snapshot []scoreboard.LiveScore
}

func NewPollService(feeds *FeedService, logger *logging.Logger) *PollService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PollService{
		feeds:  feeds,
		logger: logger,
		state:  PollStateAwaitingInit,
	}
}

// MarkReady arms the loop once the initial week selection is done. It is a
// no-op when the loop is already armed or settled.
func (s *PollService) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == PollStateAwaitingInit {
		s.state = PollStatePolling
	}
}

// Reset rearms a settled loop and clears the last snapshot, e.g. when the
// user switches to a week with new live games.
func (s *PollService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = PollStatePolling
	s.snapshot = nil
}

// State reports the current loop state.
func (s *PollService) State() PollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSnapshot returns the most recent in-progress snapshot.
func (s *PollService) LastSnapshot() []scoreboard.LiveScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scoreboard.LiveScore, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Tick runs one refresh cycle: fetch the scoreboard, keep only in-progress
// games, and diff against the previous snapshot. A fetch error leaves the
// state and snapshot untouched; it is the caller's signal to retry on the
// next interval, not a reason to settle. A successful fetch with zero
// in-progress games settles the loop.
func (s *PollService) Tick(ctx context.Context) (PollUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PollService.Tick")
	defer span.End()

	if !s.ticking.CompareAndSwap(false, true) {
		return PollUpdate{State: s.State(), Skipped: true}, nil
	}
	defer s.ticking.Store(false)

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state != PollStatePolling {
		return PollUpdate{State: state, Skipped: true}, nil
	}

	scores, err := s.feeds.LiveScores(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "scoreboard refresh failed, keeping previous snapshot", "error", err)
		return PollUpdate{State: state, InProgress: s.LastSnapshot()}, err
	}

	live := filterInProgress(scores)
	if len(live) == 0 {
		s.mu.Lock()
		s.state = PollStateSettled
		s.snapshot = nil
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "no games in progress, polling settled")
		return PollUpdate{State: PollStateSettled}, nil
	}

	s.mu.Lock()
	changed := !scoreboard.SnapshotsEqual(s.snapshot, live)
	if changed {
		s.snapshot = live
	}
	s.mu.Unlock()

	return PollUpdate{Changed: changed, InProgress: live, State: PollStatePolling}, nil
}

func filterInProgress(scores []scoreboard.LiveScore) []scoreboard.LiveScore {
	var live []scoreboard.LiveScore
	for _, score := range scores {
		if score.Status != scoreboard.StatusInProgress {
			continue
		}
		score.Status = scoreboard.DisplayInProgress
		live = append(live, score)
	}
	return live
}
