package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cfbwatch/scoreboard/internal/domain/betting"
	"github.com/cfbwatch/scoreboard/internal/domain/broadcast"
	"github.com/cfbwatch/scoreboard/internal/domain/game"
	"github.com/cfbwatch/scoreboard/internal/domain/record"
	"github.com/cfbwatch/scoreboard/internal/domain/schedule"
	"github.com/cfbwatch/scoreboard/internal/domain/scoreboard"
	"github.com/cfbwatch/scoreboard/internal/domain/teamref"
	"github.com/cfbwatch/scoreboard/internal/platform/cache"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
)

// FeedFetcher is the outbound data-provider surface the feed service needs.
type FeedFetcher interface {
	FetchCalendar(ctx context.Context, year string) ([]schedule.Week, error)
	FetchGames(ctx context.Context, year string, week int, division string) ([]game.Game, error)
	FetchRecords(ctx context.Context, year string) ([]record.TeamRecord, error)
	FetchLines(ctx context.Context, year string, week int, provider string) ([]betting.Line, error)
	FetchMedia(ctx context.Context, year string, week int) ([]broadcast.Coverage, error)
	FetchScoreboard(ctx context.Context, classification string) ([]scoreboard.LiveScore, error)
}

// TeamInfoSource loads the static team reference dataset.
type TeamInfoSource interface {
	TeamInfo() ([]teamref.TeamInfo, error)
}

type FeedServiceConfig struct {
	Year            string
	Division        string
	Classification  string
	BettingProvider string
	FeedTTL         time.Duration
	LinesTTL        time.Duration
	TeamInfoTTL     time.Duration
}

// FeedService is the read side of the pipeline: every feed goes through a
// read-through TTL cache keyed by operation and arguments. Provider failures
// on the weekly feeds are logged and coerced into empty collections so the
// join engine renders sentinels instead of crashing; only LiveScores keeps
// the error, because the poll loop must tell "fetch failed" apart from
// "no live games".
type FeedService struct {
	fetcher  FeedFetcher
	teamInfo TeamInfoSource
	store    *cache.Store
	cfg      FeedServiceConfig
	logger   *logging.Logger
}

func NewFeedService(fetcher FeedFetcher, teamInfo TeamInfoSource, store *cache.Store, cfg FeedServiceConfig, logger *logging.Logger) *FeedService {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = cache.NewStore()
	}
	return &FeedService{
		fetcher:  fetcher,
		teamInfo: teamInfo,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *FeedService) Weeks(ctx context.Context) []schedule.Week {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Weeks")
	defer span.End()

	key := fmt.Sprintf("feed:calendar:%s", s.cfg.Year)
	value, err := s.store.GetOrLoad(ctx, key, s.cfg.FeedTTL, func(ctx context.Context) (any, error) {
		return s.fetcher.FetchCalendar(ctx, s.cfg.Year)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "calendar feed unavailable, continuing with no weeks", "error", err)
		return nil
	}
	weeks, _ := value.([]schedule.Week)
	return weeks
}

func (s *FeedService) Games(ctx context.Context, week int) []game.Game {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Games")
	defer span.End()

	key := fmt.Sprintf("feed:games:%s:%d", s.cfg.Year, week)
	value, err := s.store.GetOrLoad(ctx, key, s.cfg.FeedTTL, func(ctx context.Context) (any, error) {
		return s.fetcher.FetchGames(ctx, s.cfg.Year, week, s.cfg.Division)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "games feed unavailable, continuing with no games", "week", week, "error", err)
		return nil
	}
	games, _ := value.([]game.Game)
	return games
}

func (s *FeedService) Records(ctx context.Context) []record.TeamRecord {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Records")
	defer span.End()

	key := fmt.Sprintf("feed:records:%s", s.cfg.Year)
	value, err := s.store.GetOrLoad(ctx, key, s.cfg.FeedTTL, func(ctx context.Context) (any, error) {
		return s.fetcher.FetchRecords(ctx, s.cfg.Year)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "records feed unavailable, continuing with no records", "error", err)
		return nil
	}
	records, _ := value.([]record.TeamRecord)
	return records
}

func (s *FeedService) Lines(ctx context.Context, week int) []betting.Line {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Lines")
	defer span.End()

	key := fmt.Sprintf("feed:lines:%s:%d", s.cfg.Year, week)
	value, err := s.store.GetOrLoad(ctx, key, s.cfg.LinesTTL, func(ctx context.Context) (any, error) {
		return s.fetcher.FetchLines(ctx, s.cfg.Year, week, s.cfg.BettingProvider)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "lines feed unavailable, continuing with no lines", "week", week, "error", err)
		return nil
	}
	lines, _ := value.([]betting.Line)
	return lines
}

func (s *FeedService) Media(ctx context.Context, week int) []broadcast.Coverage {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Media")
	defer span.End()

	key := fmt.Sprintf("feed:media:%s:%d", s.cfg.Year, week)
	value, err := s.store.GetOrLoad(ctx, key, s.cfg.FeedTTL, func(ctx context.Context) (any, error) {
		return s.fetcher.FetchMedia(ctx, s.cfg.Year, week)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "media feed unavailable, continuing with no outlets", "week", week, "error", err)
		return nil
	}
	coverages, _ := value.([]broadcast.Coverage)
	return coverages
}

func (s *FeedService) TeamInfo(ctx context.Context) []teamref.TeamInfo {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.TeamInfo")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, "static:team_info", s.cfg.TeamInfoTTL, func(context.Context) (any, error) {
		return s.teamInfo.TeamInfo()
	})
	if err != nil {
		s.logger.WarnContext(ctx, "team reference dataset unavailable, continuing without team metadata", "error", err)
		return nil
	}
	refs, _ := value.([]teamref.TeamInfo)
	return refs
}

// LiveScores bypasses the cache: the scoreboard refreshes on every poll tick
// and its errors carry state-machine meaning.
func (s *FeedService) LiveScores(ctx context.Context) ([]scoreboard.LiveScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.LiveScores")
	defer span.End()

	scores, err := s.fetcher.FetchScoreboard(ctx, s.cfg.Classification)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch scoreboard: %v", ErrDependencyUnavailable, err)
	}
	return scores, nil
}

// InvalidateWeek drops every cached feed for a week so a reselect refetches.
func (s *FeedService) InvalidateWeek(ctx context.Context, week int) {
	s.store.Delete(ctx, fmt.Sprintf("feed:games:%s:%d", s.cfg.Year, week))
	s.store.Delete(ctx, fmt.Sprintf("feed:lines:%s:%d", s.cfg.Year, week))
	s.store.Delete(ctx, fmt.Sprintf("feed:media:%s:%d", s.cfg.Year, week))
}
