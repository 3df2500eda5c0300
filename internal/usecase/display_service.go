package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/cfbwatch/scoreboard/internal/domain/betting"
	"github.com/cfbwatch/scoreboard/internal/domain/broadcast"
	"github.com/cfbwatch/scoreboard/internal/domain/game"
	"github.com/cfbwatch/scoreboard/internal/domain/record"
	"github.com/cfbwatch/scoreboard/internal/domain/teamref"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
)

// DisplayService builds the denormalized per-game cards the display layer
// consumes. The five weekly feeds have no ordering dependency on each other,
// only on being joined afterward, so they are fetched on a worker pool.
type DisplayService struct {
	feeds      *FeedService
	maxWorkers int
	logger     *logging.Logger
}

func NewDisplayService(feeds *FeedService, maxWorkers int, logger *logging.Logger) *DisplayService {
	if maxWorkers < 1 {
		maxWorkers = 5
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DisplayService{
		feeds:      feeds,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// BuildWeek fetches every weekly feed and joins them into one card per game.
func (s *DisplayService) BuildWeek(ctx context.Context, week int) ([]game.Card, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DisplayService.BuildWeek")
	defer span.End()

	if week < 1 {
		return nil, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	var (
		games     []game.Game
		lines     []betting.Line
		coverages []broadcast.Coverage
		records   []record.TeamRecord
		refs      []teamref.TeamInfo
	)

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create feed worker pool: %w", err)
	}
	defer pool.Release()

	tasks := []func(){
		func() { games = s.feeds.Games(ctx, week) },
		func() { lines = s.feeds.Lines(ctx, week) },
		func() { coverages = s.feeds.Media(ctx, week) },
		func() { records = s.feeds.Records(ctx) },
		func() { refs = s.feeds.TeamInfo(ctx) },
	}

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			task()
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit feed fetch: %w", err)
		}
	}
	workers.Wait()

	return assembleCards(games, lines, coverages, refs, records), nil
}

// assembleCards left-joins the week's feeds into one card per game. Join
// targets are indexed once up front; output order matches input game order,
// and every optional field is populated with its sentinel on a join miss.
func assembleCards(
	games []game.Game,
	lines []betting.Line,
	coverages []broadcast.Coverage,
	refs []teamref.TeamInfo,
	records []record.TeamRecord,
) []game.Card {
	linesByGame := make(map[int64]betting.Line, len(lines))
	for _, line := range lines {
		if _, ok := linesByGame[line.GameID]; ok {
			continue
		}
		linesByGame[line.GameID] = line
	}

	outletsByGame := make(map[int64]string, len(coverages))
	for _, coverage := range coverages {
		outletsByGame[coverage.GameID] = coverage.Outlet
	}

	refsBySchool := make(map[string]teamref.TeamInfo, len(refs))
	for _, ref := range refs {
		refsBySchool[ref.School] = ref
	}

	recordsByTeam := make(map[string]record.TeamRecord, len(records))
	for _, rec := range records {
		recordsByTeam[rec.Team] = rec
	}

	cards := make([]game.Card, 0, len(games))
	for _, g := range games {
		card := game.Card{Game: g}

		if line, ok := linesByGame[g.ID]; ok {
			card.Spread = line.Spread
			card.OverUnder = line.OverUnder
		} else {
			card.Spread = game.NotAvailable
			card.OverUnder = game.NotAvailable
		}

		if outlet, ok := outletsByGame[g.ID]; ok {
			card.Outlet = outlet
		} else {
			card.Outlet = game.NotAvailable
		}

		card.HomeLogo, card.HomeColor, card.HomeAltColor = resolveTeamRef(refsBySchool, g.HomeTeam)
		card.AwayLogo, card.AwayColor, card.AwayAltColor = resolveTeamRef(refsBySchool, g.AwayTeam)

		card.HomeTotalWins, card.HomeTotalLosses, card.HomeConferenceWins, card.HomeConferenceLosses = resolveRecord(recordsByTeam, g.HomeTeam)
		card.AwayTotalWins, card.AwayTotalLosses, card.AwayConferenceWins, card.AwayConferenceLosses = resolveRecord(recordsByTeam, g.AwayTeam)

		cards = append(cards, card)
	}
	return cards
}

func resolveTeamRef(refsBySchool map[string]teamref.TeamInfo, school string) (logo, color, altColor string) {
	ref, ok := refsBySchool[school]
	if !ok {
		return game.NotAvailable, teamref.DefaultColor, teamref.DefaultColor
	}
	return ref.Logo, ref.Color, ref.AltColor
}

func resolveRecord(recordsByTeam map[string]record.TeamRecord, team string) (totalWins, totalLosses, confWins, confLosses string) {
	rec, ok := recordsByTeam[team]
	if !ok {
		return game.NotAvailable, game.NotAvailable, game.NotAvailable, game.NotAvailable
	}
	return strconv.Itoa(rec.TotalWins), strconv.Itoa(rec.TotalLosses), strconv.Itoa(rec.ConferenceWins), strconv.Itoa(rec.ConferenceLosses)
}
