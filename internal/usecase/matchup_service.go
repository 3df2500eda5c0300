package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/cfbwatch/scoreboard/internal/domain/game"
	"github.com/cfbwatch/scoreboard/internal/domain/teamref"
	"github.com/cfbwatch/scoreboard/internal/domain/teamstats"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
)

// StatSource loads the season-to-date team stat datasets.
type StatSource interface {
	OffenseStats() (map[int64]teamstats.StatLine, error)
	DefenseStats() (map[int64]teamstats.StatLine, error)
}

// StatRow is one stat compared across the two teams. HomeShare and AwayShare
// sum to 100 and drive the display's proportional bars.
type StatRow struct {
	Label     string
	HomeValue float64
	AwayValue float64
	HomeRank  int
	AwayRank  int
	HomeShare float64
	AwayShare float64
}

// MatchupView is the pre-game comparison for one game.
type MatchupView struct {
	GameID    int64
	HomeTeam  string
	AwayTeam  string
	HomeColor string
	AwayColor string
	Offense   []StatRow
	Defense   []StatRow
}

// QuarterScore is one period of a completed game's line score.
type QuarterScore struct {
	Period    int
	HomeScore int
	AwayScore int
}

// ResultView is the post-game breakdown for one completed game.
type ResultView struct {
	GameID     int64
	HomeTeam   string
	AwayTeam   string
	HomeColor  string
	AwayColor  string
	HomePoints int
	AwayPoints int
	HomeShare  float64
	AwayShare  float64
	Quarters   []QuarterScore
}

// MatchupService builds side-by-side comparisons from the static stat
// datasets and the week's assembled cards.
type MatchupService struct {
	display        *DisplayService
	stats          StatSource
	colorThreshold float64
	logger         *logging.Logger

	loadOnce sync.Once
	loadErr  error
	offense  map[int64]teamstats.StatLine
	defense  map[int64]teamstats.StatLine
}

func NewMatchupService(display *DisplayService, stats StatSource, colorThreshold float64, logger *logging.Logger) *MatchupService {
	if colorThreshold <= 0 {
		colorThreshold = 100
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchupService{
		display:        display,
		stats:          stats,
		colorThreshold: colorThreshold,
		logger:         logger,
	}
}

// CompareStat splits a stat between the two teams as percentages summing to
// 100. For offense stats a bigger raw value earns a bigger share; for
// defense stats the scale inverts, because allowing fewer yards is better.
// With both values zero neither side has an edge and the split is 50/50.
func CompareStat(home, away float64, kind teamstats.Kind) (homeShare, awayShare float64) {
	total := home + away
	switch kind {
	case teamstats.KindOffense:
		if total == 0 {
			return 50, 50
		}
		homeShare = home / total * 100
	case teamstats.KindDefense:
		if total == 0 {
			return 50, 50
		}
		homeShare = away / total * 100
	default:
		panic(fmt.Sprintf("teamstats: unknown stat kind %q", kind))
	}
	return homeShare, 100 - homeShare
}

// Matchup builds the pre-game stat comparison for one of the week's games.
func (s *MatchupService) Matchup(ctx context.Context, week int, gameID int64) (MatchupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Matchup")
	defer span.End()

	card, err := s.findCard(ctx, week, gameID)
	if err != nil {
		return MatchupView{}, err
	}
	if err := s.loadStats(); err != nil {
		return MatchupView{}, fmt.Errorf("%w: load stat datasets: %v", ErrDependencyUnavailable, err)
	}

	homeColor, awayColor := s.contrastColors(card)
	view := MatchupView{
		GameID:    card.ID,
		HomeTeam:  card.HomeTeam,
		AwayTeam:  card.AwayTeam,
		HomeColor: homeColor,
		AwayColor: awayColor,
	}

	homeOff, awayOff := s.offense[card.HomeID], s.offense[card.AwayID]
	view.Offense = []StatRow{
		statRow("Total Yards/Game", homeOff.TotalYPG, awayOff.TotalYPG, homeOff.TotalRank, awayOff.TotalRank, teamstats.KindOffense),
		statRow("Rushing Yards/Game", homeOff.RushYPG, awayOff.RushYPG, homeOff.RushRank, awayOff.RushRank, teamstats.KindOffense),
		statRow("Passing Yards/Game", homeOff.PassYPG, awayOff.PassYPG, homeOff.PassRank, awayOff.PassRank, teamstats.KindOffense),
		statRow("Points/Game", homeOff.ScoringAvg, awayOff.ScoringAvg, homeOff.ScoringRank, awayOff.ScoringRank, teamstats.KindOffense),
	}

	homeDef, awayDef := s.defense[card.HomeID], s.defense[card.AwayID]
	view.Defense = []StatRow{
		statRow("Total Yards Allowed/Game", homeDef.TotalYPG, awayDef.TotalYPG, homeDef.TotalRank, awayDef.TotalRank, teamstats.KindDefense),
		statRow("Rushing Yards Allowed/Game", homeDef.RushYPG, awayDef.RushYPG, homeDef.RushRank, awayDef.RushRank, teamstats.KindDefense),
		statRow("Passing Yards Allowed/Game", homeDef.PassYPG, awayDef.PassYPG, homeDef.PassRank, awayDef.PassRank, teamstats.KindDefense),
		statRow("Points Allowed/Game", homeDef.ScoringAvg, awayDef.ScoringAvg, homeDef.ScoringRank, awayDef.ScoringRank, teamstats.KindDefense),
	}

	return view, nil
}

// Result builds the post-game breakdown for one of the week's games.
func (s *MatchupService) Result(ctx context.Context, week int, gameID int64) (ResultView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Result")
	defer span.End()

	card, err := s.findCard(ctx, week, gameID)
	if err != nil {
		return ResultView{}, err
	}
	if !card.Completed {
		return ResultView{}, fmt.Errorf("%w: game %d is not completed", ErrInvalidInput, gameID)
	}

	homeColor, awayColor := s.contrastColors(card)
	view := ResultView{
		GameID:    card.ID,
		HomeTeam:  card.HomeTeam,
		AwayTeam:  card.AwayTeam,
		HomeColor: homeColor,
		AwayColor: awayColor,
	}
	if card.HomePoints != nil {
		view.HomePoints = *card.HomePoints
	}
	if card.AwayPoints != nil {
		view.AwayPoints = *card.AwayPoints
	}
	view.HomeShare, view.AwayShare = CompareStat(float64(view.HomePoints), float64(view.AwayPoints), teamstats.KindOffense)

	periods := len(card.HomeLineScores)
	if len(card.AwayLineScores) > periods {
		periods = len(card.AwayLineScores)
	}
	for i := 0; i < periods; i++ {
		quarter := QuarterScore{Period: i + 1}
		if i < len(card.HomeLineScores) {
			quarter.HomeScore = card.HomeLineScores[i]
		}
		if i < len(card.AwayLineScores) {
			quarter.AwayScore = card.AwayLineScores[i]
		}
		view.Quarters = append(view.Quarters, quarter)
	}

	return view, nil
}

func (s *MatchupService) findCard(ctx context.Context, week int, gameID int64) (game.Card, error) {
	cards, err := s.display.BuildWeek(ctx, week)
	if err != nil {
		return game.Card{}, err
	}
	for _, card := range cards {
		if card.ID == gameID {
			return card, nil
		}
	}
	return game.Card{}, fmt.Errorf("%w: game %d not found in week %d", ErrNotFound, gameID, week)
}

func (s *MatchupService) loadStats() error {
	s.loadOnce.Do(func() {
		offense, err := s.stats.OffenseStats()
		if err != nil {
			s.loadErr = err
			return
		}
		defense, err := s.stats.DefenseStats()
		if err != nil {
			s.loadErr = err
			return
		}
		s.offense, s.defense = offense, defense
	})
	return s.loadErr
}

func statRow(label string, home, away float64, homeRank, awayRank int, kind teamstats.Kind) StatRow {
	homeShare, awayShare := CompareStat(home, away, kind)
	return StatRow{
		Label:     label,
		HomeValue: home,
		AwayValue: away,
		HomeRank:  homeRank,
		AwayRank:  awayRank,
		HomeShare: homeShare,
		AwayShare: awayShare,
	}
}

// contrastColors substitutes the home side's alternate color when the two
// primary colors are too close to tell apart on screen.
func (s *MatchupService) contrastColors(card game.Card) (string, string) {
	if teamref.SimilarColors(card.HomeColor, card.AwayColor, s.colorThreshold) && card.HomeAltColor != "" {
		return card.HomeAltColor, card.AwayColor
	}
	return card.HomeColor, card.AwayColor
}
