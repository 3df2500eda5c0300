package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cfbwatch/scoreboard/internal/domain/game"
	"github.com/cfbwatch/scoreboard/internal/domain/teamref"
	"github.com/cfbwatch/scoreboard/internal/domain/teamstats"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
)

type stubStatSource struct {
	offense map[int64]teamstats.StatLine
	defense map[int64]teamstats.StatLine
	err     error
}

func (s *stubStatSource) OffenseStats() (map[int64]teamstats.StatLine, error) {
	return s.offense, s.err
}

func (s *stubStatSource) DefenseStats() (map[int64]teamstats.StatLine, error) {
	return s.defense, s.err
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.05
}

func TestCompareStat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		home     float64
		away     float64
		kind     teamstats.Kind
		wantHome float64
		wantAway float64
	}{
		{name: "offense favors bigger value", home: 450, away: 150, kind: teamstats.KindOffense, wantHome: 75, wantAway: 25},
		{name: "offense both zero splits even", home: 0, away: 0, kind: teamstats.KindOffense, wantHome: 50, wantAway: 50},
		{name: "defense favors smaller value", home: 2, away: 4, kind: teamstats.KindDefense, wantHome: 66.67, wantAway: 33.33},
		{name: "defense zero allowed takes all", home: 0, away: 5, kind: teamstats.KindDefense, wantHome: 100, wantAway: 0},
		{name: "defense both zero splits even", home: 0, away: 0, kind: teamstats.KindDefense, wantHome: 50, wantAway: 50},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotHome, gotAway := CompareStat(tc.home, tc.away, tc.kind)
			if !almostEqual(gotHome, tc.wantHome) || !almostEqual(gotAway, tc.wantAway) {
				t.Fatalf("unexpected shares: got=%.2f/%.2f want=%.2f/%.2f", gotHome, gotAway, tc.wantHome, tc.wantAway)
			}
			if !almostEqual(gotHome+gotAway, 100) {
				t.Fatalf("shares must sum to 100: got=%.2f", gotHome+gotAway)
			}
		})
	}
}

func TestCompareStat_PanicsOnUnknownKind(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown stat kind")
		}
	}()
	CompareStat(1, 2, teamstats.Kind("special_teams"))
}

func newTestMatchupService(fetcher *stubFeedFetcher, refs []teamref.TeamInfo, stats *stubStatSource) *MatchupService {
	display := NewDisplayService(newTestFeedService(fetcher, refs), 5, logging.NewNop())
	return NewMatchupService(display, stats, 100, logging.NewNop())
}

func TestMatchupService_Matchup(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{
		games: []game.Game{
			{ID: 11, HomeTeam: "Georgia", HomeID: 61, AwayTeam: "Clemson", AwayID: 228},
		},
	}
	refs := []teamref.TeamInfo{
		{ID: 61, School: "Georgia", Logo: "https://cdn.example/61.png", Color: "#ba0c2f", AltColor: "#000000"},
		{ID: 228, School: "Clemson", Logo: "https://cdn.example/228.png", Color: "#f66733", AltColor: "#522d80"},
	}
	stats := &stubStatSource{
		offense: map[int64]teamstats.StatLine{
			61:  {TeamID: 61, TotalRank: 5, TotalYPG: 450, RushRank: 10, RushYPG: 200, PassRank: 12, PassYPG: 250, ScoringRank: 3, ScoringAvg: 38.5},
			228: {TeamID: 228, TotalRank: 20, TotalYPG: 150, RushRank: 40, RushYPG: 100, PassRank: 60, PassYPG: 50, ScoringRank: 25, ScoringAvg: 28.0},
		},
		defense: map[int64]teamstats.StatLine{
			61:  {TeamID: 61, TotalRank: 2, TotalYPG: 2},
			228: {TeamID: 228, TotalRank: 8, TotalYPG: 4},
		},
	}

	service := newTestMatchupService(fetcher, refs, stats)

	view, err := service.Matchup(context.Background(), 1, 11)
	if err != nil {
		t.Fatalf("Matchup error: %v", err)
	}
	if view.HomeTeam != "Georgia" || view.AwayTeam != "Clemson" {
		t.Fatalf("unexpected teams: %q vs %q", view.HomeTeam, view.AwayTeam)
	}
	if view.HomeColor != "#ba0c2f" {
		t.Fatalf("distinct colors must pass through: got=%q", view.HomeColor)
	}
	if len(view.Offense) != 4 || len(view.Defense) != 4 {
		t.Fatalf("expected 4 offense and 4 defense rows, got %d/%d", len(view.Offense), len(view.Defense))
	}
	totalYards := view.Offense[0]
	if !almostEqual(totalYards.HomeShare, 75) || !almostEqual(totalYards.AwayShare, 25) {
		t.Fatalf("unexpected offense shares: %.2f/%.2f", totalYards.HomeShare, totalYards.AwayShare)
	}
	totalAllowed := view.Defense[0]
	if !almostEqual(totalAllowed.HomeShare, 66.67) {
		t.Fatalf("defense share must invert the scale: got=%.2f", totalAllowed.HomeShare)
	}
}

func TestMatchupService_Matchup_SubstitutesAltColorOnSimilarColors(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{
		games: []game.Game{
			{ID: 12, HomeTeam: "Cincinnati", HomeID: 2132, AwayTeam: "UCF", AwayID: 2116},
		},
	}
	refs := []teamref.TeamInfo{
		{ID: 2132, School: "Cincinnati", Logo: "https://cdn.example/2132.png", Color: "#000000", AltColor: "#e00122"},
		{ID: 2116, School: "UCF", Logo: "https://cdn.example/2116.png", Color: "#0a0a0a", AltColor: "#b3a369"},
	}
	stats := &stubStatSource{
		offense: map[int64]teamstats.StatLine{},
		defense: map[int64]teamstats.StatLine{},
	}

	service := newTestMatchupService(fetcher, refs, stats)

	view, err := service.Matchup(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("Matchup error: %v", err)
	}
	if view.HomeColor != "#e00122" {
		t.Fatalf("near-identical colors must substitute the home alternate: got=%q", view.HomeColor)
	}
	if view.AwayColor != "#0a0a0a" {
		t.Fatalf("away color must not change: got=%q", view.AwayColor)
	}
}

func TestMatchupService_Matchup_UnknownGame(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{}
	service := newTestMatchupService(fetcher, nil, &stubStatSource{})

	if _, err := service.Matchup(context.Background(), 1, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchupService_Result(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{
		games: []game.Game{
			{
				ID:             13,
				HomeTeam:       "Georgia",
				HomeID:         61,
				HomePoints:     intPtr(34),
				HomeLineScores: []int{7, 10, 14, 3},
				AwayTeam:       "Clemson",
				AwayID:         228,
				AwayPoints:     intPtr(3),
				AwayLineScores: []int{0, 3, 0, 0},
				Completed:      true,
			},
		},
	}
	service := newTestMatchupService(fetcher, nil, &stubStatSource{})

	view, err := service.Result(context.Background(), 1, 13)
	if err != nil {
		t.Fatalf("Result error: %v", err)
	}
	if view.HomePoints != 34 || view.AwayPoints != 3 {
		t.Fatalf("unexpected final score: %d-%d", view.HomePoints, view.AwayPoints)
	}
	if !almostEqual(view.HomeShare, 91.89) {
		t.Fatalf("unexpected points share: %.2f", view.HomeShare)
	}
	if len(view.Quarters) != 4 || view.Quarters[2].HomeScore != 14 {
		t.Fatalf("unexpected quarters: %+v", view.Quarters)
	}
}

func TestMatchupService_Result_RejectsInProgressGame(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{
		games: []game.Game{
			{ID: 14, HomeTeam: "Oregon", HomeID: 2483, AwayTeam: "Ohio State", AwayID: 194},
		},
	}
	service := newTestMatchupService(fetcher, nil, &stubStatSource{})

	if _, err := service.Result(context.Background(), 1, 14); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
