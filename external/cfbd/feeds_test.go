package cfbd

import (
	"context"
	"net/http"
	"testing"

	"github.com/cfbwatch/scoreboard/internal/domain/game"
)

func TestFetchLines_FiltersByProvider(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "lines": [
				{"provider": "ESPN Bet", "formattedSpread": "Georgia -13.5", "overUnder": 48.5},
				{"provider": "Bovada", "formattedSpread": "Georgia -14", "overUnder": 49}
			]},
			{"id": 2, "lines": [
				{"provider": "Bovada", "formattedSpread": "UTSA -3", "overUnder": 55}
			]},
			{"id": 3, "lines": [
				{"provider": "ESPN Bet", "formattedSpread": "Oregon -21", "overUnder": null}
			]}
		]`))
	}, 0)

	lines, err := client.FetchLines(context.Background(), "2024", 1, "ESPN Bet")
	if err != nil {
		t.Fatalf("FetchLines error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines from designated provider, got %d", len(lines))
	}
	if lines[0].GameID != 1 || lines[0].Spread != "Georgia -13.5" || lines[0].OverUnder != "48.5" {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].GameID != 3 || lines[1].OverUnder != game.NotAvailable {
		t.Fatalf("missing over/under must map to sentinel: %+v", lines[1])
	}
}

func TestFetchMedia_JoinsOutletsInArrivalOrder(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 10, "outlet": "ESPN"},
			{"id": 11, "outlet": "FOX"},
			{"id": 10, "outlet": "ABC"},
			{"id": 10, "outlet": "ESPN2"}
		]`))
	}, 0)

	coverages, err := client.FetchMedia(context.Background(), "2024", 1)
	if err != nil {
		t.Fatalf("FetchMedia error: %v", err)
	}
	if len(coverages) != 2 {
		t.Fatalf("expected 2 grouped coverages, got %d", len(coverages))
	}
	if coverages[0].GameID != 10 || coverages[0].Outlet != "ESPN, ABC, ESPN2" {
		t.Fatalf("outlets must join in arrival order: %+v", coverages[0])
	}
	if coverages[1].GameID != 11 || coverages[1].Outlet != "FOX" {
		t.Fatalf("unexpected second coverage: %+v", coverages[1])
	}
}

func TestFetchGames_FormatsEasternKickoff(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "start_date": "2024-08-31T23:30:00.000Z", "home_team": "Georgia", "home_id": 61,
			 "home_points": null, "away_team": "Clemson", "away_id": 228, "away_points": null, "completed": false},
			{"id": 2, "start_date": "not-a-time", "home_team": "LSU", "home_id": 99,
			 "away_team": "USC", "away_id": 30, "completed": false}
		]`))
	}, 0)

	games, err := client.FetchGames(context.Background(), "2024", 1, "fbs")
	if err != nil {
		t.Fatalf("FetchGames error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	// 23:30 UTC on Aug 31 is 7:30 PM Eastern the same day.
	if games[0].StartDate != "Aug-31 07:30 PM" {
		t.Fatalf("unexpected kickoff format: %q", games[0].StartDate)
	}
	if games[0].DayOfWeek != "Saturday" {
		t.Fatalf("unexpected day of week: %q", games[0].DayOfWeek)
	}
	// Unparseable timestamps pass through untouched.
	if games[1].StartDate != "not-a-time" || games[1].DayOfWeek != "" {
		t.Fatalf("unparseable timestamp must pass through: %+v", games[1])
	}
}

func TestFetchCalendar_SkipsUnparseableWeeks(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"week": 1, "seasonType": "regular", "firstGameStart": "2024-08-24T12:00:00.000Z", "lastGameStart": "2024-08-31T23:00:00.000Z"},
			{"week": 2, "seasonType": "regular", "firstGameStart": "bogus", "lastGameStart": "2024-09-07T23:00:00.000Z"}
		]`))
	}, 0)

	weeks, err := client.FetchCalendar(context.Background(), "2024")
	if err != nil {
		t.Fatalf("FetchCalendar error: %v", err)
	}
	if len(weeks) != 1 {
		t.Fatalf("unparseable week must be skipped: got %d weeks", len(weeks))
	}
	if weeks[0].Number != 1 || weeks[0].SeasonType != "regular" {
		t.Fatalf("unexpected week: %+v", weeks[0])
	}
}

func TestFetchRecords_FlattensNestedCounts(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"team": "Georgia", "teamId": 61,
			 "total": {"wins": 11, "losses": 2},
			 "conferenceGames": {"wins": 8, "losses": 1}}
		]`))
	}, 0)

	records, err := client.FetchRecords(context.Background(), "2024")
	if err != nil {
		t.Fatalf("FetchRecords error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Team != "Georgia" || rec.TotalWins != 11 || rec.TotalLosses != 2 || rec.ConferenceWins != 8 || rec.ConferenceLosses != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestFetchScoreboard_MapsTeamsAndSpread(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("classification"); got != "fbs" {
			t.Errorf("unexpected classification: %q", got)
		}
		w.Write([]byte(`[
			{"id": 5, "status": "in_progress", "period": 2, "clock": "00:07:45",
			 "situation": "2nd & 7 at GA 45", "possession": "home", "tv": "ESPN",
			 "betting": {"spread": -13.5},
			 "homeTeam": {"id": 61, "name": "Georgia", "points": 14},
			 "awayTeam": {"id": 228, "name": "Clemson", "points": 3}}
		]`))
	}, 0)

	scores, err := client.FetchScoreboard(context.Background(), "fbs")
	if err != nil {
		t.Fatalf("FetchScoreboard error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	score := scores[0]
	if score.GameID != 5 || score.Status != "in_progress" || score.Period != 2 {
		t.Fatalf("unexpected score: %+v", score)
	}
	if score.HomeTeam != "Georgia" || score.HomeScore == nil || *score.HomeScore != 14 {
		t.Fatalf("unexpected home mapping: %+v", score)
	}
	if score.Spread != "-13.5" {
		t.Fatalf("unexpected spread: %q", score.Spread)
	}
}

func TestFormatOdds(t *testing.T) {
	t.Parallel()

	if got := formatOdds(nil); got != game.NotAvailable {
		t.Fatalf("nil odds must map to sentinel, got %q", got)
	}
	v := 48.5
	if got := formatOdds(&v); got != "48.5" {
		t.Fatalf("unexpected odds format: %q", got)
	}
	whole := 49.0
	if got := formatOdds(&whole); got != "49" {
		t.Fatalf("whole odds must drop trailing zeros: %q", got)
	}
}
