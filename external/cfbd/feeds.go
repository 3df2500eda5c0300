package cfbd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cfbwatch/scoreboard/internal/domain/betting"
	"github.com/cfbwatch/scoreboard/internal/domain/broadcast"
	"github.com/cfbwatch/scoreboard/internal/domain/game"
	"github.com/cfbwatch/scoreboard/internal/domain/record"
	"github.com/cfbwatch/scoreboard/internal/domain/schedule"
	"github.com/cfbwatch/scoreboard/internal/domain/scoreboard"
)

// Raw feed shapes as the provider serves them. Each Fetch method decodes one
// endpoint and maps it into the stable domain shape; nothing downstream of
// this file touches provider field names.

type rawGame struct {
	ID             int64  `json:"id"`
	StartDate      string `json:"start_date"`
	HomeTeam       string `json:"home_team"`
	HomeID         int64  `json:"home_id"`
	HomePoints     *int   `json:"home_points"`
	HomeLineScores []int  `json:"home_line_scores"`
	AwayTeam       string `json:"away_team"`
	AwayID         int64  `json:"away_id"`
	AwayPoints     *int   `json:"away_points"`
	AwayLineScores []int  `json:"away_line_scores"`
	Completed      bool   `json:"completed"`
}

type rawGameLines struct {
	ID    int64     `json:"id"`
	Lines []rawLine `json:"lines"`
}

type rawLine struct {
	Provider        string   `json:"provider"`
	FormattedSpread string   `json:"formattedSpread"`
	OverUnder       *float64 `json:"overUnder"`
}

type rawMedia struct {
	ID     int64  `json:"id"`
	Outlet string `json:"outlet"`
}

type rawRecord struct {
	Team            string     `json:"team"`
	TeamID          int64      `json:"teamId"`
	Total           rawWinLoss `json:"total"`
	ConferenceGames rawWinLoss `json:"conferenceGames"`
}

type rawWinLoss struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type rawCalendarWeek struct {
	Week           int    `json:"week"`
	SeasonType     string `json:"seasonType"`
	FirstGameStart string `json:"firstGameStart"`
	LastGameStart  string `json:"lastGameStart"`
}

type rawScoreboardGame struct {
	ID         int64             `json:"id"`
	Status     string            `json:"status"`
	Period     int               `json:"period"`
	Clock      string            `json:"clock"`
	Situation  string            `json:"situation"`
	Possession string            `json:"possession"`
	TV         string            `json:"tv"`
	Betting    rawScoreboardOdds `json:"betting"`
	HomeTeam   rawScoreboardTeam `json:"homeTeam"`
	AwayTeam   rawScoreboardTeam `json:"awayTeam"`
}

type rawScoreboardTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Points *int   `json:"points"`
}

type rawScoreboardOdds struct {
	Spread *float64 `json:"spread"`
}

// FetchCalendar lists the season's weeks.
func (c *Client) FetchCalendar(ctx context.Context, year string) ([]schedule.Week, error) {
	var raw []rawCalendarWeek
	query := map[string]string{"year": year}
	if err := c.doJSON(ctx, calendarPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch calendar year=%s: %w", year, err)
	}

	out := make([]schedule.Week, 0, len(raw))
	for _, item := range raw {
		first, firstOK := parseFeedTime(item.FirstGameStart)
		last, lastOK := parseFeedTime(item.LastGameStart)
		if !firstOK || !lastOK {
			c.logger.WarnContext(ctx, "skip calendar week with unparseable bounds",
				"week", item.Week,
				"first_game_start", item.FirstGameStart,
				"last_game_start", item.LastGameStart,
			)
			continue
		}
		out = append(out, schedule.Week{
			Number:         item.Week,
			SeasonType:     item.SeasonType,
			FirstGameStart: first,
			LastGameStart:  last,
		})
	}
	return out, nil
}

// FetchGames lists one week's games, re-keyed into the Game shape with start
// times rendered in US/Eastern. Completed and pending games both pass
// through; completion filtering belongs to the display boundary.
func (c *Client) FetchGames(ctx context.Context, year string, week int, division string) ([]game.Game, error) {
	var raw []rawGame
	query := map[string]string{
		"year":     year,
		"week":     strconv.Itoa(week),
		"division": division,
	}
	if err := c.doJSON(ctx, gamesPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch games year=%s week=%d: %w", year, week, err)
	}

	out := make([]game.Game, 0, len(raw))
	for _, item := range raw {
		startDate := item.StartDate
		dayOfWeek := ""
		if parsed, ok := parseFeedTime(item.StartDate); ok {
			local := parsed.In(easternTime())
			startDate = local.Format("Jan-02 03:04 PM")
			dayOfWeek = local.Format("Monday")
		}
		out = append(out, game.Game{
			ID:             item.ID,
			StartDate:      startDate,
			DayOfWeek:      dayOfWeek,
			HomeTeam:       item.HomeTeam,
			HomeID:         item.HomeID,
			HomePoints:     item.HomePoints,
			HomeLineScores: item.HomeLineScores,
			AwayTeam:       item.AwayTeam,
			AwayID:         item.AwayID,
			AwayPoints:     item.AwayPoints,
			AwayLineScores: item.AwayLineScores,
			Completed:      item.Completed,
		})
	}
	return out, nil
}

// FetchRecords lists season win/loss records, flattening the nested total
// and conference sub-objects. Absent counts decode as zero.
func (c *Client) FetchRecords(ctx context.Context, year string) ([]record.TeamRecord, error) {
	var raw []rawRecord
	query := map[string]string{"year": year}
	if err := c.doJSON(ctx, recordsPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch records year=%s: %w", year, err)
	}

	out := make([]record.TeamRecord, 0, len(raw))
	for _, item := range raw {
		out = append(out, record.TeamRecord{
			Team:             item.Team,
			TeamID:           item.TeamID,
			TotalWins:        item.Total.Wins,
			TotalLosses:      item.Total.Losses,
			ConferenceWins:   item.ConferenceGames.Wins,
			ConferenceLosses: item.ConferenceGames.Losses,
		})
	}
	return out, nil
}

// FetchLines flattens the per-game lines array, keeping only rows from the
// designated provider. A game with no row from that provider contributes no
// entry; the join engine fills the sentinel later.
func (c *Client) FetchLines(ctx context.Context, year string, week int, provider string) ([]betting.Line, error) {
	var raw []rawGameLines
	query := map[string]string{
		"year": year,
		"week": strconv.Itoa(week),
	}
	if err := c.doJSON(ctx, linesPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch lines year=%s week=%d: %w", year, week, err)
	}

	out := make([]betting.Line, 0, len(raw))
	for _, item := range raw {
		for _, line := range item.Lines {
			if line.Provider != provider {
				continue
			}
			out = append(out, betting.Line{
				GameID:    item.ID,
				Spread:    line.FormattedSpread,
				OverUnder: formatOdds(line.OverUnder),
			})
		}
	}
	return out, nil
}

// FetchMedia groups raw media rows by game id, joining outlet names with
// ", " in feed arrival order without deduplication.
func (c *Client) FetchMedia(ctx context.Context, year string, week int) ([]broadcast.Coverage, error) {
	var raw []rawMedia
	query := map[string]string{
		"year": year,
		"week": strconv.Itoa(week),
	}
	if err := c.doJSON(ctx, mediaPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch media year=%s week=%d: %w", year, week, err)
	}

	order := make([]int64, 0, len(raw))
	outlets := make(map[int64][]string, len(raw))
	for _, item := range raw {
		if _, seen := outlets[item.ID]; !seen {
			order = append(order, item.ID)
		}
		outlets[item.ID] = append(outlets[item.ID], item.Outlet)
	}

	out := make([]broadcast.Coverage, 0, len(order))
	for _, id := range order {
		out = append(out, broadcast.Coverage{
			GameID: id,
			Outlet: strings.Join(outlets[id], ", "),
		})
	}
	return out, nil
}

// FetchScoreboard captures the live state of every game in the given
// classification.
func (c *Client) FetchScoreboard(ctx context.Context, classification string) ([]scoreboard.LiveScore, error) {
	var raw []rawScoreboardGame
	query := map[string]string{"classification": classification}
	if err := c.doJSON(ctx, scoreboardPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch scoreboard classification=%s: %w", classification, err)
	}

	out := make([]scoreboard.LiveScore, 0, len(raw))
	for _, item := range raw {
		out = append(out, scoreboard.LiveScore{
			GameID:     item.ID,
			Status:     item.Status,
			Period:     item.Period,
			Clock:      item.Clock,
			Situation:  item.Situation,
			Possession: item.Possession,
			TV:         item.TV,
			HomeID:     item.HomeTeam.ID,
			HomeTeam:   item.HomeTeam.Name,
			HomeScore:  item.HomeTeam.Points,
			AwayID:     item.AwayTeam.ID,
			AwayTeam:   item.AwayTeam.Name,
			AwayScore:  item.AwayTeam.Points,
			Spread:     formatOdds(item.Betting.Spread),
		})
	}
	return out, nil
}

var feedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseFeedTime accepts the timestamp shapes the provider is known to emit:
// full ISO-8601 with or without zone and fractional seconds, or a bare date.
func parseFeedTime(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range feedTimeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func formatOdds(value *float64) string {
	if value == nil {
		return game.NotAvailable
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

var (
	easternOnce sync.Once
	easternLoc  *time.Location
)

func easternTime() *time.Location {
	easternOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.UTC
		}
		easternLoc = loc
	})
	return easternLoc
}
