package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cfbwatch/scoreboard/internal/domain/game"
	"github.com/cfbwatch/scoreboard/internal/domain/scoreboard"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
	"github.com/cfbwatch/scoreboard/internal/usecase"
)

type Handler struct {
	scheduleService *usecase.ScheduleService
	displayService  *usecase.DisplayService
	pollService     *usecase.PollService
	matchupService  *usecase.MatchupService
	feedService     *usecase.FeedService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	scheduleService *usecase.ScheduleService,
	displayService *usecase.DisplayService,
	pollService *usecase.PollService,
	matchupService *usecase.MatchupService,
	feedService *usecase.FeedService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduleService: scheduleService,
		displayService:  displayService,
		pollService:     pollService,
		matchupService:  matchupService,
		feedService:     feedService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type weekOptionDTO struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type weekListDTO struct {
	Weeks       []weekOptionDTO `json:"weeks"`
	DefaultWeek int             `json:"defaultWeek"`
}

func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeeks")
	defer span.End()

	options, defaultWeek, err := h.scheduleService.WeekOptions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list weeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := weekListDTO{Weeks: make([]weekOptionDTO, 0, len(options)), DefaultWeek: defaultWeek}
	for _, option := range options {
		out.Weeks = append(out.Weeks, weekOptionDTO{Label: option.Label, Value: option.Value})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type weekQuery struct {
	Week int `validate:"required,min=1,max=30"`
}

type gameCardDTO struct {
	ID                   int64  `json:"id"`
	StartDate            string `json:"startDate"`
	DayOfWeek            string `json:"dayOfWeek"`
	Completed            bool   `json:"completed"`
	Spread               string `json:"spread"`
	OverUnder            string `json:"overUnder"`
	Outlet               string `json:"outlet"`
	HomeTeam             string `json:"homeTeam"`
	HomePoints           *int   `json:"homePoints"`
	HomeLogo             string `json:"homeLogo"`
	HomeColor            string `json:"homeColor"`
	HomeAltColor         string `json:"homeAltColor"`
	HomeTotalWins        string `json:"homeTotalWins"`
	HomeTotalLosses      string `json:"homeTotalLosses"`
	HomeConferenceWins   string `json:"homeConferenceWins"`
	HomeConferenceLosses string `json:"homeConferenceLosses"`
	AwayTeam             string `json:"awayTeam"`
	AwayPoints           *int   `json:"awayPoints"`
	AwayLogo             string `json:"awayLogo"`
	AwayColor            string `json:"awayColor"`
	AwayAltColor         string `json:"awayAltColor"`
	AwayTotalWins        string `json:"awayTotalWins"`
	AwayTotalLosses      string `json:"awayTotalLosses"`
	AwayConferenceWins   string `json:"awayConferenceWins"`
	AwayConferenceLosses string `json:"awayConferenceLosses"`
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	week, err := h.weekParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	cards, err := h.displayService.BuildWeek(ctx, week)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gameCardDTO, 0, len(cards))
	for _, card := range cards {
		out = append(out, toGameCardDTO(card))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type liveScoreDTO struct {
	GameID     int64  `json:"gameId"`
	Status     string `json:"status"`
	Period     int    `json:"period"`
	Clock      string `json:"clock"`
	Situation  string `json:"situation,omitempty"`
	Possession string `json:"possession,omitempty"`
	TV         string `json:"tv,omitempty"`
	HomeTeam   string `json:"homeTeam"`
	HomeScore  *int   `json:"homeScore"`
	AwayTeam   string `json:"awayTeam"`
	AwayScore  *int   `json:"awayScore"`
	Spread     string `json:"spread,omitempty"`
}

type scoreboardDTO struct {
	State string         `json:"state"`
	Games []liveScoreDTO `json:"games"`
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	snapshot := h.pollService.LastSnapshot()
	out := scoreboardDTO{
		State: string(h.pollService.State()),
		Games: make([]liveScoreDTO, 0, len(snapshot)),
	}
	for _, score := range snapshot {
		out.Games = append(out.Games, toLiveScoreDTO(score))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type statRowDTO struct {
	Label     string  `json:"label"`
	HomeValue float64 `json:"homeValue"`
	AwayValue float64 `json:"awayValue"`
	HomeRank  int     `json:"homeRank"`
	AwayRank  int     `json:"awayRank"`
	HomeShare float64 `json:"homeShare"`
	AwayShare float64 `json:"awayShare"`
}

type matchupDTO struct {
	GameID    int64        `json:"gameId"`
	HomeTeam  string       `json:"homeTeam"`
	AwayTeam  string       `json:"awayTeam"`
	HomeColor string       `json:"homeColor"`
	AwayColor string       `json:"awayColor"`
	Offense   []statRowDTO `json:"offense"`
	Defense   []statRowDTO `json:"defense"`
}

func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchup")
	defer span.End()

	week, err := h.weekParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := gameIDParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchupService.Matchup(ctx, week, gameID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get matchup failed", "week", week, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := matchupDTO{
		GameID:    view.GameID,
		HomeTeam:  view.HomeTeam,
		AwayTeam:  view.AwayTeam,
		HomeColor: view.HomeColor,
		AwayColor: view.AwayColor,
		Offense:   toStatRowDTOs(view.Offense),
		Defense:   toStatRowDTOs(view.Defense),
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type quarterScoreDTO struct {
	Period    int `json:"period"`
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

type resultDTO struct {
	GameID     int64             `json:"gameId"`
	HomeTeam   string            `json:"homeTeam"`
	AwayTeam   string            `json:"awayTeam"`
	HomeColor  string            `json:"homeColor"`
	AwayColor  string            `json:"awayColor"`
	HomePoints int               `json:"homePoints"`
	AwayPoints int               `json:"awayPoints"`
	HomeShare  float64           `json:"homeShare"`
	AwayShare  float64           `json:"awayShare"`
	Quarters   []quarterScoreDTO `json:"quarters"`
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResult")
	defer span.End()

	week, err := h.weekParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := gameIDParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchupService.Result(ctx, week, gameID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get result failed", "week", week, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := resultDTO{
		GameID:     view.GameID,
		HomeTeam:   view.HomeTeam,
		AwayTeam:   view.AwayTeam,
		HomeColor:  view.HomeColor,
		AwayColor:  view.AwayColor,
		HomePoints: view.HomePoints,
		AwayPoints: view.AwayPoints,
		HomeShare:  view.HomeShare,
		AwayShare:  view.AwayShare,
		Quarters:   make([]quarterScoreDTO, 0, len(view.Quarters)),
	}
	for _, quarter := range view.Quarters {
		out.Quarters = append(out.Quarters, quarterScoreDTO{
			Period:    quarter.Period,
			HomeScore: quarter.HomeScore,
			AwayScore: quarter.AwayScore,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ResetPoll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetPoll")
	defer span.End()

	// Optional week param also drops that week's cached feeds so the
	// next render refetches alongside the rearmed poll loop.
	if raw := strings.TrimSpace(r.URL.Query().Get("week")); raw != "" {
		week, err := h.weekParam(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		h.feedService.InvalidateWeek(ctx, week)
	}

	h.pollService.Reset()
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"state": string(h.pollService.State())})
}

func (h *Handler) weekParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return 0, fmt.Errorf("%w: week query parameter is required", usecase.ErrInvalidInput)
	}
	week, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: week must be a number", usecase.ErrInvalidInput)
	}
	if err := h.validator.StructCtx(r.Context(), weekQuery{Week: week}); err != nil {
		return 0, fmt.Errorf("%w: week out of range", usecase.ErrInvalidInput)
	}
	return week, nil
}

func gameIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("gameID"))
	gameID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || gameID <= 0 {
		return 0, fmt.Errorf("%w: invalid game id %q", usecase.ErrInvalidInput, raw)
	}
	return gameID, nil
}

func toGameCardDTO(card game.Card) gameCardDTO {
	return gameCardDTO{
		ID:                   card.ID,
		StartDate:            card.StartDate,
		DayOfWeek:            card.DayOfWeek,
		Completed:            card.Completed,
		Spread:               card.Spread,
		OverUnder:            card.OverUnder,
		Outlet:               card.Outlet,
		HomeTeam:             card.HomeTeam,
		HomePoints:           card.HomePoints,
		HomeLogo:             card.HomeLogo,
		HomeColor:            card.HomeColor,
		HomeAltColor:         card.HomeAltColor,
		HomeTotalWins:        card.HomeTotalWins,
		HomeTotalLosses:      card.HomeTotalLosses,
		HomeConferenceWins:   card.HomeConferenceWins,
		HomeConferenceLosses: card.HomeConferenceLosses,
		AwayTeam:             card.AwayTeam,
		AwayPoints:           card.AwayPoints,
		AwayLogo:             card.AwayLogo,
		AwayColor:            card.AwayColor,
		AwayAltColor:         card.AwayAltColor,
		AwayTotalWins:        card.AwayTotalWins,
		AwayTotalLosses:      card.AwayTotalLosses,
		AwayConferenceWins:   card.AwayConferenceWins,
		AwayConferenceLosses: card.AwayConferenceLosses,
	}
}

func toLiveScoreDTO(score scoreboard.LiveScore) liveScoreDTO {
	return liveScoreDTO{
		GameID:     score.GameID,
		Status:     score.Status,
		Period:     score.Period,
		Clock:      scoreboard.FormatClock(score.Clock),
		Situation:  score.Situation,
		Possession: score.Possession,
		TV:         score.TV,
		HomeTeam:   score.HomeTeam,
		HomeScore:  score.HomeScore,
		AwayTeam:   score.AwayTeam,
		AwayScore:  score.AwayScore,
		Spread:     score.Spread,
	}
}

func toStatRowDTOs(rows []usecase.StatRow) []statRowDTO {
	out := make([]statRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, statRowDTO{
			Label:     row.Label,
			HomeValue: row.HomeValue,
			AwayValue: row.AwayValue,
			HomeRank:  row.HomeRank,
			AwayRank:  row.AwayRank,
			HomeShare: row.HomeShare,
			AwayShare: row.AwayShare,
		})
	}
	return out
}
