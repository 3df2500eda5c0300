package game

// Game is one scheduled or finished matchup, re-keyed from the raw games
// feed. Start times are already rendered for display in US/Eastern.
type Game struct {
	ID             int64
	StartDate      string
	DayOfWeek      string
	HomeTeam       string
	HomeID         int64
	HomePoints     *int
	HomeLineScores []int
	AwayTeam       string
	AwayID         int64
	AwayPoints     *int
	AwayLineScores []int
	Completed      bool
}

// Card is the denormalized per-game record the display layer consumes.
// Every field is always populated: join misses carry the "N/A" sentinel
// (or white for colors) so consumers never branch on missing data.
type Card struct {
	Game

	Spread    string
	OverUnder string
	Outlet    string

	HomeLogo     string
	HomeColor    string
	HomeAltColor string
	AwayLogo     string
	AwayColor    string
	AwayAltColor string

	HomeTotalWins        string
	HomeTotalLosses      string
	HomeConferenceWins   string
	HomeConferenceLosses string
	AwayTotalWins        string
	AwayTotalLosses      string
	AwayConferenceWins   string
	AwayConferenceLosses string
}

// NotAvailable is the sentinel rendered for any unresolved join.
const NotAvailable = "N/A"
