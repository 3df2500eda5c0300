package betting

// Line is the single accepted betting line for a game. The raw feed carries
// one row per provider; only the designated provider survives normalization,
// so at most one Line exists per game id.
type Line struct {
	GameID    int64
	Spread    string
	OverUnder string
}
