package broadcast

// Coverage lists every outlet airing a game, comma-joined in feed arrival
// order. Outlets are not deduplicated.
type Coverage struct {
	GameID int64
	Outlet string
}
