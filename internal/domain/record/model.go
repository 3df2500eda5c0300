package record

// TeamRecord is a team's season win/loss tallies, flattened from the nested
// total and conference sub-objects of the records feed. Missing counts
// default to zero at normalization time.
type TeamRecord struct {
	Team             string
	TeamID           int64
	TotalWins        int
	TotalLosses      int
	ConferenceWins   int
	ConferenceLosses int
}
