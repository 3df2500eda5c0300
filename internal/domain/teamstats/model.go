package teamstats

// Kind distinguishes offensive stat lines (higher is better) from defensive
// ones (lower is better). Comparison math inverts for defense.
type Kind string

const (
	KindOffense Kind = "offense"
	KindDefense Kind = "defense"
)

// StatLine is one team's per-game season statistics from the static offense
// or defense dataset, keyed by team id. A team absent from the dataset gets
// the zero StatLine.
type StatLine struct {
	TeamID      int64
	TotalRank   int
	TotalYPG    float64
	RushRank    int
	RushYPG     float64
	PassRank    int
	PassYPG     float64
	ScoringRank int
	ScoringAvg  float64
}
