package scoreboard

import (
	"strconv"
	"strings"
)

const (
	// StatusInProgress is the raw feed value for a live game.
	StatusInProgress = "in_progress"
	StatusScheduled  = "scheduled"
	StatusCompleted  = "completed"

	// DisplayInProgress is what live games are relabeled to before they
	// reach the display layer.
	DisplayInProgress = "In Progress"
)

// LiveScore is one game's live state captured at a poll tick.
type LiveScore struct {
	GameID     int64
	Status     string
	Period     int
	Clock      string
	Situation  string
	Possession string
	TV         string
	HomeID     int64
	HomeTeam   string
	HomeScore  *int
	AwayID     int64
	AwayTeam   string
	AwayScore  *int
	Spread     string
}

// Equal compares two snapshots by value, dereferencing score pointers.
func (s LiveScore) Equal(other LiveScore) bool {
	return s.GameID == other.GameID &&
		s.Status == other.Status &&
		s.Period == other.Period &&
		s.Clock == other.Clock &&
		s.Situation == other.Situation &&
		s.Possession == other.Possession &&
		s.TV == other.TV &&
		s.HomeID == other.HomeID &&
		s.HomeTeam == other.HomeTeam &&
		intPtrEqual(s.HomeScore, other.HomeScore) &&
		s.AwayID == other.AwayID &&
		s.AwayTeam == other.AwayTeam &&
		intPtrEqual(s.AwayScore, other.AwayScore) &&
		s.Spread == other.Spread
}

// SnapshotsEqual reports whether two snapshot lists are equal by value,
// order included.
func SnapshotsEqual(a, b []LiveScore) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FormatClock rewrites an "HH:MM:SS" game clock as "M:SS". Inputs already in
// minute:second form pass through re-padded; anything unparseable is returned
// unchanged so a bad clock string degrades the display instead of the poll
// loop.
func FormatClock(clock string) string {
	parts := strings.Split(clock, ":")

	var minutePart, secondPart string
	switch len(parts) {
	case 3:
		minutePart, secondPart = parts[1], parts[2]
	case 2:
		minutePart, secondPart = parts[0], parts[1]
	default:
		return clock
	}

	minutes, err := strconv.Atoi(minutePart)
	if err != nil {
		return clock
	}
	seconds, err := strconv.Atoi(secondPart)
	if err != nil {
		return clock
	}

	return strconv.Itoa(minutes) + ":" + pad2(seconds)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
