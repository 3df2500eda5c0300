package scoreboard

import "testing"

func TestFormatClock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "00:07:45", want: "7:45"},
		{in: "00:00:07", want: "0:07"},
		{in: "01:14:09", want: "14:09"},
		{in: "7:45", want: "7:45"},
		{in: "07:5", want: "7:05"},
		{in: "", want: ""},
		{in: "halftime", want: "halftime"},
		{in: "ab:cd", want: "ab:cd"},
		{in: "00:ab:10", want: "00:ab:10"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			if got := FormatClock(tc.in); got != tc.want {
				t.Fatalf("FormatClock(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSnapshotsEqual(t *testing.T) {
	t.Parallel()

	score := func(home, away int) LiveScore {
		h, a := home, away
		return LiveScore{
			GameID:    1,
			Status:    DisplayInProgress,
			Period:    3,
			Clock:     "4:12",
			HomeTeam:  "Georgia",
			HomeScore: &h,
			AwayTeam:  "Clemson",
			AwayScore: &a,
		}
	}

	a := []LiveScore{score(14, 7)}
	b := []LiveScore{score(14, 7)}
	if !SnapshotsEqual(a, b) {
		t.Fatal("identical snapshots must compare equal")
	}

	b[0].AwayScore = intPtrTest(10)
	if SnapshotsEqual(a, b) {
		t.Fatal("score change must compare unequal")
	}

	if SnapshotsEqual(a, nil) {
		t.Fatal("length mismatch must compare unequal")
	}
	if !SnapshotsEqual(nil, nil) {
		t.Fatal("two empty snapshots must compare equal")
	}

	c := []LiveScore{score(14, 7)}
	c[0].HomeScore = nil
	if SnapshotsEqual(a, c) {
		t.Fatal("nil vs non-nil score must compare unequal")
	}
}

func intPtrTest(v int) *int { return &v }
