package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cfbwatch/scoreboard/internal/domain/schedule"
)

func TestScheduleService_WeekOptions(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{
		weeks: []schedule.Week{
			{
				Number:         1,
				SeasonType:     "regular",
				FirstGameStart: time.Date(2024, 8, 24, 12, 0, 0, 0, time.UTC),
				LastGameStart:  time.Date(2024, 8, 31, 23, 0, 0, 0, time.UTC),
			},
			{
				Number:         2,
				SeasonType:     "regular",
				FirstGameStart: time.Date(2024, 9, 5, 12, 0, 0, 0, time.UTC),
				LastGameStart:  time.Date(2024, 9, 7, 23, 0, 0, 0, time.UTC),
			},
		},
	}

	now := func() time.Time { return time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC) }
	service := NewScheduleService(newTestFeedService(fetcher, nil), now)

	options, defaultWeek, err := service.WeekOptions(context.Background())
	if err != nil {
		t.Fatalf("WeekOptions error: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("unexpected option count: got=%d want=2", len(options))
	}
	if options[0].Label != "Week 1 (Aug-24 - Aug-31)" {
		t.Fatalf("unexpected label: got=%q", options[0].Label)
	}
	if options[0].Value != 1 || options[1].Value != 2 {
		t.Fatalf("unexpected values: %d, %d", options[0].Value, options[1].Value)
	}
	if defaultWeek != 2 {
		t.Fatalf("default must be the first week still in play: got=%d want=2", defaultWeek)
	}
}

func TestScheduleService_WeekOptions_SeasonOver(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{
		weeks: []schedule.Week{
			{
				Number:         1,
				SeasonType:     "regular",
				FirstGameStart: time.Date(2024, 8, 24, 12, 0, 0, 0, time.UTC),
				LastGameStart:  time.Date(2024, 8, 31, 23, 0, 0, 0, time.UTC),
			},
		},
	}

	now := func() time.Time { return time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC) }
	service := NewScheduleService(newTestFeedService(fetcher, nil), now)

	_, defaultWeek, err := service.WeekOptions(context.Background())
	if err != nil {
		t.Fatalf("WeekOptions error: %v", err)
	}
	if defaultWeek != 1 {
		t.Fatalf("past season must default to the first week: got=%d", defaultWeek)
	}
}

func TestScheduleService_WeekOptions_EmptyCalendar(t *testing.T) {
	t.Parallel()

	fetcher := &stubFeedFetcher{weeksErr: errors.New("upstream 503")}
	service := NewScheduleService(newTestFeedService(fetcher, nil), nil)

	if _, _, err := service.WeekOptions(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
