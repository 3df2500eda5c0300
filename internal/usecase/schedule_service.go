package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cfbwatch/scoreboard/internal/domain/schedule"
)

// ScheduleService exposes the season calendar as selectable week options.
type ScheduleService struct {
	feeds *FeedService
	now   func() time.Time
}

func NewScheduleService(feeds *FeedService, now func() time.Time) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{feeds: feeds, now: now}
}

// WeekOptions returns one labeled option per calendar week, plus the week
// that should be preselected for today's date.
func (s *ScheduleService) WeekOptions(ctx context.Context) ([]schedule.Option, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.WeekOptions")
	defer span.End()

	weeks := s.feeds.Weeks(ctx)
	if len(weeks) == 0 {
		return nil, 0, fmt.Errorf("%w: season calendar is empty", ErrDependencyUnavailable)
	}

	options := make([]schedule.Option, 0, len(weeks))
	for _, week := range weeks {
		options = append(options, schedule.Option{
			Label: fmt.Sprintf("Week %d (%s - %s)", week.Number, week.FirstGameStart.Format("Jan-02"), week.LastGameStart.Format("Jan-02")),
			Value: week.Number,
		})
	}
	return options, schedule.DefaultWeek(weeks, s.now()), nil
}
