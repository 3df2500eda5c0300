package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/cfbwatch/scoreboard/external/cfbd"
	"github.com/cfbwatch/scoreboard/external/displaypush"
	"github.com/cfbwatch/scoreboard/internal/config"
	"github.com/cfbwatch/scoreboard/internal/infrastructure/staticdata"
	"github.com/cfbwatch/scoreboard/internal/interfaces/httpapi"
	"github.com/cfbwatch/scoreboard/internal/platform/cache"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
	"github.com/cfbwatch/scoreboard/internal/platform/resilience"
	"github.com/cfbwatch/scoreboard/internal/usecase"
)

// App holds the wired service graph: the HTTP API plus the background poll
// loop that keeps the live scoreboard fresh.
type App struct {
	cfg        config.Config
	logger     *logging.Logger
	HTTPServer *http.Server

	feeds     *usecase.FeedService
	schedule  *usecase.ScheduleService
	poll      *usecase.PollService
	publisher *displaypush.Publisher
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	loader := staticdata.NewLoader(cfg.TeamInfoPath, cfg.OffenseStatsPath, cfg.DefenseStatsPath, cfg.LogoDenylist)
	// The team reference dataset is the one input we cannot render without;
	// fail fast instead of serving a board of white placeholders.
	if _, err := loader.TeamInfo(); err != nil {
		return nil, fmt.Errorf("load team reference dataset: %w", err)
	}

	client := cfbd.NewClient(cfbd.ClientConfig{
		BaseURL:    cfg.CFBDBaseURL,
		Token:      cfg.CFBDToken,
		Timeout:    cfg.CFBDTimeout,
		MaxRetries: cfg.CFBDMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CFBDCircuitEnabled,
			FailureThreshold: cfg.CFBDCircuitFailureCount,
			OpenTimeout:      cfg.CFBDCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CFBDCircuitHalfOpenMaxReq,
		},
	})

	feeds := usecase.NewFeedService(client, loader, cache.NewStore(), usecase.FeedServiceConfig{
		Year:            cfg.SeasonYear,
		Division:        cfg.Division,
		Classification:  cfg.Classification,
		BettingProvider: cfg.BettingProvider,
		FeedTTL:         cfg.FeedCacheTTL,
		LinesTTL:        cfg.LinesCacheTTL,
		TeamInfoTTL:     cfg.TeamInfoTTL,
	}, logger)

	display := usecase.NewDisplayService(feeds, cfg.FeedWorkers, logger)
	schedule := usecase.NewScheduleService(feeds, nil)
	poll := usecase.NewPollService(feeds, logger)
	matchup := usecase.NewMatchupService(display, loader, cfg.ColorDistanceThreshold, logger)

	var publisher *displaypush.Publisher
	if cfg.PushEnabled {
		publisher = displaypush.NewPublisher(displaypush.PublisherConfig{
			WebhookURL: cfg.PushWebhookURL,
			Token:      cfg.PushToken,
			Timeout:    cfg.PushTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.PushCircuitEnabled,
				FailureThreshold: cfg.PushCircuitFailureCount,
				OpenTimeout:      cfg.PushCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.PushCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	handler := httpapi.NewHandler(schedule, display, poll, matchup, feeds, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		HTTPServer: server,
		feeds:      feeds,
		schedule:   schedule,
		poll:       poll,
		publisher:  publisher,
	}, nil
}

// RunPollLoop drives the scoreboard refresh until ctx is canceled. The loop
// arms itself once the season calendar is reachable, then ticks on the
// configured interval, pushing changed snapshots to the display webhook when
// one is configured.
func (a *App) RunPollLoop(ctx context.Context) {
	a.armPoll(ctx)

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("poll loop stopped")
			return
		case <-ticker.C:
		}

		update, err := a.poll.Tick(ctx)
		if err != nil {
			// Tick already logged the failure and kept its state.
			continue
		}
		if update.Changed && a.publisher != nil && a.publisher.Enabled() {
			var pushers conc.WaitGroup
			pushers.Go(func() {
				if err := a.publisher.PublishSnapshot(ctx, update.InProgress); err != nil {
					a.logger.WarnContext(ctx, "snapshot push failed", "error", err)
				}
			})
			pushers.Wait()
		}
	}
}

// armPoll retries the initial calendar fetch until it succeeds, so a slow
// provider at boot delays polling instead of killing it.
func (a *App) armPoll(ctx context.Context) {
	for {
		_, defaultWeek, err := a.schedule.WeekOptions(ctx)
		if err == nil {
			a.logger.InfoContext(ctx, "poll loop armed", "default_week", defaultWeek)
			a.poll.MarkReady()
			return
		}
		a.logger.WarnContext(ctx, "season calendar unavailable, retrying", "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(a.cfg.PollInterval):
		}
	}
}
