package displaypush

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cfbwatch/scoreboard/internal/domain/scoreboard"
	"github.com/cfbwatch/scoreboard/internal/platform/logging"
	"github.com/cfbwatch/scoreboard/internal/platform/resilience"
)

var errPushTransient = crerr.New("display push transient failure")

// PublisherConfig configures the outbound webhook that receives live-score
// snapshots.
type PublisherConfig struct {
	WebhookURL     string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Publisher POSTs changed live-score snapshots to a display webhook. Pushes
// are best effort: the poll loop keeps running whether or not the display
// endpoint is reachable, so failures only trip the breaker and get logged.
type Publisher struct {
	client         *fasthttp.Client
	webhookURL     string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		webhookURL:     strings.TrimSpace(cfg.WebhookURL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Enabled reports whether a webhook target is configured.
func (p *Publisher) Enabled() bool {
	return p.webhookURL != ""
}

type snapshotEnvelope struct {
	PushedAt time.Time  `json:"pushedAt"`
	Games    []wireGame `json:"games"`
}

type wireGame struct {
	GameID     int64  `json:"gameId"`
	Status     string `json:"status"`
	Period     int    `json:"period"`
	Clock      string `json:"clock"`
	Situation  string `json:"situation,omitempty"`
	Possession string `json:"possession,omitempty"`
	TV         string `json:"tv,omitempty"`
	HomeTeam   string `json:"homeTeam"`
	HomeScore  *int   `json:"homeScore"`
	AwayTeam   string `json:"awayTeam"`
	AwayScore  *int   `json:"awayScore"`
	Spread     string `json:"spread,omitempty"`
}

func toWire(scores []scoreboard.LiveScore) []wireGame {
	games := make([]wireGame, 0, len(scores))
	for _, s := range scores {
		games = append(games, wireGame{
			GameID:     s.GameID,
			Status:     s.Status,
			Period:     s.Period,
			Clock:      scoreboard.FormatClock(s.Clock),
			Situation:  s.Situation,
			Possession: s.Possession,
			TV:         s.TV,
			HomeTeam:   s.HomeTeam,
			HomeScore:  s.HomeScore,
			AwayTeam:   s.AwayTeam,
			AwayScore:  s.AwayScore,
			Spread:     s.Spread,
		})
	}
	return games
}

// PublishSnapshot sends the current in-progress snapshot to the webhook.
func (p *Publisher) PublishSnapshot(ctx context.Context, scores []scoreboard.LiveScore) error {
	if !p.Enabled() {
		return nil
	}
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "display push circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("display webhook is temporarily unavailable: %w", err)
		}
	}

	webhookURL, err := validateHTTPBaseURL(p.webhookURL)
	if err != nil {
		return crerr.Wrap(err, "invalid PUSH_WEBHOOK_URL")
	}

	body, err := sonic.Marshal(snapshotEnvelope{PushedAt: time.Now().UTC(), Games: toWire(scores)})
	if err != nil {
		return crerr.Wrap(err, "marshal snapshot payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("displaypush.webhook_url", webhookURL),
			attribute.Int("displaypush.game_count", len(scores)),
			attribute.String("displaypush.request_curl_preview", buildCurlPreview(webhookURL, p.token != "")),
		)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.SetBody(body)

	deadline := time.Now().Add(p.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		callErr := fmt.Errorf("%w: push snapshot webhook_url=%s: %v", errPushTransient, webhookURL, err)
		p.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		raw := strings.TrimSpace(string(resp.Body()))
		if len(raw) > 4096 {
			raw = raw[:4096] + "...(truncated)"
		}
		if isRetryableStatus(status) {
			callErr := fmt.Errorf("%w: push snapshot status=%d webhook_url=%s body=%s", errPushTransient, status, webhookURL, raw)
			p.recordCircuitResult(callErr)
			return callErr
		}
		callErr := fmt.Errorf("push snapshot status=%d webhook_url=%s body=%s", status, webhookURL, raw)
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "live snapshot pushed", "webhook_url", webhookURL, "games", len(scores))
	p.recordCircuitResult(nil)
	return nil
}

func (p *Publisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errPushTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(webhookURL string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(webhookURL))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote("@snapshot.json"))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
