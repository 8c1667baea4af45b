// Package recommend is the recommendation service: it validates inputs, calls
// the LLM gateway once per request and collapses every gateway failure into
// ErrUnavailable.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/game"
	"github.com/karolswdev/gamescout/internal/llm"
	"github.com/karolswdev/gamescout/internal/metrics"
)

// ErrUnavailable is returned for any gateway failure: network, timeout,
// malformed reply or schema violation. The cause stays wrapped for logging.
var ErrUnavailable = errors.New("recommendation unavailable")

// ErrInvalidInput is returned when a precondition fails; no call is made.
var ErrInvalidInput = errors.New("invalid recommendation input")

// Service performs recommendation requests against an llm.Client.
type Service struct {
	client  llm.Client
	timeout time.Duration
}

// New returns a Service. A zero timeout leaves calls bounded only by ctx.
func New(client llm.Client, timeout time.Duration) *Service {
	return &Service{client: client, timeout: timeout}
}

// Recommend returns games for a free-form query. Three games are asked for,
// but the count is not enforced.
func (s *Service) Recommend(ctx context.Context, query string) ([]game.Game, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	resp, err := s.client.GenerateRecommendations(ctx, llm.RecommendInput{Query: query})
	if err != nil {
		return nil, s.fail(metrics.OpRecommend, started, err)
	}
	s.succeed(metrics.OpRecommend, started, len(resp.Recommendations))
	return resp.Recommendations, nil
}

// FindSimilar returns games similar to g that also satisfy refinement.
// originalQuery is the top-level query the drill-down started from; it may be
// empty.
func (s *Service) FindSimilar(ctx context.Context, g game.Game, refinement, originalQuery string) ([]game.Game, error) {
	if strings.TrimSpace(refinement) == "" {
		return nil, fmt.Errorf("%w: refinement query is empty", ErrInvalidInput)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: reference game: %w", ErrInvalidInput, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	resp, err := s.client.FindSimilarGames(ctx, llm.SimilarInput{
		Game:          g,
		Query:         refinement,
		OriginalQuery: originalQuery,
	})
	if err != nil {
		return nil, s.fail(metrics.OpFindSimilar, started, err)
	}
	s.succeed(metrics.OpFindSimilar, started, len(resp.Recommendations))
	return resp.Recommendations, nil
}

// SummarizeReviewTrend condenses a game's recent review trend into a short
// summary.
func (s *Service) SummarizeReviewTrend(ctx context.Context, trend string) (string, error) {
	if strings.TrimSpace(trend) == "" {
		return "", fmt.Errorf("%w: review trend is empty", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	resp, err := s.client.SummarizeReviewTrend(ctx, llm.ReviewTrendInput{RecentReviewTrend: trend})
	if err != nil {
		return "", s.fail(metrics.OpReviewTrend, started, err)
	}
	s.succeed(metrics.OpReviewTrend, started, 1)
	return resp.Summary, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) fail(operation string, started time.Time, err error) error {
	outcome := metrics.OutcomeError
	if errors.Is(err, context.DeadlineExceeded) {
		outcome = metrics.OutcomeTimeout
	}
	metrics.ObserveGateway(operation, outcome, started)
	log.Error().Err(err).Str("operation", operation).Str("outcome", outcome).Dur("elapsed", time.Since(started)).Msg("Recommendation gateway call failed")
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (s *Service) succeed(operation string, started time.Time, count int) {
	metrics.ObserveGateway(operation, metrics.OutcomeOK, started)
	log.Info().Str("operation", operation).Int("count", count).Dur("elapsed", time.Since(started)).Msg("Recommendation gateway call succeeded")
}
