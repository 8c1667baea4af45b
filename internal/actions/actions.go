// Package actions is the server action layer between the UI and the
// recommendation service. Every action returns a result value carrying either
// data or a localized, user-facing error message; it never returns a Go error.
package actions

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/game"
	"github.com/karolswdev/gamescout/internal/metrics"
)

// Action names, used as log fields and metric labels.
const (
	ActionRecommend   = "getGameRecommendations"
	ActionFindSimilar = "findSimilarGames"
	ActionReviewTrend = "summarizeReviewTrend"
)

// Recommender is implemented by recommend.Service.
type Recommender interface {
	Recommend(ctx context.Context, query string) ([]game.Game, error)
	FindSimilar(ctx context.Context, g game.Game, refinement, originalQuery string) ([]game.Game, error)
	SummarizeReviewTrend(ctx context.Context, trend string) (string, error)
}

// Result is the outcome of a recommendation action: either Recommendations
// or Error is meaningful, never both.
type Result struct {
	Recommendations []game.Game
	Error           string
}

// Failed reports whether the action produced an error message.
func (r Result) Failed() bool {
	return r.Error != ""
}

// MarshalJSON encodes {"error": ...} or {"recommendations": [...]}. An empty
// success is encoded as an empty list.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	recs := r.Recommendations
	if recs == nil {
		recs = []game.Game{}
	}
	return json.Marshal(struct {
		Recommendations []game.Game `json:"recommendations"`
	}{recs})
}

// FindSimilarRequest carries the full reference game, the refinement and
// optionally the top-level query of the drill-down.
type FindSimilarRequest struct {
	Game          game.Game `json:"game"`
	Query         string    `json:"query"`
	OriginalQuery string    `json:"originalQuery,omitempty"`
}

// SummaryResult is the outcome of a review-trend summary action.
type SummaryResult struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Actions binds a Recommender to a message catalog.
type Actions struct {
	svc  Recommender
	msgs Messages
}

// New returns Actions answering in lang.
func New(svc Recommender, lang string) *Actions {
	return &Actions{svc: svc, msgs: MessagesFor(lang)}
}

// Messages returns the catalog in use.
func (a *Actions) Messages() Messages {
	return a.msgs
}

// GetGameRecommendations validates query and asks for top-level recommendations.
func (a *Actions) GetGameRecommendations(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		metrics.CountAction(ActionRecommend, metrics.OutcomeInvalid)
		return Result{Error: a.msgs.EmptyQuery}
	}

	games, err := a.svc.Recommend(ctx, query)
	if err != nil {
		return a.failed(ActionRecommend, err)
	}
	metrics.CountAction(ActionRecommend, metrics.OutcomeOK)
	return Result{Recommendations: games}
}

// FindSimilarGames validates req and asks for games similar to req.Game.
func (a *Actions) FindSimilarGames(ctx context.Context, req FindSimilarRequest) Result {
	if strings.TrimSpace(req.Query) == "" {
		metrics.CountAction(ActionFindSimilar, metrics.OutcomeInvalid)
		return Result{Error: a.msgs.EmptyRefinement}
	}
	if err := req.Game.Validate(); err != nil {
		log.Warn().Err(err).Str("action", ActionFindSimilar).Msg("Rejected invalid reference game")
		metrics.CountAction(ActionFindSimilar, metrics.OutcomeInvalid)
		return Result{Error: a.msgs.InvalidGame}
	}

	games, err := a.svc.FindSimilar(ctx, req.Game, req.Query, req.OriginalQuery)
	if err != nil {
		return a.failed(ActionFindSimilar, err)
	}
	metrics.CountAction(ActionFindSimilar, metrics.OutcomeOK)
	return Result{Recommendations: games}
}

// SummarizeReviewTrend asks for a short summary of a review trend.
func (a *Actions) SummarizeReviewTrend(ctx context.Context, trend string) SummaryResult {
	if strings.TrimSpace(trend) == "" {
		metrics.CountAction(ActionReviewTrend, metrics.OutcomeInvalid)
		return SummaryResult{Error: a.msgs.EmptyTrend}
	}

	summary, err := a.svc.SummarizeReviewTrend(ctx, trend)
	if err != nil {
		log.Error().Err(err).Str("action", ActionReviewTrend).Msg("Server action failed")
		metrics.CountAction(ActionReviewTrend, metrics.OutcomeError)
		return SummaryResult{Error: a.msgs.SummaryFailed}
	}
	metrics.CountAction(ActionReviewTrend, metrics.OutcomeOK)
	return SummaryResult{Summary: summary}
}

func (a *Actions) failed(action string, err error) Result {
	log.Error().Err(err).Str("action", action).Msg("Server action failed")
	metrics.CountAction(action, metrics.OutcomeError)
	if action == ActionFindSimilar {
		return Result{Error: a.msgs.RefineFailed}
	}
	return Result{Error: a.msgs.Unavailable}
}
