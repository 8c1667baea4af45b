package llm

import "github.com/karolswdev/gamescout/internal/game"

// RecommendInput is the input to the top-level recommendation flow.
type RecommendInput struct {
	Query string `json:"query"`
}

// SimilarInput is the input to the find-similar flow. OriginalQuery is the
// top-level query the drill-down started from and may be empty.
type SimilarInput struct {
	Game          game.Game `json:"game"`
	Query         string    `json:"query"`
	OriginalQuery string    `json:"originalQuery,omitempty"`
}

// ReviewTrendInput is the input to the review-trend summary flow.
type ReviewTrendInput struct {
	RecentReviewTrend string `json:"recentReviewTrend"`
}

// RecommendationResponse is the envelope both recommendation flows return.
type RecommendationResponse struct {
	Recommendations []game.Game `json:"recommendations"`
}

// ReviewTrendSummary is the output of the review-trend summary flow.
type ReviewTrendSummary struct {
	Summary string `json:"summary"`
}
