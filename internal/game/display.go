package game

import "strings"

// TrendVariant classifies a review-trend label for badge styling.
type TrendVariant string

const (
	TrendPositive TrendVariant = "positive"
	TrendMixed    TrendVariant = "mixed"
	TrendNegative TrendVariant = "negative"
	TrendUnknown  TrendVariant = "unknown"
)

// Labels come back in Japanese or English depending on the prompt, so both are matched.
var (
	negativeTrendWords = []string{"negative", "不評"}
	mixedTrendWords    = []string{"mixed", "賛否両論"}
	positiveTrendWords = []string{"positive", "好評"}
)

// Variant maps the game's recentReviewTrend to a badge variant.
func (g Game) Variant() TrendVariant {
	t := strings.ToLower(g.RecentReviewTrend)
	switch {
	case t == "":
		return TrendUnknown
	case containsAny(t, positiveTrendWords):
		return TrendPositive
	case containsAny(t, mixedTrendWords):
		return TrendMixed
	case containsAny(t, negativeTrendWords):
		return TrendNegative
	default:
		return TrendUnknown
	}
}

// GenreKind buckets a free-text genre into an icon family.
func (g Game) GenreKind() string {
	genre := strings.ToLower(g.Genre)
	switch {
	case strings.Contains(genre, "rpg"):
		return "rpg"
	case containsAny(genre, []string{"アクション", "action"}):
		return "action"
	case containsAny(genre, []string{"ストラテジー", "strategy"}):
		return "strategy"
	case containsAny(genre, []string{"シミュレーション", "simulation"}):
		return "simulation"
	case containsAny(genre, []string{"アドベンチャー", "adventure"}):
		return "adventure"
	case containsAny(genre, []string{"パズル", "puzzle"}):
		return "puzzle"
	default:
		return "other"
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
