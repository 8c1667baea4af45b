package actions

import "strings"

// Messages holds the user-facing texts for one language.
type Messages struct {
	EmptyQuery      string
	EmptyRefinement string
	InvalidGame     string
	EmptyTrend      string
	Unavailable     string
	RefineFailed    string
	SummaryFailed   string
}

// DefaultLanguage is used when a requested language has no catalog.
const DefaultLanguage = "ja"

var catalogs = map[string]Messages{
	"ja": {
		EmptyQuery:      "質問を入力してください。",
		EmptyRefinement: "絞り込む条件を入力してください。",
		InvalidGame:     "選択されたゲームの情報が不正です。",
		EmptyTrend:      "レビュー傾向を入力してください。",
		Unavailable:     "AIからの応答の取得中にエラーが発生しました。しばらくしてからもう一度お試しください。",
		RefineFailed:    "類似ゲームの検索中にエラーが発生しました。",
		SummaryFailed:   "レビュー傾向の要約中にエラーが発生しました。",
	},
	"en": {
		EmptyQuery:      "Please enter a question.",
		EmptyRefinement: "Please enter a refinement.",
		InvalidGame:     "The selected game's details are invalid.",
		EmptyTrend:      "Please enter a review trend.",
		Unavailable:     "Something went wrong while getting a response from the AI. Please try again later.",
		RefineFailed:    "Something went wrong while searching for similar games.",
		SummaryFailed:   "Something went wrong while summarizing the review trend.",
	},
}

// NormalizeLanguage maps a language tag ("ja", "en", "en-US", "EN_gb", ...)
// to the catalog key used for it, falling back to DefaultLanguage.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := catalogs[lang]; ok {
		return lang
	}
	return DefaultLanguage
}

// MessagesFor returns the catalog for lang, see NormalizeLanguage.
func MessagesFor(lang string) Messages {
	return catalogs[NormalizeLanguage(lang)]
}

// Languages lists the languages with a catalog.
func Languages() []string {
	return []string{"ja", "en"}
}
