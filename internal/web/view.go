package web

import (
	"html/template"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/game"
)

// uiText holds the page's static strings.
type uiText struct {
	Title          string
	Welcome        string
	Prompt         string
	Example        string
	Placeholder    string
	Send           string
	Thinking       string
	ResultsHeading string
	SimilarTo      string
	RefinePrompt   string
	RefineExample  string
	HealthScore    string
	Summarize      string
}

var texts = map[string]uiText{
	"ja": {
		Title:          "AIゲームディスカバリーエンジン",
		Welcome:        "ようこそ！",
		Prompt:         "どんなゲームをお探しですか？",
		Example:        "例：「友達と協力できる、やりこみ要素のあるRPG」",
		Placeholder:    "どんなゲームに興味がありますか？ 例:「宇宙が舞台のオープンワールドゲーム」",
		Send:           "送信",
		Thinking:       "AIが考えています...",
		ResultsHeading: "あなたへのおすすめゲームはこちらです！",
		SimilarTo:      "に似たゲーム",
		RefinePrompt:   "に関して、さらに絞り込む条件は？",
		RefineExample:  "戦闘システムがもっとアクション寄りのもの。",
		HealthScore:    "開発健全性スコア",
		Summarize:      "レビュー傾向を要約",
	},
	"en": {
		Title:          "AI Game Discovery Engine",
		Welcome:        "Welcome!",
		Prompt:         "What kind of game are you looking for?",
		Example:        "e.g. \"A co-op RPG with lots of replay value\"",
		Placeholder:    "What games interest you? e.g. \"An open-world game set in space\"",
		Send:           "Send",
		Thinking:       "The AI is thinking...",
		ResultsHeading: "Here are your recommended games!",
		SimilarTo:      ": similar games",
		RefinePrompt:   ": how should we narrow it down?",
		RefineExample:  "A more action-oriented combat system.",
		HealthScore:    "Development health score",
		Summarize:      "Summarize review trend",
	},
}

func textFor(lang string) uiText {
	if t, ok := texts[actions.NormalizeLanguage(lang)]; ok {
		return t
	}
	return texts[actions.DefaultLanguage]
}

var genreIcons = map[string]string{
	"rpg":        "⚔️",
	"action":     "⚡",
	"strategy":   "🧠",
	"simulation": "🏗️",
	"adventure":  "🧭",
	"puzzle":     "🧩",
	"other":      "🎮",
}

var templateFuncs = template.FuncMap{
	"next": func(level int) int { return level + 1 },
	"genreIcon": func(g game.Game) string {
		return genreIcons[g.GenreKind()]
	},
}
