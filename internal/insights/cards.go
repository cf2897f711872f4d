package insights

import "fmt"

// Kind identifies which rule produced a Card.
type Kind string

const (
	NoData               Kind = "no_data"
	ProductivityChampion Kind = "productivity_champion"
	GoodProgress         Kind = "good_progress"
	ScreenTimeAlert      Kind = "screen_time_alert"
	RestBalance          Kind = "rest_balance"
	KeepLogging          Kind = "keep_logging"
)

// Card is one insight about an Aggregate.
type Card struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Icon  string `json:"icon" yaml:"icon"`
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Thresholds are the percentage cutoffs used by Derive.
type Thresholds struct {
	ChampionPercent   int `json:"champion_percent"`
	ProgressPercent   int `json:"progress_percent"`
	ScreenTimePercent int `json:"screen_time_percent"`
}

// DefaultThresholds returns 60/40/20.
func DefaultThresholds() Thresholds {
	return Thresholds{ChampionPercent: 60, ProgressPercent: 40, ScreenTimePercent: 20}
}

// percent returns round(100*n/total), rounding halves up, in integer math.
func percent(n, total int) int {
	return (200*n + total) / (2 * total)
}

// Derive turns an aggregate into cards. The order is fixed: work tier,
// screen time, rest, then the fallback, which only appears when no other
// card did. An empty aggregate yields only the NoData card.
func Derive(g Aggregate, th Thresholds) []Card {
	total := g.Total()
	if total == 0 {
		return []Card{{
			Kind:  NoData,
			Icon:  "📊",
			Title: "No data yet",
			Text:  "Start logging your hours to see insights!",
		}}
	}

	workPercent := percent(g.Work, total)
	doomscrollPercent := percent(g.Doomscroll, total)

	var cards []Card
	switch {
	case workPercent >= th.ChampionPercent:
		cards = append(cards, Card{
			Kind:  ProductivityChampion,
			Icon:  "🎯",
			Title: "Productivity Champion!",
			Text:  fmt.Sprintf("You spent %d%% of your time working. Keep it up!", workPercent),
		})
	case workPercent >= th.ProgressPercent:
		cards = append(cards, Card{
			Kind:  GoodProgress,
			Icon:  "💪",
			Title: "Good Progress",
			Text:  fmt.Sprintf("%d%% work time. Room for improvement!", workPercent),
		})
	}

	if doomscrollPercent >= th.ScreenTimePercent {
		cards = append(cards, Card{
			Kind:  ScreenTimeAlert,
			Icon:  "📱",
			Title: "Screen Time Alert",
			Text:  fmt.Sprintf("%d%% of your time was spent doomscrolling.", doomscrollPercent),
		})
	}

	if g.Rest > 0 {
		unit := "hours"
		if g.Rest == 1 {
			unit = "hour"
		}
		cards = append(cards, Card{
			Kind:  RestBalance,
			Icon:  "☕",
			Title: "Rest Balance",
			Text:  fmt.Sprintf("You took %d %s of rest. Balance is key!", g.Rest, unit),
		})
	}

	if len(cards) == 0 {
		cards = append(cards, Card{
			Kind:  KeepLogging,
			Icon:  "📈",
			Title: "Keep Logging",
			Text:  "Log more hours to get personalized insights!",
		})
	}
	return cards
}
