package domain

import "time"

// ─── Recommendation Types ───────────────────────────────────────────────────

// RecommendationPriority orders recommendations for display.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// Weight returns the sort weight (high=3, medium=2, low=1).
func (p RecommendationPriority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// RecommendationCategory names one of the five independent evaluators.
type RecommendationCategory string

const (
	CatBattery        RecommendationCategory = "battery"
	CatPerformance    RecommendationCategory = "performance"
	CatGamification   RecommendationCategory = "gamification"
	CatAccessibility  RecommendationCategory = "accessibility"
	CatContentSuggest RecommendationCategory = "content"
)

// Recommendation is a single user-facing suggestion.
type Recommendation struct {
	Type        string                 `json:"type"`
	Category    RecommendationCategory `json:"category"`
	Priority    RecommendationPriority `json:"priority"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Actions     []string               `json:"actions,omitempty"`
}

// RecommendationSet is a user's full prioritized recommendation list,
// cached per user with a fixed TTL. CategoryCounts reports per-category
// entry counts for observability.
type RecommendationSet struct {
	Items          []Recommendation               `json:"items"`
	CategoryCounts map[RecommendationCategory]int `json:"category_counts"`
	GeneratedAt    time.Time                      `json:"generated_at"`
}
