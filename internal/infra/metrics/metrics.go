// Package metrics provides Prometheus metrics for FanPulse.
// Counters for the gamification ledger and the recommendation cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Gamification Ledger ────────────────────────────────────────────────────

// ExperienceAwarded tracks total experience points awarded.
var ExperienceAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "experience_awarded_total",
	Help:      "Total experience points awarded.",
})

// LevelUps tracks level transitions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "level_ups_total",
	Help:      "Total levels gained across all users.",
})

// AchievementsCompleted tracks completed achievements by category.
var AchievementsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "achievements_completed_total",
	Help:      "Total achievements completed.",
}, []string{"category"})

// StreakResets tracks streaks broken by a gap of 2+ days.
var StreakResets = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "streak_resets_total",
	Help:      "Total streak resets after a missed day.",
})

// ─── Recommendation Engine ──────────────────────────────────────────────────

// RecommendationCacheHits tracks recommendation reads served from cache.
var RecommendationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "recommendation_cache_hits_total",
	Help:      "Recommendation requests served from cache.",
})

// RecommendationCacheMisses tracks recomputations.
var RecommendationCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "recommendation_cache_misses_total",
	Help:      "Recommendation requests that required recomputation.",
})

// RecommendationsGenerated tracks generated entries by category.
var RecommendationsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fanpulse",
	Name:      "recommendations_generated_total",
	Help:      "Total recommendation entries generated.",
}, []string{"category"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequestDuration observes handler latency by method and route pattern.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "fanpulse",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "path"})
