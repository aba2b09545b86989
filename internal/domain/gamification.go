// Package domain holds the core types of the FanPulse engagement engine.
// The gamification engine drives fan retention through experience, levels,
// achievements, and daily streaks. Domain types are plain data with no
// infrastructure dependency.
package domain

import "time"

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakState tracks consecutive days with at least one qualifying activity.
type StreakState struct {
	Current        int        `json:"current"`
	Longest        int        `json:"longest"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

// ─── Gamification State ─────────────────────────────────────────────────────

// AchievementProgress is a user's progress toward a single achievement.
// Completed iff Progress >= 100; EarnedAt is set exactly once, at the
// transition to completed.
type AchievementProgress struct {
	Progress int        `json:"progress"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// Completed reports whether the achievement has been earned.
func (p AchievementProgress) Completed() bool {
	return p.Progress >= 100 && p.EarnedAt != nil
}

// UserGamification is the per-user ledger state. Owned and mutated only by
// the gamification ledger; everyone else reads.
type UserGamification struct {
	UserID       string                         `json:"user_id"`
	Experience   int64                          `json:"experience"`
	Level        int                            `json:"level"`
	Achievements map[string]AchievementProgress `json:"achievements"`
	Streak       StreakState                    `json:"streak"`
}

// NewUserGamification returns the zeroed state created on first activity.
func NewUserGamification(userID string) UserGamification {
	return UserGamification{
		UserID:       userID,
		Level:        1,
		Achievements: make(map[string]AchievementProgress),
	}
}

// ─── Achievement Catalog Types ──────────────────────────────────────────────

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CatGettingStarted AchievementCategory = "getting_started"
	CatStreaks        AchievementCategory = "streaks"
	CatProgression    AchievementCategory = "progression"
	CatContent        AchievementCategory = "content"
	CatCommunity      AchievementCategory = "community"
)

// AchievementDef is a single entry in the static achievement catalog.
// Immutable at runtime.
type AchievementDef struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Points      int64               `json:"points"`
	Category    AchievementCategory `json:"category"`
}

// ─── Ledger Operation Results ───────────────────────────────────────────────

// AddExperienceResult reports the outcome of an experience award.
type AddExperienceResult struct {
	OldLevel   int   `json:"old_level"`
	NewLevel   int   `json:"new_level"`
	Experience int64 `json:"experience"`
	LeveledUp  bool  `json:"leveled_up"`
}

// GrantResult reports the outcome of an achievement grant.
// AlreadyGranted is the idempotent re-grant case, not an error.
type GrantResult struct {
	Achievement    AchievementDef `json:"achievement"`
	Progress       int            `json:"progress"`
	Completed      bool           `json:"completed"`
	AlreadyGranted bool           `json:"already_granted"`
}

// ─── Leaderboard Types ──────────────────────────────────────────────────────

// LeaderboardMetric selects the ranking key.
type LeaderboardMetric string

const (
	MetricExperience LeaderboardMetric = "experience"
	MetricLevel      LeaderboardMetric = "level"
	MetricStreak     LeaderboardMetric = "streak"
)

// ParseLeaderboardMetric maps a request string to a metric.
// Unrecognized values fall back to experience.
func ParseLeaderboardMetric(s string) LeaderboardMetric {
	switch LeaderboardMetric(s) {
	case MetricLevel:
		return MetricLevel
	case MetricStreak:
		return MetricStreak
	default:
		return MetricExperience
	}
}

// LeaderboardEntry is a derived, never-persisted ranking row.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	MetricValue int64  `json:"metric_value"`
}

// LeaderboardRow is the stored projection the ranker sorts over:
// one active user's ledger fields plus display name.
type LeaderboardRow struct {
	UserID        string
	DisplayName   string
	Experience    int64
	Level         int
	LongestStreak int
}

// ─── Audit Log ──────────────────────────────────────────────────────────────

// ExperienceEntry is one append-only audit row for an experience award.
// The reason is a free-text label from the caller; the ledger does not
// validate it.
type ExperienceEntry struct {
	Points    int64     `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
