package gamification

import "github.com/fanpulse/fanpulse/internal/domain"

// Catalog returns the static achievement catalog. Identifiers are stable
// because clients and stored progress rows reference them.
func Catalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Getting Started ────────────────────────────────────────────
		{
			ID: "first_login", Title: "Welcome to the Club",
			Description: "Sign in for the first time",
			Icon:        "👋", Points: 50, Category: domain.CatGettingStarted,
		},
		{
			ID: "profile_complete", Title: "Card-Carrying Member",
			Description: "Complete your member profile",
			Icon:        "🪪", Points: 40, Category: domain.CatGettingStarted,
		},
		{
			ID: "first_device_sync", Title: "Wired In",
			Description: "Sync a wearable device for the first time",
			Icon:        "⌚", Points: 60, Category: domain.CatGettingStarted,
		},
		{
			ID: "accessibility_setup", Title: "Made It Yours",
			Description: "Configure your accessibility settings",
			Icon:        "⚙️", Points: 40, Category: domain.CatGettingStarted,
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_7", Title: "Week Warrior",
			Description: "Stay active 7 days in a row",
			Icon:        "🔥", Points: 200, Category: domain.CatStreaks,
		},
		{
			ID: "streak_30", Title: "Monthly Devotee",
			Description: "Stay active 30 days in a row",
			Icon:        "💪", Points: 1000, Category: domain.CatStreaks,
		},

		// ── Progression (level milestones) ─────────────────────────────
		{
			ID: "level_5", Title: "Getting Serious",
			Description: "Reach level 5",
			Icon:        "⭐", Points: 100, Category: domain.CatProgression,
		},
		{
			ID: "level_10", Title: "Rising Star",
			Description: "Reach level 10",
			Icon:        "🌅", Points: 250, Category: domain.CatProgression,
		},
		{
			ID: "level_25", Title: "Superfan",
			Description: "Reach level 25",
			Icon:        "🎖️", Points: 750, Category: domain.CatProgression,
		},
		{
			ID: "level_50", Title: "Veteran",
			Description: "Reach level 50",
			Icon:        "🏆", Points: 2000, Category: domain.CatProgression,
		},
		{
			ID: "level_100", Title: "Living Legend",
			Description: "Reach level 100",
			Icon:        "👑", Points: 10000, Category: domain.CatProgression,
		},

		// ── Content ────────────────────────────────────────────────────
		{
			ID: "first_favorite", Title: "Taste Maker",
			Description: "Save your first favorite",
			Icon:        "❤️", Points: 30, Category: domain.CatContent,
		},
		{
			ID: "collector_10", Title: "Collector",
			Description: "Save 10 favorites",
			Icon:        "📚", Points: 150, Category: domain.CatContent,
		},

		// ── Community ──────────────────────────────────────────────────
		{
			ID: "leaderboard_top10", Title: "On the Board",
			Description: "Enter the top 10 of any leaderboard",
			Icon:        "🏅", Points: 300, Category: domain.CatCommunity,
		},
	}
}

// levelMilestones binds specific level-ups to progression achievements.
// Checked whenever AddExperience raises the level.
var levelMilestones = map[int]string{
	5:   "level_5",
	10:  "level_10",
	25:  "level_25",
	50:  "level_50",
	100: "level_100",
}

// streakMilestones binds exact streak lengths to streak achievements.
var streakMilestones = map[int]string{
	7:  "streak_7",
	30: "streak_30",
}
