// Package optimize implements the FanPulse optimization-recommendation
// engine: five independent category evaluators merged into one prioritized
// list, cached per user with a fixed TTL.
package optimize

import (
	"fmt"
	"sort"
	"time"

	"github.com/fanpulse/fanpulse/internal/app/gamification"
	"github.com/fanpulse/fanpulse/internal/domain"
	"github.com/fanpulse/fanpulse/internal/infra/metrics"
	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

// Thresholds for the category evaluators.
const (
	lowBatteryPct      = 20
	staleSyncAfter     = 12 * time.Hour
	levelUpWithin      = 500
	streakRiskAfter    = 24 * time.Hour
	streakLostAfter    = 48 * time.Hour
	advancedContentLvl = 10
)

// Inputs is the merged point-in-time state a recommendation set is derived
// from. HasDevice / HasAccessibility distinguish "never configured" from a
// zero-valued snapshot; missing optional inputs simply skip their sub-checks.
type Inputs struct {
	Profile          domain.Profile
	Gamification     domain.UserGamification
	Device           domain.DeviceState
	HasDevice        bool
	Accessibility    domain.AccessibilitySettings
	HasAccessibility bool
}

// Engine derives prioritized suggestions from gamification, device, and
// accessibility state. Collaborators that mutate any of those inputs must
// call Invalidate for the affected user before the next read.
type Engine struct {
	db    *sqlite.DB
	cache *Cache
	now   func() time.Time
}

// NewEngine creates an engine over the given store and cache.
func NewEngine(db *sqlite.DB, cache *Cache) *Engine {
	return &Engine{db: db, cache: cache, now: time.Now}
}

// NewEngineWithClock creates an engine with an explicit clock, for tests.
func NewEngineWithClock(db *sqlite.DB, cache *Cache, now func() time.Time) *Engine {
	return &Engine{db: db, cache: cache, now: now}
}

// AllOptimizations returns a user's recommendation set, serving from cache
// when the entry is younger than the TTL and recomputing otherwise.
func (e *Engine) AllOptimizations(userID string) (domain.RecommendationSet, error) {
	if set, ok := e.cache.Get(userID); ok {
		metrics.RecommendationCacheHits.Inc()
		return set, nil
	}
	metrics.RecommendationCacheMisses.Inc()

	in, err := e.gather(userID)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	set := Evaluate(in, e.now())
	for cat, n := range set.CategoryCounts {
		metrics.RecommendationsGenerated.WithLabelValues(string(cat)).Add(float64(n))
	}

	e.cache.Put(userID, set)
	return set, nil
}

// Invalidate drops one user's cached recommendations.
func (e *Engine) Invalidate(userID string) { e.cache.ClearUser(userID) }

// InvalidateAll drops every cached recommendation set.
func (e *Engine) InvalidateAll() { e.cache.ClearAll() }

// gather reads the current snapshots from the persistence collaborator.
func (e *Engine) gather(userID string) (Inputs, error) {
	var in Inputs

	profile, err := e.db.Profile(userID)
	if err != nil {
		return in, err
	}
	in.Profile = profile

	state, err := e.db.GamificationState(userID)
	if err != nil {
		return in, err
	}
	in.Gamification = state

	device, hasDevice, err := e.db.DeviceState(userID)
	if err != nil {
		return in, fmt.Errorf("load device state: %w", err)
	}
	in.Device, in.HasDevice = device, hasDevice

	access, hasAccess, err := e.db.Accessibility(userID)
	if err != nil {
		return in, fmt.Errorf("load accessibility settings: %w", err)
	}
	in.Accessibility, in.HasAccessibility = access, hasAccess

	return in, nil
}

// Evaluate runs the five category evaluators against the inputs and merges
// their entries into one list, sorted descending by priority weight. The
// sort is stable, so ties keep the category evaluation order: battery,
// performance, gamification, accessibility, content.
func Evaluate(in Inputs, now time.Time) domain.RecommendationSet {
	var items []domain.Recommendation
	items = append(items, evaluateBattery(in, now)...)
	items = append(items, evaluatePerformance(in)...)
	items = append(items, evaluateGamification(in, now)...)
	items = append(items, evaluateAccessibility(in)...)
	items = append(items, evaluateContent(in)...)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Weight() > items[j].Priority.Weight()
	})

	counts := make(map[domain.RecommendationCategory]int)
	for _, item := range items {
		counts[item.Category]++
	}

	return domain.RecommendationSet{
		Items:          items,
		CategoryCounts: counts,
		GeneratedAt:    now,
	}
}

// ─── Category Evaluators ────────────────────────────────────────────────────

func evaluateBattery(in Inputs, now time.Time) []domain.Recommendation {
	if !in.HasDevice {
		return nil
	}
	var out []domain.Recommendation

	if in.Device.BatteryLevel < lowBatteryPct {
		out = append(out, domain.Recommendation{
			Type:        "battery_low",
			Category:    domain.CatBattery,
			Priority:    domain.PriorityHigh,
			Title:       "Enable power saving",
			Description: fmt.Sprintf("Your device battery is at %d%%.", in.Device.BatteryLevel),
			Actions:     []string{"Enable power saving mode", "Reduce sync frequency"},
		})
	}

	if in.Device.LastSyncAt != nil && now.Sub(*in.Device.LastSyncAt) > staleSyncAfter {
		out = append(out, domain.Recommendation{
			Type:        "sync_pending",
			Category:    domain.CatBattery,
			Priority:    domain.PriorityMedium,
			Title:       "Sync pending",
			Description: "Your device has not synced in over 12 hours.",
			Actions:     []string{"Open the app near your device", "Check Bluetooth connection"},
		})
	}
	return out
}

// evaluatePerformance emits descriptive, non-actionable entries.
func evaluatePerformance(in Inputs) []domain.Recommendation {
	var out []domain.Recommendation

	if in.Accessibility.ReducedMotion {
		out = append(out, domain.Recommendation{
			Type:        "reduced_motion_active",
			Category:    domain.CatPerformance,
			Priority:    domain.PriorityLow,
			Title:       "Reduced motion active",
			Description: "Animations are minimized for smoother performance.",
		})
	}
	if in.Accessibility.ScreenReader {
		out = append(out, domain.Recommendation{
			Type:        "screen_reader_active",
			Category:    domain.CatPerformance,
			Priority:    domain.PriorityLow,
			Title:       "Screen reader mode",
			Description: "Content is optimized for screen-reader navigation.",
		})
	}
	if in.HasDevice && !in.Device.Connected {
		out = append(out, domain.Recommendation{
			Type:        "device_disconnected",
			Category:    domain.CatPerformance,
			Priority:    domain.PriorityLow,
			Title:       "Device disconnected",
			Description: "Your wearable is currently offline; live stats are paused.",
		})
	}
	return out
}

func evaluateGamification(in Inputs, now time.Time) []domain.Recommendation {
	var out []domain.Recommendation
	state := in.Gamification

	if state.Level < gamification.MaxLevel {
		// A negative remainder means a level-up is already due; treat it as
		// eligible now rather than skipping the suggestion.
		remaining := gamification.ExperienceToNextLevel(state.Level, state.Experience)
		if remaining <= levelUpWithin {
			out = append(out, domain.Recommendation{
				Type:        "level_up_close",
				Category:    domain.CatGamification,
				Priority:    domain.PriorityHigh,
				Title:       "You're close to leveling up",
				Description: fmt.Sprintf("Only %d XP to reach level %d.", remaining, state.Level+1),
				Actions:     []string{"Check in today", "Browse new content"},
			})
		}
	}

	if state.Streak.LastActivityAt != nil {
		idle := now.Sub(*state.Streak.LastActivityAt)
		if idle > streakRiskAfter && idle < streakLostAfter {
			out = append(out, domain.Recommendation{
				Type:        "streak_at_risk",
				Category:    domain.CatGamification,
				Priority:    domain.PriorityHigh,
				Title:       "Don't break your streak",
				Description: fmt.Sprintf("Your %d-day streak ends unless you're active today.", state.Streak.Current),
				Actions:     []string{"Open today's highlights"},
			})
		}
	}

	pending := 0
	for _, p := range state.Achievements {
		if p.Progress > 0 && p.Progress < 100 {
			pending++
		}
	}
	if pending > 0 {
		out = append(out, domain.Recommendation{
			Type:        "achievements_pending",
			Category:    domain.CatGamification,
			Priority:    domain.PriorityMedium,
			Title:       "Achievements within reach",
			Description: fmt.Sprintf("%d achievements are partially complete.", pending),
			Actions:     []string{"View achievement progress"},
		})
	}
	return out
}

func evaluateAccessibility(in Inputs) []domain.Recommendation {
	if !in.HasAccessibility {
		return []domain.Recommendation{{
			Type:        "accessibility_setup",
			Category:    domain.CatAccessibility,
			Priority:    domain.PriorityHigh,
			Title:       "Set up accessibility",
			Description: "Tailor contrast, motion, and text size to your needs.",
			Actions:     []string{"Open accessibility settings"},
		}}
	}

	var out []domain.Recommendation
	if in.Accessibility.Advanced() {
		out = append(out, domain.Recommendation{
			Type:        "advanced_accessibility",
			Category:    domain.CatAccessibility,
			Priority:    domain.PriorityLow,
			Title:       "Advanced settings active",
			Description: "Custom contrast or text scaling is in effect.",
		})
	}
	if in.Accessibility.ScreenReader && !in.Accessibility.AssistiveTech {
		out = append(out, domain.Recommendation{
			Type:        "assistive_tech_mismatch",
			Category:    domain.CatAccessibility,
			Priority:    domain.PriorityMedium,
			Title:       "Enable assistive technology support",
			Description: "Screen reader is on but assistive-technology support is off.",
			Actions:     []string{"Enable assistive technology support"},
		})
	}
	return out
}

func evaluateContent(in Inputs) []domain.Recommendation {
	var out []domain.Recommendation

	if in.Profile.Language != "" {
		out = append(out, domain.Recommendation{
			Type:        "language_content",
			Category:    domain.CatContentSuggest,
			Priority:    domain.PriorityLow,
			Title:       "Content in your language",
			Description: fmt.Sprintf("Fresh picks available in %q.", in.Profile.Language),
			Actions:     []string{"Browse localized content"},
		})
	}
	if in.Gamification.Level >= advancedContentLvl {
		out = append(out, domain.Recommendation{
			Type:        "advanced_content",
			Category:    domain.CatContentSuggest,
			Priority:    domain.PriorityMedium,
			Title:       "Advanced content unlocked",
			Description: fmt.Sprintf("Level %d unlocks behind-the-scenes exclusives.", in.Gamification.Level),
			Actions:     []string{"Explore exclusives"},
		})
	}
	if len(in.Profile.Favorites) > 0 {
		out = append(out, domain.Recommendation{
			Type:        "favorites_content",
			Category:    domain.CatContentSuggest,
			Priority:    domain.PriorityLow,
			Title:       "More like your favorites",
			Description: fmt.Sprintf("New content similar to your %d favorites.", len(in.Profile.Favorites)),
			Actions:     []string{"See recommendations"},
		})
	}
	return out
}
