package optimize

import (
	"testing"
	"time"

	"github.com/fanpulse/fanpulse/internal/domain"
	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

func findRec(set domain.RecommendationSet, recType string) (domain.Recommendation, bool) {
	for _, r := range set.Items {
		if r.Type == recType {
			return r, true
		}
	}
	return domain.Recommendation{}, false
}

func baseInputs() Inputs {
	return Inputs{
		Profile: domain.Profile{UserID: "u1", DisplayName: "Fan", Active: true},
		Gamification: domain.UserGamification{
			UserID:       "u1",
			Level:        1,
			Achievements: map[string]domain.AchievementProgress{},
		},
		HasAccessibility: true,
	}
}

func TestEvaluateBatteryLow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.HasDevice = true
	in.Device = domain.DeviceState{BatteryLevel: 15, Connected: true}

	set := Evaluate(in, now)
	rec, ok := findRec(set, "battery_low")
	if !ok {
		t.Fatal("battery_low not emitted at 15%")
	}
	if rec.Priority != domain.PriorityHigh || rec.Category != domain.CatBattery {
		t.Errorf("battery_low = %+v, want high/battery", rec)
	}

	in.Device.BatteryLevel = 20
	set = Evaluate(in, now)
	if _, ok := findRec(set, "battery_low"); ok {
		t.Error("battery_low emitted at 20%")
	}
}

func TestEvaluateSkipsBatteryWithoutDevice(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.HasDevice = false
	in.Device = domain.DeviceState{BatteryLevel: 5}

	set := Evaluate(in, now)
	if set.CategoryCounts[domain.CatBattery] != 0 {
		t.Errorf("battery recommendations without a device: %+v", set.Items)
	}
}

func TestEvaluateStaleSync(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.HasDevice = true
	in.Device.BatteryLevel = 80

	recent := now.Add(-time.Hour)
	in.Device.LastSyncAt = &recent
	if _, ok := findRec(Evaluate(in, now), "sync_pending"); ok {
		t.Error("sync_pending emitted for a recent sync")
	}

	stale := now.Add(-13 * time.Hour)
	in.Device.LastSyncAt = &stale
	if _, ok := findRec(Evaluate(in, now), "sync_pending"); !ok {
		t.Error("sync_pending not emitted for a 13h-old sync")
	}
}

func TestEvaluateLevelUpClose(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.Gamification.Level = 2
	in.Gamification.Experience = 1300 // 140 XP short of level 3

	rec, ok := findRec(Evaluate(in, now), "level_up_close")
	if !ok {
		t.Fatal("level_up_close not emitted 140 XP short")
	}
	if rec.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high", rec.Priority)
	}

	in.Gamification.Experience = 600 // 600 XP short
	if _, ok := findRec(Evaluate(in, now), "level_up_close"); ok {
		t.Error("level_up_close emitted 600 XP short")
	}
}

func TestEvaluateStreakAtRisk(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.Gamification.Streak.Current = 5

	cases := []struct {
		idle time.Duration
		want bool
	}{
		{10 * time.Hour, false}, // still today
		{30 * time.Hour, true},  // at risk
		{50 * time.Hour, false}, // already lost
	}
	for _, tc := range cases {
		last := now.Add(-tc.idle)
		in.Gamification.Streak.LastActivityAt = &last
		_, ok := findRec(Evaluate(in, now), "streak_at_risk")
		if ok != tc.want {
			t.Errorf("idle %v: streak_at_risk = %v, want %v", tc.idle, ok, tc.want)
		}
	}
}

func TestEvaluatePendingAchievements(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.Gamification.Achievements = map[string]domain.AchievementProgress{
		"collector_10": {Progress: 40},
		"streak_7":     {Progress: 100}, // complete, not pending
	}

	rec, ok := findRec(Evaluate(in, now), "achievements_pending")
	if !ok {
		t.Fatal("achievements_pending not emitted")
	}
	if rec.Description != "1 achievements are partially complete." {
		t.Errorf("description = %q", rec.Description)
	}
}

func TestEvaluateAccessibilitySetup(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.HasAccessibility = false

	set := Evaluate(in, now)
	if set.CategoryCounts[domain.CatAccessibility] != 1 {
		t.Fatalf("accessibility count = %d, want 1", set.CategoryCounts[domain.CatAccessibility])
	}
	if _, ok := findRec(set, "accessibility_setup"); !ok {
		t.Error("accessibility_setup not emitted for unconfigured user")
	}
}

func TestEvaluateAssistiveTechMismatch(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.Accessibility = domain.AccessibilitySettings{ScreenReader: true, FontScale: 1}

	if _, ok := findRec(Evaluate(in, now), "assistive_tech_mismatch"); !ok {
		t.Error("mismatch not emitted with screen reader on and assistive tech off")
	}

	in.Accessibility.AssistiveTech = true
	if _, ok := findRec(Evaluate(in, now), "assistive_tech_mismatch"); ok {
		t.Error("mismatch emitted with assistive tech on")
	}
}

func TestEvaluateContentSuggestions(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.Profile.Language = "pt-BR"
	in.Profile.Favorites = []string{"track-1", "track-2"}
	in.Gamification.Level = 12

	set := Evaluate(in, now)
	for _, want := range []string{"language_content", "advanced_content", "favorites_content"} {
		if _, ok := findRec(set, want); !ok {
			t.Errorf("%s not emitted", want)
		}
	}
	if set.CategoryCounts[domain.CatContentSuggest] != 3 {
		t.Errorf("content count = %d, want 3", set.CategoryCounts[domain.CatContentSuggest])
	}
}

func TestEvaluatePriorityOrdering(t *testing.T) {
	now := time.Unix(1700000000, 0)
	in := baseInputs()
	in.HasDevice = true
	in.Device = domain.DeviceState{BatteryLevel: 10} // high battery_low, low device_disconnected
	in.Profile.Language = "en"                       // low language_content
	in.Gamification.Achievements = map[string]domain.AchievementProgress{
		"collector_10": {Progress: 40}, // medium achievements_pending
	}

	set := Evaluate(in, now)
	if len(set.Items) == 0 {
		t.Fatal("no recommendations emitted")
	}
	for i := 1; i < len(set.Items); i++ {
		if set.Items[i].Priority.Weight() > set.Items[i-1].Priority.Weight() {
			t.Fatalf("items not sorted by priority: %s after %s",
				set.Items[i].Priority, set.Items[i-1].Priority)
		}
	}
	if set.Items[0].Type != "battery_low" {
		t.Errorf("top item = %s, want battery_low", set.Items[0].Type)
	}
}

func TestEngineCachesWithinTTL(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.CreateProfile(domain.Profile{
		UserID: "u1", DisplayName: "Fan", Active: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	base := time.Unix(1700000000, 0)
	now := base
	clock := func() time.Time { return now }
	engine := NewEngineWithClock(db, NewCache(5*time.Minute, clock), clock)

	first, err := engine.AllOptimizations("u1")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Within the TTL the same set comes back untouched.
	now = base.Add(3 * time.Minute)
	second, err := engine.AllOptimizations("u1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Errorf("cached set recomputed: %v vs %v", second.GeneratedAt, first.GeneratedAt)
	}

	// Past the TTL a fresh set is generated.
	now = base.Add(6 * time.Minute)
	third, err := engine.AllOptimizations("u1")
	if err != nil {
		t.Fatalf("third call: %v", err)
	}
	if third.GeneratedAt.Equal(first.GeneratedAt) {
		t.Error("expired set served from cache")
	}
}

func TestEngineInvalidateForcesRecompute(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.CreateProfile(domain.Profile{
		UserID: "u1", DisplayName: "Fan", Active: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	base := time.Unix(1700000000, 0)
	now := base
	clock := func() time.Time { return now }
	engine := NewEngineWithClock(db, NewCache(5*time.Minute, clock), clock)

	first, err := engine.AllOptimizations("u1")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	engine.Invalidate("u1")
	now = base.Add(time.Minute)

	second, err := engine.AllOptimizations("u1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Error("invalidated set served from cache")
	}
}

func TestEngineUnknownUser(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine := NewEngine(db, NewCache(time.Minute, nil))
	if _, err := engine.AllOptimizations("ghost"); err == nil {
		t.Error("expected error for unknown user")
	}
}
