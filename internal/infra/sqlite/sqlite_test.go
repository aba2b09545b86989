package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/fanpulse/fanpulse/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *DB, userID string) {
	t.Helper()
	err := db.CreateProfile(domain.Profile{
		UserID:      userID,
		DisplayName: "Fan " + userID,
		Active:      true,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", userID, err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	db := testDB(t)

	in := domain.Profile{
		UserID:      "u1",
		DisplayName: "Ana",
		Language:    "pt-BR",
		Favorites:   []string{"track-1", "track-2"},
		Active:      true,
		CreatedAt:   time.Unix(1700000000, 0),
	}
	if err := db.CreateProfile(in); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	out, err := db.Profile("u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if out.DisplayName != "Ana" || out.Language != "pt-BR" || !out.Active {
		t.Errorf("profile = %+v", out)
	}
	if len(out.Favorites) != 2 || out.Favorites[0] != "track-1" {
		t.Errorf("favorites = %v", out.Favorites)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("created_at = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
}

func TestProfileNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.Profile("ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
	if err := db.SaveProfile(domain.Profile{UserID: "ghost"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("SaveProfile err = %v, want ErrUserNotFound", err)
	}
}

func TestUserExists(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	if ok, _ := db.UserExists("u1"); !ok {
		t.Error("UserExists(u1) = false")
	}
	if ok, _ := db.UserExists("ghost"); ok {
		t.Error("UserExists(ghost) = true")
	}
}

func TestGamificationStateDefaults(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	state, err := db.GamificationState("u1")
	if err != nil {
		t.Fatalf("GamificationState: %v", err)
	}
	if state.Experience != 0 || state.Level != 1 {
		t.Errorf("fresh state = xp %d level %d, want 0 / 1", state.Experience, state.Level)
	}
	if state.Achievements == nil || len(state.Achievements) != 0 {
		t.Errorf("fresh achievements = %v, want empty map", state.Achievements)
	}

	if _, err := db.GamificationState("ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown user err = %v, want ErrUserNotFound", err)
	}
}

func TestGamificationCoreRoundTrip(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	last := time.Unix(1700000000, 0)
	in := domain.NewUserGamification("u1")
	in.Experience = 1500
	in.Level = 3
	in.Streak = domain.StreakState{Current: 4, Longest: 9, LastActivityAt: &last}

	if err := db.SaveGamificationCore(in); err != nil {
		t.Fatalf("SaveGamificationCore: %v", err)
	}

	out, err := db.GamificationState("u1")
	if err != nil {
		t.Fatalf("GamificationState: %v", err)
	}
	if out.Experience != 1500 || out.Level != 3 {
		t.Errorf("state = xp %d level %d", out.Experience, out.Level)
	}
	if out.Streak.Current != 4 || out.Streak.Longest != 9 {
		t.Errorf("streak = %+v", out.Streak)
	}
	if out.Streak.LastActivityAt == nil || !out.Streak.LastActivityAt.Equal(last) {
		t.Errorf("last activity = %v, want %v", out.Streak.LastActivityAt, last)
	}
}

func TestUpsertAchievementAndReset(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	earned := time.Unix(1700000000, 0)
	if err := db.UpsertAchievement("u1", "first_login", domain.AchievementProgress{Progress: 100, EarnedAt: &earned}); err != nil {
		t.Fatalf("UpsertAchievement: %v", err)
	}
	if err := db.UpsertAchievement("u1", "collector_10", domain.AchievementProgress{Progress: 40}); err != nil {
		t.Fatalf("UpsertAchievement: %v", err)
	}

	state, err := db.GamificationState("u1")
	if err != nil {
		t.Fatalf("GamificationState: %v", err)
	}
	if !state.Achievements["first_login"].Completed() {
		t.Error("first_login not completed after upsert")
	}
	if state.Achievements["collector_10"].Progress != 40 {
		t.Errorf("collector_10 progress = %d", state.Achievements["collector_10"].Progress)
	}

	if err := db.ResetGamification("u1"); err != nil {
		t.Fatalf("ResetGamification: %v", err)
	}
	state, _ = db.GamificationState("u1")
	if len(state.Achievements) != 0 || state.Experience != 0 || state.Level != 1 {
		t.Errorf("state after reset = %+v", state)
	}
}

func TestDeviceStateFoundFlag(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	_, found, err := db.DeviceState("u1")
	if err != nil {
		t.Fatalf("DeviceState: %v", err)
	}
	if found {
		t.Error("found = true for a user that never synced")
	}

	sync := time.Unix(1700000000, 0)
	in := domain.DeviceState{BatteryLevel: 75, Connected: true, Model: "Pulse Band 2", LastSyncAt: &sync}
	if err := db.SaveDeviceState("u1", in); err != nil {
		t.Fatalf("SaveDeviceState: %v", err)
	}

	out, found, err := db.DeviceState("u1")
	if err != nil {
		t.Fatalf("DeviceState: %v", err)
	}
	if !found {
		t.Fatal("found = false after save")
	}
	if out.BatteryLevel != 75 || !out.Connected || out.Model != "Pulse Band 2" {
		t.Errorf("device = %+v", out)
	}
	if out.LastSyncAt == nil || !out.LastSyncAt.Equal(sync) {
		t.Errorf("last sync = %v, want %v", out.LastSyncAt, sync)
	}
}

func TestAccessibilityFoundFlag(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	_, found, err := db.Accessibility("u1")
	if err != nil {
		t.Fatalf("Accessibility: %v", err)
	}
	if found {
		t.Error("found = true for an unconfigured user")
	}

	in := domain.AccessibilitySettings{ScreenReader: true, HighContrast: true, FontScale: 1.5}
	if err := db.SaveAccessibility("u1", in); err != nil {
		t.Fatalf("SaveAccessibility: %v", err)
	}

	out, found, err := db.Accessibility("u1")
	if err != nil {
		t.Fatalf("Accessibility: %v", err)
	}
	if !found {
		t.Fatal("found = false after save")
	}
	if !out.ScreenReader || !out.HighContrast || out.FontScale != 1.5 {
		t.Errorf("settings = %+v", out)
	}
}

func TestExperienceLogNewestFirst(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "u1")

	base := time.Unix(1700000000, 0)
	for i, reason := range []string{"first", "second", "third"} {
		if err := db.AppendExperienceLog("u1", int64(10*(i+1)), reason, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("AppendExperienceLog: %v", err)
		}
	}

	entries, err := db.ExperienceLog("u1", 2)
	if err != nil {
		t.Fatalf("ExperienceLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Reason != "third" || entries[1].Reason != "second" {
		t.Errorf("order = %s, %s; want third, second", entries[0].Reason, entries[1].Reason)
	}
	if entries[0].Points != 30 {
		t.Errorf("points = %d, want 30", entries[0].Points)
	}
}

func TestActiveLeaderboardRows(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "a")
	createUser(t, db, "b")

	// "b" opts out; "a" keeps only the COALESCE defaults (no ledger row).
	profile, _ := db.Profile("b")
	profile.Active = false
	if err := db.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	rows, err := db.ActiveLeaderboardRows()
	if err != nil {
		t.Fatalf("ActiveLeaderboardRows: %v", err)
	}
	if len(rows) != 1 || rows[0].UserID != "a" {
		t.Fatalf("rows = %+v, want just a", rows)
	}
	if rows[0].Experience != 0 || rows[0].Level != 1 || rows[0].LongestStreak != 0 {
		t.Errorf("defaults = %+v, want xp 0 level 1 streak 0", rows[0])
	}
}
