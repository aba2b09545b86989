// Package gamification implements the FanPulse leveling and achievement
// ledger: experience accumulation, level progression, achievement unlocking
// with partial-progress tracking, and daily-streak computation.
package gamification

import (
	"fmt"
	"sync"
	"time"

	"github.com/fanpulse/fanpulse/internal/domain"
	"github.com/fanpulse/fanpulse/internal/infra/metrics"
	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

// Ledger owns per-user gamification state. All mutations for one user are
// serialized through a per-user mutex: the achievement-idempotency and
// streak-state-machine invariants assume atomic read-modify-write.
type Ledger struct {
	db      *sqlite.DB
	defs    map[string]domain.AchievementDef
	ordered []domain.AchievementDef

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedger creates a ledger over the given store with the full catalog.
func NewLedger(db *sqlite.DB) *Ledger {
	ordered := Catalog()
	defs := make(map[string]domain.AchievementDef, len(ordered))
	for _, def := range ordered {
		defs[def.ID] = def
	}
	return &Ledger{
		db:      db,
		defs:    defs,
		ordered: ordered,
		locks:   make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user.
func (l *Ledger) userLock(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[userID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[userID] = lk
	}
	return lk
}

// ─── Read Operations ────────────────────────────────────────────────────────

// State returns a user's current ledger record.
func (l *Ledger) State(userID string) (domain.UserGamification, error) {
	return l.db.GamificationState(userID)
}

// Catalog returns the static achievement catalog.
func (l *Ledger) Catalog() []domain.AchievementDef {
	return l.ordered
}

// Definition looks up one catalog entry.
func (l *Ledger) Definition(achievementID string) (domain.AchievementDef, bool) {
	def, ok := l.defs[achievementID]
	return def, ok
}

// ExperienceToNext returns the experience remaining until the next level,
// clamped at zero when a level-up is already due.
func (l *Ledger) ExperienceToNext(state domain.UserGamification) int64 {
	return ExperienceToNextLevel(state.Level, state.Experience)
}

// ─── AddExperience ──────────────────────────────────────────────────────────

// AddExperience adds points to a user's experience total. The reason is a
// free-text label recorded in the audit trail. Points must be positive.
func (l *Ledger) AddExperience(userID string, points int64, reason string) (domain.AddExperienceResult, error) {
	return l.AddExperienceAt(userID, points, reason, time.Now())
}

// AddExperienceAt is AddExperience with an explicit clock, for testability.
func (l *Ledger) AddExperienceAt(userID string, points int64, reason string, now time.Time) (domain.AddExperienceResult, error) {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()
	return l.addExperience(userID, points, reason, now)
}

// addExperience is the locked implementation. Callers hold the user lock.
func (l *Ledger) addExperience(userID string, points int64, reason string, now time.Time) (domain.AddExperienceResult, error) {
	var res domain.AddExperienceResult
	if points <= 0 {
		return res, domain.ErrInvalidPoints
	}

	state, err := l.db.GamificationState(userID)
	if err != nil {
		return res, err
	}

	oldLevel := state.Level
	state.Experience += points
	state.Level = levelFrom(state.Level, state.Experience)

	// Any experience-earning activity advances the streak.
	wasStreak := state.Streak.Current
	streakGrants := advanceStreak(&state.Streak, now)
	if state.Streak.Current == 1 && wasStreak > 1 {
		metrics.StreakResets.Inc()
	}

	if err := l.db.SaveGamificationCore(state); err != nil {
		return res, fmt.Errorf("save gamification state: %w", err)
	}
	if err := l.db.AppendExperienceLog(userID, points, reason, now); err != nil {
		return res, fmt.Errorf("append experience log: %w", err)
	}

	metrics.ExperienceAwarded.Add(float64(points))

	res = domain.AddExperienceResult{
		OldLevel:   oldLevel,
		NewLevel:   state.Level,
		Experience: state.Experience,
		LeveledUp:  state.Level > oldLevel,
	}

	if res.LeveledUp {
		metrics.LevelUps.Add(float64(state.Level - oldLevel))
		for lv := oldLevel + 1; lv <= state.Level; lv++ {
			id, ok := levelMilestones[lv]
			if !ok {
				continue
			}
			if _, err := l.grant(userID, id, 100, now); err != nil {
				return res, err
			}
		}
	}
	for _, id := range streakGrants {
		if _, err := l.grant(userID, id, 100, now); err != nil {
			return res, err
		}
	}

	return res, nil
}

// ─── GrantAchievement ───────────────────────────────────────────────────────

// GrantAchievement sets a user's progress on a catalog achievement.
// Progress is clamped to 0–100; crossing 100 completes the achievement,
// records the earn time once, and awards the catalog's point value.
// Re-granting a completed achievement is an idempotent no-op.
func (l *Ledger) GrantAchievement(userID, achievementID string, progress int) (domain.GrantResult, error) {
	return l.GrantAchievementAt(userID, achievementID, progress, time.Now())
}

// GrantAchievementAt is GrantAchievement with an explicit clock.
func (l *Ledger) GrantAchievementAt(userID, achievementID string, progress int, now time.Time) (domain.GrantResult, error) {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()
	return l.grant(userID, achievementID, progress, now)
}

// grant is the locked implementation. Callers hold the user lock.
func (l *Ledger) grant(userID, achievementID string, progress int, now time.Time) (domain.GrantResult, error) {
	def, ok := l.defs[achievementID]
	if !ok {
		return domain.GrantResult{}, fmt.Errorf("%w: %q", domain.ErrAchievementNotFound, achievementID)
	}

	state, err := l.db.GamificationState(userID)
	if err != nil {
		return domain.GrantResult{}, err
	}

	existing := state.Achievements[achievementID]
	if existing.Completed() {
		return domain.GrantResult{
			Achievement:    def,
			Progress:       existing.Progress,
			AlreadyGranted: true,
		}, nil
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	entry := domain.AchievementProgress{Progress: progress}
	completed := progress >= 100
	if completed {
		t := now
		entry.EarnedAt = &t
	}

	if err := l.db.UpsertAchievement(userID, achievementID, entry); err != nil {
		return domain.GrantResult{}, fmt.Errorf("save achievement: %w", err)
	}

	result := domain.GrantResult{Achievement: def, Progress: progress, Completed: completed}

	if completed {
		metrics.AchievementsCompleted.WithLabelValues(string(def.Category)).Inc()
		// Completion awards the catalog's point value. The cascade is bounded:
		// each achievement completes at most once and the catalog is finite.
		if _, err := l.addExperience(userID, def.Points, "achievement:"+achievementID, now); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ─── Streak ─────────────────────────────────────────────────────────────────

// AdvanceStreak records a qualifying activity for the streak state machine
// without awarding experience.
func (l *Ledger) AdvanceStreak(userID string) (domain.StreakState, error) {
	return l.AdvanceStreakAt(userID, time.Now())
}

// AdvanceStreakAt is AdvanceStreak with an explicit clock.
func (l *Ledger) AdvanceStreakAt(userID string, now time.Time) (domain.StreakState, error) {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	state, err := l.db.GamificationState(userID)
	if err != nil {
		return domain.StreakState{}, err
	}

	grants := advanceStreak(&state.Streak, now)
	if err := l.db.SaveGamificationCore(state); err != nil {
		return domain.StreakState{}, fmt.Errorf("save gamification state: %w", err)
	}
	for _, id := range grants {
		if _, err := l.grant(userID, id, 100, now); err != nil {
			return state.Streak, err
		}
	}
	return state.Streak, nil
}

// advanceStreak runs the three-state streak machine, keyed purely on elapsed
// wall-clock days between instants:
//
//	fresh  (no prior activity)     → current = 1
//	0 days (same-day activity)     → no change
//	1 day  (consecutive day)       → current++, longest maybe updated
//	2+ days                        → current = 1, longest unchanged
//
// Returns the ids of streak-milestone achievements reached by this advance.
func advanceStreak(s *domain.StreakState, now time.Time) []string {
	if s.LastActivityAt == nil {
		s.Current = 1
		if s.Longest < 1 {
			s.Longest = 1
		}
		t := now
		s.LastActivityAt = &t
		return nil
	}

	days := int(now.Sub(*s.LastActivityAt) / (24 * time.Hour))
	switch {
	case days <= 0:
		// Same-day activity does not double-count.
		return nil

	case days == 1:
		s.Current++
		if s.Current > s.Longest {
			s.Longest = s.Current
		}
		t := now
		s.LastActivityAt = &t
		if id, ok := streakMilestones[s.Current]; ok {
			return []string{id}
		}
		return nil

	default:
		s.Current = 1
		if s.Longest < 1 {
			s.Longest = 1
		}
		t := now
		s.LastActivityAt = &t
		return nil
	}
}

// ─── Reset ──────────────────────────────────────────────────────────────────

// ResetUserProgress zeroes a user's ledger state. Administrative flows only.
func (l *Ledger) ResetUserProgress(userID string) error {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	exists, err := l.db.UserExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return l.db.ResetGamification(userID)
}
