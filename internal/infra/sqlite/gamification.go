package sqlite

import (
	"database/sql"
	"time"

	"github.com/fanpulse/fanpulse/internal/domain"
)

// ─── Ledger State ───────────────────────────────────────────────────────────

// GamificationState loads a user's full ledger record. A user with no prior
// activity gets the zeroed state (experience 0, level 1, empty achievements).
// Unknown users are an error.
func (d *DB) GamificationState(userID string) (domain.UserGamification, error) {
	exists, err := d.UserExists(userID)
	if err != nil {
		return domain.UserGamification{}, err
	}
	if !exists {
		return domain.UserGamification{}, domain.ErrUserNotFound
	}

	state := domain.NewUserGamification(userID)

	var lastActivity sql.NullInt64
	err = d.db.QueryRow(
		`SELECT experience, level, streak_current, streak_longest, last_activity_at
		 FROM gamification WHERE user_id = ?`, userID,
	).Scan(&state.Experience, &state.Level, &state.Streak.Current, &state.Streak.Longest, &lastActivity)
	if err != nil && err != sql.ErrNoRows {
		return state, err
	}
	if lastActivity.Valid {
		t := time.Unix(lastActivity.Int64, 0)
		state.Streak.LastActivityAt = &t
	}

	rows, err := d.db.Query(
		`SELECT achievement_id, progress, earned_at
		 FROM user_achievements WHERE user_id = ?`, userID,
	)
	if err != nil {
		return state, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var p domain.AchievementProgress
		var earnedAt sql.NullInt64
		if err := rows.Scan(&id, &p.Progress, &earnedAt); err != nil {
			return state, err
		}
		if earnedAt.Valid {
			t := time.Unix(earnedAt.Int64, 0)
			p.EarnedAt = &t
		}
		state.Achievements[id] = p
	}
	return state, rows.Err()
}

// SaveGamificationCore upserts the experience/level/streak columns.
// Achievement rows are written separately via UpsertAchievement.
func (d *DB) SaveGamificationCore(s domain.UserGamification) error {
	var lastActivity interface{}
	if s.Streak.LastActivityAt != nil {
		lastActivity = s.Streak.LastActivityAt.Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO gamification (user_id, experience, level, streak_current, streak_longest, last_activity_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   experience       = excluded.experience,
		   level            = excluded.level,
		   streak_current   = excluded.streak_current,
		   streak_longest   = excluded.streak_longest,
		   last_activity_at = excluded.last_activity_at`,
		s.UserID, s.Experience, s.Level, s.Streak.Current, s.Streak.Longest, lastActivity,
	)
	return err
}

// UpsertAchievement writes one achievement-progress row.
func (d *DB) UpsertAchievement(userID, achievementID string, p domain.AchievementProgress) error {
	var earnedAt interface{}
	if p.EarnedAt != nil {
		earnedAt = p.EarnedAt.Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO user_achievements (user_id, achievement_id, progress, earned_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, achievement_id) DO UPDATE SET
		   progress  = excluded.progress,
		   earned_at = excluded.earned_at`,
		userID, achievementID, p.Progress, earnedAt,
	)
	return err
}

// ResetGamification zeroes a user's ledger state and drops all achievement
// rows. Administrative flows only; unconditional.
func (d *DB) ResetGamification(userID string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_achievements WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO gamification (user_id, experience, level, streak_current, streak_longest, last_activity_at)
		 VALUES (?, 0, 1, 0, 0, NULL)
		 ON CONFLICT(user_id) DO UPDATE SET
		   experience = 0, level = 1, streak_current = 0, streak_longest = 0, last_activity_at = NULL`,
		userID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ─── Experience Audit Log ───────────────────────────────────────────────────

// AppendExperienceLog records one experience award for the audit trail.
func (d *DB) AppendExperienceLog(userID string, points int64, reason string, at time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO experience_log (user_id, points, reason, created_at) VALUES (?, ?, ?, ?)`,
		userID, points, reason, at.Unix(),
	)
	return err
}

// ExperienceLog returns a user's most recent experience awards, newest first.
func (d *DB) ExperienceLog(userID string, limit int) ([]domain.ExperienceEntry, error) {
	rows, err := d.db.Query(
		`SELECT points, reason, created_at FROM experience_log
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ExperienceEntry
	for rows.Next() {
		var e domain.ExperienceEntry
		var createdAt int64
		if err := rows.Scan(&e.Points, &e.Reason, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
