package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fanpulse/fanpulse/internal/domain"
)

// ─── Profiles ───────────────────────────────────────────────────────────────

// CreateProfile inserts a new member account.
func (d *DB) CreateProfile(p domain.Profile) error {
	favorites, err := json.Marshal(p.Favorites)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	_, err = d.db.Exec(
		`INSERT INTO users (id, display_name, language, favorites, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.DisplayName, p.Language, string(favorites), p.Active, p.CreatedAt.Unix(),
	)
	return err
}

// Profile retrieves a member account by id.
func (d *DB) Profile(userID string) (domain.Profile, error) {
	var p domain.Profile
	var favorites string
	var createdAt int64

	err := d.db.QueryRow(
		`SELECT id, display_name, language, favorites, active, created_at
		 FROM users WHERE id = ?`, userID,
	).Scan(&p.UserID, &p.DisplayName, &p.Language, &favorites, &p.Active, &createdAt)
	if err == sql.ErrNoRows {
		return p, domain.ErrUserNotFound
	}
	if err != nil {
		return p, err
	}

	p.CreatedAt = time.Unix(createdAt, 0)
	if err := json.Unmarshal([]byte(favorites), &p.Favorites); err != nil {
		return p, fmt.Errorf("decode favorites: %w", err)
	}
	return p, nil
}

// SaveProfile updates an existing member account.
func (d *DB) SaveProfile(p domain.Profile) error {
	favorites, err := json.Marshal(p.Favorites)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	result, err := d.db.Exec(
		`UPDATE users SET display_name = ?, language = ?, favorites = ?, active = ?
		 WHERE id = ?`,
		p.DisplayName, p.Language, string(favorites), p.Active, p.UserID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UserExists reports whether a member account exists.
func (d *DB) UserExists(userID string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&count)
	return count > 0, err
}

// ActiveLeaderboardRows returns the ledger projection for every active user,
// ordered by user id so equal sort keys rank deterministically.
func (d *DB) ActiveLeaderboardRows() ([]domain.LeaderboardRow, error) {
	rows, err := d.db.Query(
		`SELECT u.id, u.display_name,
		        COALESCE(g.experience, 0), COALESCE(g.level, 1), COALESCE(g.streak_longest, 0)
		 FROM users u
		 LEFT JOIN gamification g ON g.user_id = u.id
		 WHERE u.active = 1
		 ORDER BY u.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LeaderboardRow
	for rows.Next() {
		var r domain.LeaderboardRow
		if err := rows.Scan(&r.UserID, &r.DisplayName, &r.Experience, &r.Level, &r.LongestStreak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ─── Device Snapshots ───────────────────────────────────────────────────────

// DeviceState returns the latest wearable snapshot for a user.
// The second return is false when the user has never synced a device.
func (d *DB) DeviceState(userID string) (domain.DeviceState, bool, error) {
	var ds domain.DeviceState
	var lastSync sql.NullInt64

	err := d.db.QueryRow(
		`SELECT battery_level, connected, model, last_sync_at
		 FROM device_state WHERE user_id = ?`, userID,
	).Scan(&ds.BatteryLevel, &ds.Connected, &ds.Model, &lastSync)
	if err == sql.ErrNoRows {
		return ds, false, nil
	}
	if err != nil {
		return ds, false, err
	}

	if lastSync.Valid {
		t := time.Unix(lastSync.Int64, 0)
		ds.LastSyncAt = &t
	}
	return ds, true, nil
}

// SaveDeviceState upserts a user's wearable snapshot.
func (d *DB) SaveDeviceState(userID string, ds domain.DeviceState) error {
	var lastSync interface{}
	if ds.LastSyncAt != nil {
		lastSync = ds.LastSyncAt.Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO device_state (user_id, battery_level, connected, model, last_sync_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   battery_level = excluded.battery_level,
		   connected     = excluded.connected,
		   model         = excluded.model,
		   last_sync_at  = excluded.last_sync_at`,
		userID, ds.BatteryLevel, ds.Connected, ds.Model, lastSync,
	)
	return err
}

// ─── Accessibility Settings ─────────────────────────────────────────────────

// Accessibility returns a user's accessibility configuration.
// The second return is false when the user has never configured anything.
func (d *DB) Accessibility(userID string) (domain.AccessibilitySettings, bool, error) {
	var a domain.AccessibilitySettings

	err := d.db.QueryRow(
		`SELECT reduced_motion, screen_reader, assistive_tech, high_contrast, font_scale
		 FROM accessibility_settings WHERE user_id = ?`, userID,
	).Scan(&a.ReducedMotion, &a.ScreenReader, &a.AssistiveTech, &a.HighContrast, &a.FontScale)
	if err == sql.ErrNoRows {
		return a, false, nil
	}
	if err != nil {
		return a, false, err
	}
	return a, true, nil
}

// SaveAccessibility upserts a user's accessibility configuration.
func (d *DB) SaveAccessibility(userID string, a domain.AccessibilitySettings) error {
	_, err := d.db.Exec(
		`INSERT INTO accessibility_settings
		   (user_id, reduced_motion, screen_reader, assistive_tech, high_contrast, font_scale)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   reduced_motion = excluded.reduced_motion,
		   screen_reader  = excluded.screen_reader,
		   assistive_tech = excluded.assistive_tech,
		   high_contrast  = excluded.high_contrast,
		   font_scale     = excluded.font_scale`,
		userID, a.ReducedMotion, a.ScreenReader, a.AssistiveTech, a.HighContrast, a.FontScale,
	)
	return err
}
