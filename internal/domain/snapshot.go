package domain

import "time"

// ─── Collaborator Snapshot Types ────────────────────────────────────────────
// Point-in-time records supplied by the persistence collaborator. The
// recommendation engine consumes these; it never fetches them itself.

// Profile is a user's account record.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Language    string    `json:"language,omitempty"`
	Favorites   []string  `json:"favorites,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeviceState is a wearable-device snapshot from the last sync.
type DeviceState struct {
	BatteryLevel int        `json:"battery_level"`
	Connected    bool       `json:"connected"`
	Model        string     `json:"model,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
}

// AccessibilitySettings is a user's accessibility configuration.
type AccessibilitySettings struct {
	ReducedMotion bool    `json:"reduced_motion"`
	ScreenReader  bool    `json:"screen_reader"`
	AssistiveTech bool    `json:"assistive_tech"`
	HighContrast  bool    `json:"high_contrast"`
	FontScale     float64 `json:"font_scale"`
}

// Advanced reports whether any advanced display setting is active.
func (a AccessibilitySettings) Advanced() bool {
	return a.HighContrast || (a.FontScale != 0 && a.FontScale != 1)
}

// ─── Partial Updates ────────────────────────────────────────────────────────
// Collaborator mutations arrive as typed patches with named optional fields,
// applied through a single merge function per record. A nil field leaves the
// stored value untouched, so the set of mutable fields is closed.

// ProfilePatch is a partial update to a Profile.
type ProfilePatch struct {
	DisplayName *string   `json:"display_name,omitempty"`
	Language    *string   `json:"language,omitempty"`
	Favorites   *[]string `json:"favorites,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}

// Apply merges the patch into p. Nil fields are skipped.
func (pp ProfilePatch) Apply(p *Profile) {
	if pp.DisplayName != nil {
		p.DisplayName = *pp.DisplayName
	}
	if pp.Language != nil {
		p.Language = *pp.Language
	}
	if pp.Favorites != nil {
		p.Favorites = *pp.Favorites
	}
	if pp.Active != nil {
		p.Active = *pp.Active
	}
}

// DevicePatch is a partial update to a DeviceState.
type DevicePatch struct {
	BatteryLevel *int       `json:"battery_level,omitempty"`
	Connected    *bool      `json:"connected,omitempty"`
	Model        *string    `json:"model,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
}

// Apply merges the patch into d. Nil fields are skipped.
func (dp DevicePatch) Apply(d *DeviceState) {
	if dp.BatteryLevel != nil {
		d.BatteryLevel = *dp.BatteryLevel
	}
	if dp.Connected != nil {
		d.Connected = *dp.Connected
	}
	if dp.Model != nil {
		d.Model = *dp.Model
	}
	if dp.LastSyncAt != nil {
		d.LastSyncAt = dp.LastSyncAt
	}
}

// AccessibilityPatch is a partial update to AccessibilitySettings.
type AccessibilityPatch struct {
	ReducedMotion *bool    `json:"reduced_motion,omitempty"`
	ScreenReader  *bool    `json:"screen_reader,omitempty"`
	AssistiveTech *bool    `json:"assistive_tech,omitempty"`
	HighContrast  *bool    `json:"high_contrast,omitempty"`
	FontScale     *float64 `json:"font_scale,omitempty"`
}

// Apply merges the patch into a. Nil fields are skipped.
func (ap AccessibilityPatch) Apply(a *AccessibilitySettings) {
	if ap.ReducedMotion != nil {
		a.ReducedMotion = *ap.ReducedMotion
	}
	if ap.ScreenReader != nil {
		a.ScreenReader = *ap.ScreenReader
	}
	if ap.AssistiveTech != nil {
		a.AssistiveTech = *ap.AssistiveTech
	}
	if ap.HighContrast != nil {
		a.HighContrast = *ap.HighContrast
	}
	if ap.FontScale != nil {
		a.FontScale = *ap.FontScale
	}
}
