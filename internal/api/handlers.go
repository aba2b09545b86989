package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fanpulse/fanpulse/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

type createUserRequest struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	profile := domain.Profile{
		UserID:      uuid.NewString(),
		DisplayName: req.DisplayName,
		Language:    req.Language,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.db.CreateProfile(profile); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.db.Profile(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ─── Collaborator Patches ───────────────────────────────────────────────────
// Each patch is a typed partial update applied through the record's single
// merge function, and each one invalidates the user's recommendation cache.

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := s.db.Profile(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	patch.Apply(&profile)
	if err := s.db.SaveProfile(profile); err != nil {
		writeDomainError(w, err)
		return
	}

	// Favorites and a filled-out profile count toward content achievements.
	if patch.Favorites != nil && len(profile.Favorites) > 0 {
		if _, err := s.ledger.GrantAchievement(userID, "first_favorite", 100); err != nil {
			writeDomainError(w, err)
			return
		}
		progress := len(profile.Favorites) * 10
		if _, err := s.ledger.GrantAchievement(userID, "collector_10", progress); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if profile.DisplayName != "" && profile.Language != "" {
		if _, err := s.ledger.GrantAchievement(userID, "profile_complete", 100); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	s.optimizer.Invalidate(userID)
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePatchDevice(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var patch domain.DevicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exists, err := s.db.UserExists(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !exists {
		writeDomainError(w, domain.ErrUserNotFound)
		return
	}

	device, _, err := s.db.DeviceState(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	patch.Apply(&device)
	if err := s.db.SaveDeviceState(userID, device); err != nil {
		writeDomainError(w, err)
		return
	}

	// A completed sync is a qualifying activity: it earns experience (which
	// advances the streak) and unlocks the first-sync achievement.
	if patch.LastSyncAt != nil {
		if _, err := s.ledger.GrantAchievement(userID, "first_device_sync", 100); err != nil {
			writeDomainError(w, err)
			return
		}
		if _, err := s.ledger.AddExperience(userID, 10, "device_sync"); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	s.optimizer.Invalidate(userID)
	writeJSON(w, http.StatusOK, device)
}

func (s *Server) handlePatchAccessibility(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var patch domain.AccessibilityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exists, err := s.db.UserExists(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !exists {
		writeDomainError(w, domain.ErrUserNotFound)
		return
	}

	settings, _, err := s.db.Accessibility(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	patch.Apply(&settings)
	if err := s.db.SaveAccessibility(userID, settings); err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.ledger.GrantAchievement(userID, "accessibility_setup", 100); err != nil {
		writeDomainError(w, err)
		return
	}

	s.optimizer.Invalidate(userID)
	writeJSON(w, http.StatusOK, settings)
}

// ─── Gamification Ledger ────────────────────────────────────────────────────

type gamificationResponse struct {
	domain.UserGamification
	ExperienceToNextLevel int64 `json:"experience_to_next_level"`
}

func (s *Server) handleGamification(w http.ResponseWriter, r *http.Request) {
	state, err := s.ledger.State(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamificationResponse{
		UserGamification:      state,
		ExperienceToNextLevel: s.ledger.ExperienceToNext(state),
	})
}

type addExperienceRequest struct {
	Points int64  `json:"points"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req addExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.ledger.AddExperience(userID, req.Points, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.optimizer.Invalidate(userID)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExperienceLog(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	exists, err := s.db.UserExists(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !exists {
		writeDomainError(w, domain.ErrUserNotFound)
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"), 50)
	entries, err := s.db.ExperienceLog(userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

type grantRequest struct {
	Progress *int `json:"progress,omitempty"`
}

func (s *Server) handleGrantAchievement(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	achievementID := chi.URLParam(r, "achievementID")

	// Body is optional; an absent progress means a full grant.
	progress := 100
	if r.Body != nil && r.ContentLength != 0 {
		var req grantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Progress != nil {
			progress = *req.Progress
		}
	}

	result, err := s.ledger.GrantAchievement(userID, achievementID, progress)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.optimizer.Invalidate(userID)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := s.ledger.ResetUserProgress(userID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.optimizer.Invalidate(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": s.ledger.Catalog(),
	})
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric := domain.ParseLeaderboardMetric(r.URL.Query().Get("metric"))
	limit := parseLimit(r.URL.Query().Get("limit"), 0)

	entries, err := s.ranker.Leaderboard(metric, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric":  metric,
		"entries": entries,
	})
}

// ─── Optimizations ──────────────────────────────────────────────────────────

func (s *Server) handleOptimizations(w http.ResponseWriter, r *http.Request) {
	set, err := s.optimizer.AllOptimizations(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleClearOptimizations(w http.ResponseWriter, r *http.Request) {
	s.optimizer.Invalidate(chi.URLParam(r, "userID"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleClearAllOptimizations(w http.ResponseWriter, r *http.Request) {
	s.optimizer.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// parseLimit parses a limit query parameter, falling back on bad input.
func parseLimit(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
