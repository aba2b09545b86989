package gamification

import (
	"sort"

	"github.com/fanpulse/fanpulse/internal/domain"
	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

// DefaultLeaderboardLimit is used when the caller passes limit <= 0.
const DefaultLeaderboardLimit = 10

// Ranker computes read-only leaderboards over all active users' ledger rows.
// It depends on stored fields only and mutates nothing.
type Ranker struct {
	db *sqlite.DB
}

// NewRanker creates a ranker over the given store.
func NewRanker(db *sqlite.DB) *Ranker {
	return &Ranker{db: db}
}

// Leaderboard returns the top entries for a metric. Unrecognized metrics
// behave identically to experience. Rank is 1-based strict positional order;
// the sort is stable, so equal keys keep the store's user-id order.
func (r *Ranker) Leaderboard(metric domain.LeaderboardMetric, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.ActiveLeaderboardRows()
	if err != nil {
		return nil, err
	}

	metric = domain.ParseLeaderboardMetric(string(metric))
	switch metric {
	case domain.MetricLevel:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Level != rows[j].Level {
				return rows[i].Level > rows[j].Level
			}
			return rows[i].Experience > rows[j].Experience
		})
	case domain.MetricStreak:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].LongestStreak > rows[j].LongestStreak
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Experience > rows[j].Experience
		})
	}

	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			MetricValue: metricValue(metric, row),
		}
	}
	return entries, nil
}

func metricValue(metric domain.LeaderboardMetric, row domain.LeaderboardRow) int64 {
	switch metric {
	case domain.MetricLevel:
		return int64(row.Level)
	case domain.MetricStreak:
		return int64(row.LongestStreak)
	default:
		return row.Experience
	}
}
