package gamification

import "math/big"

// MaxLevel caps level progression regardless of experience.
const MaxLevel = 100

// thresholds[L] is the total experience required to hold level L:
// floor(1000 * 1.2^(L-1)), defined for L in [1, MaxLevel].
// Built with integer arithmetic (1000 * 12^(L-1) / 10^(L-1)) because the
// float64 power rounds below the exact floor at some levels.
var thresholds = buildThresholds()

func buildThresholds() [MaxLevel + 1]int64 {
	var t [MaxLevel + 1]int64
	num := big.NewInt(1000)
	den := big.NewInt(1)
	twelve := big.NewInt(12)
	ten := big.NewInt(10)
	for l := 1; l <= MaxLevel; l++ {
		t[l] = new(big.Int).Quo(num, den).Int64()
		num.Mul(num, twelve)
		den.Mul(den, ten)
	}
	return t
}

// ThresholdForLevel returns the total experience required to hold a level.
func ThresholdForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return thresholds[level]
}

// levelFrom scans the threshold table upward from start, never downward,
// until the first level whose threshold exceeds xp. A stored level is
// therefore never lowered by an experience award.
func levelFrom(start int, xp int64) int {
	level := start
	if level < 1 {
		level = 1
	}
	for level < MaxLevel && xp >= thresholds[level+1] {
		level++
	}
	return level
}

// LevelForExperience returns the level for a given experience total:
// the largest L <= MaxLevel such that ThresholdForLevel(L) <= xp, floored
// at level 1.
func LevelForExperience(xp int64) int {
	return levelFrom(1, xp)
}

// ExperienceToNextLevel returns the experience remaining until the next
// level. A remainder that would go negative (a level-up is due but the level
// has not been recomputed yet) reports 0: eligible now.
func ExperienceToNextLevel(level int, xp int64) int64 {
	if level >= MaxLevel {
		return 0
	}
	remaining := ThresholdForLevel(level+1) - xp
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
