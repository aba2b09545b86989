package gamification

import "testing"

func TestThresholdForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 1000},
		{2, 1200},
		{3, 1440},
		{4, 1728},
		{5, 2073},
		{10, 5159},
	}
	for _, tc := range cases {
		if got := ThresholdForLevel(tc.level); got != tc.want {
			t.Errorf("ThresholdForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestThresholdForLevelClamps(t *testing.T) {
	if got := ThresholdForLevel(0); got != 1000 {
		t.Errorf("ThresholdForLevel(0) = %d, want 1000", got)
	}
	if got := ThresholdForLevel(MaxLevel + 5); got != ThresholdForLevel(MaxLevel) {
		t.Errorf("ThresholdForLevel above cap = %d, want %d", got, ThresholdForLevel(MaxLevel))
	}
}

func TestLevelForExperience(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{999, 1},
		{1199, 1},
		{1200, 2},
		{1439, 2},
		{1440, 3},
		{1500, 3},
		{1727, 3},
		{1728, 4},
	}
	for _, tc := range cases {
		if got := LevelForExperience(tc.xp); got != tc.want {
			t.Errorf("LevelForExperience(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelCapsAtMax(t *testing.T) {
	if got := LevelForExperience(1 << 60); got != MaxLevel {
		t.Errorf("LevelForExperience(huge) = %d, want %d", got, MaxLevel)
	}
}

func TestLevelFromNeverLowers(t *testing.T) {
	// A stored level stays put even when the experience total sits below
	// its threshold.
	if got := levelFrom(5, 100); got != 5 {
		t.Errorf("levelFrom(5, 100) = %d, want 5", got)
	}
}

func TestExperienceToNextLevel(t *testing.T) {
	if got := ExperienceToNextLevel(1, 0); got != 1200 {
		t.Errorf("ExperienceToNextLevel(1, 0) = %d, want 1200", got)
	}
	if got := ExperienceToNextLevel(3, 1500); got != 228 {
		t.Errorf("ExperienceToNextLevel(3, 1500) = %d, want 228", got)
	}
	// A level-up already due reports zero, never a negative remainder.
	if got := ExperienceToNextLevel(2, 5000); got != 0 {
		t.Errorf("ExperienceToNextLevel(2, 5000) = %d, want 0", got)
	}
	if got := ExperienceToNextLevel(MaxLevel, 1<<60); got != 0 {
		t.Errorf("ExperienceToNextLevel at cap = %d, want 0", got)
	}
}
