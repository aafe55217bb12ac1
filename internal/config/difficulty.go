package config

import "fmt"

// DifficultyPreset represents a named gravity setting chosen at startup.
// There is no in-game speed progression; the preset only picks the
// fall threshold the whole session runs with.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty validates a preset name. The empty string means fixed.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyFixed, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return DifficultyFixed, fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// ThresholdForPreset returns the gravity threshold for a preset and whether
// the preset overrides the configured value at all.
func ThresholdForPreset(preset DifficultyPreset) (int, bool) {
	switch preset {
	case DifficultyEasy:
		return 45, true
	case DifficultyNormal:
		return 30, true
	case DifficultyHard:
		return 15, true
	default:
		return 0, false
	}
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if threshold, ok := ThresholdForPreset(preset); ok {
		cfg.Gravity.Threshold = threshold
	}
}
