package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in rules, matching defaults/tetris.yaml.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Columns: 11,
			Rows:    21,
		},
		Gravity: GravityConfig{
			Threshold: 30,
		},
		Scoring: ScoringConfig{
			LineReward:    3,
			TopOutPenalty: 5,
		},
		Rules: RulesConfig{
			Rotation:   RotationFree,
			SolidSides: false,
		},
		Input: InputConfig{
			SoftDropHoldTicks: 6,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultTetrisYAML
}
