// Package config provides YAML-based rules configuration loading and
// difficulty presets for the falling-block game.
package config

import (
	"errors"
	"fmt"
)

// Rotation modes.
const (
	RotationFree    = "free"
	RotationChecked = "checked"
)

// Minimum board storage size: a centered spawn needs two columns left of the
// anchor and one to its right, plus the hidden margin column.
const (
	MinColumns = 5
	MinRows    = 3
)

// TetrisConfig contains all configuration for the falling-block game.
type TetrisConfig struct {
	Board   BoardConfig   `yaml:"board"`
	Gravity GravityConfig `yaml:"gravity"`
	Scoring ScoringConfig `yaml:"scoring"`
	Rules   RulesConfig   `yaml:"rules"`
	Input   InputConfig   `yaml:"input"`
}

// BoardConfig defines the grid storage size, including hidden margins.
type BoardConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// GravityConfig defines the fixed-step fall timer.
type GravityConfig struct {
	Threshold int `yaml:"threshold"`
}

// ScoringConfig defines the fixed reward and penalty values.
type ScoringConfig struct {
	LineReward    int `yaml:"line_reward"`
	TopOutPenalty int `yaml:"topout_penalty"`
}

// RulesConfig selects between literal classic behaviour and validated moves.
type RulesConfig struct {
	Rotation   string `yaml:"rotation"`
	SolidSides bool   `yaml:"solid_sides"`
}

// InputConfig defines platform input tuning.
type InputConfig struct {
	SoftDropHoldTicks int `yaml:"soft_drop_hold_ticks"`
}

// Strict returns a copy of the config with validated rotation and solid sides.
func (c TetrisConfig) Strict() TetrisConfig {
	c.Rules.Rotation = RotationChecked
	c.Rules.SolidSides = true
	return c
}

// CheckedRotation reports whether rotations are validated.
func (c TetrisConfig) CheckedRotation() bool {
	return c.Rules.Rotation == RotationChecked
}

// Validate reports every problem with the config joined into one error.
func (c TetrisConfig) Validate() error {
	var errs []error
	if c.Board.Columns < MinColumns {
		errs = append(errs, fmt.Errorf("board.columns must be at least %d, got %d", MinColumns, c.Board.Columns))
	}
	if c.Board.Rows < MinRows {
		errs = append(errs, fmt.Errorf("board.rows must be at least %d, got %d", MinRows, c.Board.Rows))
	}
	if c.Gravity.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("gravity.threshold must be positive, got %d", c.Gravity.Threshold))
	}
	if c.Scoring.LineReward < 0 {
		errs = append(errs, fmt.Errorf("scoring.line_reward must not be negative, got %d", c.Scoring.LineReward))
	}
	if c.Scoring.TopOutPenalty < 0 {
		errs = append(errs, fmt.Errorf("scoring.topout_penalty must not be negative, got %d", c.Scoring.TopOutPenalty))
	}
	switch c.Rules.Rotation {
	case RotationFree, RotationChecked:
	default:
		errs = append(errs, fmt.Errorf("rules.rotation must be %q or %q, got %q", RotationFree, RotationChecked, c.Rules.Rotation))
	}
	if c.Input.SoftDropHoldTicks < 0 {
		errs = append(errs, fmt.Errorf("input.soft_drop_hold_ticks must not be negative, got %d", c.Input.SoftDropHoldTicks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid tetris config: %w", errors.Join(errs...))
	}
	return nil
}
