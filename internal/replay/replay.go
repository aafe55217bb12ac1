// Package replay records the per-tick input of a session so that it can be
// played back or re-simulated later. A recording holds everything the game
// needs to reproduce itself: seed, variant, the rules in effect and one
// input mask per tick.
package replay

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
)

// Version is the format of the recorded input masks. Bump it whenever the
// mask layout or the tick semantics change; older recordings are rejected.
const Version = 1

// ErrVersion is returned for recordings made with a different Version.
var ErrVersion = errors.New("replay: unsupported recording version")

// recordedActions are the actions that influence the simulation, in bit order.
var recordedActions = [...]core.Action{
	core.ActionLeft,
	core.ActionRight,
	core.ActionRotate,
	core.ActionSoftDrop,
	core.ActionPause,
}

// Recording is one captured session.
type Recording struct {
	ID         uuid.UUID
	Version    int
	GameID     string
	Player     string
	Seed       int64
	TickRate   int
	Config     []byte // YAML rules snapshot
	Inputs     []byte // one mask per tick
	FinalScore int
	CreatedAt  time.Time
}

// Ticks returns the recorded session length.
func (r *Recording) Ticks() int { return len(r.Inputs) }

// Duration returns the wall-clock length at the recorded tick rate.
func (r *Recording) Duration() time.Duration {
	if r.TickRate <= 0 {
		return 0
	}
	return time.Duration(len(r.Inputs)) * time.Second / time.Duration(r.TickRate)
}

// Check validates the recording's version and game.
func (r *Recording) Check() error {
	if r.Version != Version {
		return fmt.Errorf("%w: got %d, want %d", ErrVersion, r.Version, Version)
	}
	if _, ok := tetris.VariantForID(r.GameID); !ok {
		return fmt.Errorf("replay: unknown game %q", r.GameID)
	}
	return nil
}

// Rules decodes the stored rules snapshot.
func (r *Recording) Rules() (config.TetrisConfig, error) {
	cfg, err := config.Parse(r.Config)
	if err != nil {
		return config.TetrisConfig{}, fmt.Errorf("replay: bad rules snapshot: %w", err)
	}
	return cfg, nil
}

// NewGame builds the game the recording was made with. The caller resets it
// with RuntimeConfig.
func (r *Recording) NewGame() (*tetris.Game, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}
	cfg, err := r.Rules()
	if err != nil {
		return nil, err
	}
	variant, _ := tetris.VariantForID(r.GameID)
	return tetris.NewWithConfig(cfg, variant), nil
}

// RuntimeConfig returns the runtime settings for re-creating the session on a
// screen of the given size.
func (r *Recording) RuntimeConfig(screenW, screenH int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  screenW,
		ScreenH:  screenH,
		TickRate: r.TickRate,
		Seed:     r.Seed,
	}
}

// Mask packs the recorded actions of a frame into one byte.
func Mask(in core.InputFrame) byte {
	var m byte
	for bit, a := range recordedActions {
		if in.Has(a) {
			m |= 1 << bit
		}
	}
	return m
}

// Frame expands a mask back into an input frame.
func Frame(m byte) core.InputFrame {
	f := core.NewInputFrame()
	for bit, a := range recordedActions {
		if m&(1<<bit) != 0 {
			f.Set(a)
		}
	}
	return f
}

// CompressInputs gzips the input masks for storage.
func CompressInputs(inputs []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(inputs); err != nil {
		return nil, fmt.Errorf("replay: cannot compress inputs: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("replay: cannot compress inputs: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressInputs reverses CompressInputs.
func DecompressInputs(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("replay: cannot decompress inputs: %w", err)
	}
	defer zr.Close()

	inputs, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot decompress inputs: %w", err)
	}
	return inputs, nil
}
