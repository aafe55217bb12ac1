package replay

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
)

// Recorder accumulates the inputs of a running session.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for a game created with rules and reset with rc.
func NewRecorder(gameID string, rules config.TetrisConfig, rc core.RuntimeConfig) (*Recorder, error) {
	data, err := config.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot snapshot rules: %w", err)
	}
	return &Recorder{rec: Recording{
		ID:       uuid.New(),
		Version:  Version,
		GameID:   gameID,
		Seed:     rc.Seed,
		TickRate: rc.TickRate,
		Config:   data,
	}}, nil
}

// ID returns the identifier the finished recording will carry.
func (r *Recorder) ID() uuid.UUID { return r.rec.ID }

// Record appends one tick of input.
func (r *Recorder) Record(in core.InputFrame) {
	r.rec.Inputs = append(r.rec.Inputs, Mask(in))
}

// Ticks returns how many ticks were recorded so far.
func (r *Recorder) Ticks() int { return len(r.rec.Inputs) }

// Finish closes the recording with the final score.
// The recorder stays usable; each call returns an independent copy.
func (r *Recorder) Finish(finalScore int, player string) *Recording {
	out := r.rec
	out.Inputs = slices.Clone(r.rec.Inputs)
	out.Config = slices.Clone(r.rec.Config)
	out.FinalScore = finalScore
	out.Player = player
	out.CreatedAt = time.Now().UTC()
	return &out
}
