package replay

import "github.com/vovakirdan/blockfall/internal/core"

// Playback feeds recorded inputs back one tick at a time.
type Playback struct {
	inputs []byte
	pos    int
}

// NewPlayback starts at the first recorded tick.
func NewPlayback(rec *Recording) *Playback {
	return &Playback{inputs: rec.Inputs}
}

// Next returns the input for the next tick. ok is false once the recording
// is exhausted.
func (p *Playback) Next() (in core.InputFrame, ok bool) {
	if p.pos >= len(p.inputs) {
		return core.InputFrame{}, false
	}
	in = Frame(p.inputs[p.pos])
	p.pos++
	return in, true
}

// Done reports whether every tick was consumed.
func (p *Playback) Done() bool { return p.pos >= len(p.inputs) }

// Position returns the number of ticks played so far.
func (p *Playback) Position() int { return p.pos }

// Len returns the total number of ticks.
func (p *Playback) Len() int { return len(p.inputs) }
