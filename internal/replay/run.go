package replay

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
)

// checkEvery is how many ticks run between context checks.
const checkEvery = 1024

// Result summarizes a headless re-simulation.
type Result struct {
	Ticks    int
	Score    int
	Lines    int
	TopOuts  int
	Expected int  // score stored in the recording
	Matches  bool // re-simulated score equals Expected
	Final    tetris.Snapshot
}

// Run re-simulates rec without a screen and compares the final score.
// logger may be nil.
func Run(ctx context.Context, rec *Recording, logger *log.Logger) (Result, error) {
	game, err := rec.NewGame()
	if err != nil {
		return Result{}, err
	}
	game.Reset(rec.RuntimeConfig(0, 0))

	pb := NewPlayback(rec)
	for {
		in, ok := pb.Next()
		if !ok {
			break
		}
		if pb.Position()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		res := game.Step(in)
		if logger != nil {
			logEvents(logger, pb.Position(), res)
		}
	}

	r := Result{
		Ticks:    pb.Position(),
		Score:    game.Score(),
		Lines:    game.Lines(),
		TopOuts:  game.TopOuts(),
		Expected: rec.FinalScore,
		Final:    game.Snapshot(),
	}
	r.Matches = r.Score == r.Expected
	return r, nil
}

func logEvents(logger *log.Logger, tick int, res core.StepResult) {
	for _, ev := range res.Events {
		switch ev.Kind {
		case core.EventLinesCleared:
			logger.Debug("lines cleared", "tick", tick, "lines", ev.Value, "score", res.State.Score)
		case core.EventToppedOut:
			logger.Info("board reset", "tick", tick, "penalty", ev.Value, "score", res.State.Score)
		}
	}
}
