package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
)

func TestMaskRoundTrip(t *testing.T) {
	f := core.NewInputFrame()
	f.Set(core.ActionLeft)
	f.Set(core.ActionSoftDrop)
	f.Set(core.ActionQuit) // not part of the simulation

	back := Frame(Mask(f))
	if !back.Has(core.ActionLeft) || !back.Has(core.ActionSoftDrop) {
		t.Errorf("Frame(Mask()) lost actions")
	}
	if back.Has(core.ActionQuit) || back.Has(core.ActionRight) {
		t.Errorf("Frame(Mask()) added actions")
	}
	if Mask(core.NewInputFrame()) != 0 {
		t.Error("empty frame should mask to 0")
	}
}

func TestCompressInputs(t *testing.T) {
	inputs := make([]byte, 5000)
	for i := range inputs {
		inputs[i] = byte(i % 5)
	}

	data, err := CompressInputs(inputs)
	if err != nil {
		t.Fatalf("CompressInputs() failed: %v", err)
	}
	back, err := DecompressInputs(data)
	if err != nil {
		t.Fatalf("DecompressInputs() failed: %v", err)
	}
	if string(back) != string(inputs) {
		t.Error("inputs changed after compression round trip")
	}

	if _, err := DecompressInputs([]byte("not gzip")); err == nil {
		t.Error("DecompressInputs() should reject garbage")
	}
}

// record plays a scripted session and returns its recording.
func record(t *testing.T, gameID string, ticks int) *Recording {
	t.Helper()

	variant, _ := tetris.VariantForID(gameID)
	rules := config.DefaultTetrisConfig()
	rules.Gravity.Threshold = 10
	game := tetris.NewWithConfig(rules, variant)
	rc := core.RuntimeConfig{TickRate: 60, Seed: 2024}
	game.Reset(rc)

	rec, err := NewRecorder(gameID, game.Config(), rc)
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}

	for tick := range ticks {
		f := core.NewInputFrame()
		switch tick % 9 {
		case 1:
			f.Set(core.ActionLeft)
		case 4:
			f.Set(core.ActionRotate)
		case 6, 7:
			f.Set(core.ActionRight)
		}
		if tick%3 == 0 {
			f.Set(core.ActionSoftDrop)
		}
		rec.Record(f)
		game.Step(f)
	}

	if rec.Ticks() != ticks {
		t.Fatalf("Ticks() = %d, expected %d", rec.Ticks(), ticks)
	}
	return rec.Finish(game.Score(), "tester")
}

func TestRunReproducesScore(t *testing.T) {
	for _, id := range []string{tetris.IDClassic, tetris.IDStrict} {
		rec := record(t, id, 6000)

		res, err := Run(context.Background(), rec, nil)
		if err != nil {
			t.Fatalf("%s: Run() failed: %v", id, err)
		}
		if !res.Matches {
			t.Errorf("%s: re-simulated score %d, recorded %d", id, res.Score, res.Expected)
		}
		if res.Ticks != 6000 {
			t.Errorf("%s: Ticks = %d, expected 6000", id, res.Ticks)
		}
		if res.Final.Tick != 6000 {
			t.Errorf("%s: final snapshot tick = %d", id, res.Final.Tick)
		}
	}
}

func TestRunKeepsRecordedRules(t *testing.T) {
	rec := record(t, tetris.IDClassic, 10)

	game, err := rec.NewGame()
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	if game.Config().Gravity.Threshold != 10 {
		t.Errorf("Threshold = %d, expected recorded 10", game.Config().Gravity.Threshold)
	}
}

func TestRunRejectsVersion(t *testing.T) {
	rec := record(t, tetris.IDClassic, 10)
	rec.Version = Version + 1

	if _, err := Run(context.Background(), rec, nil); !errors.Is(err, ErrVersion) {
		t.Errorf("Run() error = %v, expected ErrVersion", err)
	}
}

func TestRunRejectsUnknownGame(t *testing.T) {
	rec := record(t, tetris.IDClassic, 10)
	rec.GameID = "pong"

	if _, err := Run(context.Background(), rec, nil); err == nil {
		t.Error("Run() should reject an unknown game")
	}
}

func TestRunCancelled(t *testing.T) {
	rec := record(t, tetris.IDClassic, 3000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, rec, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
}

func TestPlayback(t *testing.T) {
	rec := &Recording{Inputs: []byte{Mask(core.NewInputFrame()), 1 << 2}}
	pb := NewPlayback(rec)

	if pb.Len() != 2 || pb.Done() {
		t.Fatalf("Len() = %d, Done() = %v", pb.Len(), pb.Done())
	}
	pb.Next()
	in, ok := pb.Next()
	if !ok || !in.Has(core.ActionRotate) {
		t.Errorf("second tick = %v, %v; expected rotate", in, ok)
	}
	if _, ok := pb.Next(); ok || !pb.Done() {
		t.Error("playback should be exhausted")
	}
}

func TestFinishCopiesInputs(t *testing.T) {
	rec, err := NewRecorder(tetris.IDClassic, config.DefaultTetrisConfig(), core.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	rec.Record(core.NewInputFrame())
	first := rec.Finish(0, "")
	rec.Record(core.NewInputFrame())

	if first.Ticks() != 1 {
		t.Errorf("finished recording changed: %d ticks", first.Ticks())
	}
	if first.ID != rec.ID() || first.Version != Version {
		t.Errorf("Finish() = %+v", first)
	}
}
