package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/desktop"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagWindow     bool
	flagRecord     bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a variant",
	Long: `Start playing the specified variant.

Controls (terminal):
  Left/h/a, Right/l/d  - Shift piece
  Up/k/w               - Rotate
  Down/j/s             - Soft drop
  P                    - Pause
  Esc/B                - Back (while paused)
  Q/Ctrl+C             - Quit

Controls (window):
  Left/Right  - Shift piece
  Up          - Rotate
  Down        - Soft drop while held
  P           - Pause
  Q/Esc       - Quit

Difficulty options:
  easy   - Slow gravity
  normal - Default gravity
  hard   - Fast gravity
  fixed  - Keep the config's gravity

Examples:
  blockfall play tetris
  blockfall play tetris_strict --difficulty hard
  blockfall play tetris --window --record
  blockfall play tetris --config ./my-rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagWindow, "window", false, "Play in a desktop window instead of the terminal")
	playCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the session for replay")
}

func runPlay(_ *cobra.Command, args []string) error {
	game, err := buildGame(args[0])
	if err != nil {
		return err
	}

	var store *storage.Store
	if flagRecord {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}

	if flagWindow {
		return playWindow(game, store)
	}
	return playTerminal(game, store)
}

func playTerminal(game *tetris.Game, store *storage.Store) error {
	logger, cleanup, err := newLogger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := []tui.ModelOption{
		tui.WithLogger(logger),
		tui.WithSoftDropHold(game.Config().Input.SoftDropHoldTicks),
	}
	if store != nil {
		opts = append(opts, tui.WithRecording(playerName()))
	}

	res, err := tui.Run(game, runtimeConfig(), opts...)
	if err != nil {
		return err
	}
	saveRecording(store, res.Recording, logger)
	fmt.Printf("Final score: %d\n", res.Score)
	return nil
}

func playWindow(game *tetris.Game, store *storage.Store) error {
	logger, cleanup, err := newLogger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := []desktop.Option{desktop.WithLogger(logger)}
	if store != nil {
		opts = append(opts, desktop.WithRecording(playerName()))
	}

	w, err := desktop.New(game, runtimeConfig(), opts...)
	if err != nil {
		return err
	}
	if err := desktop.Run(w, "Blockfall - "+game.Title()); err != nil {
		return err
	}
	saveRecording(store, w.Recording(), logger)
	fmt.Printf("Final score: %d\n", game.Score())
	return nil
}

// replayWindow plays rec back in a desktop window.
func replayWindow(rec *replay.Recording) error {
	logger, cleanup, err := newLogger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	game, err := rec.NewGame()
	if err != nil {
		return err
	}
	w, err := desktop.New(game, rec.RuntimeConfig(0, 0),
		desktop.WithLogger(logger),
		desktop.WithPlayback(replay.NewPlayback(rec)),
	)
	if err != nil {
		return err
	}
	return desktop.Run(w, "Blockfall - replay "+rec.ID.String()[:8])
}
