package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a variant picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a variant.
Every session is recorded; the Recordings entry lists them for playback.
After a game ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  blockfall menu
  blockfall menu --fps 30
  blockfall menu --db ./recordings.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, cleanup, err := newLogger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(cfg, store != nil)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.OpenRecordings {
			back, err := browseRecordings(store, cfg, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if back {
				continue
			}
			return nil
		}

		if menuResult.GameID == "" {
			return nil
		}

		game, err := buildGame(menuResult.GameID)
		if err != nil {
			return err
		}

		opts := []tui.ModelOption{
			tui.WithLogger(logger),
			tui.WithBackToMenu(),
			tui.WithSoftDropHold(game.Config().Input.SoftDropHoldTicks),
		}
		if store != nil {
			opts = append(opts, tui.WithRecording(playerName()))
		}

		// Seed 0 picks a fresh seed per game
		cfg.Seed = flagSeed

		res, err := tui.Run(game, cfg, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		saveRecording(store, res.Recording, logger)
	}
}

// browseRecordings shows the recordings table and plays back the pick.
// It reports whether the user asked to go back to the menu.
func browseRecordings(store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (bool, error) {
	if store == nil {
		return true, nil
	}
	for {
		res, err := tui.RunRecordings(store, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			return false, err
		}
		if res.Selected == nil {
			return res.Back, nil
		}

		rec, err := store.Recording(*res.Selected)
		if err != nil {
			return true, err
		}
		if err := playbackTerminal(rec, cfg, logger); err != nil {
			return true, err
		}
	}
}

// playbackTerminal plays rec back in the terminal at its recorded tick rate.
func playbackTerminal(rec *replay.Recording, cfg core.RuntimeConfig, logger *log.Logger) error {
	game, err := rec.NewGame()
	if err != nil {
		return err
	}
	_, err = tui.Run(game, rec.RuntimeConfig(cfg.ScreenW, cfg.ScreenH),
		tui.WithLogger(logger),
		tui.WithPlayback(replay.NewPlayback(rec)),
		tui.WithBackToMenu(),
	)
	return err
}
