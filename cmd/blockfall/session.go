package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// loadRules resolves the rules from --config and --difficulty.
func loadRules() (config.TetrisConfig, error) {
	rules, err := config.LoadTetris(flagConfig)
	if err != nil {
		return config.TetrisConfig{}, err
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return config.TetrisConfig{}, err
	}
	config.ApplyTetrisPreset(&rules, preset)
	return rules, nil
}

// buildGame creates the variant registered under id with the loaded rules.
func buildGame(id string) (*tetris.Game, error) {
	variant, ok := tetris.VariantForID(id)
	if !ok {
		return nil, fmt.Errorf("unknown game %q (run 'blockfall list' to see available games)", id)
	}
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}
	return tetris.NewWithConfig(rules, variant), nil
}

// gameFactory adapts buildGame to the menu and SSH server.
func gameFactory(id string) (registry.Game, error) {
	return buildGame(id)
}

// terminalSize probes stdout, falling back to 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

func runtimeConfig() core.RuntimeConfig {
	w, h := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the recordings database. A failure is reported as a
// warning and the caller continues without recording.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open recordings database: %v\n", err)
		return nil
	}
	return store
}

func saveRecording(store *storage.Store, rec *replay.Recording, logger *log.Logger) {
	if store == nil || rec == nil {
		return
	}
	if err := store.SaveRecording(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save recording: %v\n", err)
		return
	}
	logger.Info("recording saved", "id", rec.ID, "ticks", rec.Ticks(), "score", rec.FinalScore)
	fmt.Printf("Saved recording %s (score %d)\n", rec.ID.String()[:8], rec.FinalScore)
}

func playerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
