// blockfall is a falling-block puzzle for the terminal, a desktop window or
// remote play over SSH.
//
// Usage:
//
//	blockfall list              - List available variants
//	blockfall play <game>       - Play a variant
//	blockfall menu              - Pick a variant or a recording interactively
//	blockfall serve             - Start SSH server for remote play
//	blockfall replays           - List recorded sessions
//	blockfall replay <id>       - Play back or verify a recording
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.blockfall/recordings.db)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/tetris"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle",
	Long: `Blockfall is a falling-block puzzle that runs in your terminal,
in a desktop window, or over SSH.

Available commands:
  list     - Show all available variants
  play     - Play a variant directly
  menu     - Interactive picker menu
  serve    - Start SSH server for remote play
  replays  - List recorded sessions
  replay   - Play back a recorded session

Examples:
  blockfall list
  blockfall play tetris
  blockfall play tetris_strict --window
  blockfall menu
  blockfall serve --ssh :2222
  blockfall replay 3f2a9c1e --headless`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/recordings.db", "Path to recordings database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
}
