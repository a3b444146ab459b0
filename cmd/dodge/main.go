// dodge is a terminal arcade game: keep your tiles out of the way of
// projectiles flying in from the edges of the play zone.
//
// Usage:
//
//	dodge list                 - List session categories
//	dodge play [category]      - Play a session
//	dodge menu                 - Pick categories interactively
//	dodge history [category]   - Show past results and stats
//	dodge simulate [category]  - Run headless sessions with the autopilot
//	dodge serve                - Start SSH server for remote play
//	dodge config               - Print the effective game config
//
// Global flags (each also read from a DODGE_* environment variable):
//
//	--fps <rate>          - Frame pump rate (default: 60)
//	--seed <value>        - RNG seed for reproducible sessions
//	--db <path>           - Results database (default: ~/.dodge/results.db)
//	--config <path>       - Game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
//	--category <id>       - Default category (overridden by a positional one)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagCategory   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dodge",
	Short: "Dodge - move your tiles out of the line of fire",
	Long: `Dodge is a terminal arcade game. Projectiles fly across the play zone
from all four edges; move your tiles between slots to let them pass.
Every dodge scores, consecutive dodges build a combo, and the pace
picks up as the session goes on.

Available commands:
  list      - Show session categories
  play      - Play a session directly
  menu      - Interactive category picker
  history   - View past results
  simulate  - Run headless sessions
  serve     - Start SSH server for remote play
  config    - Print the effective game config

Examples:
  dodge list
  dodge play classic
  dodge play blitz --difficulty hard
  dodge menu
  dodge simulate survival --runs 10
  dodge serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame pump rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dodge/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "easy", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagCategory, "category", "classic", "Default session category")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
