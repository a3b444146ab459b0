package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/platform/tui"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a category picker menu",
	Long: `Start in interactive menu mode.

Pick a category with the arrow keys, choose a difficulty with left/right
and press Enter to play. When a session ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate categories
  Left/Right   - Change difficulty
  Enter/Space  - Play
  Tab          - History
  Q            - Quit

Examples:
  dodge menu
  dodge menu --fps 30
  dodge menu --db ./results.db`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	s, err := resolveSettings(cmd, "")
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(s.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		store = nil
	}

	runErr := tui.RunApp(tui.AppOptions{
		Store:    store,
		Game:     s.game,
		Runtime:  s.runtime(),
		Category: s.category,
		Preset:   s.preset,
		Logger:   quietLogger(),
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("%v", runErr)
	}
}
