package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/platform/tui"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [category]",
	Short: "Play a session",
	Long: `Start a session in the given category (default: $DODGE_CATEGORY or classic).

Controls:
  Arrows/WASD  - Move the selected tile
  Tab/Space    - Select the next tile
  P            - Pause/resume
  Esc          - Pause, then leave
  R            - Restart (after the session ended)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start calm, ramp to the fastest pace
  normal - Start at 30% pace, ramp to max
  hard   - Start at 70% pace with faster projectiles
  fixed  - No ramp, stays at the config's initial level

Examples:
  dodge play
  dodge play survival --difficulty hard
  dodge play blitz --seed 42
  dodge play classic --config ./my-dodge.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	s, err := resolveSettings(cmd, category)
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(s.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - the session still works
		store = nil
	}

	runErr := tui.RunPlay(tui.PlayOptions{
		Category: s.category,
		Game:     s.game,
		Preset:   s.preset,
		Runtime:  s.runtime(),
		Store:    store,
		Logger:   quietLogger(),
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running session: %v", runErr)
	}
}
