package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective game config",
	Long: `Print the game config as YAML after the search order is applied:
--config / $DODGE_CONFIG, ~/.dodge/configs/dodge.yaml, ./configs/dodge.yaml,
then the built-in defaults. The difficulty preset is applied on top.

Copy the output to ~/.dodge/configs/dodge.yaml to customize.

Examples:
  dodge config
  dodge config --difficulty hard
  dodge config --defaults > ~/.dodge/configs/dodge.yaml`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults only")
}

func runConfig(cmd *cobra.Command, _ []string) {
	if flagConfigDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return
	}

	s, err := resolveSettings(cmd, "")
	if err != nil {
		fail("%v", err)
	}

	cfg := s.game
	config.ApplyPreset(&cfg, s.preset)
	out, err := config.Marshal(cfg)
	if err != nil {
		fail("encoding config: %v", err)
	}
	fmt.Printf("# difficulty: %s\n", s.preset)
	fmt.Print(string(out))
}
