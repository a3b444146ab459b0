package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/registry"
)

// settings is the merged view of flags, DODGE_* variables and the game config.
type settings struct {
	fps      int
	seed     int64
	dbPath   string
	preset   config.DifficultyPreset
	category string
	level    log.Level
	game     config.DodgeConfig
}

// resolveSettings merges the environment under the flags: a flag set on
// the command line wins, otherwise a non-empty DODGE_* value does.
func resolveSettings(cmd *cobra.Command, category string) (settings, error) {
	e, err := config.LoadEnv()
	if err != nil {
		return settings{}, err
	}
	flags := cmd.Flags()

	s := settings{
		fps:      flagFPS,
		seed:     flagSeed,
		dbPath:   flagDBPath,
		category: flagCategory,
	}
	if !flags.Changed("fps") && e.FPS > 0 {
		s.fps = e.FPS
	}
	if !flags.Changed("seed") && e.Seed != 0 {
		s.seed = e.Seed
	}
	if !flags.Changed("db") && e.DBPath != "" {
		s.dbPath = e.DBPath
	}
	if !flags.Changed("category") && e.Category != "" {
		s.category = e.Category
	}
	if category != "" {
		s.category = category
	}
	if !registry.Exists(s.category) {
		return settings{}, fmt.Errorf("unknown category %q (run 'dodge list')", s.category)
	}

	difficulty := flagDifficulty
	if !flags.Changed("difficulty") && e.Difficulty != "" {
		difficulty = e.Difficulty
	}
	if s.preset, err = config.ParsePreset(difficulty); err != nil {
		return settings{}, err
	}

	levelName := flagLogLevel
	if !flags.Changed("log-level") && e.LogLevel != "" {
		levelName = e.LogLevel
	}
	if s.level, err = log.ParseLevel(levelName); err != nil {
		return settings{}, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	configPath := flagConfig
	if !flags.Changed("config") && e.ConfigPath != "" {
		configPath = e.ConfigPath
	}
	if s.game, err = config.Load(configPath); err != nil {
		return settings{}, err
	}

	return s, nil
}

// logger returns a stderr logger at the configured level.
func (s settings) logger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "dodge",
		Level:           s.level,
	})
}

// quietLogger is used while the alternate screen owns the terminal.
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// runtime returns the terminal geometry and timing for interactive play.
func (s settings) runtime() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = s.fps
	cfg.Seed = s.seed
	return cfg
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
