// Package registry provides a global registry of session categories.
// Categories register themselves in init() functions, allowing the
// platform to list and start them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/session"
)

// Category describes one way to play a session.
type Category struct {
	// ID is a unique identifier (e.g., "classic", "blitz").
	// Used for CLI commands and result storage.
	ID string

	// Title is a human-readable name for display.
	Title string

	// Description is a one-line summary for menus.
	Description string

	// Apply adjusts a configuration built from the game config to this
	// category's rules.
	Apply func(*session.Configuration)
}

var (
	categories = make(map[string]Category)
	mu         sync.RWMutex
)

// Register adds a category to the registry.
// Panics if a category with the same ID is already registered.
func Register(c Category) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := categories[c.ID]; exists {
		panic(fmt.Sprintf("registry: category %q already registered", c.ID))
	}
	categories[c.ID] = c
}

// List returns all registered categories, sorted by ID.
func List() []Category {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Category, 0, len(categories))
	for _, c := range categories {
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns a category by its ID.
// Returns an error if the category ID is not registered.
func Get(id string) (Category, error) {
	mu.RLock()
	defer mu.RUnlock()

	c, ok := categories[id]
	if !ok {
		return Category{}, fmt.Errorf("registry: unknown category %q", id)
	}
	return c, nil
}

// Exists checks if a category with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := categories[id]
	return ok
}

// Configure builds a session configuration for category id from the game
// config, a difficulty preset and an RNG seed.
func Configure(id string, cfg config.DodgeConfig, preset config.DifficultyPreset, seed int64) (session.Configuration, error) {
	c, err := Get(id)
	if err != nil {
		return session.Configuration{}, err
	}

	config.ApplyPreset(&cfg, preset)
	zone := cfg.PlayZone.Rect()

	sc := session.Configuration{
		Category:           c.ID,
		DifficultyBaseline: cfg.Difficulty.InitialLevel,
		Features: session.Features{
			ComboBonus:          cfg.Scoring.ComboBonus,
			ComboDecay:          cfg.Scoring.Decay,
			SpatialGrid:         cfg.Collision.GridCellSize > 0,
			EndOnCollisionLimit: cfg.Session.Lives > 0,
		},
		Lives:      cfg.Session.Lives,
		TimeLimit:  cfg.Session.TimeLimit,
		Seed:       seed,
		PlayZone:   zone,
		Difficulty: cfg.Difficulty.Model(),
		Spawn:      cfg.Spawning.Scheduler(zone, seed),
		Collision:  cfg.Collision.Engine(zone),
		Scoring:    cfg.Scoring.Engine(),
	}
	if c.Apply != nil {
		c.Apply(&sc)
	}
	return sc, nil
}
