package registry

import (
	"time"

	"github.com/vovakirdan/tui-dodge/internal/session"
)

func init() {
	Register(Category{
		ID:          "classic",
		Title:       "Classic",
		Description: "Three hits and you're out",
		Apply: func(c *session.Configuration) {
			c.Lives = 3
			c.Features.EndOnCollisionLimit = true
		},
	})

	Register(Category{
		ID:          "survival",
		Title:       "Survival",
		Description: "One hit ends the run",
		Apply: func(c *session.Configuration) {
			c.Lives = 1
			c.Features.EndOnCollisionLimit = true
		},
	})

	Register(Category{
		ID:          "blitz",
		Title:       "Blitz",
		Description: "Sixty seconds, hits only break your combo",
		Apply: func(c *session.Configuration) {
			c.TimeLimit = 60 * time.Second
			c.Features.EndOnCollisionLimit = false
		},
	})

	Register(Category{
		ID:          "zen",
		Title:       "Zen",
		Description: "No limits, combo fades if you stop dodging",
		Apply: func(c *session.Configuration) {
			c.TimeLimit = 0
			c.Features.EndOnCollisionLimit = false
			c.Features.ComboDecay = true
		},
	})
}
