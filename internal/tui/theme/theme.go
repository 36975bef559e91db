// Package theme provides color themes for the board.
package theme

import (
	"slices"
	"strings"
)

// Theme holds all colors for a board theme, as hex strings.
type Theme struct {
	Name      string
	Bg        string // Base background
	Fg        string // Primary foreground
	FgMuted   string // Time column, empty slots
	Accent    string // Title, borders
	Selection string // Cursor
	Busy      string // Slots below the cap
	Warning   string // Slots one task below the cap
	Full      string // Slots at the cap
}

var builtin = map[string]Theme{
	"mocha": {
		Name:      "mocha",
		Bg:        "#1e1e2e",
		Fg:        "#cdd6f4",
		FgMuted:   "#6c7086",
		Accent:    "#cba6f7",
		Selection: "#585b70",
		Busy:      "#a6e3a1",
		Warning:   "#f9e2af",
		Full:      "#f38ba8",
	},
	"latte": {
		Name:      "latte",
		Bg:        "#eff1f5",
		Fg:        "#4c4f69",
		FgMuted:   "#9ca0b0",
		Accent:    "#8839ef",
		Selection: "#bcc0cc",
		Busy:      "#40a02b",
		Warning:   "#df8e1d",
		Full:      "#d20f39",
	},
}

// Load returns a theme by name. Unknown and empty names fall back to mocha.
func Load(name string) *Theme {
	t, ok := builtin[strings.ToLower(name)]
	if !ok {
		t = builtin["mocha"]
	}
	return &t
}

// Available returns a list of available theme names.
func Available() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	_, ok := builtin[strings.ToLower(name)]
	return ok
}
