package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg        lipgloss.Color
	Fg        lipgloss.Color
	FgMuted   lipgloss.Color
	Accent    lipgloss.Color
	Selection lipgloss.Color

	// Cell backgrounds per occupancy level.
	BusyBg    lipgloss.Color
	WarningBg lipgloss.Color
	FullBg    lipgloss.Color

	// Text drawn on top of the cell backgrounds.
	TextOnBusy    lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnFull    lipgloss.Color
	TextOnAccent  lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t = Load("")
	}

	light := IsLight(t.Bg)
	busyBg := cellBg(t.Busy, t.Bg, light)
	warningBg := cellBg(t.Warning, t.Bg, light)
	fullBg := cellBg(t.Full, t.Bg, light)

	return &Palette{
		Bg:        lipgloss.Color(t.Bg),
		Fg:        lipgloss.Color(t.Fg),
		FgMuted:   lipgloss.Color(t.FgMuted),
		Accent:    lipgloss.Color(t.Accent),
		Selection: lipgloss.Color(t.Selection),

		BusyBg:    lipgloss.Color(busyBg),
		WarningBg: lipgloss.Color(warningBg),
		FullBg:    lipgloss.Color(fullBg),

		TextOnBusy:    lipgloss.Color(TextOn(busyBg, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(TextOn(warningBg, t.Bg, t.Fg)),
		TextOnFull:    lipgloss.Color(TextOn(fullBg, t.Bg, t.Fg)),
		TextOnAccent:  lipgloss.Color(TextOn(t.Accent, t.Bg, t.Fg)),
	}
}

// IsLight reports whether a background is light enough to need dark text.
func IsLight(bg string) bool {
	c, err := colorful.Hex(bg)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l > 0.6
}

// cellBg tones an accent toward the background so text stays readable:
// darker on dark themes, paler on light ones.
func cellBg(accent, bg string, light bool) string {
	a, err := colorful.Hex(accent)
	if err != nil {
		return accent
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		return accent
	}
	ratio := 0.45
	if light {
		ratio = 0.35
	}
	return a.BlendLab(b, ratio).Clamped().Hex()
}

// TextOn picks whichever of a and b contrasts more with bg.
func TextOn(bg, a, b string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return b
	}
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return b
	}
	if c.DistanceLab(ca) >= c.DistanceLab(cb) {
		return a
	}
	return b
}
