package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color ramp used for shading plus the accent colors of the
// panels.
type Theme struct {
	Name   string
	Low    lipgloss.Color
	Mid    lipgloss.Color
	High   lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeThermal = Theme{
		Name:   "thermal",
		Low:    lipgloss.Color("#1a0033"),
		Mid:    lipgloss.Color("#cc3300"),
		High:   lipgloss.Color("#ffee66"),
		Accent: lipgloss.Color("#ff9933"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeCoolWarm = Theme{
		Name:   "coolwarm",
		Low:    lipgloss.Color("#3b4cc0"),
		Mid:    lipgloss.Color("#dddddd"),
		High:   lipgloss.Color("#b40426"),
		Accent: lipgloss.Color("#00ccff"),
		Muted:  lipgloss.Color("#888899"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Low:    lipgloss.Color("#001a33"),
		Mid:    lipgloss.Color("#0077be"),
		High:   lipgloss.Color("#e0f0ff"),
		Accent: lipgloss.Color("#ffd700"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Low:    lipgloss.Color("#001100"),
		Mid:    lipgloss.Color("#00aa00"),
		High:   lipgloss.Color("#ccffcc"),
		Accent: lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeGray = Theme{
		Name:   "gray",
		Low:    lipgloss.Color("#111111"),
		Mid:    lipgloss.Color("#777777"),
		High:   lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Muted:  lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeThermal

	Themes = []Theme{
		ThemeThermal,
		ThemeCoolWarm,
		ThemeOcean,
		ThemeRetroGreen,
		ThemeGray,
	}
)

// GetTheme returns a theme by name, falling back to thermal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeThermal
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Shade maps t in [0, 1] onto the theme's ramp.
func (th Theme) Shade(t float64) lipgloss.Color {
	switch {
	case t <= 0:
		return th.Low
	case t >= 1:
		return th.High
	case t < 0.5:
		return lerpColor(th.Low, th.Mid, 2*t)
	}
	return lerpColor(th.Mid, th.High, 2*t-1)
}
