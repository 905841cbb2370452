package charts

import (
	"errors"
	"strings"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Theme struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	Grid      string `json:"grid"`
	Tooltip   string `json:"tooltip"`
	Steps     string `json:"steps"`
	Burned    string `json:"burned"`
	Consumed  string `json:"consumed"`
	Deep      string `json:"deep"`
	Light     string `json:"light"`
	REM       string `json:"rem"`
	Awake     string `json:"awake"`
	Weight    string `json:"weight"`
	Water     string `json:"water"`
	WaterGoal string `json:"water_goal"`
	Target    string `json:"target"`
	// Heatmap holds one shade per activity level, 0 through 4.
	Heatmap [5]string `json:"heatmap"`
}

var DarkTheme = Theme{
	Name:      "dark",
	Text:      "#9198a1",
	Grid:      "#3d444d",
	Tooltip:   "#2d333b",
	Steps:     "#58a6ff",
	Burned:    "#f85149",
	Consumed:  "#3fb950",
	Deep:      "#58a6ff",
	Light:     "#1f6feb",
	REM:       "#388bfd",
	Awake:     "#2d333b",
	Weight:    "#3fb950",
	Water:     "rgba(88, 166, 255, 0.3)",
	WaterGoal: "rgba(88, 166, 255, 0.6)",
	Target:    "#d29922",
	Heatmap:   [5]string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
}

var LightTheme = Theme{
	Name:      "light",
	Text:      "#59636e",
	Grid:      "#d1d9e0",
	Tooltip:   "#ffffff",
	Steps:     "#0969da",
	Burned:    "#cf222e",
	Consumed:  "#1a7f37",
	Deep:      "#0969da",
	Light:     "#54aeff",
	REM:       "#218bff",
	Awake:     "#d1d9e0",
	Weight:    "#1a7f37",
	Water:     "rgba(9, 105, 218, 0.3)",
	WaterGoal: "rgba(9, 105, 218, 0.6)",
	Target:    "#9a6700",
	Heatmap:   [5]string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
}

var themes = map[string]Theme{
	DarkTheme.Name:  DarkTheme,
	LightTheme.Name: LightTheme,
}

// ThemeByName resolves a built-in theme. Empty selects dark.
func ThemeByName(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DarkTheme, nil
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, ErrUnknownTheme
	}
	return t, nil
}

func (t Theme) LevelColor(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(t.Heatmap) {
		level = len(t.Heatmap) - 1
	}
	return t.Heatmap[level]
}
