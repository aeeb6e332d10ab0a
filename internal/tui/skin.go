package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin is a color theme. Values are anything lipgloss.Color accepts
// (ANSI index or #RRGGBB).
type Skin struct {
	Name       string `yaml:"name"`
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
	Success    string `yaml:"success"`
	Warning    string `yaml:"warning"`
	Danger     string `yaml:"danger"`
	Crust      string `yaml:"crust"`
	Flame      string `yaml:"flame"`
}

var defaultSkin = Skin{
	Name:       "default",
	Background: "#1B1F3B",
	Foreground: "#F5F5F5",
	Accent:     "#4FA3F7",
	Muted:      "#808080",
	Success:    "#44FF44",
	Warning:    "#FFAA00",
	Danger:     "#FF4444",
	Crust:      "#E8A33D",
	Flame:      "#FF6B1A",
}

// Palette in use. Set by ApplySkin.
var (
	ColorNavy   lipgloss.Color
	ColorWhite  lipgloss.Color
	ColorBlue   lipgloss.Color
	ColorGray   lipgloss.Color
	ColorGreen  lipgloss.Color
	ColorOrange lipgloss.Color
	ColorRed    lipgloss.Color
	ColorCrust  lipgloss.Color
	ColorFlame  lipgloss.Color
)

func init() {
	ApplySkin(defaultSkin)
}

// ApplySkin installs s as the active palette. Empty fields fall back to the
// default skin.
func ApplySkin(s Skin) {
	pick := func(v, def string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(def)
		}
		return lipgloss.Color(v)
	}
	d := defaultSkin
	ColorNavy = pick(s.Background, d.Background)
	ColorWhite = pick(s.Foreground, d.Foreground)
	ColorBlue = pick(s.Accent, d.Accent)
	ColorGray = pick(s.Muted, d.Muted)
	ColorGreen = pick(s.Success, d.Success)
	ColorOrange = pick(s.Warning, d.Warning)
	ColorRed = pick(s.Danger, d.Danger)
	ColorCrust = pick(s.Crust, d.Crust)
	ColorFlame = pick(s.Flame, d.Flame)
	rebuildStyles()
}

// LoadSkin reads <configDir>/skins/<name>.yml. The name "default" (or "")
// returns the built-in skin without touching the filesystem.
func LoadSkin(name, configDir string) (Skin, error) {
	if name == "" || name == defaultSkin.Name {
		return defaultSkin, nil
	}
	path := filepath.Join(configDir, "skins", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultSkin, fmt.Errorf("skin %q not found at %s", name, path)
		}
		return defaultSkin, err
	}
	var s Skin
	if err := yaml.Unmarshal(data, &s); err != nil {
		return defaultSkin, fmt.Errorf("parse skin %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}

// InitializeSkin loads and applies the named skin. On error the default
// skin stays active.
func InitializeSkin(name, configDir string) error {
	s, err := LoadSkin(name, configDir)
	ApplySkin(s)
	return err
}

var (
	titleStyle      lipgloss.Style
	helpStyle       lipgloss.Style
	cardStyle       lipgloss.Style
	cardLabelStyle  lipgloss.Style
	cardValueStyle  lipgloss.Style
	buttonStyle     lipgloss.Style
	buttonOffStyle  lipgloss.Style
	chartTitleStyle lipgloss.Style
	statusLineStyle lipgloss.Style
	errorTextStyle  lipgloss.Style
)

func rebuildStyles() {
	titleStyle = lipgloss.NewStyle().Foreground(ColorCrust).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(ColorGray)
	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(0, 2)
	cardLabelStyle = lipgloss.NewStyle().Foreground(ColorGray)
	cardValueStyle = lipgloss.NewStyle().Foreground(ColorWhite).Bold(true)
	buttonStyle = lipgloss.NewStyle().
		Foreground(ColorNavy).
		Background(ColorCrust).
		Bold(true).
		Padding(0, 3)
	buttonOffStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorGray).
		Padding(0, 3)
	chartTitleStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	statusLineStyle = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite)
	errorTextStyle = lipgloss.NewStyle().Foreground(ColorRed)
}
