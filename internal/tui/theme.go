package tui

import (
	"os"
	"strconv"
	"strings"

	"taskdeck/internal/prefs"
	"taskdeck/internal/staleness"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted lipgloss.TerminalColor = ac("240", "243")
	colorError lipgloss.TerminalColor = ac("160", "196")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorControlBg lipgloss.TerminalColor = ac("252", "235")
	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")

	// Staleness tiers. Timeout must read as the loudest state on screen.
	colorTierTimeout  lipgloss.TerminalColor = ac("160", "196") // red
	colorTierWarning  lipgloss.TerminalColor = ac("130", "214") // orange
	colorTierCritical lipgloss.TerminalColor = ac("94", "178")  // amber
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func tierStyle(t staleness.Tier) lipgloss.Style {
	switch t {
	case staleness.TierTimeout:
		return lipgloss.NewStyle().Foreground(colorTierTimeout).Bold(true)
	case staleness.TierWarning:
		return lipgloss.NewStyle().Foreground(colorTierWarning)
	case staleness.TierCritical:
		return lipgloss.NewStyle().Foreground(colorTierCritical)
	default:
		return lipgloss.NewStyle()
	}
}

func tierLabel(t staleness.Tier) string {
	switch t {
	case staleness.TierTimeout:
		return "TIMEOUT"
	case staleness.TierWarning:
		return "WARNED"
	case staleness.TierCritical:
		return "CRITICAL"
	default:
		return "ok"
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for non-interactive CLI output but can accidentally disable colors
// in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal's
// capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports,
	// trust the env. Color probing under-reports on some terminals.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Some terminals don't reliably report their background, which can make
// lipgloss.AdaptiveColor pick the wrong variant.
//
// Priority:
// 1) persisted preference (prefs.json)
// 2) TASKDECK_TUI_THEME=light|dark|auto
// 3) TASKDECK_TUI_DARKBG=true|false
// 4) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference(p *prefs.Prefs) {
	if p != nil {
		switch p.Theme {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("TASKDECK_TUI_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		case "auto":
			// fall through to heuristics
		default:
			// Unknown value: ignore.
		}
	}

	if v := strings.TrimSpace(os.Getenv("TASKDECK_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	if dark, ok := darkFromColorFGBG(os.Getenv("COLORFGBG")); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

// darkFromColorFGBG interprets COLORFGBG, usually "fg;bg" (sometimes more
// segments). The last segment is the background color index.
func darkFromColorFGBG(v string) (dark bool, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, false
	}
	parts := strings.Split(v, ";")
	bgStr := strings.TrimSpace(parts[len(parts)-1])
	bg, err := strconv.Atoi(bgStr)
	if err != nil {
		return false, false
	}
	// Heuristic: low color indexes are dark backgrounds.
	return bg < 7, true
}
