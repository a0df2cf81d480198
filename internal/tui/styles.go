package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// Shimmer animation for the CARDBINDER logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "CARDBINDER" as a flowing wave of amber light.
// Deep bronze (#4a2408) -> bright amber (#fb923c). No hue drift.
func renderShimmerLogo(frame int) string {
	const text = "CARDBINDER"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep bronze -> bright amber
		r := clampByte(74 + b*(251-74))
		g := clampByte(36 + b*(146-36))
		bl := clampByte(8 + b*(60-8))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent: binder amber
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb923c"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb923c")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171")).
			Bold(true)

	collectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Sync indicator styles
	syncIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	syncBusyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	syncErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171")).
			Bold(true)

	// Rarity tier colors, lowest to highest
	rarityColors = map[domain.Rarity]lipgloss.Color{
		domain.RarityBase:        lipgloss.Color("#475569"),
		domain.RarityLimited:     lipgloss.Color("#3b82f6"),
		domain.RarityNinetyNine:  lipgloss.Color("#22c55e"),
		domain.RaritySeventyFive: lipgloss.Color("#a855f7"),
		domain.RarityFifty:       lipgloss.Color("#f59e0b"),
		domain.RarityTwentyFive:  lipgloss.Color("#fb923c"),
		domain.RarityTen:         lipgloss.Color("#f97316"),
		domain.RarityFive:        lipgloss.Color("#f87171"),
		domain.RarityOneOfOne:    lipgloss.Color("#ef4444"),
	}

	// Collection type colors. The empty key colors type-agnostic bars.
	typeColors = map[domain.CollectionType]lipgloss.Color{
		"":                     lipgloss.Color("#fb923c"),
		domain.TypeFlagship:    lipgloss.Color("#f97316"),
		domain.TypeChrome:      lipgloss.Color("#22d3ee"),
		domain.TypeHoliday:     lipgloss.Color("#22c55e"),
		domain.TypeSapphire:    lipgloss.Color("#3b82f6"),
		domain.TypeMidnight:    lipgloss.Color("#a855f7"),
		domain.TypeBlackFriday: lipgloss.Color("#64748b"),
	}
)

// RarityStyle returns a style colored for the serial's rarity tier.
func RarityStyle(serial string) lipgloss.Style {
	if c, ok := rarityColors[domain.RarityOf(serial)]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
}

// TypeStyle returns a bold style colored for the collection type.
func TypeStyle(t domain.CollectionType) lipgloss.Style {
	if c, ok := typeColors[t]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// progressBar renders a fixed-width bar: filled segment in the type color,
// remainder in the surface gray.
func progressBar(percent, width int, t domain.CollectionType) string {
	if width < 1 {
		width = 1
	}
	filled := width * percent / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := TypeStyle(t).Render(strings.Repeat("█", filled))
	bar += metaStyle.Render(strings.Repeat("░", width-filled))
	return bar
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Website", "cardbinder.app", "https://cardbinder.app"},
	{"FAQ", "cardbinder.app/faq", "https://cardbinder.app/faq"},
	{"Privacy Policy", "cardbinder.app/privacy", "https://cardbinder.app/privacy"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb923c")).
		Bold(true).
		Render("C A R D B I N D E R")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Every card accounted for.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fb923c"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"cardbinder", "Open your binder (interactive TUI)"},
		{"cardbinder login", "Authenticate in the browser"},
		{"cardbinder logout", "Clear your session"},
		{"cardbinder list", "Print the checklist"},
		{"cardbinder stats", "Print collection progress"},
		{"cardbinder --version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-22s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-22s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
