package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardbinder/cardbinder/internal/browser"
	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/domain"
	"github.com/cardbinder/cardbinder/pkg/syncer"
)

type view int

const (
	viewBinder view = iota
	viewSets
	viewStats
	viewValue
	viewForm
)

// syncTickMsg refreshes the sync indicator in the header.
type syncTickMsg time.Time

func syncTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return syncTickMsg(t)
	})
}

// App is the root Bubbletea model.
type App struct {
	bind    *binder.Binder
	sync    *syncer.Syncer
	user    *domain.User
	version string

	view     view
	prevView view
	binder   binderModel
	sets     setsModel
	stats    statsModel
	value    valueModel
	form     formModel

	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI over an already-loaded binder. sync and user may
// be nil when running against a local-only binder.
func NewApp(b *binder.Binder, s *syncer.Syncer, user *domain.User, version string) App {
	return App{
		bind:    b,
		sync:    s,
		user:    user,
		version: version,
		binder:  newBinderModel(b),
		sets:    newSetsModel(b),
		stats:   newStatsModel(b),
		value:   newValueModel(b),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), syncTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.binder, _ = a.binder.Update(bodyMsg)
		a.sets, _ = a.sets.Update(bodyMsg)
		a.stats, _ = a.stats.Update(bodyMsg)
		a.value, _ = a.value.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case syncTickMsg:
		return a, syncTickCmd()

	case editCardMsg:
		a.form = newEditForm(a.bind, msg.id)
		a.prevView = a.view
		a.view = viewForm
		return a, nil

	case formDoneMsg:
		a.view = a.prevView
		if a.view == viewForm {
			a.view = viewBinder
		}
		a.binder.refresh()
		a.sets.refresh()
		if msg.saved {
			a.binder.statusMsg = "saved"
		}
		return a, nil

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.view = viewBinder
				a.binder.refresh()
				return a, nil
			case "2":
				a.view = viewSets
				a.sets.refresh()
				return a, nil
			case "3":
				a.view = viewStats
				return a, nil
			case "4":
				a.view = viewValue
				return a, nil
			case "n":
				if a.view != viewForm {
					a.form = newAddForm(a.bind)
					a.prevView = a.view
					a.view = viewForm
					return a, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewBinder:
		a.binder, cmd = a.binder.Update(msg)
	case viewSets:
		a.sets, cmd = a.sets.Update(msg)
	case viewStats:
		a.stats, cmd = a.stats.Update(msg)
	case viewValue:
		a.value, cmd = a.value.Update(msg)
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	}

	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewForm:
		return true
	case viewBinder:
		return a.binder.editing
	case viewSets:
		return a.sets.state != setsNormal
	}
	return false
}

// syncIndicator renders the persistence state for the header.
func (a App) syncIndicator() string {
	if a.sync == nil {
		return dimStyle.Render("local")
	}
	state, err := a.sync.State()
	switch state {
	case syncer.StateSyncing:
		return syncBusyStyle.Render("◌ syncing")
	case syncer.StateError:
		if err != nil {
			return syncErrStyle.Render("✗ sync failed")
		}
		return syncErrStyle.Render("✗ sync failed")
	default:
		return syncIdleStyle.Render("● saved")
	}
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)

	// Stats line below logo: user, overall progress, sync state
	parts := []string{}
	if a.user != nil {
		parts = append(parts, a.user.Name())
	}
	overall := a.bind.Stats().Overall
	parts = append(parts, fmt.Sprintf("%d/%d · %d%%", overall.Collected, overall.Total, overall.Percent()))
	statsLine := metaStyle.Render(strings.Join(parts, "  ")) + "  " + a.syncIndicator()

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	statsWidth := lipgloss.Width(statsLine)
	statsPad := (a.width - statsWidth) / 2
	if statsPad < 0 {
		statsPad = 0
	}
	header += "\n" + strings.Repeat(" ", statsPad) + statsLine

	// Tab bar: 4 equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Binder", viewBinder},
		{"2", "Sets", viewSets},
		{"3", "Stats", viewStats},
		{"4", "Value", viewValue},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view || (a.view == viewForm && t.v == a.prevView) {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	// Body + per-view help line
	var body string
	var help string
	switch a.view {
	case viewBinder:
		body = a.binder.View()
		switch {
		case a.binder.editing:
			help = " " + helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
		case a.binder.detail:
			help = " " + helpEntry("space", "toggle") + "  " + helpEntry("e", "edit") + "  " + helpEntry("D", "dup") + "  " + helpEntry("x", "delete") + "  " + helpEntry("c", "copy") + "  " + helpEntry("esc", "back")
		default:
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("space", "toggle") + "  " + helpEntry("/", "search") + "  " + helpEntry("f/t/s", "filter") + "  " + helpEntry("n", "add") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	case viewSets:
		body = a.sets.View()
		if a.sets.state != setsNormal {
			help = " " + helpEntry("enter", "apply") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("r", "rename") + "  " + helpEntry("d", "dup") + "  " + helpEntry("x", "delete") + "  " + helpEntry("J/K", "move") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	case viewStats:
		body = a.stats.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewValue:
		body = a.value.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewForm:
		body = a.form.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	}

	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome: header(2) + tabs(1) + help(1) = 4 lines around the body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, centeredTabs, body, help)
}
