package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardbinder/cardbinder/pkg/binder"
)

type setsState int

const (
	setsNormal setsState = iota
	setsRenaming
	setsDuplicating
	setsConfirmDelete
)

type setsModel struct {
	bind      *binder.Binder
	views     []binder.SetView
	cursor    int
	state     setsState
	input     string
	sort      binder.SetSort
	statusMsg string
	width     int
	height    int
}

func newSetsModel(b *binder.Binder) setsModel {
	m := setsModel{bind: b}
	m.refresh()
	return m
}

func (m *setsModel) refresh() {
	m.views = m.bind.View(binder.Query{SetSort: m.sort})
	if m.cursor >= len(m.views) {
		m.cursor = len(m.views) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m setsModel) current() (binder.SetView, bool) {
	if m.cursor >= len(m.views) {
		return binder.SetView{}, false
	}
	return m.views[m.cursor], true
}

func (m setsModel) Init() tea.Cmd {
	return nil
}

func (m setsModel) Update(msg tea.Msg) (setsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.state != setsNormal {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m setsModel) updateList(msg tea.KeyMsg) (setsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.views)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		if set, ok := m.current(); ok {
			m.state = setsRenaming
			m.input = set.Name
		}
	case "d":
		if set, ok := m.current(); ok {
			m.state = setsDuplicating
			m.input = set.Name + " Copy"
		}
	case "x":
		if _, ok := m.current(); ok {
			m.state = setsConfirmDelete
			m.input = ""
		}
	case "s":
		m.sort = (m.sort + 1) % 5
		m.refresh()
	case "J":
		m.moveSet(1)
	case "K":
		m.moveSet(-1)
	}
	return m, nil
}

func (m setsModel) updateInput(msg tea.KeyMsg) (setsModel, tea.Cmd) {
	if m.state == setsConfirmDelete {
		switch msg.String() {
		case "y":
			if set, ok := m.current(); ok {
				if err := m.bind.DeleteCollection(set.Name); err != nil {
					m.statusMsg = fmt.Sprintf("delete failed: %v", err)
				} else {
					m.statusMsg = "deleted " + set.Name
					m.refresh()
				}
			}
			m.state = setsNormal
		case "n", "esc":
			m.state = setsNormal
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		set, ok := m.current()
		if !ok {
			m.state = setsNormal
			return m, nil
		}
		name := strings.TrimSpace(m.input)
		if name == "" {
			m.statusMsg = "name required"
			return m, nil
		}
		var err error
		if m.state == setsRenaming {
			if name != set.Name && m.setExists(name) {
				m.statusMsg = "a set with that name already exists"
				return m, nil
			}
			err = m.bind.RenameCollection(set.Name, name)
		} else {
			err = m.bind.DuplicateCollection(set.Name, name)
		}
		if err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.state = setsNormal
		m.refresh()
	case "esc":
		m.state = setsNormal
	default:
		m.input = editRune(m.input, msg.String())
	}
	return m, nil
}

func (m setsModel) setExists(name string) bool {
	for _, n := range m.bind.SetNames() {
		if n == name {
			return true
		}
	}
	return false
}

// moveSet shifts the set under the cursor in the manual ordering.
func (m *setsModel) moveSet(delta int) {
	if m.sort != binder.SetSortManual {
		m.statusMsg = "switch to manual sort to reorder (s)"
		return
	}
	to := m.cursor + delta
	if to < 0 || to >= len(m.views) {
		return
	}
	names := make([]string, len(m.views))
	for i, v := range m.views {
		names[i] = v.Name
	}
	names[m.cursor], names[to] = names[to], names[m.cursor]
	m.bind.ReorderCollections(names)
	m.cursor = to
	m.refresh()
}

func setSortLabel(s binder.SetSort) string {
	switch s {
	case binder.SetSortNameAsc:
		return "name"
	case binder.SetSortNameDesc:
		return "name↓"
	case binder.SetSortTotal:
		return "size"
	case binder.SetSortCollected:
		return "progress"
	default:
		return "manual"
	}
}

func (m setsModel) View() string {
	var b strings.Builder

	b.WriteString(" " + accentStyle.Render("SETS"))
	b.WriteString("   " + accentStyle.Render(setSortLabel(m.sort)+"↑") + " " + helpKeyStyle.Render("s"))
	b.WriteString("\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + statusStyle.Render(m.statusMsg) + "\n")
	}

	if len(m.views) == 0 {
		b.WriteString(" " + dimStyle.Render("no sets"))
		return b.String()
	}

	barWidth := 14
	nameWidth := m.width - barWidth - 24
	if nameWidth < 16 {
		nameWidth = 16
	}

	for i, set := range m.views {
		cursor := "   "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = " " + accentStyle.Render("▸") + " "
			nameStyle = selectedStyle
		}

		pct := binder.Progress{Collected: set.Collected, Total: len(set.Cards)}.Percent()
		name := fmt.Sprintf("%-*s", nameWidth, truncStr(set.Name, nameWidth))
		line := cursor + nameStyle.Render(name)
		line += " " + progressBar(pct, barWidth, set.Type)
		line += " " + metaStyle.Render(fmt.Sprintf("%3d/%-3d %3d%%", set.Collected, len(set.Cards), pct))

		if i == m.cursor {
			pad := m.width - lipgloss.Width(line)
			if pad > 0 {
				line += strings.Repeat(" ", pad)
			}
			b.WriteString(selectedRowBg.Render(line) + "\n")
		} else {
			b.WriteString(line + "\n")
		}

		// Inline input under the selected set
		if i == m.cursor && m.state != setsNormal {
			switch m.state {
			case setsRenaming:
				b.WriteString("     " + accentStyle.Render("rename: ") + normalStyle.Render(m.input) + accentStyle.Render("█") + "\n")
			case setsDuplicating:
				b.WriteString("     " + accentStyle.Render("duplicate as: ") + normalStyle.Render(m.input) + accentStyle.Render("█") + "\n")
			case setsConfirmDelete:
				b.WriteString("     " + errorStyle.Render("delete this set? (y/n)") + "\n")
			}
		}
	}

	hidden := m.bind.HiddenCards()
	if len(hidden) > 0 {
		b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("%d hidden card(s)", len(hidden))) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
