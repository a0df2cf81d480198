package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/domain"
)

type statsModel struct {
	bind   *binder.Binder
	width  int
	height int
}

func newStatsModel(b *binder.Binder) statsModel {
	return statsModel{bind: b}
}

func (m statsModel) Init() tea.Cmd {
	return nil
}

func (m statsModel) Update(msg tea.Msg) (statsModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}
	return m, nil
}

func (m statsModel) View() string {
	stats := m.bind.Stats()

	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("PROGRESS") + "\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n\n")

	barWidth := m.width - 36
	if barWidth < 12 {
		barWidth = 12
	}

	overall := stats.Overall
	b.WriteString(" " + selectedStyle.Render(fmt.Sprintf("%-12s", "overall")))
	b.WriteString(" " + progressBar(overall.Percent(), barWidth, ""))
	b.WriteString(" " + normalStyle.Render(fmt.Sprintf("%3d/%-3d", overall.Collected, overall.Total)))
	b.WriteString(" " + accentStyle.Render(fmt.Sprintf("%3d%%", overall.Percent())) + "\n\n")

	for _, t := range domain.CollectionTypes {
		p, ok := stats.ByType[t]
		if !ok {
			continue
		}
		b.WriteString(" " + TypeStyle(t).Render(fmt.Sprintf("%-12s", string(t))))
		b.WriteString(" " + progressBar(p.Percent(), barWidth, t))
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%3d/%-3d", p.Collected, p.Total)))
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%3d%%", p.Percent())) + "\n")
	}

	sets := m.bind.View(binder.Query{})
	complete := 0
	for _, s := range sets {
		if s.Collected == len(s.Cards) && len(s.Cards) > 0 {
			complete++
		}
	}
	b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("%d sets · %d complete", len(sets), complete)) + "\n")

	if hidden := m.bind.HiddenCards(); len(hidden) > 0 {
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%d hidden card(s) excluded", len(hidden))) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
