package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardbinder/cardbinder/pkg/binder"
)

type valueModel struct {
	bind   *binder.Binder
	width  int
	height int
}

func newValueModel(b *binder.Binder) valueModel {
	return valueModel{bind: b}
}

func (m valueModel) Init() tea.Cmd {
	return nil
}

func (m valueModel) Update(msg tea.Msg) (valueModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}
	return m, nil
}

func (m valueModel) View() string {
	p := m.bind.Portfolio()

	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("VALUE") + "\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n\n")

	if p.Holdings == 0 {
		b.WriteString(" " + dimStyle.Render("no priced holdings yet"))
		b.WriteString("\n " + metaStyle.Render("add purchase price and current value to collected cards (e)") + "\n")
		return truncateToHeight(b.String(), m.height)
	}

	gainSty := gainStyle
	if p.Gain() < 0 {
		gainSty = lossStyle
	}

	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%-10s", "invested")) + selectedStyle.Render(formatMoney(p.TotalInvested)) + "\n")
	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%-10s", "value")) + selectedStyle.Render(formatMoney(p.TotalValue)) + "\n")
	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%-10s", "gain")) + gainSty.Render(formatGain(p.Gain())+" ("+formatGainPercent(p.GainPercent())+")") + "\n")
	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%-10s", "holdings")) + normalStyle.Render(fmt.Sprintf("%d", p.Holdings)) + "\n")

	performers := m.bind.TopPerformers(2, 1)
	if len(performers) > 0 {
		b.WriteString("\n " + metaStyle.Render("TOP MOVERS") + "\n")
		nameWidth := m.width - 34
		if nameWidth < 16 {
			nameWidth = 16
		}
		for _, c := range performers {
			pct, _ := c.GainPercent()
			gain, _ := c.Gain()
			sty := gainStyle
			if gain < 0 {
				sty = lossStyle
			}
			name := truncStr(c.Label(), nameWidth)
			b.WriteString(fmt.Sprintf(" %s %s %s %s\n",
				RarityStyle(c.Serial).Render("▍"),
				normalStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
				sty.Render(fmt.Sprintf("%10s", formatGain(gain))),
				sty.Render(fmt.Sprintf("%8s", formatGainPercent(pct)))))
		}
	}

	return truncateToHeight(b.String(), m.height)
}
