package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/domain"
)

// rowRef addresses one card line in the flattened set list.
type rowRef struct {
	set  int
	card int
}

type binderModel struct {
	bind      *binder.Binder
	sets      []binder.SetView
	rows      []rowRef
	cursor    int
	search    string
	editing   bool // true when typing in search
	filter    binder.CollectedFilter
	typeIdx   int // 0 = all types, 1.. indexes domain.CollectionTypes
	sort      binder.CardSort
	detail    bool
	statusMsg string
	width     int
	height    int
}

type copyResultMsg struct{ err error }

// editCardMsg asks the app to open the edit form for a card.
type editCardMsg struct {
	id string
}

func newBinderModel(b *binder.Binder) binderModel {
	m := binderModel{bind: b}
	m.refresh()
	return m
}

func (m binderModel) query() binder.Query {
	q := binder.Query{
		Search: m.search,
		Filter: m.filter,
		Sort:   m.sort,
	}
	if m.typeIdx > 0 && m.typeIdx <= len(domain.CollectionTypes) {
		q.Type = domain.CollectionTypes[m.typeIdx-1]
	}
	return q
}

func (m *binderModel) refresh() {
	m.sets = m.bind.View(m.query())
	m.rows = m.rows[:0]
	for si, set := range m.sets {
		for ci := range set.Cards {
			m.rows = append(m.rows, rowRef{set: si, card: ci})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// current returns the card under the cursor.
func (m binderModel) current() (domain.Card, bool) {
	if m.cursor >= len(m.rows) {
		return domain.Card{}, false
	}
	r := m.rows[m.cursor]
	return m.sets[r.set].Cards[r.card], true
}

func (m binderModel) Init() tea.Cmd {
	return nil
}

func (m binderModel) Update(msg tea.Msg) (binderModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.editing {
			return m.updateSearch(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m binderModel) updateSearch(msg tea.KeyMsg) (binderModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
	case "esc":
		m.editing = false
		m.search = ""
		m.refresh()
	default:
		m.search = editRune(m.search, msg.String())
		m.cursor = 0
		m.refresh()
	}
	return m, nil
}

func (m binderModel) updateList(msg tea.KeyMsg) (binderModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
	case " ":
		if card, ok := m.current(); ok {
			m.bind.ToggleCollected(card.ID) //nolint:errcheck // card came from the live view
			m.refresh()
		}
	case "enter":
		if len(m.rows) > 0 {
			m.detail = true
		}
	case "/":
		m.editing = true
		m.search = ""
	case "f":
		m.filter = (m.filter + 1) % 3
		m.cursor = 0
		m.refresh()
	case "t":
		m.typeIdx = (m.typeIdx + 1) % (len(domain.CollectionTypes) + 1)
		m.cursor = 0
		m.refresh()
	case "s":
		m.sort = (m.sort + 1) % 4
		m.refresh()
	case "J":
		m.moveCard(1)
	case "K":
		m.moveCard(-1)
	case "e":
		if card, ok := m.current(); ok {
			id := card.ID
			return m, func() tea.Msg { return editCardMsg{id: id} }
		}
	case "D":
		if card, ok := m.current(); ok {
			if _, err := m.bind.DuplicateCard(card.ID); err != nil {
				m.statusMsg = fmt.Sprintf("duplicate failed: %v", err)
			} else {
				m.statusMsg = "duplicated"
				m.refresh()
			}
		}
	case "x":
		if card, ok := m.current(); ok {
			if err := m.bind.DeleteCard(card.ID); err != nil {
				m.statusMsg = fmt.Sprintf("delete failed: %v", err)
			} else if card.Builtin {
				m.statusMsg = "hidden (u restores)"
			} else {
				m.statusMsg = "deleted"
			}
			m.detail = false
			m.refresh()
		}
	case "u":
		hidden := m.bind.HiddenCards()
		if len(hidden) == 0 {
			m.statusMsg = "nothing hidden"
		} else {
			ids := make([]string, len(hidden))
			for i, c := range hidden {
				ids[i] = c.ID
			}
			m.bind.RestoreHidden(ids...)
			m.statusMsg = fmt.Sprintf("restored %d", len(ids))
			m.refresh()
		}
	case "c":
		if card, ok := m.current(); ok {
			text := copyText(card)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

func (m binderModel) updateDetail(msg tea.KeyMsg) (binderModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.detail = false
	case " ":
		if card, ok := m.current(); ok {
			m.bind.ToggleCollected(card.ID) //nolint:errcheck
			m.refresh()
		}
	case "e":
		if card, ok := m.current(); ok {
			id := card.ID
			return m, func() tea.Msg { return editCardMsg{id: id} }
		}
	case "D":
		if card, ok := m.current(); ok {
			if _, err := m.bind.DuplicateCard(card.ID); err != nil {
				m.statusMsg = fmt.Sprintf("duplicate failed: %v", err)
			} else {
				m.statusMsg = "duplicated"
				m.refresh()
			}
		}
	case "x":
		if card, ok := m.current(); ok {
			if err := m.bind.DeleteCard(card.ID); err != nil {
				m.statusMsg = fmt.Sprintf("delete failed: %v", err)
			} else {
				m.detail = false
				m.refresh()
			}
		}
	case "c":
		if card, ok := m.current(); ok {
			text := copyText(card)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

// moveCard shifts the card under the cursor within its set. Only meaningful
// under the custom sort, where the result is persisted as the new order.
func (m *binderModel) moveCard(delta int) {
	if m.sort != binder.SortCustom {
		m.statusMsg = "switch to custom sort to reorder (s)"
		return
	}
	if m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	set := m.sets[r.set]
	to := r.card + delta
	if to < 0 || to >= len(set.Cards) {
		return
	}
	ids := make([]string, len(set.Cards))
	for i, c := range set.Cards {
		ids[i] = c.ID
	}
	ids[r.card], ids[to] = ids[to], ids[r.card]
	m.bind.ReorderCards(set.Name, ids)
	m.cursor += delta
	m.refresh()
}

// copyText is what lands on the clipboard for a card.
func copyText(c domain.Card) string {
	parts := []string{c.SetName, "#" + c.CardNumber, c.Label()}
	if c.Serial != "" {
		parts = append(parts, c.Serial)
	}
	return strings.Join(parts, " ")
}

func filterLabel(f binder.CollectedFilter) string {
	switch f {
	case binder.FilterCollected:
		return "collected"
	case binder.FilterNeeded:
		return "needed"
	default:
		return "all"
	}
}

func sortLabel(s binder.CardSort) string {
	switch s {
	case binder.SortByName:
		return "name"
	case binder.SortByNumber:
		return "number"
	case binder.SortCollectedFirst:
		return "collected"
	default:
		return "custom"
	}
}

func (m binderModel) typeLabel() string {
	if m.typeIdx == 0 {
		return "all types"
	}
	return string(domain.CollectionTypes[m.typeIdx-1])
}

func (m binderModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder

	// Search + filter bar
	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	b.WriteString("   " + accentStyle.Render(filterLabel(m.filter)) + " " + helpKeyStyle.Render("f"))
	if m.typeIdx > 0 {
		b.WriteString("  " + TypeStyle(domain.CollectionTypes[m.typeIdx-1]).Render(m.typeLabel()) + " " + helpKeyStyle.Render("t"))
	} else {
		b.WriteString("  " + dimStyle.Render(m.typeLabel()) + " " + helpKeyStyle.Render("t"))
	}
	b.WriteString("  " + accentStyle.Render(sortLabel(m.sort)+"↑") + " " + helpKeyStyle.Render("s"))
	b.WriteString("\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + statusStyle.Render(m.statusMsg) + "\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(" " + dimStyle.Render("no cards match"))
		return b.String()
	}

	// Window the flattened rows around the cursor. Set headers cost a line
	// each, so keep the window conservative.
	available := m.height - 4
	if available < 6 {
		available = 6
	}
	maxVisible := available * 2 / 3
	if maxVisible < 4 {
		maxVisible = 4
	}
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	lastSet := -1
	for i := start; i < len(m.rows) && i < start+maxVisible; i++ {
		r := m.rows[i]
		set := m.sets[r.set]
		if r.set != lastSet {
			lastSet = r.set
			header := " " + TypeStyle(set.Type).Render("▍ "+set.Name)
			header += "  " + metaStyle.Render(fmt.Sprintf("%d/%d", set.Collected, len(set.Cards)))
			b.WriteString(header + "\n")
		}
		b.WriteString(m.renderCardLine(set.Cards[r.card], i == m.cursor) + "\n")
	}

	return b.String()
}

func (m binderModel) renderCardLine(c domain.Card, selected bool) string {
	cursor := "   "
	if selected {
		cursor = " " + accentStyle.Render("▸") + " "
	}

	check := metaStyle.Render("·")
	if c.Collected {
		check = collectedStyle.Render("✓")
	}

	num := metaStyle.Render(fmt.Sprintf("%-6s", "#"+c.CardNumber))

	labelStyle := dimStyle
	if selected {
		labelStyle = selectedStyle
	} else if c.Collected {
		labelStyle = normalStyle
	}

	labelWidth := m.width - 30
	if labelWidth < 16 {
		labelWidth = 16
	}
	label := c.Label()
	if c.CardName != "" && c.Parallel != "" {
		label = c.CardName + " · " + c.Parallel
	}
	label = fmt.Sprintf("%-*s", labelWidth, truncStr(label, labelWidth))

	line := cursor + check + " " + num + " " + labelStyle.Render(label)
	if c.Serial != "" {
		line += " " + RarityStyle(c.Serial).Render(c.Serial)
	}
	if v, ok := c.Gain(); ok {
		if v >= 0 {
			line += " " + gainStyle.Render(formatGain(v))
		} else {
			line += " " + lossStyle.Render(formatGain(v))
		}
	}

	if selected {
		pad := m.width - lipgloss.Width(line)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return selectedRowBg.Render(line)
	}
	return line
}

func (m binderModel) viewDetail() string {
	card, ok := m.current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")

	title := card.Label()
	if card.CardName != "" && card.Parallel != "" {
		title = card.CardName + " · " + card.Parallel
	}
	b.WriteString(" " + RarityStyle(card.Serial).Render("▌") + selectedStyle.Render(title) + "\n")

	meta := " " + TypeStyle(card.Type()).Render(string(card.Type()))
	meta += metaStyle.Render(" · ") + normalStyle.Render(card.SetName)
	meta += metaStyle.Render(" · #") + normalStyle.Render(card.CardNumber)
	if card.Serial != "" {
		meta += metaStyle.Render(" · ") + RarityStyle(card.Serial).Render(card.Serial)
	}
	b.WriteString(meta + "\n\n")

	status := metaStyle.Render("not collected")
	if card.Collected {
		status = collectedStyle.Render("✓ collected")
	}
	b.WriteString(" " + status + "\n")

	if card.Source != "" {
		b.WriteString(" " + metaStyle.Render("source: ") + normalStyle.Render(card.Source) + "\n")
	}
	if card.PurchasePrice != nil {
		line := " " + metaStyle.Render("paid: ") + normalStyle.Render(formatMoney(*card.PurchasePrice))
		if card.PurchaseDate != "" {
			line += metaStyle.Render(" on "+card.PurchaseDate)
		}
		b.WriteString(line + "\n")
	}
	if card.CurrentValue != nil {
		b.WriteString(" " + metaStyle.Render("value: ") + normalStyle.Render(formatMoney(*card.CurrentValue)) + "\n")
	}
	if gain, ok := card.Gain(); ok {
		style := gainStyle
		if gain < 0 {
			style = lossStyle
		}
		line := " " + metaStyle.Render("gain: ") + style.Render(formatGain(gain))
		if pct, ok := card.GainPercent(); ok {
			line += " " + style.Render("("+formatGainPercent(pct)+")")
		}
		b.WriteString(line + "\n")
	}
	if card.Notes != "" {
		b.WriteString("\n")
		noteWidth := m.width - 4
		if noteWidth < 40 {
			noteWidth = 40
		}
		wrapped := lipgloss.NewStyle().Width(noteWidth).Render(card.Notes)
		for _, line := range strings.Split(wrapped, "\n") {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + statusStyle.Render(m.statusMsg) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
