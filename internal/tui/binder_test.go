package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/domain"
)

func fptr(v float64) *float64 { return &v }

// newTestBinder seeds a binder with two small sets.
func newTestBinder() *binder.Binder {
	b := binder.New()
	b.Seed([]domain.Card{
		{ID: "fb-1", SetName: "Flagship Base", CardName: "Rookie", CardNumber: "1", Parallel: "Base", Builtin: true},
		{ID: "fb-2", SetName: "Flagship Base", CardName: "Veteran", CardNumber: "2", Parallel: "Base", Serial: "/99", Builtin: true},
		{ID: "cb-1", SetName: "Chrome Base", CardName: "Refractor", CardNumber: "1", Parallel: "Refractor", Builtin: true},
	})
	b.ReorderCollections([]string{"Flagship Base", "Chrome Base"})
	return b
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sizedBinderModel(b *binder.Binder) binderModel {
	m := newBinderModel(b)
	m.width = 80
	m.height = 26
	return m
}

func TestBinderSpaceTogglesCollected(t *testing.T) {
	b := newTestBinder()
	m := sizedBinderModel(b)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})

	card, ok := b.Card("fb-1")
	if !ok || !card.Collected {
		t.Fatal("expected first card collected after space")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	card, _ = b.Card("fb-1")
	if card.Collected {
		t.Error("expected toggle back to uncollected")
	}
	_ = m
}

func TestBinderSearchFiltersLive(t *testing.T) {
	m := sizedBinderModel(newTestBinder())

	m, _ = m.Update(runeKey("/"))
	if !m.editing {
		t.Fatal("expected search editing after '/'")
	}
	for _, r := range "refr" {
		m, _ = m.Update(runeKey(string(r)))
	}
	if len(m.rows) != 1 {
		t.Fatalf("rows = %d, want 1 match for 'refr'", len(m.rows))
	}
	if card, _ := m.current(); card.ID != "cb-1" {
		t.Errorf("current = %s, want cb-1", card.ID)
	}

	// esc clears the search and restores the full list
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing || m.search != "" {
		t.Error("expected search cleared after esc")
	}
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want 3 after clearing search", len(m.rows))
	}
}

func TestBinderSearchCapturesNavKeys(t *testing.T) {
	m := sizedBinderModel(newTestBinder())
	m.editing = true

	m, _ = m.Update(runeKey("j"))
	if m.search != "j" {
		t.Errorf("search = %q, want 'j' appended while editing", m.search)
	}
	if m.cursor != 0 {
		t.Error("cursor should not move while editing search")
	}
}

func TestBinderFilterCycle(t *testing.T) {
	b := newTestBinder()
	b.ToggleCollected("fb-1") //nolint:errcheck
	m := sizedBinderModel(b)
	m.refresh()

	m, _ = m.Update(runeKey("f"))
	if m.filter != binder.FilterCollected {
		t.Fatalf("filter = %v, want collected", m.filter)
	}
	if len(m.rows) != 1 {
		t.Errorf("rows = %d, want 1 collected", len(m.rows))
	}

	m, _ = m.Update(runeKey("f"))
	if m.filter != binder.FilterNeeded {
		t.Fatalf("filter = %v, want needed", m.filter)
	}
	if len(m.rows) != 2 {
		t.Errorf("rows = %d, want 2 needed", len(m.rows))
	}

	m, _ = m.Update(runeKey("f"))
	if m.filter != binder.FilterAll {
		t.Errorf("filter = %v, want all after full cycle", m.filter)
	}
}

func TestBinderTypeCycle(t *testing.T) {
	m := sizedBinderModel(newTestBinder())

	m, _ = m.Update(runeKey("t"))
	if m.typeIdx != 1 {
		t.Fatalf("typeIdx = %d, want 1", m.typeIdx)
	}
	// flagship filter: only the two flagship cards remain
	if len(m.rows) != 2 {
		t.Errorf("rows = %d, want 2 flagship cards", len(m.rows))
	}
}

func TestBinderMoveRequiresCustomSort(t *testing.T) {
	m := sizedBinderModel(newTestBinder())
	m.sort = binder.SortByName
	m.refresh()

	m, _ = m.Update(runeKey("J"))
	if m.statusMsg == "" {
		t.Error("expected a status hint when reordering outside custom sort")
	}
}

func TestBinderMoveSwapsWithinSet(t *testing.T) {
	b := newTestBinder()
	m := sizedBinderModel(b)

	// cursor on fb-1; J swaps it with fb-2
	m, _ = m.Update(runeKey("J"))

	views := b.View(binder.Query{})
	if views[0].Cards[0].ID != "fb-2" || views[0].Cards[1].ID != "fb-1" {
		t.Errorf("order = [%s %s], want [fb-2 fb-1]",
			views[0].Cards[0].ID, views[0].Cards[1].ID)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (follows the moved card)", m.cursor)
	}
}

func TestBinderDeleteBuiltinHidesAndRestores(t *testing.T) {
	b := newTestBinder()
	m := sizedBinderModel(b)

	m, _ = m.Update(runeKey("x"))
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2 after hiding", len(m.rows))
	}
	if len(b.HiddenCards()) != 1 {
		t.Fatalf("hidden = %d, want 1", len(b.HiddenCards()))
	}

	m, _ = m.Update(runeKey("u"))
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want 3 after restore", len(m.rows))
	}
	if len(b.HiddenCards()) != 0 {
		t.Errorf("hidden = %d, want 0 after restore", len(b.HiddenCards()))
	}
}

func TestBinderDuplicateAddsCard(t *testing.T) {
	b := newTestBinder()
	m := sizedBinderModel(b)

	m, _ = m.Update(runeKey("D"))
	if len(m.rows) != 4 {
		t.Errorf("rows = %d, want 4 after duplicate", len(m.rows))
	}
	if m.statusMsg != "duplicated" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestBinderEnterOpensDetail(t *testing.T) {
	m := sizedBinderModel(newTestBinder())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Fatal("expected detail view after enter")
	}

	view := m.View()
	if !strings.Contains(view, "Rookie") {
		t.Errorf("detail view missing card name:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail {
		t.Error("expected detail closed after esc")
	}
}

func TestBinderEditEmitsMessage(t *testing.T) {
	m := sizedBinderModel(newTestBinder())

	_, cmd := m.Update(runeKey("e"))
	if cmd == nil {
		t.Fatal("expected a command from 'e'")
	}
	msg, ok := cmd().(editCardMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want editCardMsg", cmd())
	}
	if msg.id != "fb-1" {
		t.Errorf("edit id = %s, want fb-1", msg.id)
	}
}

func TestBinderViewGroupsBySet(t *testing.T) {
	m := sizedBinderModel(newTestBinder())

	view := m.View()
	fb := strings.Index(view, "Flagship Base")
	cb := strings.Index(view, "Chrome Base")
	if fb == -1 || cb == -1 {
		t.Fatalf("view missing set headers:\n%s", view)
	}
	if fb > cb {
		t.Error("expected Flagship Base before Chrome Base (seed order)")
	}
	if !strings.Contains(view, "/99") {
		t.Error("expected serial marker in list view")
	}
}

func TestCopyText(t *testing.T) {
	c := domain.Card{SetName: "Chrome Base", CardNumber: "7", CardName: "Refractor", Serial: "/50"}
	got := copyText(c)
	want := "Chrome Base #7 Refractor /50"
	if got != want {
		t.Errorf("copyText = %q, want %q", got, want)
	}
}
