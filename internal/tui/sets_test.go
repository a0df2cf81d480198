package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardbinder/cardbinder/pkg/binder"
)

func sizedSetsModel(b *binder.Binder) setsModel {
	m := newSetsModel(b)
	m.width = 80
	m.height = 26
	return m
}

func TestSetsRenameFlow(t *testing.T) {
	b := newTestBinder()
	m := sizedSetsModel(b)

	m, _ = m.Update(runeKey("r"))
	if m.state != setsRenaming {
		t.Fatal("expected renaming state after 'r'")
	}
	if m.input != "Flagship Base" {
		t.Fatalf("input = %q, want prefilled current name", m.input)
	}

	// Append " 2024" and confirm
	for _, r := range " 2024" {
		m, _ = m.Update(runeKey(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.state != setsNormal {
		t.Fatal("expected normal state after enter")
	}
	names := b.SetNames()
	found := false
	for _, n := range names {
		if n == "Flagship Base 2024" {
			found = true
		}
		if n == "Flagship Base" {
			t.Error("old name still present after rename")
		}
	}
	if !found {
		t.Errorf("renamed set missing, names = %v", names)
	}
}

func TestSetsRenameEscCancels(t *testing.T) {
	b := newTestBinder()
	m := sizedSetsModel(b)

	m, _ = m.Update(runeKey("r"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != setsNormal {
		t.Fatal("expected normal state after esc")
	}
	for _, n := range b.SetNames() {
		if n == "Flagship Base" {
			return
		}
	}
	t.Error("original set name missing after canceled rename")
}

func TestSetsRenameCollisionShowsError(t *testing.T) {
	b := newTestBinder()
	m := sizedSetsModel(b)

	m, _ = m.Update(runeKey("r"))
	m.input = "Chrome Base"
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.state != setsRenaming {
		t.Error("expected to stay in renaming state on collision")
	}
	if m.statusMsg == "" {
		t.Error("expected an error message on collision")
	}
}

func TestSetsDuplicateFlow(t *testing.T) {
	b := newTestBinder()
	m := sizedSetsModel(b)

	m, _ = m.Update(runeKey("d"))
	if m.state != setsDuplicating {
		t.Fatal("expected duplicating state after 'd'")
	}
	if m.input != "Flagship Base Copy" {
		t.Fatalf("input = %q, want suggested copy name", m.input)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.views) != 3 {
		t.Fatalf("views = %d, want 3 after duplicate", len(m.views))
	}
	// duplicated cards start uncollected
	for _, v := range m.views {
		if v.Name == "Flagship Base Copy" {
			if v.Collected != 0 {
				t.Errorf("copy collected = %d, want 0", v.Collected)
			}
			return
		}
	}
	t.Error("duplicated set not found")
}

func TestSetsDeleteNeedsConfirm(t *testing.T) {
	b := newTestBinder()
	m := sizedSetsModel(b)

	m, _ = m.Update(runeKey("x"))
	if m.state != setsConfirmDelete {
		t.Fatal("expected confirm state after 'x'")
	}
	if len(b.SetNames()) != 2 {
		t.Fatal("set deleted before confirmation")
	}

	// n aborts
	m, _ = m.Update(runeKey("n"))
	if m.state != setsNormal || len(b.SetNames()) != 2 {
		t.Fatal("expected abort on 'n'")
	}

	// y confirms
	m, _ = m.Update(runeKey("x"))
	m, _ = m.Update(runeKey("y"))
	if len(b.SetNames()) != 1 {
		t.Errorf("sets = %v, want only Chrome Base left", b.SetNames())
	}
	// builtin cards become tombstones
	if len(b.HiddenCards()) != 2 {
		t.Errorf("hidden = %d, want 2 tombstoned builtins", len(b.HiddenCards()))
	}
}

func TestSetsReorderManual(t *testing.T) {
	b := newTestBinder()
	m := sizedSetsModel(b)

	m, _ = m.Update(runeKey("J"))
	if m.views[0].Name != "Chrome Base" {
		t.Errorf("first set = %s, want Chrome Base after move", m.views[0].Name)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (follows the moved set)", m.cursor)
	}
}

func TestSetsReorderRequiresManualSort(t *testing.T) {
	m := sizedSetsModel(newTestBinder())
	m.sort = binder.SetSortNameAsc
	m.refresh()

	m, _ = m.Update(runeKey("J"))
	if m.statusMsg == "" {
		t.Error("expected a status hint when reordering outside manual sort")
	}
}

func TestSetsViewShowsProgress(t *testing.T) {
	b := newTestBinder()
	b.ToggleCollected("fb-1") //nolint:errcheck
	m := sizedSetsModel(b)
	m.refresh()

	view := m.View()
	if !strings.Contains(view, "Flagship Base") {
		t.Fatalf("view missing set name:\n%s", view)
	}
	if !strings.Contains(view, "1/2") {
		t.Errorf("view missing progress count:\n%s", view)
	}
	if !strings.Contains(view, "50%") {
		t.Errorf("view missing percent:\n%s", view)
	}
}
