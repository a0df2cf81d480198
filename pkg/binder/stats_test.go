package binder

import (
	"math"
	"testing"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

func fptr(v float64) *float64 { return &v }

func TestPercentRounding(t *testing.T) {
	tests := []struct {
		collected int
		total     int
		want      int
	}{
		{0, 0, 0}, // empty bucket must not divide by zero
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
	}
	for _, tt := range tests {
		p := Progress{Collected: tt.collected, Total: tt.total}
		if got := p.Percent(); got != tt.want {
			t.Errorf("Progress{%d,%d}.Percent() = %d, want %d", tt.collected, tt.total, got, tt.want)
		}
	}
}

func TestStatsByType(t *testing.T) {
	b := New()
	b.Seed([]domain.Card{
		{ID: "f1", SetName: "Series One", Parallel: "Base", CardNumber: "1", Collected: true, Builtin: true},
		{ID: "f2", SetName: "Series One", Parallel: "Gold", CardNumber: "1", Builtin: true},
		{ID: "c1", SetName: "Chrome", Parallel: "Base", CardNumber: "1", Builtin: true},
	})
	s := b.Stats()
	if s.Overall.Total != 3 || s.Overall.Collected != 1 {
		t.Errorf("overall = %+v, want 1/3", s.Overall)
	}
	if got := s.ByType[domain.TypeFlagship]; got.Total != 2 || got.Collected != 1 {
		t.Errorf("flagship = %+v, want 1/2", got)
	}
	if got := s.ByType[domain.TypeChrome]; got.Total != 1 || got.Collected != 0 {
		t.Errorf("chrome = %+v, want 0/1", got)
	}

	// Tombstoned cards drop out of every aggregate.
	if err := b.DeleteCard("c1"); err != nil {
		t.Fatal(err)
	}
	if got := b.Stats().ByType[domain.TypeChrome]; got.Total != 0 {
		t.Errorf("chrome after delete = %+v, want empty", got)
	}
}

func TestPortfolioScenario(t *testing.T) {
	b := New()
	b.Seed([]domain.Card{
		{ID: "a", SetName: "Base", Parallel: "Gold", CardNumber: "1", Collected: true,
			PurchasePrice: fptr(100), CurrentValue: fptr(150)},
		{ID: "b", SetName: "Base", Parallel: "Red", CardNumber: "2", Collected: true,
			PurchasePrice: fptr(50), CurrentValue: fptr(40)},
		// Priced but not collected: excluded.
		{ID: "c", SetName: "Base", Parallel: "Black", CardNumber: "3",
			PurchasePrice: fptr(500), CurrentValue: fptr(900)},
		// Collected but unpriced: excluded.
		{ID: "d", SetName: "Base", Parallel: "Base", CardNumber: "4", Collected: true},
	})

	p := b.Portfolio()
	if p.TotalInvested != 150 {
		t.Errorf("TotalInvested = %v, want 150", p.TotalInvested)
	}
	if p.TotalValue != 190 {
		t.Errorf("TotalValue = %v, want 190", p.TotalValue)
	}
	if p.Gain() != 40 {
		t.Errorf("Gain() = %v, want 40", p.Gain())
	}
	if got := p.GainPercent(); math.Abs(got-26.666666) > 0.001 {
		t.Errorf("GainPercent() = %v, want ~26.67", got)
	}
	if p.Holdings != 2 {
		t.Errorf("Holdings = %d, want 2", p.Holdings)
	}
}

func TestPortfolioEmptyIsZeroGuarded(t *testing.T) {
	b := New()
	p := b.Portfolio()
	if p.GainPercent() != 0 {
		t.Errorf("empty portfolio GainPercent() = %v, want 0", p.GainPercent())
	}
}

func TestTopPerformers(t *testing.T) {
	b := New()
	b.Seed([]domain.Card{
		{ID: "w1", SetName: "S", Parallel: "A", CardNumber: "1", Collected: true, PurchasePrice: fptr(10), CurrentValue: fptr(30)}, // +200%
		{ID: "w2", SetName: "S", Parallel: "B", CardNumber: "2", Collected: true, PurchasePrice: fptr(10), CurrentValue: fptr(15)}, // +50%
		{ID: "m1", SetName: "S", Parallel: "C", CardNumber: "3", Collected: true, PurchasePrice: fptr(10), CurrentValue: fptr(11)}, // +10%
		{ID: "l1", SetName: "S", Parallel: "D", CardNumber: "4", Collected: true, PurchasePrice: fptr(10), CurrentValue: fptr(5)},  // -50%
		{ID: "x1", SetName: "S", Parallel: "E", CardNumber: "5", Collected: true},                                                 // unpriced
	})

	got := b.TopPerformers(2, 1)
	want := []string{"w1", "w2", "l1"}
	if len(got) != len(want) {
		t.Fatalf("TopPerformers() returned %d cards, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("TopPerformers()[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestTopPerformersSmallPortfolio(t *testing.T) {
	b := New()
	b.Seed([]domain.Card{
		{ID: "only", SetName: "S", Parallel: "A", CardNumber: "1", Collected: true, PurchasePrice: fptr(10), CurrentValue: fptr(12)},
	})
	got := b.TopPerformers(2, 1)
	if len(got) != 1 {
		t.Fatalf("small portfolio returned %d cards, want 1 (no duplication)", len(got))
	}
}
