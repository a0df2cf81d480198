package binder

import (
	"math"
	"sort"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// Progress is a collected/total pair.
type Progress struct {
	Collected int
	Total     int
}

// Percent returns round(100 * collected / total), and 0 for an empty bucket.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.Collected) / float64(p.Total)))
}

// Stats aggregates collection progress over the live cards.
type Stats struct {
	Overall Progress
	ByType  map[domain.CollectionType]Progress
}

// Stats computes overall and per-type progress.
func (b *Binder) Stats() Stats {
	s := Stats{ByType: make(map[domain.CollectionType]Progress)}
	for _, c := range b.Cards() {
		s.Overall.Total++
		t := c.Type()
		p := s.ByType[t]
		p.Total++
		if c.Collected {
			s.Overall.Collected++
			p.Collected++
		}
		s.ByType[t] = p
	}
	return s
}

// Portfolio aggregates the investment fields over collected cards that
// carry both a purchase price and a current value.
type Portfolio struct {
	TotalInvested float64
	TotalValue    float64
	Holdings      int
}

// Gain returns total value minus total invested.
func (p Portfolio) Gain() float64 {
	return p.TotalValue - p.TotalInvested
}

// GainPercent returns the gain as a percentage of the total invested,
// zero-guarded for an empty portfolio.
func (p Portfolio) GainPercent() float64 {
	if p.TotalInvested == 0 {
		return 0
	}
	return p.Gain() / p.TotalInvested * 100
}

// Portfolio sums the investment fields over the live, collected cards.
func (b *Binder) Portfolio() Portfolio {
	var p Portfolio
	for _, c := range b.Cards() {
		if !c.Collected {
			continue
		}
		if _, ok := c.Gain(); !ok {
			continue
		}
		p.TotalInvested += *c.PurchasePrice
		p.TotalValue += *c.CurrentValue
		p.Holdings++
	}
	return p
}

// TopPerformers returns the collected cards with both investment fields
// set, best gain percentage first: the top `top` winners followed by the
// bottom `bottom` losers.
func (b *Binder) TopPerformers(top, bottom int) []domain.Card {
	var priced []domain.Card
	for _, c := range b.Cards() {
		if !c.Collected {
			continue
		}
		if _, ok := c.GainPercent(); !ok {
			continue
		}
		priced = append(priced, c)
	}
	sort.SliceStable(priced, func(i, j int) bool {
		pi, _ := priced[i].GainPercent()
		pj, _ := priced[j].GainPercent()
		return pi > pj
	})

	if len(priced) <= top+bottom {
		return priced
	}
	out := make([]domain.Card, 0, top+bottom)
	out = append(out, priced[:top]...)
	out = append(out, priced[len(priced)-bottom:]...)
	return out
}
