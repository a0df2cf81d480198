package binder

import (
	"sort"
	"strings"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// CollectedFilter is the tri-state collected filter.
type CollectedFilter int

const (
	FilterAll CollectedFilter = iota
	FilterCollected
	FilterNeeded
)

// CardSort selects the per-set card ordering.
type CardSort int

const (
	SortCustom CardSort = iota // user order first, then insertion order
	SortByName
	SortByNumber
	SortCollectedFirst
)

// SetSort selects the ordering of the sets themselves.
type SetSort int

const (
	SetSortManual SetSort = iota // explicit order first, then name
	SetSortNameAsc
	SetSortNameDesc
	SetSortTotal
	SetSortCollected
)

// Query describes one derived view of the binder.
type Query struct {
	Search  string
	Filter  CollectedFilter
	Type    domain.CollectionType // empty = all types
	Sort    CardSort
	SetSort SetSort
}

// SetView is one set's slice of a derived view.
type SetView struct {
	Name      string
	Type      domain.CollectionType
	Cards     []domain.Card
	Collected int
}

// View partitions the live cards by set, applies the query's filters and
// sort, and orders the resulting groups. Pure over current state; call
// again after any mutation.
func (b *Binder) View(q Query) []SetView {
	b.mu.Lock()
	cards := b.liveLocked()
	// Deep-copy the order slices: pruning on delete shifts the backing
	// arrays in place, so a shared slice would race with a mutation.
	order := make(map[string][]string, len(b.customOrder))
	for set, ids := range b.customOrder {
		order[set] = append([]string(nil), ids...)
	}
	setOrder := append([]string(nil), b.collectionOrder...)
	b.mu.Unlock()

	groups := make(map[string][]domain.Card)
	var names []string
	for _, c := range cards {
		if q.Type != "" && c.Type() != q.Type {
			continue
		}
		if q.Search != "" && !MatchesSearch(c, q.Search) {
			continue
		}
		switch q.Filter {
		case FilterCollected:
			if !c.Collected {
				continue
			}
		case FilterNeeded:
			if c.Collected {
				continue
			}
		}
		if _, ok := groups[c.SetName]; !ok {
			names = append(names, c.SetName)
		}
		groups[c.SetName] = append(groups[c.SetName], c)
	}

	views := make([]SetView, 0, len(names))
	for _, name := range names {
		group := groups[name]
		sortCards(group, q.Sort, order[name])
		collected := 0
		for _, c := range group {
			if c.Collected {
				collected++
			}
		}
		views = append(views, SetView{
			Name:      name,
			Type:      group[0].Type(),
			Cards:     group,
			Collected: collected,
		})
	}
	sortSets(views, q.SetSort, setOrder)
	return views
}

// MatchesSearch reports whether any searchable field of the card contains
// the query, case-insensitively.
func MatchesSearch(c domain.Card, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{c.CardName, c.Parallel, c.CardNumber, c.Serial, c.SetName, c.Source} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func sortCards(cards []domain.Card, by CardSort, customOrder []string) {
	switch by {
	case SortCustom:
		if len(customOrder) == 0 {
			return // insertion order
		}
		index := make(map[string]int, len(customOrder))
		for i, id := range customOrder {
			index[id] = i
		}
		// Cards absent from the order sort after all ordered ones, keeping
		// their original relative order.
		sort.SliceStable(cards, func(i, j int) bool {
			return orderRank(index, cards[i].ID) < orderRank(index, cards[j].ID)
		})
	case SortByName:
		sort.SliceStable(cards, func(i, j int) bool {
			return strings.ToLower(cards[i].Label()) < strings.ToLower(cards[j].Label())
		})
	case SortByNumber:
		sort.SliceStable(cards, func(i, j int) bool {
			return CompareCardNumbers(cards[i].CardNumber, cards[j].CardNumber) < 0
		})
	case SortCollectedFirst:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Collected && !cards[j].Collected
		})
	}
}

func orderRank(index map[string]int, id string) int {
	if i, ok := index[id]; ok {
		return i
	}
	return int(^uint(0) >> 1) // unordered cards sink to the end
}

func sortSets(views []SetView, by SetSort, manual []string) {
	switch by {
	case SetSortManual:
		if len(manual) == 0 {
			sortSets(views, SetSortNameAsc, nil)
			return
		}
		index := make(map[string]int, len(manual))
		for i, name := range manual {
			index[name] = i
		}
		sort.SliceStable(views, func(i, j int) bool {
			ri, ok1 := index[views[i].Name]
			rj, ok2 := index[views[j].Name]
			switch {
			case ok1 && ok2:
				return ri < rj
			case ok1:
				return true
			case ok2:
				return false
			default:
				return views[i].Name < views[j].Name
			}
		})
	case SetSortNameAsc:
		sort.SliceStable(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	case SetSortNameDesc:
		sort.SliceStable(views, func(i, j int) bool { return views[i].Name > views[j].Name })
	case SetSortTotal:
		sort.SliceStable(views, func(i, j int) bool { return len(views[i].Cards) > len(views[j].Cards) })
	case SetSortCollected:
		sort.SliceStable(views, func(i, j int) bool { return views[i].Collected > views[j].Collected })
	}
}

// CompareCardNumbers orders free-text card numbers numerically where
// possible: "2" before "10", "CG-4" before "CG-11", plain numbers before
// lettered inserts.
func CompareCardNumbers(a, b string) int {
	ap, an, aok := splitNumber(a)
	bp, bn, bok := splitNumber(b)
	if c := strings.Compare(strings.ToLower(ap), strings.ToLower(bp)); c != 0 {
		return c
	}
	switch {
	case aok && bok:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return strings.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// splitNumber splits a card number into its alphabetic prefix and a
// trailing integer. ok is false when no trailing number exists, or when
// the run of digits is too long to hold in an int; those fall back to
// plain string comparison.
func splitNumber(s string) (prefix string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) || len(s)-i > 18 {
		return s, 0, false
	}
	num := 0
	for _, ch := range s[i:] {
		num = num*10 + int(ch-'0')
	}
	return s[:i], num, true
}
