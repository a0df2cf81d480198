// Package binder holds the in-memory card collection and derives every
// on-screen view from it. It is the only write surface over the card list;
// UI layers read views and call mutation methods, and a change hook feeds
// the persistence syncer.
package binder

import (
	"sort"
	"sync"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// Binder is the authoritative local state: the flat card list, tombstones
// for removed builtin cards, and the manual orderings.
//
// Tombstones are keyed by immutable card id only, never by set name, so a
// rename after a delete cannot resurrect or orphan a tombstone.
type Binder struct {
	mu sync.Mutex

	cards           []domain.Card
	hidden          map[string]bool
	customOrder     map[string][]string
	collectionOrder []string

	version  uint64
	onChange func()
}

// New returns an empty binder.
func New() *Binder {
	return &Binder{
		hidden:      make(map[string]bool),
		customOrder: make(map[string][]string),
	}
}

// OnChange registers a hook invoked after every successful mutation, with
// no locks held. Used to schedule persistence writes.
func (b *Binder) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Load replaces all state with the contents of a remote document. It does
// not count as a mutation: no change hook fires and the version resets.
func (b *Binder) Load(doc domain.Document) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cards = append([]domain.Card(nil), doc.Cards...)
	b.hidden = make(map[string]bool, len(doc.HiddenCards))
	for _, id := range doc.HiddenCards {
		b.hidden[id] = true
	}
	b.customOrder = make(map[string][]string, len(doc.CustomOrder))
	for set, ids := range doc.CustomOrder {
		b.customOrder[set] = append([]string(nil), ids...)
	}
	b.collectionOrder = append([]string(nil), doc.CollectionOrder...)
	b.version = 0
}

// Seed populates an empty binder from the bundled dataset. Like Load it
// does not fire the change hook; the caller writes through explicitly.
func (b *Binder) Seed(cards []domain.Card) {
	b.Load(domain.Document{Cards: cards})
}

// Snapshot serializes the full syncable state. UpdatedAt is left zero;
// the persistence layer stamps it at write time.
//
// Every field is non-nil even when empty: the remote write is a
// merge-upsert, and an omitted field would leave stale server state (a
// restored tombstone would come back on the next load).
func (b *Binder) Snapshot() domain.Document {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc := domain.Document{
		Cards:           append(make([]domain.Card, 0, len(b.cards)), b.cards...),
		CustomOrder:     make(map[string][]string, len(b.customOrder)),
		HiddenCards:     make([]string, 0, len(b.hidden)),
		CollectionOrder: append(make([]string, 0, len(b.collectionOrder)), b.collectionOrder...),
	}
	for set, ids := range b.customOrder {
		doc.CustomOrder[set] = append([]string(nil), ids...)
	}
	for id := range b.hidden {
		doc.HiddenCards = append(doc.HiddenCards, id)
	}
	sort.Strings(doc.HiddenCards)
	return doc
}

// Version returns the local mutation counter, which increments on every
// successful mutation and resets on Load.
func (b *Binder) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Cards returns a copy of the live (non-tombstoned) card list in storage
// order.
func (b *Binder) Cards() []domain.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liveLocked()
}

// Card returns the live card with the given id.
func (b *Binder) Card(id string) (domain.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.indexLocked(id)
	if !ok {
		return domain.Card{}, false
	}
	return b.cards[i], true
}

// HiddenCards returns the tombstoned builtin cards, for the restore path.
func (b *Binder) HiddenCards() []domain.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.Card
	for _, c := range b.cards {
		if b.hidden[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// SetNames returns every set with at least one live card, in storage order.
func (b *Binder) SetNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var names []string
	seen := make(map[string]bool)
	for _, c := range b.cards {
		if b.hidden[c.ID] || seen[c.SetName] {
			continue
		}
		seen[c.SetName] = true
		names = append(names, c.SetName)
	}
	return names
}

// liveLocked returns the non-tombstoned cards. Callers hold b.mu.
func (b *Binder) liveLocked() []domain.Card {
	out := make([]domain.Card, 0, len(b.cards))
	for _, c := range b.cards {
		if !b.hidden[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// indexLocked finds a live card by id. Callers hold b.mu.
func (b *Binder) indexLocked(id string) (int, bool) {
	for i, c := range b.cards {
		if c.ID == id && !b.hidden[id] {
			return i, true
		}
	}
	return 0, false
}

// changed bumps the version and fires the change hook. Call without b.mu.
func (b *Binder) changed() {
	b.mu.Lock()
	b.version++
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}
