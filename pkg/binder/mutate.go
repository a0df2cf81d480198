package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// ErrNotFound is returned when a mutation targets a card or set that is
// not live in the binder.
var ErrNotFound = errors.New("binder: not found")

// ErrExists is returned when a duplicate-collection target already holds
// live cards.
var ErrExists = errors.New("binder: collection already exists")

// ValidationError reports per-field validation failures on card input.
// It never reaches the network layer; forms render Fields directly.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "binder: invalid card input: " + strings.Join(keys, ", ")
}

// CardInput carries user-entered fields for add and bulk-add.
type CardInput struct {
	CardName      string
	CardNumber    string
	Parallel      string
	Serial        string
	Source        string
	Notes         string
	Image         string
	PurchasePrice *float64
	PurchaseDate  string
	CurrentValue  *float64
}

// Validate checks the required fields: the owning set, the card number,
// and the parallel must all be non-empty after trimming.
func (in CardInput) Validate(setName string) error {
	fields := make(map[string]string)
	if strings.TrimSpace(setName) == "" {
		fields["setName"] = "set is required"
	}
	if strings.TrimSpace(in.CardNumber) == "" {
		fields["cardNumber"] = "card number is required"
	}
	if strings.TrimSpace(in.Parallel) == "" {
		fields["parallel"] = "parallel is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in CardInput) card(setName string) domain.Card {
	return domain.Card{
		ID:            uuid.NewString(),
		SetName:       strings.TrimSpace(setName),
		CardName:      strings.TrimSpace(in.CardName),
		CardNumber:    strings.TrimSpace(in.CardNumber),
		Parallel:      strings.TrimSpace(in.Parallel),
		Serial:        strings.TrimSpace(in.Serial),
		Source:        strings.TrimSpace(in.Source),
		Notes:         in.Notes,
		Image:         in.Image,
		PurchasePrice: in.PurchasePrice,
		PurchaseDate:  in.PurchaseDate,
		CurrentValue:  in.CurrentValue,
	}
}

// ToggleCollected flips the collected flag on the card with the given id.
func (b *Binder) ToggleCollected(id string) error {
	b.mu.Lock()
	i, ok := b.indexLocked(id)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	b.cards[i].Collected = !b.cards[i].Collected
	b.mu.Unlock()
	b.changed()
	return nil
}

// AddCard appends a new card with a freshly generated id. An unknown set
// name creates the collection implicitly.
func (b *Binder) AddCard(setName string, in CardInput) (domain.Card, error) {
	if err := in.Validate(setName); err != nil {
		return domain.Card{}, err
	}
	c := in.card(setName)
	b.mu.Lock()
	b.cards = append(b.cards, c)
	b.mu.Unlock()
	b.changed()
	return c, nil
}

// BulkAddCards appends several cards to one set. Validation is
// all-or-nothing: the first invalid input rejects the whole batch.
func (b *Binder) BulkAddCards(setName string, inputs []CardInput) ([]domain.Card, error) {
	for i, in := range inputs {
		if err := in.Validate(setName); err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
	}
	added := make([]domain.Card, 0, len(inputs))
	b.mu.Lock()
	for _, in := range inputs {
		c := in.card(setName)
		b.cards = append(b.cards, c)
		added = append(added, c)
	}
	b.mu.Unlock()
	b.changed()
	return added, nil
}

// CardPatch carries a partial edit; nil fields are left unchanged.
// Ids are stable and independent of display fields, so an edit never
// requires remapping identity.
//
// The investment fields are pointers on the card itself, so a nil patch
// entry cannot distinguish "unchanged" from "remove". The Clear flags
// carry the removal; they win over a value set in the same patch.
type CardPatch struct {
	CardName      *string
	CardNumber    *string
	Parallel      *string
	Serial        *string
	Source        *string
	Notes         *string
	Image         *string
	PurchasePrice *float64
	PurchaseDate  *string
	CurrentValue  *float64
	Collected     *bool

	ClearPurchasePrice bool
	ClearCurrentValue  bool
}

// EditCard merges a patch into the card with the given id. Clearing a
// required field is a validation error.
func (b *Binder) EditCard(id string, patch CardPatch) error {
	fields := make(map[string]string)
	if patch.CardNumber != nil && strings.TrimSpace(*patch.CardNumber) == "" {
		fields["cardNumber"] = "card number is required"
	}
	if patch.Parallel != nil && strings.TrimSpace(*patch.Parallel) == "" {
		fields["parallel"] = "parallel is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	b.mu.Lock()
	i, ok := b.indexLocked(id)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	c := &b.cards[i]
	if patch.CardName != nil {
		c.CardName = strings.TrimSpace(*patch.CardName)
	}
	if patch.CardNumber != nil {
		c.CardNumber = strings.TrimSpace(*patch.CardNumber)
	}
	if patch.Parallel != nil {
		c.Parallel = strings.TrimSpace(*patch.Parallel)
	}
	if patch.Serial != nil {
		c.Serial = strings.TrimSpace(*patch.Serial)
	}
	if patch.Source != nil {
		c.Source = strings.TrimSpace(*patch.Source)
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.Image != nil {
		c.Image = *patch.Image
	}
	switch {
	case patch.ClearPurchasePrice:
		c.PurchasePrice = nil
	case patch.PurchasePrice != nil:
		c.PurchasePrice = patch.PurchasePrice
	}
	if patch.PurchaseDate != nil {
		c.PurchaseDate = *patch.PurchaseDate
	}
	switch {
	case patch.ClearCurrentValue:
		c.CurrentValue = nil
	case patch.CurrentValue != nil:
		c.CurrentValue = patch.CurrentValue
	}
	if patch.Collected != nil {
		c.Collected = *patch.Collected
	}
	b.mu.Unlock()
	b.changed()
	return nil
}

// DuplicateCard clones a card under a new id, uncollected and with the
// investment fields cleared.
func (b *Binder) DuplicateCard(id string) (domain.Card, error) {
	b.mu.Lock()
	i, ok := b.indexLocked(id)
	if !ok {
		b.mu.Unlock()
		return domain.Card{}, fmt.Errorf("duplicate %s: %w", id, ErrNotFound)
	}
	dup := cloneCard(b.cards[i])
	b.cards = append(b.cards, dup)
	b.mu.Unlock()
	b.changed()
	return dup, nil
}

func cloneCard(c domain.Card) domain.Card {
	c.ID = uuid.NewString()
	c.Collected = false
	c.Builtin = false
	c.PurchasePrice = nil
	c.PurchaseDate = ""
	c.CurrentValue = nil
	return c
}

// DeleteCard removes a card. Builtin cards are tombstoned so a future
// reseed cannot resurrect them; custom cards are removed outright.
func (b *Binder) DeleteCard(id string) error {
	b.mu.Lock()
	i, ok := b.indexLocked(id)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	c := b.cards[i]
	if c.Builtin {
		b.hidden[id] = true
	} else {
		b.cards = append(b.cards[:i], b.cards[i+1:]...)
	}
	b.pruneOrderLocked(c.SetName, id)
	b.mu.Unlock()
	b.changed()
	return nil
}

// RestoreHidden clears tombstones, making the cards live again. Unknown
// or never-tombstoned ids are ignored.
func (b *Binder) RestoreHidden(ids ...string) {
	b.mu.Lock()
	restored := false
	for _, id := range ids {
		if b.hidden[id] {
			delete(b.hidden, id)
			restored = true
		}
	}
	b.mu.Unlock()
	if restored {
		b.changed()
	}
}

// RenameCollection retitles every card in a set. The custom card order
// keyed by the old name follows the rename; tombstones are untouched
// because they key by card id alone.
func (b *Binder) RenameCollection(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &ValidationError{Fields: map[string]string{"setName": "set name is required"}}
	}
	b.mu.Lock()
	found := false
	for i := range b.cards {
		if b.cards[i].SetName == oldName {
			b.cards[i].SetName = newName
			// Explicit types stay; derived ones re-derive from the new name.
			found = true
		}
	}
	if !found {
		b.mu.Unlock()
		return fmt.Errorf("rename %q: %w", oldName, ErrNotFound)
	}
	if order, ok := b.customOrder[oldName]; ok {
		if _, taken := b.customOrder[newName]; !taken {
			b.customOrder[newName] = order
		}
		delete(b.customOrder, oldName)
	}
	for i, name := range b.collectionOrder {
		if name == oldName {
			b.collectionOrder[i] = newName
		}
	}
	b.mu.Unlock()
	b.changed()
	return nil
}

// DeleteCollection deletes every card in a set: builtin cards are
// tombstoned with their collected state cleared, custom cards removed.
// The set's manual orderings are dropped.
func (b *Binder) DeleteCollection(setName string) error {
	b.mu.Lock()
	found := false
	kept := b.cards[:0]
	for _, c := range b.cards {
		if c.SetName != setName || b.hidden[c.ID] {
			kept = append(kept, c)
			continue
		}
		found = true
		if c.Builtin {
			c.Collected = false
			b.hidden[c.ID] = true
			kept = append(kept, c)
		}
	}
	if !found {
		b.mu.Unlock()
		return fmt.Errorf("delete collection %q: %w", setName, ErrNotFound)
	}
	b.cards = kept
	delete(b.customOrder, setName)
	for i, name := range b.collectionOrder {
		if name == setName {
			b.collectionOrder = append(b.collectionOrder[:i], b.collectionOrder[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
	b.changed()
	return nil
}

// DuplicateCollection clones every card of one set into a new set with
// fresh ids, uncollected, investment fields cleared.
func (b *Binder) DuplicateCollection(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &ValidationError{Fields: map[string]string{"setName": "set name is required"}}
	}
	b.mu.Lock()
	var clones []domain.Card
	for _, c := range b.cards {
		if b.hidden[c.ID] {
			continue
		}
		if c.SetName == newName {
			b.mu.Unlock()
			return fmt.Errorf("duplicate collection to %q: %w", newName, ErrExists)
		}
		if c.SetName == oldName {
			dup := cloneCard(c)
			dup.SetName = newName
			dup.CollectionType = ""
			clones = append(clones, dup)
		}
	}
	if len(clones) == 0 {
		b.mu.Unlock()
		return fmt.Errorf("duplicate collection %q: %w", oldName, ErrNotFound)
	}
	b.cards = append(b.cards, clones...)
	b.mu.Unlock()
	b.changed()
	return nil
}

// ReorderCards records a user-defined card order for a set. Ids not in
// the list sort after the ordered ones; stale ids are ignored on read.
func (b *Binder) ReorderCards(setName string, orderedIDs []string) {
	b.mu.Lock()
	b.customOrder[setName] = append([]string(nil), orderedIDs...)
	b.mu.Unlock()
	b.changed()
}

// ReorderCollections records the manual ordering of the sets themselves.
func (b *Binder) ReorderCollections(orderedSetNames []string) {
	b.mu.Lock()
	b.collectionOrder = append([]string(nil), orderedSetNames...)
	b.mu.Unlock()
	b.changed()
}

// pruneOrderLocked drops one id from a set's custom order. Stale entries
// are harmless when sorting, but pruning on delete keeps the order map
// from growing without bound. Callers hold b.mu.
func (b *Binder) pruneOrderLocked(setName, id string) {
	order, ok := b.customOrder[setName]
	if !ok {
		return
	}
	for i, oid := range order {
		if oid == id {
			b.customOrder[setName] = append(order[:i], order[i+1:]...)
			break
		}
	}
	if len(b.customOrder[setName]) == 0 {
		delete(b.customOrder, setName)
	}
}
