package domain

import "time"

// Document is the per-user remote document the binder syncs to. Writes are
// merge-upserts: fields absent from a write are preserved server-side, so a
// write must always carry every bookkeeping field even when empty. Clearing
// the last tombstone only sticks if "hidden_cards": [] goes over the wire.
type Document struct {
	Cards           []Card              `json:"cards"`
	CustomOrder     map[string][]string `json:"custom_order"`
	HiddenCards     []string            `json:"hidden_cards"`
	CollectionOrder []string            `json:"collection_order"`
	UpdatedAt       time.Time           `json:"updated_at,omitzero"`
}

// Empty returns true when the document carries no collection data at all,
// which triggers seeding from the bundled dataset.
func (d Document) Empty() bool {
	return len(d.Cards) == 0 && len(d.HiddenCards) == 0
}
