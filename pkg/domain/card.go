package domain

import "strings"

// Card is a single checklist entry in the binder.
type Card struct {
	ID             string         `json:"id"`
	SetName        string         `json:"set_name"`
	CardName       string         `json:"card_name,omitempty"`
	CardNumber     string         `json:"card_number"`
	Parallel       string         `json:"parallel,omitempty"`
	Serial         string         `json:"serial,omitempty"` // e.g. "/99", "1/1"; cosmetic rarity marker only
	Source         string         `json:"source,omitempty"` // acquisition note, e.g. pack odds "1:10"
	Collected      bool           `json:"collected"`
	CollectionType CollectionType `json:"collection_type,omitempty"`
	PurchasePrice  *float64       `json:"purchase_price,omitempty"`
	PurchaseDate   string         `json:"purchase_date,omitempty"`
	CurrentValue   *float64       `json:"current_value,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	Image          string         `json:"image,omitempty"` // data URI
	Builtin        bool           `json:"builtin,omitempty"`
}

// Label returns the primary display label: the card name when present,
// otherwise the parallel.
func (c Card) Label() string {
	if c.CardName != "" {
		return c.CardName
	}
	return c.Parallel
}

// Type returns the explicit collection type, or one derived from the set name.
func (c Card) Type() CollectionType {
	if c.CollectionType != "" {
		return c.CollectionType
	}
	return DeriveCollectionType(c.SetName)
}

// Gain returns currentValue - purchasePrice. The second return is false
// unless both fields are set.
func (c Card) Gain() (float64, bool) {
	if c.PurchasePrice == nil || c.CurrentValue == nil {
		return 0, false
	}
	return *c.CurrentValue - *c.PurchasePrice, true
}

// GainPercent returns the gain as a percentage of the purchase price.
// The second return is false unless both fields are set and the price is
// nonzero.
func (c Card) GainPercent() (float64, bool) {
	gain, ok := c.Gain()
	if !ok || *c.PurchasePrice == 0 {
		return 0, false
	}
	return gain / *c.PurchasePrice * 100, true
}

// CollectionType buckets sets for color coding and progress breakdowns.
type CollectionType string

// Known collection types.
const (
	TypeFlagship    CollectionType = "flagship"
	TypeChrome      CollectionType = "chrome"
	TypeHoliday     CollectionType = "holiday"
	TypeSapphire    CollectionType = "sapphire"
	TypeMidnight    CollectionType = "midnight"
	TypeBlackFriday CollectionType = "blackfriday"
)

// CollectionTypes lists every known type in display order.
var CollectionTypes = []CollectionType{
	TypeFlagship,
	TypeChrome,
	TypeHoliday,
	TypeSapphire,
	TypeMidnight,
	TypeBlackFriday,
}

// DeriveCollectionType infers a collection type from a set name.
// Unrecognized names fall back to flagship.
func DeriveCollectionType(setName string) CollectionType {
	lower := strings.ToLower(setName)
	switch {
	case strings.Contains(lower, "chrome"):
		return TypeChrome
	case strings.Contains(lower, "holiday"):
		return TypeHoliday
	case strings.Contains(lower, "sapphire"):
		return TypeSapphire
	case strings.Contains(lower, "midnight"):
		return TypeMidnight
	case strings.Contains(lower, "black friday"), strings.Contains(lower, "blackfriday"):
		return TypeBlackFriday
	default:
		return TypeFlagship
	}
}

// ValidType returns true if t is a known collection type.
func ValidType(t CollectionType) bool {
	for _, known := range CollectionTypes {
		if t == known {
			return true
		}
	}
	return false
}
