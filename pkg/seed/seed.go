// Package seed holds the bundled starter checklist used to populate a new
// collector's binder on first sign-in.
package seed

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

//go:embed dataset.toml
var datasetTOML []byte

type dataset struct {
	Sets map[string]set `toml:"sets"`
}

type set struct {
	Name     string     `toml:"name"`
	Category string     `toml:"category"`
	Cards    []cardSpec `toml:"cards"`
}

type cardSpec struct {
	ID         string `toml:"id"`
	CardName   string `toml:"card_name"`
	CardNumber string `toml:"card_number"`
	Parallel   string `toml:"parallel"`
	Serial     string `toml:"serial"`
	Source     string `toml:"source"`
}

var (
	once   sync.Once
	cards  []domain.Card
	topErr error
)

func load() {
	var ds dataset
	if err := toml.Unmarshal(datasetTOML, &ds); err != nil {
		topErr = fmt.Errorf("seed: parse dataset: %w", err)
		return
	}

	keys := make([]string, 0, len(ds.Sets))
	for key := range ds.Sets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		s := ds.Sets[key]
		for _, spec := range s.Cards {
			cards = append(cards, domain.Card{
				ID:             spec.ID,
				SetName:        s.Name,
				CardName:       spec.CardName,
				CardNumber:     spec.CardNumber,
				Parallel:       spec.Parallel,
				Serial:         spec.Serial,
				Source:         spec.Source,
				CollectionType: domain.CollectionType(s.Category),
				Builtin:        true,
			})
		}
	}
}

// Cards returns the flattened bundled checklist. The returned slice is a
// fresh copy on every call; callers may mutate it freely.
func Cards() ([]domain.Card, error) {
	once.Do(load)
	if topErr != nil {
		return nil, topErr
	}
	out := make([]domain.Card, len(cards))
	copy(out, cards)
	return out, nil
}
