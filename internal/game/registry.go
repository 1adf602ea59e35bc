package game

import (
	"fmt"
	"maps"
	"slices"
)

// CardRegistry maps card ids to their constructor functions.
var CardRegistry = map[CardID]func() *Card{
	"starter-rules":   StarterRules,
	"focused-rules":   FocusedRules,
	"score":           Score,
	"dual-score":      DualScore,
	"point-reset":     PointReset,
	"point-multiply":  PointMultiply,
	"zero-reward":     ZeroReward,
	"save-reward":     SaveReward,
	"score-surge":     ScoreSurge,
	"score-synergy":   ScoreSynergy,
	"point-loan":      PointLoan,
	"debt":            Debt,
	"last-resort":     LastResort,
	"collect-basic":   CollectBasic,
	"double-choice":   DoubleChoice,
	"point-engine":    PointEngine,
	"lucky-scarab":    LuckyScarab,
	"point-press":     PointPress,
	"score-collector": ScoreCollector,
}

// Catalog is the shared, read-only set of card definitions.
var Catalog = buildCatalog(CardRegistry)

func buildCatalog(registry map[CardID]func() *Card) map[CardID]*Card {
	catalog := make(map[CardID]*Card, len(registry))
	for id, ctor := range registry {
		card := ctor()
		if card.ID != id {
			panic(fmt.Sprintf("card registered as %q has id %q", id, card.ID))
		}
		catalog[id] = card
	}
	return catalog
}

// CatalogIDs returns every catalog id, sorted.
func CatalogIDs() []CardID {
	return slices.Sorted(maps.Keys(Catalog))
}

// FindCard returns the catalog entry for id.
func FindCard(id CardID) (*Card, bool) {
	card, ok := Catalog[id]
	return card, ok
}

// LookupCard returns the catalog entry for id.
// Panics if the card is not found.
func LookupCard(id CardID) *Card {
	card, ok := Catalog[id]
	if !ok {
		panic(fmt.Sprintf("card not found in catalog: %q", id))
	}
	return card
}
