package game

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
)

// DeckFile represents the top-level YAML structure of a collection file.
type DeckFile struct {
	Collection []CardEntry `yaml:"collection"`
	Decks      []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single saved deck in the YAML file.
type DeckEntry struct {
	Key      string      `yaml:"key,omitempty"` // defaults to Name
	Name     string      `yaml:"name"`
	Rules    string      `yaml:"rules"`
	Editable bool        `yaml:"editable"`
	Cards    []CardEntry `yaml:"cards"`
}

// CardEntry represents a card id and its count.
type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// ParseDeckFile reads and decodes a YAML collection file.
func ParseDeckFile(path string) (DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeckFile{}, err
	}
	return DecodeDeckFile(data)
}

// DecodeDeckFile decodes YAML collection data.
func DecodeDeckFile(data []byte) (DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return DeckFile{}, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// LoadCollection reads a collection file into a Collection.
func LoadCollection(path string) (Collection, error) {
	df, err := ParseDeckFile(path)
	if err != nil {
		return Collection{}, err
	}
	return df.ToCollection()
}

// ToCollection converts the file into a Collection, checking every card id
// against the catalog.
func (df DeckFile) ToCollection() (Collection, error) {
	cards, err := entriesToCounter(df.Collection)
	if err != nil {
		return Collection{}, err
	}
	c := Collection{Cards: cards, Decks: make(map[string]Deck, len(df.Decks))}
	for _, entry := range df.Decks {
		deckCards, err := entriesToCounter(entry.Cards)
		if err != nil {
			return Collection{}, fmt.Errorf("deck %q: %w", entry.Name, err)
		}
		if entry.Rules != "" {
			if _, err := lookupCard(CardID(entry.Rules)); err != nil {
				return Collection{}, fmt.Errorf("deck %q: %w", entry.Name, err)
			}
		}
		key := entry.Key
		if key == "" {
			key = entry.Name
		}
		c.Decks[key] = Deck{
			Name:      entry.Name,
			RulesCard: CardID(entry.Rules),
			Cards:     deckCards,
			Editable:  entry.Editable,
		}
	}
	return c, nil
}

// DeckFileFromCollection is the inverse of ToCollection. Entries are sorted
// so the output is stable.
func DeckFileFromCollection(c Collection) DeckFile {
	df := DeckFile{Collection: counterToEntries(c.Cards)}
	keys := make([]string, 0, len(c.Decks))
	for k := range c.Decks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		d := c.Decks[k]
		entry := DeckEntry{Name: d.Name, Rules: string(d.RulesCard), Editable: d.Editable, Cards: counterToEntries(d.Cards)}
		if k != d.Name {
			entry.Key = k
		}
		df.Decks = append(df.Decks, entry)
	}
	return df
}

// EncodeDeckFile renders a collection as YAML.
func EncodeDeckFile(c Collection) ([]byte, error) {
	return yaml.Marshal(DeckFileFromCollection(c))
}

// DeckByNumber returns the key and deck of the Nth deck (1-indexed) in the
// file.
func DeckByNumber(path string, n int) (string, Deck, error) {
	df, err := ParseDeckFile(path)
	if err != nil {
		return "", Deck{}, err
	}
	if n < 1 || n > len(df.Decks) {
		return "", Deck{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	c, err := DeckFile{Decks: df.Decks[n-1 : n]}.ToCollection()
	if err != nil {
		return "", Deck{}, err
	}
	for key, deck := range c.Decks {
		return key, deck, nil
	}
	return "", Deck{}, fmt.Errorf("deck %d not found", n)
}

func entriesToCounter(entries []CardEntry) (counter.Counter[CardID], error) {
	c := make(counter.Counter[CardID])
	for _, e := range entries {
		if _, err := lookupCard(CardID(e.ID)); err != nil {
			return nil, err
		}
		c = counter.Add(c, CardID(e.ID), e.Count)
	}
	return c, nil
}

func counterToEntries(c counter.Counter[CardID]) []CardEntry {
	var entries []CardEntry
	for _, id := range counter.Keys(c) {
		entries = append(entries, CardEntry{ID: string(id), Count: c[id]})
	}
	return entries
}

func lookupCard(id CardID) (*Card, error) {
	card, ok := FindCard(id)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownCard,
			fmt.Sprintf("card not found in catalog: %q", id), map[string]string{"card_id": string(id)})
	}
	return card, nil
}
