// Package catalog はカードマスタ（JSONファイル）をメモリに載せて検索する。
// 起動時に1回だけ読み込み、以後は変更しない。更新は再起動で行う。
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// 1枚のカード。検索に使う項目だけ型つきで持ち、残りはrawのまま返す
type Card struct {
	ID     string
	Name   string
	Rarity string
	Types  []string
	SetID  string
	raw    map[string]any
}

// JSONとしてはファイルの中身（＋set）をそのまま出す
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.raw)
}

func (c Card) Raw() map[string]any {
	return c.raw
}

type Catalog struct {
	cards    []Card
	byID     map[string]int
	sets     []map[string]any
	rarities []string
	types    []string
}

// 空のカタログ（読み込み失敗時もAPIは動かす）
func Empty() *Catalog {
	return &Catalog{byID: map[string]int{}, sets: []map[string]any{}, rarities: []string{}, types: []string{}}
}

// dir/sets/en.json と dir/cards/en/<set>.json を読む
func Load(dir string, setIDs []string, log logrus.FieldLogger) (*Catalog, error) {
	var sets []map[string]any
	if err := readJSON(filepath.Join(dir, "sets", "en.json"), &sets); err != nil {
		return nil, err
	}
	setByID := make(map[string]map[string]any, len(sets))
	for _, s := range sets {
		if id, ok := s["id"].(string); ok {
			setByID[id] = s
		}
	}

	c := Empty()
	c.sets = sets
	for _, setID := range setIDs {
		var raws []map[string]any
		if err := readJSON(filepath.Join(dir, "cards", "en", setID+".json"), &raws); err != nil {
			return nil, err
		}

		setInfo, ok := setByID[setID]
		if !ok {
			log.WithField("set", setID).Warn("set info not found, cards loaded without set")
		}
		for _, raw := range raws {
			if ok {
				raw["set"] = setInfo
			}
			c.add(newCard(raw, setID, ok))
		}
	}
	c.buildFilters()

	log.WithFields(logrus.Fields{
		"sets":     len(c.sets),
		"cards":    len(c.cards),
		"rarities": len(c.rarities),
		"types":    len(c.types),
	}).Info("card catalog loaded")
	return c, nil
}

// 失敗したら警告を出して空で続ける
func LoadOrEmpty(dir string, setIDs []string, log logrus.FieldLogger) *Catalog {
	c, err := Load(dir, setIDs, log)
	if err != nil {
		log.WithError(err).Warn("failed to load card catalog, serving empty catalog")
		return Empty()
	}
	return c
}

func readJSON(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

func newCard(raw map[string]any, setID string, hasSet bool) Card {
	card := Card{raw: raw}
	card.ID, _ = raw["id"].(string)
	card.Name, _ = raw["name"].(string)
	card.Rarity, _ = raw["rarity"].(string)
	if hasSet {
		card.SetID = setID
	}
	if ts, ok := raw["types"].([]any); ok {
		for _, t := range ts {
			if s, ok := t.(string); ok {
				card.Types = append(card.Types, s)
			}
		}
	}
	return card
}

func (c *Catalog) add(card Card) {
	c.byID[card.ID] = len(c.cards)
	c.cards = append(c.cards, card)
}

func (c *Catalog) buildFilters() {
	rarities := map[string]struct{}{}
	types := map[string]struct{}{}
	for _, card := range c.cards {
		if card.Rarity != "" {
			rarities[card.Rarity] = struct{}{}
		}
		for _, t := range card.Types {
			types[t] = struct{}{}
		}
	}
	c.rarities = sortedKeys(rarities)
	c.types = sortedKeys(types)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Len() int { return len(c.cards) }

func (c *Catalog) Get(id string) (Card, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Card{}, false
	}
	return c.cards[i], true
}

type Filters struct {
	Sets     []map[string]any `json:"sets"`
	Rarities []string         `json:"rarities"`
	Types    []string         `json:"types"`
}

func (c *Catalog) Filters() Filters {
	return Filters{Sets: c.sets, Rarities: c.rarities, Types: c.types}
}

// 全条件を満たすカードを読み込み順で返す
func (c *Catalog) Search(terms []Term) []Card {
	out := make([]Card, 0, len(c.cards))
	for _, card := range c.cards {
		if matchAll(card, terms) {
			out = append(out, card)
		}
	}
	return out
}

func matchAll(card Card, terms []Term) bool {
	for _, t := range terms {
		if !t.match(card) {
			return false
		}
	}
	return true
}

func (t Term) match(card Card) bool {
	switch t.Key {
	case "name":
		return strings.Contains(strings.ToLower(card.Name), t.Value)
	case "set.id":
		return card.SetID != "" && strings.ToLower(card.SetID) == t.Value
	case "rarity":
		return card.Rarity != "" && strings.ToLower(card.Rarity) == t.Value
	case "types":
		for _, ty := range card.Types {
			if strings.ToLower(ty) == t.Value {
				return true
			}
		}
		return false
	}
	// 知らないキーは無視
	return true
}
