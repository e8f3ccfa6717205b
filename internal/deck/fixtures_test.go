package deck_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeCatalog is an in-memory catalog fixture for engine tests.
type fakeCatalog struct {
	cards          map[string]*domain.Card
	investigators  map[string]*domain.Investigator
	taboos         map[string]*domain.TabooEntry
	customizations map[string]*domain.CustomizationOption
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		cards:          make(map[string]*domain.Card),
		investigators:  make(map[string]*domain.Investigator),
		taboos:         make(map[string]*domain.TabooEntry),
		customizations: make(map[string]*domain.CustomizationOption),
	}
}

func (c *fakeCatalog) withCards(cards ...*domain.Card) *fakeCatalog {
	for _, card := range cards {
		c.cards[card.Code] = card
	}
	return c
}

func (c *fakeCatalog) withInvestigators(invs ...*domain.Investigator) *fakeCatalog {
	for _, inv := range invs {
		c.investigators[inv.Code] = inv
	}
	return c
}

func (c *fakeCatalog) withTaboo(entry *domain.TabooEntry) *fakeCatalog {
	c.taboos[entry.TabooListID+"/"+entry.CardCode] = entry
	return c
}

func (c *fakeCatalog) withCustomization(opt *domain.CustomizationOption) *fakeCatalog {
	c.customizations[fmt.Sprintf("%s/%d", opt.CardCode, opt.Position)] = opt
	return c
}

func (c *fakeCatalog) Card(code string) *domain.Card { return c.cards[code] }

func (c *fakeCatalog) Investigator(code string) *domain.Investigator {
	return c.investigators[code]
}

func (c *fakeCatalog) TabooEntry(listID, code string) *domain.TabooEntry {
	return c.taboos[listID+"/"+code]
}

func (c *fakeCatalog) CustomizationOption(code string, position int) *domain.CustomizationOption {
	return c.customizations[fmt.Sprintf("%s/%d", code, position)]
}

func mustJSON(t *testing.T, v interface{}) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

// newInvestigator builds an investigator fixture with encoded deck options
// and requirements.
func newInvestigator(t *testing.T, code string, deckSize int, opts []domain.DeckOption, reqs map[string]int) *domain.Investigator {
	t.Helper()
	inv := &domain.Investigator{
		Code:        code,
		Name:        "Investigator " + code,
		FactionCode: "guardian",
		DeckSize:    deckSize,
	}
	if opts != nil {
		inv.DeckOptions = mustJSON(t, opts)
	}
	if reqs != nil {
		inv.DeckRequirements = mustJSON(t, reqs)
	}
	return inv
}

// guardianInvestigator is the default fixture: 30-card deck, guardian cards
// level 0-5 plus neutral cards level 0-2, one required signature card and a
// random basic weakness.
func guardianInvestigator(t *testing.T) *domain.Investigator {
	t.Helper()
	inv := newInvestigator(t, "01001", 30, []domain.DeckOption{
		{Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
		{Factions: []string{"neutral"}, Level: &domain.LevelRange{Min: 0, Max: 2}},
	}, map[string]int{"01006": 1})
	inv.RandomWeakness = true
	return inv
}

func guardianCard(code, name string, xp int) *domain.Card {
	return &domain.Card{
		Code:        code,
		Name:        name,
		FactionCode: "guardian",
		TypeCode:    string(domain.CardTypeAsset),
		XP:          xp,
		DeckLimit:   2,
	}
}

func signatureCard(code, name, ownerCode string) *domain.Card {
	card := guardianCard(code, name, 0)
	card.Restrictions = datatypes.JSON([]byte(fmt.Sprintf(`[%q]`, ownerCode)))
	return card
}

func basicWeakness(code, name string) *domain.Card {
	return &domain.Card{
		Code:        code,
		Name:        name,
		FactionCode: "neutral",
		TypeCode:    string(domain.CardTypeTreachery),
		SubtypeCode: domain.SubtypeBasicWeakness,
		DeckLimit:   2,
	}
}

// guardianFixture wires the default investigator plus a spread of cards used
// across the engine tests.
func guardianFixture(t *testing.T) *fakeCatalog {
	t.Helper()
	return newFakeCatalog().
		withInvestigators(guardianInvestigator(t)).
		withCards(
			signatureCard("01006", "Trusted Sidearm", "01001"),
			guardianCard("01010", "Machete", 0),
			guardianCard("01011", "Guard Dog", 0),
			guardianCard("01020", "Lightning Gun", 5),
			basicWeakness("01099", "Haunted"),
		)
}
