package deck_test

import (
	"testing"

	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_InvestigatorCardsRejected(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	card := &domain.Card{Code: "01001", Name: "Roland", TypeCode: string(domain.CardTypeInvestigator), FactionCode: "guardian"}

	res := engine.Resolve(inv, card)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "investigator cards")
}

func TestResolve_SignatureCards(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	t.Run("OwnSignatureAllowed", func(t *testing.T) {
		res := engine.Resolve(inv, cat.Card("01006"))
		assert.True(t, res.Allowed)
		// Signature cards bypass option bookkeeping.
		assert.Nil(t, res.Option)
		assert.Equal(t, -1, res.OptionIndex)
	})

	t.Run("ForeignSignatureRejected", func(t *testing.T) {
		foreign := signatureCard("02006", "Heirloom", "02001")
		res := engine.Resolve(inv, foreign)
		assert.False(t, res.Allowed)
		assert.Contains(t, res.Reason, "signature card of another investigator")
	})
}

func TestResolve_FirstMatchingOptionWins(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{ID: "first", Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
		{ID: "second", Factions: []string{"guardian", "neutral"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv).withCards(guardianCard("01010", "Machete", 0))
	engine := deck.NewEngine(cat, 0)

	res := engine.Resolve(inv, cat.Card("01010"))
	require.True(t, res.Allowed)
	require.NotNil(t, res.Option)
	assert.Equal(t, "first", res.Option.ID)
	assert.Equal(t, 0, res.OptionIndex)
}

func TestResolve_ExclusionOptionsCheckedFirst(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
		{Traits: []string{"Firearm"}, Not: true, Error: "no firearms allowed"},
	}, nil)
	rifle := guardianCard("01025", "Rifle", 2)
	rifle.Traits = "Item. Weapon. Firearm."
	cat := newFakeCatalog().withInvestigators(inv).withCards(rifle)
	engine := deck.NewEngine(cat, 0)

	// The exclusion wins even though a later allow option would match.
	res := engine.Resolve(inv, rifle)
	assert.False(t, res.Allowed)
	assert.Equal(t, "no firearms allowed", res.Reason)
}

func TestResolve_NoOptionMatches(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	seeker := &domain.Card{Code: "02010", Name: "Old Tome", FactionCode: "seeker", TypeCode: "asset", DeckLimit: 2}

	res := engine.Resolve(inv, seeker)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "does not match any deck-building option")
}

func TestResolve_LevelRange(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 2}},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv)
	engine := deck.NewEngine(cat, 0)

	assert.True(t, engine.Resolve(inv, guardianCard("a", "A", 2)).Allowed)
	assert.False(t, engine.Resolve(inv, guardianCard("b", "B", 3)).Allowed)
}

func TestResolve_TraitFilterCaseInsensitive(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{Traits: []string{"tome", "spell"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv)
	engine := deck.NewEngine(cat, 0)

	tome := guardianCard("a", "Dusty Tome", 0)
	tome.Traits = "Item. Tome."
	assert.True(t, engine.Resolve(inv, tome).Allowed)

	blade := guardianCard("b", "Blade", 0)
	blade.Traits = "Item. Weapon."
	assert.False(t, engine.Resolve(inv, blade).Allowed)
}

func TestResolve_UsesAndNameFilters(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{Uses: []string{"charges"}},
		{Names: []string{"Knife"}},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv)
	engine := deck.NewEngine(cat, 0)

	wand := guardianCard("a", "Wand", 3)
	wand.Text = "Uses (3 charges)."
	assert.True(t, engine.Resolve(inv, wand).Allowed)

	knife := guardianCard("b", "Knife", 0)
	assert.True(t, engine.Resolve(inv, knife).Allowed)

	other := guardianCard("c", "Rope", 0)
	assert.False(t, engine.Resolve(inv, other).Allowed)
}

func TestResolve_PermanentFilter(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{Factions: []string{"guardian"}, Permanent: boolPtr(true)},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv)
	engine := deck.NewEngine(cat, 0)

	perm := guardianCard("a", "Charisma", 3)
	perm.Permanent = true
	assert.True(t, engine.Resolve(inv, perm).Allowed)
	assert.False(t, engine.Resolve(inv, guardianCard("b", "Machete", 0)).Allowed)
}

func TestResolve_MultiFactionCard(t *testing.T) {
	inv := newInvestigator(t, "03001", 30, []domain.DeckOption{
		{Factions: []string{"mystic"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv)
	engine := deck.NewEngine(cat, 0)

	dual := guardianCard("a", "Enchanted Blade", 0)
	dual.Faction2Code = "mystic"
	assert.True(t, engine.Resolve(inv, dual).Allowed)
}
