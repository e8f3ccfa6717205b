package deck_test

import (
	"testing"

	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasProblem(problems []deck.Problem, code deck.ProblemCode) bool {
	for _, p := range problems {
		if p.Code == code {
			return true
		}
	}
	return false
}

func findProblem(t *testing.T, problems []deck.Problem, code deck.ProblemCode) deck.Problem {
	t.Helper()
	for _, p := range problems {
		if p.Code == code {
			return p
		}
	}
	t.Fatalf("problem %s not found in %v", code, problems)
	return deck.Problem{}
}

func TestValidate_FreshDeckScenario(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)

	st, err := engine.NewDeck("01001")
	require.NoError(t, err)

	// Seeded with the required signature card only.
	assert.Equal(t, map[string]int{"01006": 1}, st.Slots)

	res := st.Result
	require.NotNil(t, res)
	assert.Equal(t, 0, res.DeckSize, "signature cards never count toward deck size")
	assert.Equal(t, 30, res.RequiredSize)

	warning := findProblem(t, res.Warnings, deck.ProblemDeckTooSmall)
	assert.Contains(t, warning.Message, "30 more cards")
	assert.True(t, hasProblem(res.Warnings, deck.ProblemMissingWeakness))
	assert.True(t, res.Valid, "warnings never block validity")
}

func TestValidate_UnknownCard(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	st := &deck.State{InvestigatorCode: "01001", Slots: map[string]int{"zz999": 1}}
	res := engine.Validate(inv, st)

	assert.False(t, res.Valid)
	problem := findProblem(t, res.Errors, deck.ProblemUnknownCard)
	assert.Equal(t, "zz999", problem.CardCode)
}

func TestValidate_InvalidCardSkipsFurtherChecks(t *testing.T) {
	seeker := &domain.Card{Code: "02010", Name: "Old Tome", FactionCode: "seeker", TypeCode: "asset", DeckLimit: 1}
	cat := guardianFixture(t).withCards(seeker)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	// Quantity 3 also exceeds the copy limit, but ineligibility is reported
	// alone for this card.
	st := &deck.State{InvestigatorCode: "01001", Slots: map[string]int{"02010": 3}}
	res := engine.Validate(inv, st)

	assert.True(t, hasProblem(res.Errors, deck.ProblemInvalidCard))
	assert.False(t, hasProblem(res.Errors, deck.ProblemCopyLimit))
}

func TestValidate_CopyLimit(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	st := &deck.State{InvestigatorCode: "01001", Slots: map[string]int{"01010": 3}}
	res := engine.Validate(inv, st)

	problem := findProblem(t, res.Errors, deck.ProblemCopyLimit)
	assert.Contains(t, problem.Message, "3/2")
}

func TestValidate_TabooForbiddenAndLimit(t *testing.T) {
	cat := guardianFixture(t).
		withTaboo(&domain.TabooEntry{TabooListID: "2024", CardCode: "01010", Forbidden: true}).
		withTaboo(&domain.TabooEntry{TabooListID: "2024", CardCode: "01011", DeckLimit: intPtr(1)})
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	st := &deck.State{
		InvestigatorCode: "01001",
		Slots:            map[string]int{"01010": 1, "01011": 2},
		TabooListID:      "2024",
	}
	res := engine.Validate(inv, st)

	assert.True(t, hasProblem(res.Errors, deck.ProblemTabooForbidden))
	problem := findProblem(t, res.Errors, deck.ProblemTabooLimit)
	assert.Contains(t, problem.Message, "2/1")

	// Without the taboo list active both cards are fine.
	st.TabooListID = ""
	res = engine.Validate(inv, st)
	assert.False(t, hasProblem(res.Errors, deck.ProblemTabooForbidden))
	assert.False(t, hasProblem(res.Errors, deck.ProblemTabooLimit))
}

func TestValidate_OptionLimit(t *testing.T) {
	inv := newInvestigator(t, "05001", 30, []domain.DeckOption{
		{Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
		{ID: "splash", Factions: []string{"seeker"}, Level: &domain.LevelRange{Min: 0, Max: 2}, Limit: intPtr(3)},
	}, nil)
	seekerA := &domain.Card{Code: "30001", Name: "Magnifier", FactionCode: "seeker", TypeCode: "asset", DeckLimit: 2}
	seekerB := &domain.Card{Code: "30002", Name: "Notebook", FactionCode: "seeker", TypeCode: "asset", DeckLimit: 2}
	cat := newFakeCatalog().withInvestigators(inv).withCards(seekerA, seekerB)
	engine := deck.NewEngine(cat, 0)

	st := &deck.State{InvestigatorCode: "05001", Slots: map[string]int{"30001": 2, "30002": 2}}
	res := engine.Validate(inv, st)

	problem := findProblem(t, res.Errors, deck.ProblemOptionLimit)
	assert.Contains(t, problem.Message, "splash")

	st.Slots["30002"] = 1
	res = engine.Validate(inv, st)
	assert.False(t, hasProblem(res.Errors, deck.ProblemOptionLimit))
}

func TestValidate_MissingRequired(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	st := &deck.State{InvestigatorCode: "01001", Slots: map[string]int{"01010": 2}}
	res := engine.Validate(inv, st)

	problem := findProblem(t, res.Errors, deck.ProblemMissingRequired)
	assert.Equal(t, "01006", problem.CardCode)
}

func TestValidate_DeckTooLarge(t *testing.T) {
	inv := newInvestigator(t, "05001", 2, []domain.DeckOption{
		{Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
	}, nil)
	cat := newFakeCatalog().withInvestigators(inv).
		withCards(guardianCard("30001", "A", 0), guardianCard("30002", "B", 0))
	engine := deck.NewEngine(cat, 0)

	st := &deck.State{InvestigatorCode: "05001", Slots: map[string]int{"30001": 2, "30002": 1}}
	res := engine.Validate(inv, st)
	assert.True(t, hasProblem(res.Errors, deck.ProblemDeckTooLarge))

	// Exact size is silent.
	st.Slots["30002"] = 0
	delete(st.Slots, "30002")
	res = engine.Validate(inv, st)
	assert.False(t, hasProblem(res.Errors, deck.ProblemDeckTooLarge))
	assert.False(t, hasProblem(res.Warnings, deck.ProblemDeckTooSmall))
}

func TestValidate_XPBudget(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	st := &deck.State{
		InvestigatorCode: "01001",
		Slots:            map[string]int{"01020": 2}, // 10 XP
		XPEarned:         8,
	}
	res := engine.Validate(inv, st)
	assert.Equal(t, 10, res.TotalXP)
	assert.True(t, hasProblem(res.Errors, deck.ProblemXPExceeded))

	// A zero budget disables the check (starter decks).
	st.XPEarned = 0
	res = engine.Validate(inv, st)
	assert.False(t, hasProblem(res.Errors, deck.ProblemXPExceeded))
}

func TestValidate_ValidMatchesEmptyErrors(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	states := []*deck.State{
		{InvestigatorCode: "01001", Slots: map[string]int{"01010": 2}},
		{InvestigatorCode: "01001", Slots: map[string]int{"zz999": 1}},
		{InvestigatorCode: "01001", Slots: map[string]int{"01006": 1, "01010": 3}},
	}
	for _, st := range states {
		res := engine.Validate(inv, st)
		assert.Equal(t, len(res.Errors) == 0, res.Valid)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	cat := guardianFixture(t)
	engine := deck.NewEngine(cat, 0)
	inv := cat.Investigator("01001")

	st := &deck.State{
		InvestigatorCode: "01001",
		Slots:            map[string]int{"01006": 1, "01010": 2, "01020": 1, "zz999": 1},
		XPEarned:         3,
	}
	first := engine.Validate(inv, st)
	second := engine.Validate(inv, st)
	assert.Equal(t, first, second)
}
