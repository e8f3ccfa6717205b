package service_test

import (
	"context"
	"testing"

	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository/postgres"
	"github.com/dom/deckbuilder-web/internal/service"
	"github.com/dom/deckbuilder-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeckServiceEnv(t *testing.T) (*testutil.TestDB, *service.Services) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig())

	testutil.SeedStarterCatalog(t, testDB.DB)
	require.NoError(t, services.Catalog.Reload(context.Background()))

	return testDB, services
}

func TestDeckService_CreateDeck(t *testing.T) {
	testDB, services := newDeckServiceEnv(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	record, st, err := services.Deck.CreateDeck(ctx, user.ID, "01001", "Roland's Deck")
	require.NoError(t, err)
	assert.Equal(t, "Roland's Deck", record.Name)

	// Seeded with the investigator's signature requirement
	assert.Equal(t, map[string]int{"01006": 1}, st.Slots)
	require.NotNil(t, st.Result)
	assert.True(t, st.Result.Valid)

	// Persisted snapshot is readable
	got, err := services.Deck.GetDeck(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}

func TestDeckService_CreateDeck_UnknownInvestigator(t *testing.T) {
	testDB, services := newDeckServiceEnv(t)

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, _, err := services.Deck.CreateDeck(context.Background(), user.ID, "99999", "Nope")
	assert.ErrorIs(t, err, domain.ErrInvestigatorNotFound)
}

func TestDeckService_Apply(t *testing.T) {
	testDB, services := newDeckServiceEnv(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	record, _, err := services.Deck.CreateDeck(ctx, user.ID, "01001", "Roland's Deck")
	require.NoError(t, err)

	_, st, err := services.Deck.Apply(ctx, record.ID, user.ID, deck.Action{
		Type: deck.ActionAddCard, Code: "01010", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Slots["01010"])

	// The persisted snapshot tracks the session
	got, err := services.Deck.GetDeck(ctx, record.ID)
	require.NoError(t, err)
	assert.Contains(t, string(got.Slots), "01010")

	// Undo reverts the addition and persists again
	_, st, err = services.Deck.Apply(ctx, record.ID, user.ID, deck.Action{Type: deck.ActionUndo})
	require.NoError(t, err)
	assert.Zero(t, st.Slots["01010"])
}

func TestDeckService_Apply_NotOwner(t *testing.T) {
	testDB, services := newDeckServiceEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	record, _, err := services.Deck.CreateDeck(ctx, owner.ID, "01001", "Roland's Deck")
	require.NoError(t, err)

	_, _, err = services.Deck.Apply(ctx, record.ID, stranger.ID, deck.Action{
		Type: deck.ActionAddCard, Code: "01010",
	})
	assert.ErrorIs(t, err, domain.ErrNotDeckOwner)
}

func TestDeckService_SessionSurvivesRestart(t *testing.T) {
	testDB, services := newDeckServiceEnv(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	record, _, err := services.Deck.CreateDeck(ctx, user.ID, "01001", "Roland's Deck")
	require.NoError(t, err)

	_, _, err = services.Deck.Apply(ctx, record.ID, user.ID, deck.Action{
		Type: deck.ActionAddCard, Code: "01010", Quantity: 2,
	})
	require.NoError(t, err)

	// A fresh service stack simulates a restart: the session is rebuilt from
	// the persisted snapshot, with slots intact and history empty.
	repos := postgres.NewRepositories(testDB.DB)
	restarted := service.NewServices(repos, testutil.TestConfig())
	require.NoError(t, restarted.Catalog.Reload(ctx))

	st, err := restarted.Deck.Session(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Slots["01010"])
	assert.Equal(t, 1, st.Slots["01006"])
	assert.Zero(t, st.HistoryLen())

	// Undo after the restart is a no-op
	_, after, err := restarted.Deck.Apply(ctx, record.ID, user.ID, deck.Action{Type: deck.ActionUndo})
	require.NoError(t, err)
	assert.Equal(t, st, after)
}

func TestDeckService_DeleteDeck(t *testing.T) {
	testDB, services := newDeckServiceEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	record, _, err := services.Deck.CreateDeck(ctx, owner.ID, "01001", "Roland's Deck")
	require.NoError(t, err)

	assert.ErrorIs(t, services.Deck.DeleteDeck(ctx, record.ID, stranger.ID), domain.ErrNotDeckOwner)

	require.NoError(t, services.Deck.DeleteDeck(ctx, record.ID, owner.ID))
	_, err = services.Deck.GetDeck(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrDeckNotFound)
}
