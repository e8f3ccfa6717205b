package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository/postgres"
	"github.com/dom/deckbuilder-web/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newDeckRecord(userID uuid.UUID, name string) *domain.Deck {
	slots, _ := json.Marshal(map[string]int{"01006": 1, "01010": 2})
	empty, _ := json.Marshal(map[string]int{})
	return &domain.Deck{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             name,
		InvestigatorCode: "01001",
		Slots:            datatypes.JSON(slots),
		SideSlots:        datatypes.JSON(empty),
		ExemptSlots:      datatypes.JSON(empty),
		Discounts:        datatypes.JSON(empty),
		Customizations:   datatypes.JSON(empty),
	}
}

func TestDeckRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewDeckRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	deck := newDeckRecord(user.ID, "Roland's First Deck")
	require.NoError(t, repo.Create(ctx, deck))

	got, err := repo.GetByID(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roland's First Deck", got.Name)
	assert.Equal(t, "01001", got.InvestigatorCode)

	var slots map[string]int
	require.NoError(t, json.Unmarshal(got.Slots, &slots))
	assert.Equal(t, map[string]int{"01006": 1, "01010": 2}, slots)
}

func TestDeckRepository_GetByID_NotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewDeckRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestDeckRepository_GetByUserID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewDeckRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	for _, name := range []string{"Deck A", "Deck B", "Deck C"} {
		require.NoError(t, repo.Create(ctx, newDeckRecord(user.ID, name)))
	}
	require.NoError(t, repo.Create(ctx, newDeckRecord(other.ID, "Other Deck")))

	decks, err := repo.GetByUserID(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, decks, 3)

	limited, err := repo.GetByUserID(ctx, user.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	rest, err := repo.GetByUserID(ctx, user.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestDeckRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewDeckRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	deck := newDeckRecord(user.ID, "Starter")
	require.NoError(t, repo.Create(ctx, deck))

	deck.Name = "Upgraded"
	deck.XPEarned = 10
	require.NoError(t, repo.Update(ctx, deck))

	got, err := repo.GetByID(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Upgraded", got.Name)
	assert.Equal(t, 10, got.XPEarned)

	require.NoError(t, repo.Delete(ctx, deck.ID))
	_, err = repo.GetByID(ctx, deck.ID)
	assert.Error(t, err)
}
