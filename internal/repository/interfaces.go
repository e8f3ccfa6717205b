package repository

import (
	"context"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// CardFilter narrows a catalog search. Empty fields are ignored; Name, Trait
// and Text match as case-insensitive substrings.
type CardFilter struct {
	Name        string
	Trait       string
	Text        string
	FactionCode string
	TypeCode    string
}

type CardRepository interface {
	Upsert(ctx context.Context, card *domain.Card) error
	UpsertMany(ctx context.Context, cards []*domain.Card) error
	GetByCode(ctx context.Context, code string) (*domain.Card, error)
	GetAll(ctx context.Context) ([]*domain.Card, error)
	Search(ctx context.Context, filter CardFilter) ([]*domain.Card, error)
}

type InvestigatorRepository interface {
	Upsert(ctx context.Context, investigator *domain.Investigator) error
	UpsertMany(ctx context.Context, investigators []*domain.Investigator) error
	GetByCode(ctx context.Context, code string) (*domain.Investigator, error)
	GetAll(ctx context.Context) ([]*domain.Investigator, error)
}

type TabooRepository interface {
	UpsertMany(ctx context.Context, entries []*domain.TabooEntry) error
	GetEntry(ctx context.Context, listID, cardCode string) (*domain.TabooEntry, error)
	GetAll(ctx context.Context) ([]*domain.TabooEntry, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type CustomizationRepository interface {
	UpsertMany(ctx context.Context, options []*domain.CustomizationOption) error
	GetByCard(ctx context.Context, cardCode string) ([]*domain.CustomizationOption, error)
	GetAll(ctx context.Context) ([]*domain.CustomizationOption, error)
}

type DeckRepository interface {
	Create(ctx context.Context, deck *domain.Deck) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Deck, error)
	Update(ctx context.Context, deck *domain.Deck) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	Card          CardRepository
	Investigator  InvestigatorRepository
	Taboo         TabooRepository
	Customization CustomizationRepository
	Deck          DeckRepository
}
