package postgres

import (
	"context"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type deckRepository struct {
	db *gorm.DB
}

func NewDeckRepository(db *gorm.DB) *deckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, deck *domain.Deck) error {
	return r.db.WithContext(ctx).Create(deck).Error
}

func (r *deckRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	var deck domain.Deck
	err := r.db.WithContext(ctx).First(&deck, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

func (r *deckRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Deck, error) {
	var decks []*domain.Deck
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&decks).Error
	if err != nil {
		return nil, err
	}
	return decks, nil
}

func (r *deckRepository) Update(ctx context.Context, deck *domain.Deck) error {
	return r.db.WithContext(ctx).Save(deck).Error
}

func (r *deckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deck{}, "id = ?", id).Error
}
