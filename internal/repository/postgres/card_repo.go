package postgres

import (
	"context"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *cardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Upsert(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(card).Error
}

func (r *cardRepository) UpsertMany(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(cards).Error
}

func (r *cardRepository) GetByCode(ctx context.Context, code string) (*domain.Card, error) {
	var card domain.Card
	err := r.db.WithContext(ctx).First(&card, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetAll(ctx context.Context) ([]*domain.Card, error) {
	var cards []*domain.Card
	err := r.db.WithContext(ctx).Order("code ASC").Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Search(ctx context.Context, filter repository.CardFilter) ([]*domain.Card, error) {
	q := r.db.WithContext(ctx)
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Trait != "" {
		q = q.Where("traits ILIKE ?", "%"+filter.Trait+"%")
	}
	if filter.Text != "" {
		q = q.Where("text ILIKE ?", "%"+filter.Text+"%")
	}
	if filter.FactionCode != "" {
		q = q.Where("(faction_code = ? OR faction2_code = ? OR faction3_code = ?)",
			filter.FactionCode, filter.FactionCode, filter.FactionCode)
	}
	if filter.TypeCode != "" {
		q = q.Where("type_code = ?", filter.TypeCode)
	}

	var cards []*domain.Card
	err := q.Order("code ASC").Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
