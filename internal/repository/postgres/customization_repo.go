package postgres

import (
	"context"

	"github.com/dom/deckbuilder-web/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customizationRepository struct {
	db *gorm.DB
}

func NewCustomizationRepository(db *gorm.DB) *customizationRepository {
	return &customizationRepository{db: db}
}

func (r *customizationRepository) UpsertMany(ctx context.Context, options []*domain.CustomizationOption) error {
	if len(options) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_code"}, {Name: "position"}},
		UpdateAll: true,
	}).Create(options).Error
}

func (r *customizationRepository) GetByCard(ctx context.Context, cardCode string) ([]*domain.CustomizationOption, error) {
	var options []*domain.CustomizationOption
	err := r.db.WithContext(ctx).Where("card_code = ?", cardCode).Order("position ASC").Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (r *customizationRepository) GetAll(ctx context.Context) ([]*domain.CustomizationOption, error) {
	var options []*domain.CustomizationOption
	err := r.db.WithContext(ctx).Order("card_code ASC, position ASC").Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}
