package postgres

import (
	"context"

	"github.com/dom/deckbuilder-web/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type investigatorRepository struct {
	db *gorm.DB
}

func NewInvestigatorRepository(db *gorm.DB) *investigatorRepository {
	return &investigatorRepository{db: db}
}

func (r *investigatorRepository) Upsert(ctx context.Context, investigator *domain.Investigator) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(investigator).Error
}

func (r *investigatorRepository) UpsertMany(ctx context.Context, investigators []*domain.Investigator) error {
	if len(investigators) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(investigators).Error
}

func (r *investigatorRepository) GetByCode(ctx context.Context, code string) (*domain.Investigator, error) {
	var investigator domain.Investigator
	err := r.db.WithContext(ctx).First(&investigator, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &investigator, nil
}

func (r *investigatorRepository) GetAll(ctx context.Context) ([]*domain.Investigator, error) {
	var investigators []*domain.Investigator
	err := r.db.WithContext(ctx).Order("code ASC").Find(&investigators).Error
	if err != nil {
		return nil, err
	}
	return investigators, nil
}
