package postgres

import (
	"context"

	"github.com/dom/deckbuilder-web/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tabooRepository struct {
	db *gorm.DB
}

func NewTabooRepository(db *gorm.DB) *tabooRepository {
	return &tabooRepository{db: db}
}

func (r *tabooRepository) UpsertMany(ctx context.Context, entries []*domain.TabooEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "taboo_list_id"}, {Name: "card_code"}},
		UpdateAll: true,
	}).Create(entries).Error
}

func (r *tabooRepository) GetEntry(ctx context.Context, listID, cardCode string) (*domain.TabooEntry, error) {
	var entry domain.TabooEntry
	err := r.db.WithContext(ctx).First(&entry, "taboo_list_id = ? AND card_code = ?", listID, cardCode).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *tabooRepository) GetAll(ctx context.Context) ([]*domain.TabooEntry, error) {
	var entries []*domain.TabooEntry
	err := r.db.WithContext(ctx).Order("taboo_list_id ASC, card_code ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *tabooRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.TabooEntry{}).
		Distinct("taboo_list_id").
		Order("taboo_list_id ASC").
		Pluck("taboo_list_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
