package postgres

import (
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Card{},
		&domain.Investigator{},
		&domain.TabooEntry{},
		&domain.CustomizationOption{},
		&domain.Deck{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		Card:          NewCardRepository(db),
		Investigator:  NewInvestigatorRepository(db),
		Taboo:         NewTabooRepository(db),
		Customization: NewCustomizationRepository(db),
		Deck:          NewDeckRepository(db),
	}
}
