package service

import (
	"github.com/dom/deckbuilder-web/internal/config"
	"github.com/dom/deckbuilder-web/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Deck    *DeckService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	catalog := NewCatalogService(repos.Card, repos.Investigator, repos.Taboo, repos.Customization)
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Catalog: catalog,
		Deck:    NewDeckService(repos.Deck, catalog, cfg),
	}
}
