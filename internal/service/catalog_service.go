package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository"
	"gorm.io/gorm"
)

// CatalogService owns the card catalog: bulk imports into Postgres and an
// in-memory snapshot served to the deck engine. The engine requires
// synchronous, side-effect-free lookups, so it always reads the snapshot and
// never touches the database; Reload swaps the snapshot wholesale.
type CatalogService struct {
	cardRepo          repository.CardRepository
	investigatorRepo  repository.InvestigatorRepository
	tabooRepo         repository.TabooRepository
	customizationRepo repository.CustomizationRepository

	mu             sync.RWMutex
	cards          map[string]*domain.Card
	investigators  map[string]*domain.Investigator
	taboos         map[string]*domain.TabooEntry
	customizations map[string]*domain.CustomizationOption
}

func NewCatalogService(
	cardRepo repository.CardRepository,
	investigatorRepo repository.InvestigatorRepository,
	tabooRepo repository.TabooRepository,
	customizationRepo repository.CustomizationRepository,
) *CatalogService {
	return &CatalogService{
		cardRepo:          cardRepo,
		investigatorRepo:  investigatorRepo,
		tabooRepo:         tabooRepo,
		customizationRepo: customizationRepo,
		cards:             make(map[string]*domain.Card),
		investigators:     make(map[string]*domain.Investigator),
		taboos:            make(map[string]*domain.TabooEntry),
		customizations:    make(map[string]*domain.CustomizationOption),
	}
}

// Reload rebuilds the in-memory snapshot from the database. Must be called
// once at startup (and after every import) before any deck operation runs.
func (s *CatalogService) Reload(ctx context.Context) error {
	cards, err := s.cardRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	investigators, err := s.investigatorRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load investigators: %w", err)
	}
	taboos, err := s.tabooRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load taboo entries: %w", err)
	}
	customizations, err := s.customizationRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load customization options: %w", err)
	}

	cardMap := make(map[string]*domain.Card, len(cards))
	for _, card := range cards {
		cardMap[card.Code] = card
	}
	invMap := make(map[string]*domain.Investigator, len(investigators))
	for _, inv := range investigators {
		invMap[inv.Code] = inv
	}
	tabooMap := make(map[string]*domain.TabooEntry, len(taboos))
	for _, entry := range taboos {
		tabooMap[entry.TabooListID+"/"+entry.CardCode] = entry
	}
	customizationMap := make(map[string]*domain.CustomizationOption, len(customizations))
	for _, opt := range customizations {
		customizationMap[fmt.Sprintf("%s/%d", opt.CardCode, opt.Position)] = opt
	}

	s.mu.Lock()
	s.cards = cardMap
	s.investigators = invMap
	s.taboos = tabooMap
	s.customizations = customizationMap
	s.mu.Unlock()
	return nil
}

// Card implements deck.Catalog.
func (s *CatalogService) Card(code string) *domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cards[code]
}

// Investigator implements deck.Catalog.
func (s *CatalogService) Investigator(code string) *domain.Investigator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.investigators[code]
}

// TabooEntry implements deck.Catalog.
func (s *CatalogService) TabooEntry(listID, code string) *domain.TabooEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taboos[listID+"/"+code]
}

// CustomizationOption implements deck.Catalog.
func (s *CatalogService) CustomizationOption(code string, position int) *domain.CustomizationOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customizations[fmt.Sprintf("%s/%d", code, position)]
}

func (s *CatalogService) GetCard(ctx context.Context, code string) (*domain.Card, error) {
	card, err := s.cardRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (s *CatalogService) SearchCards(ctx context.Context, filter repository.CardFilter) ([]*domain.Card, error) {
	return s.cardRepo.Search(ctx, filter)
}

func (s *CatalogService) GetInvestigator(ctx context.Context, code string) (*domain.Investigator, error) {
	investigator, err := s.investigatorRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvestigatorNotFound
		}
		return nil, err
	}
	return investigator, nil
}

func (s *CatalogService) GetAllInvestigators(ctx context.Context) ([]*domain.Investigator, error) {
	return s.investigatorRepo.GetAll(ctx)
}

func (s *CatalogService) TabooListIDs(ctx context.Context) ([]string, error) {
	return s.tabooRepo.ListIDs(ctx)
}

func (s *CatalogService) CardCustomizations(ctx context.Context, cardCode string) ([]*domain.CustomizationOption, error) {
	return s.customizationRepo.GetByCard(ctx, cardCode)
}

// CatalogImport is the payload of a bulk catalog import.
type CatalogImport struct {
	Cards                []*domain.Card                `json:"cards"`
	Investigators        []*domain.Investigator        `json:"investigators"`
	TabooEntries         []*domain.TabooEntry          `json:"tabooEntries"`
	CustomizationOptions []*domain.CustomizationOption `json:"customizationOptions"`
}

// ImportStats reports how many rows an import touched.
type ImportStats struct {
	Cards                int `json:"cards"`
	Investigators        int `json:"investigators"`
	TabooEntries         int `json:"tabooEntries"`
	CustomizationOptions int `json:"customizationOptions"`
}

// Import upserts a catalog payload and refreshes the in-memory snapshot.
func (s *CatalogService) Import(ctx context.Context, in CatalogImport) (*ImportStats, error) {
	if err := s.cardRepo.UpsertMany(ctx, in.Cards); err != nil {
		return nil, fmt.Errorf("import cards: %w", err)
	}
	if err := s.investigatorRepo.UpsertMany(ctx, in.Investigators); err != nil {
		return nil, fmt.Errorf("import investigators: %w", err)
	}
	if err := s.tabooRepo.UpsertMany(ctx, in.TabooEntries); err != nil {
		return nil, fmt.Errorf("import taboo entries: %w", err)
	}
	if err := s.customizationRepo.UpsertMany(ctx, in.CustomizationOptions); err != nil {
		return nil, fmt.Errorf("import customization options: %w", err)
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	return &ImportStats{
		Cards:                len(in.Cards),
		Investigators:        len(in.Investigators),
		TabooEntries:         len(in.TabooEntries),
		CustomizationOptions: len(in.CustomizationOptions),
	}, nil
}
