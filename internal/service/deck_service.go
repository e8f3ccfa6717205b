package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dom/deckbuilder-web/internal/config"
	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeckService owns deck persistence and the live editing sessions. A session
// is the in-memory deck.State (with its undo history) for a deck currently
// being edited; the State survives between actions, the database only ever
// sees snapshots.
type DeckService struct {
	deckRepo repository.DeckRepository
	engine   *deck.Engine

	// mu serializes all session access. Deck edits are cheap in-memory map
	// work, so a single lock across sessions is enough.
	mu       sync.Mutex
	sessions map[uuid.UUID]*deck.State
}

func NewDeckService(deckRepo repository.DeckRepository, catalog *CatalogService, cfg *config.Config) *DeckService {
	return &DeckService{
		deckRepo: deckRepo,
		engine:   deck.NewEngine(catalog, cfg.DeckHistoryLimit),
		sessions: make(map[uuid.UUID]*deck.State),
	}
}

func (s *DeckService) CreateDeck(ctx context.Context, userID uuid.UUID, investigatorCode, name string) (*domain.Deck, *deck.State, error) {
	st, err := s.engine.NewDeck(investigatorCode)
	if err != nil {
		return nil, nil, err
	}

	record := &domain.Deck{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             name,
		InvestigatorCode: investigatorCode,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := writeSnapshot(record, st); err != nil {
		return nil, nil, err
	}
	if err := s.deckRepo.Create(ctx, record); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.sessions[record.ID] = st
	s.mu.Unlock()

	return record, st, nil
}

func (s *DeckService) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	record, err := s.deckRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeckNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *DeckService) ListDecks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Deck, error) {
	return s.deckRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *DeckService) DeleteDeck(ctx context.Context, id, userID uuid.UUID) error {
	record, err := s.GetDeck(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return domain.ErrNotDeckOwner
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return s.deckRepo.Delete(ctx, id)
}

func (s *DeckService) RenameDeck(ctx context.Context, id, userID uuid.UUID, name string) (*domain.Deck, error) {
	record, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrNotDeckOwner
	}

	record.Name = name
	record.UpdatedAt = time.Now()
	if err := s.deckRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Apply runs one editing action against a deck's live session and persists the
// resulting snapshot. The returned State is the post-action session state; a
// rejected or no-op action returns the current state without touching the
// database.
func (s *DeckService) Apply(ctx context.Context, deckID, userID uuid.UUID, action deck.Action) (*domain.Deck, *deck.State, error) {
	record, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}
	if record.UserID != userID {
		return nil, nil, domain.ErrNotDeckOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[deckID]
	if !ok {
		st, err = s.openSession(record)
		if err != nil {
			return nil, nil, err
		}
	}

	next := s.engine.Dispatch(st, action)
	if next == st {
		return record, st, nil
	}
	s.sessions[deckID] = next

	record.UpdatedAt = time.Now()
	if err := writeSnapshot(record, next); err != nil {
		return nil, nil, err
	}
	if err := s.deckRepo.Update(ctx, record); err != nil {
		return nil, nil, err
	}
	return record, next, nil
}

// Session returns the live state for a deck, opening one from the persisted
// snapshot if the deck is not currently being edited.
func (s *DeckService) Session(ctx context.Context, deckID uuid.UUID) (*deck.State, error) {
	record, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.sessions[deckID]; ok {
		return st, nil
	}
	return s.openSession(record)
}

// openSession rebuilds a session from a persisted snapshot and caches it.
// Caller holds s.mu.
func (s *DeckService) openSession(record *domain.Deck) (*deck.State, error) {
	loaded, err := snapshotState(record)
	if err != nil {
		return nil, err
	}
	st, err := s.engine.LoadDeck(loaded)
	if err != nil {
		return nil, err
	}
	s.sessions[record.ID] = st
	return st, nil
}

// writeSnapshot copies a session state into the persisted record's columns.
func writeSnapshot(record *domain.Deck, st *deck.State) error {
	var err error
	if record.Slots, err = marshalJSONB(st.Slots); err != nil {
		return err
	}
	if record.SideSlots, err = marshalJSONB(st.SideSlots); err != nil {
		return err
	}
	if record.ExemptSlots, err = marshalJSONB(st.Exempt); err != nil {
		return err
	}
	if record.Discounts, err = marshalJSONB(st.Discounts); err != nil {
		return err
	}
	if record.Customizations, err = marshalJSONB(st.Customizations); err != nil {
		return err
	}
	record.TabooListID = st.TabooListID
	record.XPEarned = st.XPEarned
	record.XPSpent = st.XPSpent
	return nil
}

// snapshotState decodes a persisted record into the loose state LoadDeck
// normalizes.
func snapshotState(record *domain.Deck) (*deck.State, error) {
	st := &deck.State{
		InvestigatorCode: record.InvestigatorCode,
		TabooListID:      record.TabooListID,
		XPEarned:         record.XPEarned,
	}
	if err := unmarshalJSONB(record.Slots, &st.Slots); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	if err := unmarshalJSONB(record.SideSlots, &st.SideSlots); err != nil {
		return nil, fmt.Errorf("decode side slots: %w", err)
	}
	if err := unmarshalJSONB(record.ExemptSlots, &st.Exempt); err != nil {
		return nil, fmt.Errorf("decode exempt slots: %w", err)
	}
	if err := unmarshalJSONB(record.Discounts, &st.Discounts); err != nil {
		return nil, fmt.Errorf("decode discounts: %w", err)
	}
	if err := unmarshalJSONB(record.Customizations, &st.Customizations); err != nil {
		return nil, fmt.Errorf("decode customizations: %w", err)
	}
	return st, nil
}

func marshalJSONB(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func unmarshalJSONB(raw datatypes.JSON, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
