package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository"
	"github.com/dom/deckbuilder-web/internal/service"
	"github.com/go-chi/chi/v5"
)

type CardHandler struct {
	catalogService *service.CatalogService
}

func NewCardHandler(catalogService *service.CatalogService) *CardHandler {
	return &CardHandler{catalogService: catalogService}
}

type CardsResponse struct {
	Cards []*domain.Card `json:"cards"`
}

type CustomizationsResponse struct {
	CardCode string                        `json:"cardCode"`
	Options  []*domain.CustomizationOption `json:"options"`
}

func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CardFilter{
		Name:        q.Get("name"),
		Trait:       q.Get("trait"),
		Text:        q.Get("text"),
		FactionCode: q.Get("faction"),
		TypeCode:    q.Get("type"),
	}

	cards, err := h.catalogService.SearchCards(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR [card.Search]: %v", err)
		http.Error(w, "Failed to search cards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CardsResponse{Cards: cards})
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	card, err := h.catalogService.GetCard(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			http.Error(w, "Card not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [card.Get] code=%s: %v", code, err)
		http.Error(w, "Failed to get card", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

func (h *CardHandler) GetCustomizations(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	options, err := h.catalogService.CardCustomizations(r.Context(), code)
	if err != nil {
		log.Printf("ERROR [card.GetCustomizations] code=%s: %v", code, err)
		http.Error(w, "Failed to get customization options", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CustomizationsResponse{CardCode: code, Options: options})
}

func (h *CardHandler) Import(w http.ResponseWriter, r *http.Request) {
	var payload service.CatalogImport
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	stats, err := h.catalogService.Import(r.Context(), payload)
	if err != nil {
		log.Printf("ERROR [card.Import]: %v", err)
		http.Error(w, "Failed to import catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *CardHandler) GetTabooLists(w http.ResponseWriter, r *http.Request) {
	ids, err := h.catalogService.TabooListIDs(r.Context())
	if err != nil {
		log.Printf("ERROR [card.GetTabooLists]: %v", err)
		http.Error(w, "Failed to get taboo lists", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"tabooLists": ids})
}
