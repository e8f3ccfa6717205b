package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dom/deckbuilder-web/internal/api/middleware"
	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DeckHandler struct {
	deckService *service.DeckService
}

func NewDeckHandler(deckService *service.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

type CreateDeckRequest struct {
	Name             string `json:"name"`
	InvestigatorCode string `json:"investigatorCode"`
}

type RenameDeckRequest struct {
	Name string `json:"name"`
}

// DeckResponse joins the persisted record with the live session state. The
// validation report always describes the state as returned.
type DeckResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	InvestigatorCode string                 `json:"investigatorCode"`
	Slots            map[string]int         `json:"slots"`
	SideSlots        map[string]int         `json:"sideSlots"`
	ExemptSlots      map[string]int         `json:"exemptSlots"`
	Discounts        map[string]int         `json:"discounts"`
	Customizations   map[string][]int       `json:"customizations"`
	TabooListID      string                 `json:"tabooListId"`
	XPEarned         int                    `json:"xpEarned"`
	XPSpent          int                    `json:"xpSpent"`
	Validation       *deck.ValidationResult `json:"validation"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

type DeckListResponse struct {
	Decks []*domain.Deck `json:"decks"`
}

func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.InvestigatorCode == "" {
		http.Error(w, "Name and investigator code are required", http.StatusBadRequest)
		return
	}

	record, st, err := h.deckService.CreateDeck(r.Context(), userID, req.InvestigatorCode, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrInvestigatorNotFound) {
			http.Error(w, "Investigator not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [deck.Create]: %v", err)
		http.Error(w, "Failed to create deck", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(deckResponse(record, st))
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	decks, err := h.deckService.ListDecks(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("ERROR [deck.List]: %v", err)
		http.Error(w, "Failed to list decks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DeckListResponse{Decks: decks})
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	record, err := h.deckService.GetDeck(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, domain.ErrDeckNotFound) {
			http.Error(w, "Deck not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [deck.Get] deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to get deck", http.StatusInternalServerError)
		return
	}

	st, err := h.deckService.Session(r.Context(), deckID)
	if err != nil {
		log.Printf("ERROR [deck.Get] deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to load deck", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deckResponse(record, st))
}

func (h *DeckHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	var req RenameDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	record, err := h.deckService.RenameDeck(r.Context(), deckID, userID, req.Name)
	if err != nil {
		writeDeckError(w, "deck.Rename", deckID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), deckID, userID); err != nil {
		writeDeckError(w, "deck.Delete", deckID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Apply runs one editing action (add, remove, swap, undo, ...) against the
// deck's live session over plain HTTP. The websocket channel is the richer
// interface; this endpoint serves scripted clients.
func (h *DeckHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	var action deck.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, st, err := h.deckService.Apply(r.Context(), deckID, userID, action)
	if err != nil {
		writeDeckError(w, "deck.Apply", deckID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deckResponse(record, st))
}

func (h *DeckHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	st, err := h.deckService.Session(r.Context(), deckID)
	if err != nil {
		writeDeckError(w, "deck.GetValidation", deckID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st.Result)
}

func writeDeckError(w http.ResponseWriter, op string, deckID uuid.UUID, err error) {
	switch {
	case errors.Is(err, domain.ErrDeckNotFound):
		http.Error(w, "Deck not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotDeckOwner):
		http.Error(w, "Not the deck owner", http.StatusForbidden)
	case errors.Is(err, domain.ErrInvestigatorNotFound):
		http.Error(w, "Investigator not found", http.StatusNotFound)
	default:
		log.Printf("ERROR [%s] deckID=%s: %v", op, deckID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func deckResponse(record *domain.Deck, st *deck.State) DeckResponse {
	return DeckResponse{
		ID:               record.ID.String(),
		Name:             record.Name,
		InvestigatorCode: st.InvestigatorCode,
		Slots:            st.Slots,
		SideSlots:        st.SideSlots,
		ExemptSlots:      st.Exempt,
		Discounts:        st.Discounts,
		Customizations:   st.Customizations,
		TabooListID:      st.TabooListID,
		XPEarned:         st.XPEarned,
		XPSpent:          st.XPSpent,
		Validation:       st.Result,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}
