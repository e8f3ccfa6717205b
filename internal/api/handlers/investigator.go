package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/service"
	"github.com/go-chi/chi/v5"
)

type InvestigatorHandler struct {
	catalogService *service.CatalogService
}

func NewInvestigatorHandler(catalogService *service.CatalogService) *InvestigatorHandler {
	return &InvestigatorHandler{catalogService: catalogService}
}

type InvestigatorsResponse struct {
	Investigators []*domain.Investigator `json:"investigators"`
}

func (h *InvestigatorHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	investigators, err := h.catalogService.GetAllInvestigators(r.Context())
	if err != nil {
		log.Printf("ERROR [investigator.GetAll]: %v", err)
		http.Error(w, "Failed to get investigators", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(InvestigatorsResponse{Investigators: investigators})
}

func (h *InvestigatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	investigator, err := h.catalogService.GetInvestigator(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrInvestigatorNotFound) {
			http.Error(w, "Investigator not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [investigator.Get] code=%s: %v", code, err)
		http.Error(w, "Failed to get investigator", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(investigator)
}
