package websocket

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/dom/deckbuilder-web/internal/repository"
	"github.com/dom/deckbuilder-web/internal/service"
	"github.com/google/uuid"
)

// Hub fans deck editing sessions out to websocket viewers. Every action routed
// through the hub goes to the deck service, which owns the session state; the
// hub only tracks who is watching which deck and broadcasts the post-action
// state to all of them.
type Hub struct {
	deckService *service.DeckService
	userRepo    repository.UserRepository

	viewers     map[uuid.UUID]map[*Client]bool
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	joinDeck    chan *JoinDeckRequest
	leaveDeck   chan *Client
	applyAction chan *ApplyActionRequest
	syncState   chan *Client
	stop        chan struct{}
	done        chan struct{} // closed when Run() exits
	stopped     bool
	mu          sync.RWMutex
}

type JoinDeckRequest struct {
	Client *Client
	DeckID string
}

type ApplyActionRequest struct {
	Client *Client
	Action deck.Action
}

func NewHub(deckService *service.DeckService, userRepo repository.UserRepository) *Hub {
	return &Hub{
		deckService: deckService,
		userRepo:    userRepo,
		viewers:     make(map[uuid.UUID]map[*Client]bool),
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		joinDeck:    make(chan *JoinDeckRequest),
		leaveDeck:   make(chan *Client),
		applyAction: make(chan *ApplyActionRequest),
		syncState:   make(chan *Client),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done) // Signal that Run() has exited

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.viewers = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.removeViewer(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.joinDeck:
			if !h.isStopped() {
				h.handleJoinDeck(req)
			}

		case client := <-h.leaveDeck:
			if !h.isStopped() {
				h.mu.Lock()
				h.removeViewer(client)
				h.mu.Unlock()
			}

		case req := <-h.applyAction:
			if !h.isStopped() {
				h.handleApplyAction(req)
			}

		case client := <-h.syncState:
			if !h.isStopped() {
				h.handleSyncState(client)
			}
		}
	}
}

// Stop gracefully shuts down the hub. It blocks until Run() has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) isStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

func (h *Hub) handleJoinDeck(req *JoinDeckRequest) {
	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		req.Client.sendError("INVALID_DECK_ID", "Deck ID is not a valid UUID")
		return
	}

	ctx := context.Background()
	record, err := h.deckService.GetDeck(ctx, deckID)
	if err != nil {
		if errors.Is(err, domain.ErrDeckNotFound) {
			req.Client.sendError("DECK_NOT_FOUND", "Deck does not exist")
		} else {
			log.Printf("ERROR [hub.handleJoinDeck] deckID=%s: %v", deckID, err)
			req.Client.sendError("INTERNAL", "Failed to load deck")
		}
		return
	}

	st, err := h.deckService.Session(ctx, deckID)
	if err != nil {
		log.Printf("ERROR [hub.handleJoinDeck] deckID=%s: %v", deckID, err)
		req.Client.sendError("INTERNAL", "Failed to load deck")
		return
	}

	h.mu.Lock()
	h.removeViewer(req.Client)
	if h.viewers[deckID] == nil {
		h.viewers[deckID] = make(map[*Client]bool)
	}
	h.viewers[deckID][req.Client] = true
	req.Client.deckID = deckID
	count := len(h.viewers[deckID])
	h.mu.Unlock()

	if msg, err := NewMessage(MessageTypeDeckState, h.deckStatePayload(record, st, count)); err == nil {
		req.Client.Send(msg)
	}
	h.notifyViewerChange(deckID, req.Client, "joined")
}

func (h *Hub) handleApplyAction(req *ApplyActionRequest) {
	deckID := req.Client.deckID
	if deckID == uuid.Nil {
		req.Client.sendError("NOT_IN_DECK", "Join a deck before sending actions")
		return
	}

	ctx := context.Background()
	record, st, err := h.deckService.Apply(ctx, deckID, req.Client.userID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotDeckOwner):
			req.Client.sendError("NOT_DECK_OWNER", "Only the deck owner can edit")
		case errors.Is(err, domain.ErrDeckNotFound):
			req.Client.sendError("DECK_NOT_FOUND", "Deck does not exist")
		default:
			log.Printf("ERROR [hub.handleApplyAction] deckID=%s: %v", deckID, err)
			req.Client.sendError("INTERNAL", "Failed to apply action")
		}
		return
	}

	h.mu.RLock()
	count := len(h.viewers[deckID])
	h.mu.RUnlock()

	msg, err := NewMessage(MessageTypeDeckUpdated, h.deckStatePayload(record, st, count))
	if err != nil {
		return
	}
	h.broadcast(deckID, msg)
}

func (h *Hub) handleSyncState(client *Client) {
	deckID := client.deckID
	if deckID == uuid.Nil {
		client.sendError("NOT_IN_DECK", "Join a deck before requesting state")
		return
	}

	ctx := context.Background()
	record, err := h.deckService.GetDeck(ctx, deckID)
	if err != nil {
		client.sendError("DECK_NOT_FOUND", "Deck does not exist")
		return
	}
	st, err := h.deckService.Session(ctx, deckID)
	if err != nil {
		log.Printf("ERROR [hub.handleSyncState] deckID=%s: %v", deckID, err)
		client.sendError("INTERNAL", "Failed to load deck")
		return
	}

	h.mu.RLock()
	count := len(h.viewers[deckID])
	h.mu.RUnlock()

	if msg, err := NewMessage(MessageTypeDeckState, h.deckStatePayload(record, st, count)); err == nil {
		client.Send(msg)
	}
}

// removeViewer drops a client from its current deck, if any. Caller holds h.mu.
func (h *Hub) removeViewer(client *Client) {
	if client.deckID == uuid.Nil {
		return
	}
	deckID := client.deckID
	client.deckID = uuid.Nil
	if set, ok := h.viewers[deckID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.viewers, deckID)
		}
	}
}

func (h *Hub) notifyViewerChange(deckID uuid.UUID, client *Client, action string) {
	displayName := ""
	if user, err := h.userRepo.GetByID(context.Background(), client.userID); err == nil {
		displayName = user.DisplayName
	}

	h.mu.RLock()
	count := len(h.viewers[deckID])
	h.mu.RUnlock()

	msg, err := NewMessage(MessageTypeViewerUpdate, ViewerUpdatePayload{
		DeckID:      deckID.String(),
		UserID:      client.userID.String(),
		DisplayName: displayName,
		Action:      action,
		ViewerCount: count,
	})
	if err != nil {
		return
	}
	h.broadcast(deckID, msg)
}

func (h *Hub) broadcast(deckID uuid.UUID, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.viewers[deckID] {
		client.Send(msg)
	}
}

func (h *Hub) deckStatePayload(record *domain.Deck, st *deck.State, viewerCount int) DeckStatePayload {
	return DeckStatePayload{
		DeckID:           record.ID.String(),
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
		ViewerCount:      viewerCount,
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	// Non-blocking send in case Hub is in the process of stopping
	select {
	case h.unregister <- client:
	default:
	}
}
