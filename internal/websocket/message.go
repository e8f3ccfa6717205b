package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/deckbuilder-web/internal/deck"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinDeck    MessageType = "JOIN_DECK"
	MessageTypeLeaveDeck   MessageType = "LEAVE_DECK"
	MessageTypeApplyAction MessageType = "APPLY_ACTION"
	MessageTypeSyncState   MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeDeckState    MessageType = "DECK_STATE"
	MessageTypeDeckUpdated  MessageType = "DECK_UPDATED"
	MessageTypeViewerUpdate MessageType = "VIEWER_UPDATE"
	MessageTypeError        MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
	Seq       int             `json:"seq,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinDeckPayload struct {
	DeckID string `json:"deckId"`
}

type ApplyActionPayload struct {
	Action deck.Action `json:"action"`
}

// Server to Client payloads

type DeckStatePayload struct {
	DeckID           string                 `json:"deckId"`
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
	ViewerCount      int                    `json:"viewerCount"`
}

type ViewerUpdatePayload struct {
	DeckID      string `json:"deckId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Action      string `json:"action"` // "joined", "left"
	ViewerCount int    `json:"viewerCount"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
