package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/deckbuilder-web/internal/deck"
	"github.com/dom/deckbuilder-web/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg websocket.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

func (c *WSClient) send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// JoinDeck subscribes this client to a deck's editing session
func (c *WSClient) JoinDeck(deckID string) {
	c.send(websocket.MessageTypeJoinDeck, websocket.JoinDeckPayload{DeckID: deckID})
}

// LeaveDeck unsubscribes this client from its current deck
func (c *WSClient) LeaveDeck() {
	c.send(websocket.MessageTypeLeaveDeck, nil)
}

// ApplyAction sends a deck editing action
func (c *WSClient) ApplyAction(action deck.Action) {
	c.send(websocket.MessageTypeApplyAction, websocket.ApplyActionPayload{Action: action})
}

// SyncState requests the current deck state
func (c *WSClient) SyncState() {
	c.send(websocket.MessageTypeSyncState, nil)
}

// WaitForMessage blocks until a message of the given type arrives or the
// timeout elapses. Other message types received in the meantime are discarded.
func (c *WSClient) WaitForMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
				return nil
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("websocket error while waiting for %s: %v", msgType, err)
			return nil
		case <-deadline:
			c.t.Fatalf("timed out waiting for %s", msgType)
			return nil
		}
	}
}

// DecodeDeckState unmarshals a DECK_STATE or DECK_UPDATED payload
func (c *WSClient) DecodeDeckState(msg *websocket.Message) *websocket.DeckStatePayload {
	c.t.Helper()

	var payload websocket.DeckStatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode deck state payload: %v", err)
	}
	return &payload
}
