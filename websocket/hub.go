package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Role   string
	Conn   *websocket.Conn
}

// FeeEvent is pushed to connected consoles whenever fee state changes, so
// open fee lists refresh without polling. Staff sockets receive every event;
// parent sockets only events addressed to them.
type FeeEvent struct {
	Type        string     `json:"type"`
	FeeRecordID *uuid.UUID `json:"fee_record_id,omitempty"`
	ClassID     *uuid.UUID `json:"class_id,omitempty"`
	StudentID   *uuid.UUID `json:"student_id,omitempty"`
	Status      string     `json:"status,omitempty"`
	ParentID    *uuid.UUID `json:"-"`
}

const (
	EventRecordGenerated   = "fee_record_generated"
	EventPaymentSubmitted  = "fee_payment_submitted"
	EventPaymentApproved   = "fee_payment_approved"
	EventPaymentRejected   = "fee_payment_rejected"
	EventStatusesRefreshed = "fee_statuses_refreshed"
	EventSettingsChanged   = "fee_settings_changed"
)

var clients = make(map[uuid.UUID]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan FeeEvent, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s (%s)", client.UserID, client.Role)
			clientsMu.Lock()
			clients[client.UserID] = client
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if existing, ok := clients[client.UserID]; ok && existing.Conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			deliver(event)
		}
	}
}

// BroadcastFeeEvent queues an event without blocking the caller. Mutating
// handlers and the refresh job call this after every state change.
func BroadcastFeeEvent(event FeeEvent) {
	select {
	case Broadcast <- event:
	default:
		log.Printf("Fee event channel full, dropping %s", event.Type)
	}
}

func deliver(event FeeEvent) {
	var stale []uuid.UUID

	clientsMu.RLock()
	for id, client := range clients {
		if !wantsEvent(client, event) {
			continue
		}
		if err := client.Conn.WriteJSON(event); err != nil {
			log.Printf("Error sending fee event to client %s: %v", id, err)
			client.Conn.Close()
			stale = append(stale, id)
		}
	}
	clientsMu.RUnlock()

	if len(stale) > 0 {
		clientsMu.Lock()
		for _, id := range stale {
			delete(clients, id)
		}
		clientsMu.Unlock()
	}
}

func wantsEvent(client *Client, event FeeEvent) bool {
	if client.Role == "admin" || client.Role == "teacher" {
		return true
	}
	return event.ParentID != nil && *event.ParentID == client.UserID
}
