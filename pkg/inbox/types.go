// Package inbox is the Go client for the leadhub conversation API: REST
// calls, the per-lead event stream, and the conversation view state an inbox
// UI renders from.
package inbox

import (
	"encoding/json"
	"time"
)

// Lead mirrors the server's lead record.
type Lead struct {
	LeadID           string          `json:"lead_id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone,omitempty"`
	Status           string          `json:"status"`
	Qualification    string          `json:"qualification"`
	AssignedSellerID string          `json:"assigned_seller_id,omitempty"`
	CustomData       json.RawMessage `json:"custom_data,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Session mirrors the server's conversation session record.
type Session struct {
	LeadID        string    `json:"lead_id"`
	Owner         string    `json:"owner"`
	OwnerSellerID string    `json:"owner_seller_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Message mirrors the server's message record. FailedToSend is client-local
// state for optimistic entries whose send was rejected; such entries stay
// visible with a retry affordance until the next authoritative refetch.
type Message struct {
	MessageID  string    `json:"message_id"`
	LeadID     string    `json:"lead_id"`
	Role       string    `json:"role"`
	SenderType string    `json:"sender_type,omitempty"`
	SenderName string    `json:"sender_name,omitempty"`
	Content    string    `json:"content"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	FailedToSend bool `json:"-"`
}

// LeadEvent mirrors the server's lead field-change record.
type LeadEvent struct {
	EventID     string    `json:"event_id"`
	LeadID      string    `json:"lead_id"`
	Field       string    `json:"field"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session owner values.
const (
	OwnerAI     = "ai"
	OwnerSeller = "seller"
)

// Delivery statuses in forward order.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

var statusRank = map[string]int{
	"":              0,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// CanSend reports whether the composer should be enabled for the given
// seller. This is a UX convenience only; the server enforces the same rule
// on every send.
func CanSend(session Session, sellerID string) bool {
	return session.Owner == OwnerSeller && session.OwnerSellerID == sellerID
}

// messageStatusPayload is the data of a message_status stream event.
type messageStatusPayload struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// typingPayload is the data of a typing stream event.
type typingPayload struct {
	IsTyping   bool   `json:"is_typing"`
	SenderName string `json:"sender_name,omitempty"`
}

// handoffPayload is the data of a handoff stream event.
type handoffPayload struct {
	Owner      string `json:"owner"`
	ToUserName string `json:"to_user_name,omitempty"`
}
