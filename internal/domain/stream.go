package domain

import "encoding/json"

// StreamEventType represents the type of a per-lead push event.
type StreamEventType string

const (
	StreamEventNewMessage    StreamEventType = "new_message"
	StreamEventMessageStatus StreamEventType = "message_status"
	StreamEventTyping        StreamEventType = "typing"
	StreamEventLeadUpdated   StreamEventType = "lead_updated"
	StreamEventHandoff       StreamEventType = "handoff"
)

// StreamEvent is a transient push notification scoped to one lead. Events
// are broadcast to stream subscribers and never persisted.
type StreamEvent struct {
	Type StreamEventType `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MessageStatusPayload is the data for a message_status event.
type MessageStatusPayload struct {
	MessageID string        `json:"message_id"`
	Status    MessageStatus `json:"status"`
}

// TypingPayload is the data for a typing event.
type TypingPayload struct {
	IsTyping   bool   `json:"is_typing"`
	SenderName string `json:"sender_name,omitempty"`
}

// HandoffPayload is the data for a handoff event.
type HandoffPayload struct {
	Owner      Owner  `json:"owner"`
	ToUserName string `json:"to_user_name,omitempty"`
}

// NewMessageEvent signals subscribers to refetch the message list.
// It carries no payload.
func NewMessageEvent() StreamEvent {
	return StreamEvent{Type: StreamEventNewMessage}
}

// LeadUpdatedEvent signals subscribers to refetch lead metadata.
func LeadUpdatedEvent() StreamEvent {
	return StreamEvent{Type: StreamEventLeadUpdated}
}

// MessageStatusEvent carries a delivery status transition for one message.
func MessageStatusEvent(messageID string, status MessageStatus) StreamEvent {
	data, _ := json.Marshal(MessageStatusPayload{MessageID: messageID, Status: status})
	return StreamEvent{Type: StreamEventMessageStatus, Data: data}
}

// TypingEvent carries a typing liveness signal.
func TypingEvent(isTyping bool, senderName string) StreamEvent {
	data, _ := json.Marshal(TypingPayload{IsTyping: isTyping, SenderName: senderName})
	return StreamEvent{Type: StreamEventTyping, Data: data}
}

// HandoffEvent announces an ownership transition.
func HandoffEvent(owner Owner, toUserName string) StreamEvent {
	data, _ := json.Marshal(HandoffPayload{Owner: owner, ToUserName: toUserName})
	return StreamEvent{Type: StreamEventHandoff, Data: data}
}
