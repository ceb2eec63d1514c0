package domain

import (
	"encoding/json"
	"time"
)

// Lead represents a prospective customer tracked through the qualification pipeline.
type Lead struct {
	LeadID           string          `json:"lead_id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone,omitempty"`
	Status           LeadStatus      `json:"status"`
	Qualification    Qualification   `json:"qualification"`
	AssignedSellerID string          `json:"assigned_seller_id,omitempty"`
	CustomData       json.RawMessage `json:"custom_data,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ConversationSession tracks who may originate outbound messages for a lead.
// Created implicitly with the AI as owner; never destroyed.
type ConversationSession struct {
	LeadID        string    `json:"lead_id"`
	Owner         Owner     `json:"owner"`
	OwnerSellerID string    `json:"owner_seller_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Message represents a single message in a lead's conversation.
// Immutable once created except for the Status field, which only moves forward.
type Message struct {
	MessageID  string        `json:"message_id"`
	LeadID     string        `json:"lead_id"`
	Role       Role          `json:"role"`
	SenderType SenderType    `json:"sender_type,omitempty"`
	SenderName string        `json:"sender_name,omitempty"`
	Content    string        `json:"content"`
	Status     MessageStatus `json:"status,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// LeadEvent is an audit record for a lead field change.
type LeadEvent struct {
	EventID     string    `json:"event_id"`
	LeadID      string    `json:"lead_id"`
	Field       string    `json:"field"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Note is a free-form seller note attached to a lead.
type Note struct {
	NoteID    string    `json:"note_id"`
	LeadID    string    `json:"lead_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a label attached to a lead.
type Tag struct {
	TagID     string    `json:"tag_id"`
	LeadID    string    `json:"lead_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment is a file reference attached to a lead.
type Attachment struct {
	AttachmentID string    `json:"attachment_id"`
	LeadID       string    `json:"lead_id"`
	FileName     string    `json:"file_name"`
	URL          string    `json:"url"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Template is a canned reply available to all sellers.
type Template struct {
	TemplateID string    `json:"template_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeadPatch is a partial update to a lead. Nil fields are left unchanged.
type LeadPatch struct {
	Name          *string        `json:"name,omitempty"`
	Status        *LeadStatus    `json:"status,omitempty"`
	Qualification *Qualification `json:"qualification,omitempty"`
}
