// Package domain defines the core domain models for leadhub.
package domain

// Owner identifies who currently holds send rights for a lead's conversation.
type Owner string

const (
	OwnerAI     Owner = "ai"
	OwnerSeller Owner = "seller"
)

// Role represents the role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// SenderType distinguishes who produced an assistant-role message.
type SenderType string

const (
	SenderTypeAI     SenderType = "ai"
	SenderTypeSeller SenderType = "seller"
	SenderTypeSystem SenderType = "system"
)

// MessageStatus represents the delivery status of an outbound message.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// statusRank orders delivery statuses. The empty status ranks below sent so
// a freshly persisted message can advance to any status.
var statusRank = map[MessageStatus]int{
	"":                     0,
	MessageStatusSent:      1,
	MessageStatusDelivered: 2,
	MessageStatusRead:      3,
}

// Valid reports whether s is a known delivery status.
func (s MessageStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok && s != ""
}

// CanAdvanceTo reports whether a message may move from s to next.
// Delivery status only moves forward: sent -> delivered -> read.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	if !next.Valid() {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// LeadStatus represents where a lead sits in the qualification pipeline.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusInProgress   LeadStatus = "in_progress"
	LeadStatusQualified    LeadStatus = "qualified"
	LeadStatusDisqualified LeadStatus = "disqualified"
	LeadStatusWon          LeadStatus = "won"
	LeadStatusLost         LeadStatus = "lost"
)

// Qualification represents the temperature assigned to a lead.
type Qualification string

const (
	QualificationHot         Qualification = "hot"
	QualificationWarm        Qualification = "warm"
	QualificationCold        Qualification = "cold"
	QualificationUnqualified Qualification = "unqualified"
)
