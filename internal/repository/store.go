// Package store provides persistence for leads, conversation sessions and messages.
package store

import (
	"context"

	"github.com/imoveisai/leadhub/internal/domain"
)

// Store is the persistence interface used by the service layer.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead *domain.Lead) error
	GetLead(ctx context.Context, leadID string) (*domain.Lead, error)
	ListLeads(ctx context.Context, limit int) ([]domain.Lead, error)
	UpdateLead(ctx context.Context, lead *domain.Lead) error

	// Conversation sessions
	GetSession(ctx context.Context, leadID string) (*domain.ConversationSession, error)
	UpsertSession(ctx context.Context, session *domain.ConversationSession) error

	// Messages
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessage(ctx context.Context, messageID string) (*domain.Message, error)
	GetMessages(ctx context.Context, leadID string, limit int, before string) ([]domain.Message, error)
	UpdateMessageStatus(ctx context.Context, messageID string, status domain.MessageStatus) error

	// Lead field-change events
	CreateLeadEvent(ctx context.Context, event *domain.LeadEvent) error
	GetLeadEvents(ctx context.Context, leadID string, limit int) ([]domain.LeadEvent, error)

	// Notes
	CreateNote(ctx context.Context, note *domain.Note) error
	GetNotes(ctx context.Context, leadID string) ([]domain.Note, error)
	DeleteNote(ctx context.Context, noteID string) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTags(ctx context.Context, leadID string) ([]domain.Tag, error)
	DeleteTag(ctx context.Context, tagID string) error

	// Attachments
	CreateAttachment(ctx context.Context, att *domain.Attachment) error
	GetAttachments(ctx context.Context, leadID string) ([]domain.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error

	// Templates
	CreateTemplate(ctx context.Context, tpl *domain.Template) error
	GetTemplates(ctx context.Context) ([]domain.Template, error)
	DeleteTemplate(ctx context.Context, templateID string) error

	Close() error
}
