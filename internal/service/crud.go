package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/imoveisai/leadhub/internal/domain"
)

// Notes, tags, attachments and templates are plain CRUD around the store;
// none of them participate in the session or stream model.

func (s *Service) AddNote(ctx context.Context, leadID, authorID, content string) (*domain.Note, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	note := &domain.Note{
		NoteID:    "note_" + uuid.New().String()[:8],
		LeadID:    leadID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) GetNotes(ctx context.Context, leadID string) ([]domain.Note, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	return s.store.GetNotes(ctx, leadID)
}

func (s *Service) DeleteNote(ctx context.Context, noteID string) error {
	return s.store.DeleteNote(ctx, noteID)
}

func (s *Service) AddTag(ctx context.Context, leadID, label string) (*domain.Tag, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	tag := &domain.Tag{
		TagID:     "tag_" + uuid.New().String()[:8],
		LeadID:    leadID,
		Label:     label,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *Service) GetTags(ctx context.Context, leadID string) ([]domain.Tag, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	return s.store.GetTags(ctx, leadID)
}

func (s *Service) DeleteTag(ctx context.Context, tagID string) error {
	return s.store.DeleteTag(ctx, tagID)
}

func (s *Service) AddAttachment(ctx context.Context, leadID, fileName, url, uploadedBy string) (*domain.Attachment, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	att := &domain.Attachment{
		AttachmentID: "att_" + uuid.New().String()[:8],
		LeadID:       leadID,
		FileName:     fileName,
		URL:          url,
		UploadedBy:   uploadedBy,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateAttachment(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *Service) GetAttachments(ctx context.Context, leadID string) ([]domain.Attachment, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	return s.store.GetAttachments(ctx, leadID)
}

func (s *Service) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return s.store.DeleteAttachment(ctx, attachmentID)
}

func (s *Service) AddTemplate(ctx context.Context, title, content string) (*domain.Template, error) {
	tpl := &domain.Template{
		TemplateID: "tpl_" + uuid.New().String()[:8],
		Title:      title,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *Service) GetTemplates(ctx context.Context) ([]domain.Template, error) {
	return s.store.GetTemplates(ctx)
}

func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	return s.store.DeleteTemplate(ctx, templateID)
}
