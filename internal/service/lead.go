package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/imoveisai/leadhub/internal/domain"
)

// CreateLead registers a new lead.
func (s *Service) CreateLead(ctx context.Context, name, phone string, customData json.RawMessage) (*domain.Lead, error) {
	now := time.Now()
	lead := &domain.Lead{
		LeadID:        "lead_" + uuid.New().String()[:8],
		Name:          name,
		Phone:         phone,
		Status:        domain.LeadStatusNew,
		Qualification: domain.QualificationUnqualified,
		CustomData:    customData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// GetLead returns one lead.
func (s *Service) GetLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	return lead, nil
}

// ListLeads returns recently updated leads.
func (s *Service) ListLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	return s.store.ListLeads(ctx, limit)
}

// PatchLead applies a partial update to a lead. Every changed field produces
// a lead event, and a single lead_updated signal is broadcast when anything
// changed.
func (s *Service) PatchLead(ctx context.Context, leadID string, patch domain.LeadPatch, actorName string) (*domain.Lead, error) {
	lead, err := s.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	changed := false
	if patch.Name != nil && *patch.Name != lead.Name {
		if err := s.recordLeadEvent(ctx, leadID, "name", lead.Name, *patch.Name,
			actorName+" renamed the lead"); err != nil {
			return nil, err
		}
		lead.Name = *patch.Name
		changed = true
	}
	if patch.Status != nil && *patch.Status != lead.Status {
		if err := s.recordLeadEvent(ctx, leadID, "status", string(lead.Status), string(*patch.Status),
			actorName+" changed the lead status"); err != nil {
			return nil, err
		}
		lead.Status = *patch.Status
		changed = true
	}
	if patch.Qualification != nil && *patch.Qualification != lead.Qualification {
		if err := s.recordLeadEvent(ctx, leadID, "qualification", string(lead.Qualification), string(*patch.Qualification),
			actorName+" changed the lead qualification"); err != nil {
			return nil, err
		}
		lead.Qualification = *patch.Qualification
		changed = true
	}

	if !changed {
		return lead, nil
	}

	lead.UpdatedAt = time.Now()
	if err := s.store.UpdateLead(ctx, lead); err != nil {
		return nil, err
	}

	s.broker.Publish(leadID, domain.LeadUpdatedEvent())
	return lead, nil
}

// GetLeadEvents returns the lead's field-change history.
func (s *Service) GetLeadEvents(ctx context.Context, leadID string, limit int) ([]domain.LeadEvent, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	return s.store.GetLeadEvents(ctx, leadID, limit)
}
