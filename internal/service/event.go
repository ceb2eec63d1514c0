package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/imoveisai/leadhub/internal/domain"
)

// recordLeadEvent writes a field-change audit record for a lead.
func (s *Service) recordLeadEvent(ctx context.Context, leadID, field, oldValue, newValue, description string) error {
	event := &domain.LeadEvent{
		EventID:     "evt_" + uuid.New().String()[:8],
		LeadID:      leadID,
		Field:       field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
		CreatedAt:   time.Now(),
	}
	return s.store.CreateLeadEvent(ctx, event)
}
