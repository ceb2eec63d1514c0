package service

import (
	"context"
	"fmt"
	"time"

	"github.com/imoveisai/leadhub/internal/domain"
	"github.com/imoveisai/leadhub/policy"
)

// GetOwner returns the conversation session for a lead, creating the
// AI-owned session implicitly on first access.
func (s *Service) GetOwner(ctx context.Context, leadID string) (*domain.ConversationSession, error) {
	lock := s.lockLead(leadID)
	lock.Lock()
	defer lock.Unlock()

	return s.getOrCreateSession(ctx, leadID)
}

// TakeOver transfers send rights for a lead's conversation to the calling
// seller. Only allowed while the AI owns the session; calling it while
// already holding the session is a no-op.
func (s *Service) TakeOver(ctx context.Context, leadID, sellerID, sellerName string) (*domain.ConversationSession, error) {
	lock := s.lockLead(leadID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getOrCreateSession(ctx, leadID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action:        policy.ActionTakeOver,
		Owner:         string(session.Owner),
		OwnerSellerID: session.OwnerSellerID,
		SellerID:      sellerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate take-over policy: %w", err)
	}
	if !allowed {
		return nil, domain.ErrAlreadyOwned
	}

	if session.Owner == domain.OwnerSeller && session.OwnerSellerID == sellerID {
		return session, nil
	}

	session.Owner = domain.OwnerSeller
	session.OwnerSellerID = sellerID
	session.UpdatedAt = time.Now()
	if err := s.store.UpsertSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.recordLeadEvent(ctx, leadID, "owner", string(domain.OwnerAI), string(domain.OwnerSeller),
		fmt.Sprintf("%s took over the conversation", sellerName)); err != nil {
		return nil, err
	}

	s.broker.Publish(leadID, domain.HandoffEvent(domain.OwnerSeller, sellerName))
	return session, nil
}

// ReturnToAI hands send rights for a lead's conversation back to the AI.
// Only the seller currently holding the session may return it.
func (s *Service) ReturnToAI(ctx context.Context, leadID, sellerID string) (*domain.ConversationSession, error) {
	lock := s.lockLead(leadID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getOrCreateSession(ctx, leadID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action:        policy.ActionReturnToAI,
		Owner:         string(session.Owner),
		OwnerSellerID: session.OwnerSellerID,
		SellerID:      sellerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate return-to-ai policy: %w", err)
	}
	if !allowed {
		return nil, domain.ErrNotOwner
	}

	session.Owner = domain.OwnerAI
	session.OwnerSellerID = ""
	session.UpdatedAt = time.Now()
	if err := s.store.UpsertSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.recordLeadEvent(ctx, leadID, "owner", string(domain.OwnerSeller), string(domain.OwnerAI),
		"conversation returned to the assistant"); err != nil {
		return nil, err
	}

	s.broker.Publish(leadID, domain.HandoffEvent(domain.OwnerAI, ""))
	return session, nil
}

// getOrCreateSession loads a lead's session, creating the default AI-owned
// one when the lead exists but has no session yet. Callers must hold the
// lead lock.
func (s *Service) getOrCreateSession(ctx context.Context, leadID string) (*domain.ConversationSession, error) {
	session, err := s.store.GetSession(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}

	session = &domain.ConversationSession{
		LeadID:    leadID,
		Owner:     domain.OwnerAI,
		UpdatedAt: time.Now(),
	}
	if err := s.store.UpsertSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
