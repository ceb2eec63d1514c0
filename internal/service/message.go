package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imoveisai/leadhub/internal/domain"
	"github.com/imoveisai/leadhub/policy"
)

// SendMessage persists an outbound seller message and notifies subscribers.
// The send is rejected unless the calling seller currently holds the
// conversation. This check is authoritative; client-side gating is a UX
// convenience only.
func (s *Service) SendMessage(ctx context.Context, leadID, sellerID, senderName, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}

	lock := s.lockLead(leadID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getOrCreateSession(ctx, leadID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action:        policy.ActionSend,
		Owner:         string(session.Owner),
		OwnerSellerID: session.OwnerSellerID,
		SellerID:      sellerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate send policy: %w", err)
	}
	if !allowed {
		return nil, domain.ErrNotOwner
	}

	msg := &domain.Message{
		MessageID:  "msg_" + uuid.New().String()[:8],
		LeadID:     leadID,
		Role:       domain.RoleAssistant,
		SenderType: domain.SenderTypeSeller,
		SenderName: senderName,
		Content:    content,
		Status:     domain.MessageStatusSent,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.broker.Publish(leadID, domain.NewMessageEvent())
	return msg, nil
}

// ReceiveInbound ingests a message from the lead. The lead and its AI-owned
// session are created implicitly on the first inbound message.
func (s *Service) ReceiveInbound(ctx context.Context, leadID, senderName, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}

	lock := s.lockLead(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		now := time.Now()
		lead = &domain.Lead{
			LeadID:        leadID,
			Name:          senderName,
			Status:        domain.LeadStatusNew,
			Qualification: domain.QualificationUnqualified,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if lead.Name == "" {
			lead.Name = leadID
		}
		if err := s.store.CreateLead(ctx, lead); err != nil {
			return nil, err
		}
	}
	if _, err := s.getOrCreateSession(ctx, leadID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		MessageID:  "msg_" + uuid.New().String()[:8],
		LeadID:     leadID,
		Role:       domain.RoleUser,
		SenderName: senderName,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.broker.Publish(leadID, domain.NewMessageEvent())
	return msg, nil
}

// ApplyMessageStatus applies a delivery receipt to one message. Status only
// moves forward (sent -> delivered -> read); regressions and receipts for
// inbound messages are ignored without error.
func (s *Service) ApplyMessageStatus(ctx context.Context, leadID, messageID string, status domain.MessageStatus) error {
	// The monotonic guard is a read-check-write; concurrent receipts for the
	// same lead must not interleave between the check and the update.
	lock := s.lockLead(leadID)
	lock.Lock()
	defer lock.Unlock()

	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.LeadID != leadID {
		return domain.ErrNotFound
	}
	if msg.Role == domain.RoleUser {
		log.Printf("WARN: ignoring delivery receipt for inbound message %s", messageID)
		return nil
	}
	if !msg.Status.CanAdvanceTo(status) {
		return nil
	}

	if err := s.store.UpdateMessageStatus(ctx, messageID, status); err != nil {
		return err
	}

	s.broker.Publish(leadID, domain.MessageStatusEvent(messageID, status))
	return nil
}

// GetMessages returns a lead's message history in chronological order.
func (s *Service) GetMessages(ctx context.Context, leadID string, limit int, before string) ([]domain.Message, error) {
	if lead, err := s.store.GetLead(ctx, leadID); err != nil {
		return nil, err
	} else if lead == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.GetMessages(ctx, leadID, limit, before)
}

// SellerTyping broadcasts a typing signal from a seller. Gated like sends:
// only the session holder's typing is visible to the lead's subscribers.
func (s *Service) SellerTyping(ctx context.Context, leadID, sellerID, senderName string, isTyping bool) error {
	session, err := s.GetOwner(ctx, leadID)
	if err != nil {
		return err
	}

	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action:        policy.ActionTyping,
		Owner:         string(session.Owner),
		OwnerSellerID: session.OwnerSellerID,
		SellerID:      sellerID,
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate typing policy: %w", err)
	}
	if !allowed {
		return domain.ErrNotOwner
	}

	s.broker.Publish(leadID, domain.TypingEvent(isTyping, senderName))
	return nil
}

// NotifyTyping broadcasts a typing signal on behalf of the AI assistant or
// the lead, arriving through the webhook. Not gated.
func (s *Service) NotifyTyping(ctx context.Context, leadID, senderName string, isTyping bool) error {
	if lead, err := s.store.GetLead(ctx, leadID); err != nil {
		return err
	} else if lead == nil {
		return domain.ErrNotFound
	}

	s.broker.Publish(leadID, domain.TypingEvent(isTyping, senderName))
	return nil
}
