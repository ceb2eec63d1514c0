package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imoveisai/leadhub/internal/domain"
)

func TestSendRequiresOwnership(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	// AI owns the session by default.
	_, err := svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "hello")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = svc.TakeOver(ctx, "lead_1", "seller_9", "Bia")
	require.NoError(t, err)

	// Another seller owns it.
	_, err = svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "hello")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	// The holder may send.
	msg, err := svc.SendMessage(ctx, "lead_1", "seller_9", "Bia", "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, domain.SenderTypeSeller, msg.SenderType)
	assert.Equal(t, domain.MessageStatusSent, msg.Status)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "   \n\t")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestSendBroadcastsNewMessage(t *testing.T) {
	svc, db, broker := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	sub := broker.Subscribe("lead_1")
	defer sub.Close()

	_, err = svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "hello")
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, domain.StreamEventNewMessage, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected new_message event")
	}
}

func TestReceiveInboundCreatesLeadAndSession(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	msg, err := svc.ReceiveInbound(ctx, "lead_new", "João", "quero visitar o apartamento")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, msg.Role)
	assert.Empty(t, msg.Status, "inbound messages carry no delivery status")

	lead, err := db.GetLead(ctx, "lead_new")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "João", lead.Name)

	session, err := svc.GetOwner(ctx, "lead_new")
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerAI, session.Owner, "first inbound message creates an AI-owned session")
}

func TestApplyMessageStatusMonotonic(t *testing.T) {
	svc, db, broker := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)
	msg, err := svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "hello")
	require.NoError(t, err)

	sub := broker.Subscribe("lead_1")
	defer sub.Close()

	// Forward move persists and broadcasts.
	require.NoError(t, svc.ApplyMessageStatus(ctx, "lead_1", msg.MessageID, domain.MessageStatusRead))

	select {
	case ev := <-sub.Events():
		assert.Equal(t, domain.StreamEventMessageStatus, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected message_status event")
	}

	// Regression is ignored: no error, no persistence, no broadcast.
	require.NoError(t, svc.ApplyMessageStatus(ctx, "lead_1", msg.MessageID, domain.MessageStatusDelivered))

	got, err := db.GetMessage(ctx, msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageStatusRead, got.Status)

	select {
	case ev := <-sub.Events():
		t.Fatalf("regression must not broadcast, got %+v", ev)
	default:
	}
}

func TestApplyMessageStatusConcurrentReceipts(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	// Providers retry and reorder receipts freely: a read and a delivered
	// receipt for the same message may race. Whatever the interleaving,
	// the message must end at read, never regressed to delivered.
	for i := 0; i < 50; i++ {
		msg, err := svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "hello")
		require.NoError(t, err)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for _, status := range []domain.MessageStatus{domain.MessageStatusRead, domain.MessageStatusDelivered} {
			wg.Add(1)
			go func(status domain.MessageStatus) {
				defer wg.Done()
				<-start
				_ = svc.ApplyMessageStatus(ctx, "lead_1", msg.MessageID, status)
			}(status)
		}
		close(start)
		wg.Wait()

		got, err := db.GetMessage(ctx, msg.MessageID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusRead, got.Status)
	}
}

func TestApplyMessageStatusIgnoresInbound(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	msg, err := svc.ReceiveInbound(ctx, "lead_1", "João", "oi")
	require.NoError(t, err)

	require.NoError(t, svc.ApplyMessageStatus(ctx, "lead_1", msg.MessageID, domain.MessageStatusRead))

	got, err := db.GetMessage(ctx, msg.MessageID)
	require.NoError(t, err)
	assert.Empty(t, got.Status)
}

func TestApplyMessageStatusWrongLead(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)
	msg, err := svc.SendMessage(ctx, "lead_1", "seller_7", "Ana", "hello")
	require.NoError(t, err)

	err = svc.ApplyMessageStatus(ctx, "lead_other", msg.MessageID, domain.MessageStatusRead)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSellerTypingGated(t *testing.T) {
	svc, db, broker := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	err := svc.SellerTyping(ctx, "lead_1", "seller_7", "Ana", true)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	sub := broker.Subscribe("lead_1")
	defer sub.Close()

	require.NoError(t, svc.SellerTyping(ctx, "lead_1", "seller_7", "Ana", true))

	select {
	case ev := <-sub.Events():
		assert.Equal(t, domain.StreamEventTyping, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected typing event")
	}
}

func TestGetMessagesUnknownLead(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetMessages(context.Background(), "lead_missing", 50, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
