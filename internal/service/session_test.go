package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imoveisai/leadhub/internal/config"
	"github.com/imoveisai/leadhub/internal/domain"
	store "github.com/imoveisai/leadhub/internal/repository"
	"github.com/imoveisai/leadhub/internal/stream"
	"github.com/imoveisai/leadhub/policy"
	"github.com/imoveisai/leadhub/tests/helpers"
)

func newTestService(t *testing.T) (*Service, store.Store, *stream.Broker) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)
	broker := stream.NewBroker()
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	svc := New(db, broker, engine, &config.Config{})
	return svc, db, broker
}

func createTestLead(t *testing.T, db store.Store, leadID string) {
	t.Helper()
	now := time.Now()
	err := db.CreateLead(context.Background(), &domain.Lead{
		LeadID:        leadID,
		Name:          "Test Lead",
		Status:        domain.LeadStatusNew,
		Qualification: domain.QualificationUnqualified,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
}

func TestGetOwnerCreatesAIOwnedSession(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	session, err := svc.GetOwner(ctx, "lead_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerAI, session.Owner)
	assert.Empty(t, session.OwnerSellerID)
}

func TestGetOwnerUnknownLead(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetOwner(context.Background(), "lead_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOwnershipExclusivity(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	// Any sequence of take-over/return-to-ai observes exactly one owner.
	steps := []func() (*domain.ConversationSession, error){
		func() (*domain.ConversationSession, error) { return svc.TakeOver(ctx, "lead_1", "seller_7", "Ana") },
		func() (*domain.ConversationSession, error) { return svc.ReturnToAI(ctx, "lead_1", "seller_7") },
		func() (*domain.ConversationSession, error) { return svc.TakeOver(ctx, "lead_1", "seller_9", "Bia") },
		func() (*domain.ConversationSession, error) { return svc.TakeOver(ctx, "lead_1", "seller_9", "Bia") },
		func() (*domain.ConversationSession, error) { return svc.ReturnToAI(ctx, "lead_1", "seller_9") },
	}

	for i, step := range steps {
		_, err := step()
		require.NoError(t, err, "step %d", i)

		session, err := svc.GetOwner(ctx, "lead_1")
		require.NoError(t, err)
		if session.Owner == domain.OwnerAI {
			assert.Empty(t, session.OwnerSellerID, "AI-owned session must have no seller, step %d", i)
		} else {
			assert.Equal(t, domain.OwnerSeller, session.Owner)
			assert.NotEmpty(t, session.OwnerSellerID, "seller-owned session must name the seller, step %d", i)
		}
	}
}

func TestNoSellerToSellerTransfer(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	_, err = svc.TakeOver(ctx, "lead_1", "seller_9", "Bia")
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)

	session, err := svc.GetOwner(ctx, "lead_1")
	require.NoError(t, err)
	assert.Equal(t, "seller_7", session.OwnerSellerID)
}

func TestReturnToAIRequiresHolder(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	// AI-owned: nothing to return.
	_, err := svc.ReturnToAI(ctx, "lead_1", "seller_7")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	// A different seller cannot return it.
	_, err = svc.ReturnToAI(ctx, "lead_1", "seller_9")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestTakeOverBroadcastsHandoff(t *testing.T) {
	svc, db, broker := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	sub := broker.Subscribe("lead_1")
	defer sub.Close()

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		require.Equal(t, domain.StreamEventHandoff, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected handoff event")
	}

	events, err := svc.GetLeadEvents(ctx, "lead_1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "owner", events[0].Field)
}

func TestTakeOverByHolderIsNoOp(t *testing.T) {
	svc, db, broker := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_1")

	_, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)

	sub := broker.Subscribe("lead_1")
	defer sub.Close()

	session, err := svc.TakeOver(ctx, "lead_1", "seller_7", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "seller_7", session.OwnerSellerID)

	select {
	case ev := <-sub.Events():
		t.Fatalf("no-op take-over should not broadcast, got %+v", ev)
	default:
	}
}

// Full hand-off scenario: take-over, send, receipt, return, rejected send.
func TestHandoffScenario(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	createTestLead(t, db, "lead_42")

	session, err := svc.GetOwner(ctx, "lead_42")
	require.NoError(t, err)
	require.Equal(t, domain.OwnerAI, session.Owner)

	session, err = svc.TakeOver(ctx, "lead_42", "seller_7", "Ana")
	require.NoError(t, err)
	require.Equal(t, domain.OwnerSeller, session.Owner)
	require.Equal(t, "seller_7", session.OwnerSellerID)

	msg, err := svc.SendMessage(ctx, "lead_42", "seller_7", "Ana", "Olá")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageStatusSent, msg.Status)

	// An unrelated message must be untouched by the receipt below.
	other, err := svc.SendMessage(ctx, "lead_42", "seller_7", "Ana", "Tudo bem?")
	require.NoError(t, err)

	require.NoError(t, svc.ApplyMessageStatus(ctx, "lead_42", msg.MessageID, domain.MessageStatusRead))

	got, err := db.GetMessage(ctx, msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageStatusRead, got.Status)

	untouched, err := db.GetMessage(ctx, other.MessageID)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageStatusSent, untouched.Status)

	session, err = svc.ReturnToAI(ctx, "lead_42", "seller_7")
	require.NoError(t, err)
	require.Equal(t, domain.OwnerAI, session.Owner)

	_, err = svc.SendMessage(ctx, "lead_42", "seller_7", "Ana", "ainda aí?")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestTakeOverUnknownLead(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.TakeOver(context.Background(), "lead_missing", "seller_7", "Ana")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
