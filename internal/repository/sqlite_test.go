package store

import (
	"context"
	"testing"
	"time"

	"github.com/imoveisai/leadhub/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedLead(t *testing.T, s *SQLiteStore, leadID string) {
	t.Helper()
	now := time.Now()
	err := s.CreateLead(context.Background(), &domain.Lead{
		LeadID:        leadID,
		Name:          "Test Lead",
		Status:        domain.LeadStatusNew,
		Qualification: domain.QualificationUnqualified,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
}

func TestLeadRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedLead(t, s, "lead_1")

	lead, err := s.GetLead(ctx, "lead_1")
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if lead == nil || lead.Name != "Test Lead" {
		t.Fatalf("unexpected lead: %+v", lead)
	}

	missing, err := s.GetLead(ctx, "lead_x")
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown lead, got %+v", missing)
	}
}

func TestUpdateLeadNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateLead(context.Background(), &domain.Lead{LeadID: "lead_x", Name: "x"})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedLead(t, s, "lead_1")

	session, err := s.GetSession(ctx, "lead_1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != nil {
		t.Fatalf("expected no session before first upsert, got %+v", session)
	}

	if err := s.UpsertSession(ctx, &domain.ConversationSession{
		LeadID: "lead_1", Owner: domain.OwnerAI, UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("UpsertSession failed: %v", err)
	}

	// Upsert again with a new owner: same row, updated in place.
	if err := s.UpsertSession(ctx, &domain.ConversationSession{
		LeadID: "lead_1", Owner: domain.OwnerSeller, OwnerSellerID: "seller_7", UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("UpsertSession failed: %v", err)
	}

	session, err = s.GetSession(ctx, "lead_1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.Owner != domain.OwnerSeller || session.OwnerSellerID != "seller_7" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestUpdateMessageStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedLead(t, s, "lead_1")

	if err := s.CreateMessage(ctx, &domain.Message{
		MessageID: "msg_1", LeadID: "lead_1", Role: domain.RoleAssistant,
		SenderType: domain.SenderTypeSeller, SenderName: "Ana",
		Content: "Olá", Status: domain.MessageStatusSent, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	if err := s.UpdateMessageStatus(ctx, "msg_1", domain.MessageStatusDelivered); err != nil {
		t.Fatalf("UpdateMessageStatus failed: %v", err)
	}

	msg, err := s.GetMessage(ctx, "msg_1")
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if msg.Status != domain.MessageStatusDelivered {
		t.Fatalf("expected delivered, got %q", msg.Status)
	}

	if err := s.UpdateMessageStatus(ctx, "msg_missing", domain.MessageStatusRead); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMessagesBeforeCursor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedLead(t, s, "lead_1")

	base := time.Now().Add(-time.Minute)
	for i, id := range []string{"msg_1", "msg_2", "msg_3"} {
		if err := s.CreateMessage(ctx, &domain.Message{
			MessageID: id, LeadID: "lead_1", Role: domain.RoleUser,
			Content: "m", CreatedAt: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	msgs, err := s.GetMessages(ctx, "lead_1", 50, "")
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 3 || msgs[0].MessageID != "msg_1" || msgs[2].MessageID != "msg_3" {
		t.Fatalf("expected chronological order, got %+v", msgs)
	}

	older, err := s.GetMessages(ctx, "lead_1", 50, "msg_3")
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(older) != 2 || older[1].MessageID != "msg_2" {
		t.Fatalf("unexpected page before msg_3: %+v", older)
	}
}

func TestLeadEventsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedLead(t, s, "lead_1")

	base := time.Now().Add(-time.Minute)
	for i, field := range []string{"status", "qualification"} {
		if err := s.CreateLeadEvent(ctx, &domain.LeadEvent{
			EventID: "evt_" + field, LeadID: "lead_1", Field: field,
			OldValue: "a", NewValue: "b", CreatedAt: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("CreateLeadEvent failed: %v", err)
		}
	}

	events, err := s.GetLeadEvents(ctx, "lead_1", 100)
	if err != nil {
		t.Fatalf("GetLeadEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].Field != "status" || events[1].Field != "qualification" {
		t.Fatalf("expected events in insertion order, got %+v", events)
	}
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.DeleteNote(ctx, "note_x"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for note, got %v", err)
	}
	if err := s.DeleteTag(ctx, "tag_x"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for tag, got %v", err)
	}
	if err := s.DeleteTemplate(ctx, "tpl_x"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for template, got %v", err)
	}
}

func TestNotesRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedLead(t, s, "lead_1")

	if err := s.CreateNote(ctx, &domain.Note{
		NoteID: "note_1", LeadID: "lead_1", AuthorID: "seller_7",
		Content: "prefers mornings", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	notes, err := s.GetNotes(ctx, "lead_1")
	if err != nil {
		t.Fatalf("GetNotes failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "prefers mornings" {
		t.Fatalf("unexpected notes: %+v", notes)
	}

	if err := s.DeleteNote(ctx, "note_1"); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	notes, _ = s.GetNotes(ctx, "lead_1")
	if len(notes) != 0 {
		t.Fatalf("expected no notes after delete, got %+v", notes)
	}
}
