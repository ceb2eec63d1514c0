package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/imoveisai/leadhub/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			lead_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT,
			status TEXT NOT NULL DEFAULT 'new',
			qualification TEXT NOT NULL DEFAULT 'unqualified',
			assigned_seller_id TEXT,
			custom_data TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS conversation_sessions (
			lead_id TEXT PRIMARY KEY,
			owner TEXT NOT NULL DEFAULT 'ai',
			owner_seller_id TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			role TEXT NOT NULL,
			sender_type TEXT,
			sender_name TEXT,
			content TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_lead ON messages(lead_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS lead_events (
			event_id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			field TEXT NOT NULL,
			old_value TEXT,
			new_value TEXT,
			description TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lead_events_lead ON lead_events(lead_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS notes (
			note_id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			tag_id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			label TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE TABLE IF NOT EXISTS attachments (
			attachment_id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			url TEXT NOT NULL,
			uploaded_by TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			template_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Leads ---

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *domain.Lead) error {
	custom := "{}"
	if lead.CustomData != nil {
		custom = string(lead.CustomData)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (lead_id, name, phone, status, qualification, assigned_seller_id, custom_data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.LeadID, lead.Name, lead.Phone, lead.Status, lead.Qualification,
		lead.AssignedSellerID, custom, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT lead_id, name, phone, status, qualification, assigned_seller_id, custom_data, created_at, updated_at
		 FROM leads WHERE lead_id = ?`, leadID)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lead_id, name, phone, status, qualification, assigned_seller_id, custom_data, created_at, updated_at
		 FROM leads ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, lead *domain.Lead) error {
	custom := "{}"
	if lead.CustomData != nil {
		custom = string(lead.CustomData)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET name = ?, phone = ?, status = ?, qualification = ?, assigned_seller_id = ?, custom_data = ?, updated_at = ?
		 WHERE lead_id = ?`,
		lead.Name, lead.Phone, lead.Status, lead.Qualification,
		lead.AssignedSellerID, custom, lead.UpdatedAt, lead.LeadID)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row scanner) (*domain.Lead, error) {
	var lead domain.Lead
	var phone, sellerID, custom sql.NullString
	if err := row.Scan(&lead.LeadID, &lead.Name, &phone, &lead.Status, &lead.Qualification,
		&sellerID, &custom, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return nil, err
	}
	lead.Phone = phone.String
	lead.AssignedSellerID = sellerID.String
	if custom.Valid && custom.String != "" {
		lead.CustomData = json.RawMessage(custom.String)
	}
	return &lead, nil
}

// --- Conversation sessions ---

func (s *SQLiteStore) GetSession(ctx context.Context, leadID string) (*domain.ConversationSession, error) {
	var session domain.ConversationSession
	err := s.db.QueryRowContext(ctx,
		`SELECT lead_id, owner, owner_seller_id, updated_at FROM conversation_sessions WHERE lead_id = ?`,
		leadID).Scan(&session.LeadID, &session.Owner, &session.OwnerSellerID, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) UpsertSession(ctx context.Context, session *domain.ConversationSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_sessions (lead_id, owner, owner_seller_id, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(lead_id) DO UPDATE SET owner = excluded.owner,
			owner_seller_id = excluded.owner_seller_id, updated_at = excluded.updated_at`,
		session.LeadID, session.Owner, session.OwnerSellerID, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// --- Messages ---

func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, lead_id, role, sender_type, sender_name, content, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.MessageID, msg.LeadID, msg.Role, msg.SenderType, msg.SenderName,
		msg.Content, msg.Status, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessage(ctx context.Context, messageID string) (*domain.Message, error) {
	var msg domain.Message
	var senderType, senderName sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT message_id, lead_id, role, sender_type, sender_name, content, status, created_at
		 FROM messages WHERE message_id = ?`, messageID).
		Scan(&msg.MessageID, &msg.LeadID, &msg.Role, &senderType, &senderName,
			&msg.Content, &msg.Status, &msg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	msg.SenderType = domain.SenderType(senderType.String)
	msg.SenderName = senderName.String
	return &msg, nil
}

func (s *SQLiteStore) GetMessages(ctx context.Context, leadID string, limit int, before string) ([]domain.Message, error) {
	query := `SELECT message_id, lead_id, role, sender_type, sender_name, content, status, created_at
		 FROM messages WHERE lead_id = ?`
	args := []interface{}{leadID}
	if before != "" {
		query += ` AND created_at < (SELECT created_at FROM messages WHERE message_id = ?)`
		args = append(args, before)
	}
	query += ` ORDER BY created_at ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		var senderType, senderName sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.LeadID, &msg.Role, &senderType, &senderName,
			&msg.Content, &msg.Status, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.SenderType = domain.SenderType(senderType.String)
		msg.SenderName = senderName.String
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) UpdateMessageStatus(ctx context.Context, messageID string, status domain.MessageStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET status = ? WHERE message_id = ?`, status, messageID)
	if err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- Lead events ---

func (s *SQLiteStore) CreateLeadEvent(ctx context.Context, event *domain.LeadEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lead_events (event_id, lead_id, field, old_value, new_value, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.EventID, event.LeadID, event.Field, event.OldValue, event.NewValue,
		event.Description, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetLeadEvents(ctx context.Context, leadID string, limit int) ([]domain.LeadEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, lead_id, field, old_value, new_value, description, created_at
		 FROM lead_events WHERE lead_id = ? ORDER BY created_at ASC LIMIT ?`, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead events: %w", err)
	}
	defer rows.Close()

	events := []domain.LeadEvent{}
	for rows.Next() {
		var ev domain.LeadEvent
		var oldVal, newVal, desc sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.LeadID, &ev.Field, &oldVal, &newVal, &desc, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead event: %w", err)
		}
		ev.OldValue = oldVal.String
		ev.NewValue = newVal.String
		ev.Description = desc.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

// --- Notes ---

func (s *SQLiteStore) CreateNote(ctx context.Context, note *domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (note_id, lead_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		note.NoteID, note.LeadID, note.AuthorID, note.Content, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetNotes(ctx context.Context, leadID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT note_id, lead_id, author_id, content, created_at FROM notes
		 WHERE lead_id = ? ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.NoteID, &n.LeadID, &n.AuthorID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, noteID string) error {
	return s.deleteByID(ctx, "notes", "note_id", noteID)
}

// --- Tags ---

func (s *SQLiteStore) CreateTag(ctx context.Context, tag *domain.Tag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (tag_id, lead_id, label, created_at) VALUES (?, ?, ?, ?)`,
		tag.TagID, tag.LeadID, tag.Label, tag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTags(ctx context.Context, leadID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag_id, lead_id, label, created_at FROM tags WHERE lead_id = ? ORDER BY created_at ASC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var tg domain.Tag
		if err := rows.Scan(&tg.TagID, &tg.LeadID, &tg.Label, &tg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tg)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) DeleteTag(ctx context.Context, tagID string) error {
	return s.deleteByID(ctx, "tags", "tag_id", tagID)
}

// --- Attachments ---

func (s *SQLiteStore) CreateAttachment(ctx context.Context, att *domain.Attachment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (attachment_id, lead_id, file_name, url, uploaded_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		att.AttachmentID, att.LeadID, att.FileName, att.URL, att.UploadedBy, att.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAttachments(ctx context.Context, leadID string) ([]domain.Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT attachment_id, lead_id, file_name, url, uploaded_by, created_at
		 FROM attachments WHERE lead_id = ? ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	atts := []domain.Attachment{}
	for rows.Next() {
		var a domain.Attachment
		var uploadedBy sql.NullString
		if err := rows.Scan(&a.AttachmentID, &a.LeadID, &a.FileName, &a.URL, &uploadedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		a.UploadedBy = uploadedBy.String
		atts = append(atts, a)
	}
	return atts, rows.Err()
}

func (s *SQLiteStore) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return s.deleteByID(ctx, "attachments", "attachment_id", attachmentID)
}

// --- Templates ---

func (s *SQLiteStore) CreateTemplate(ctx context.Context, tpl *domain.Template) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (template_id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		tpl.TemplateID, tpl.Title, tpl.Content, tpl.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT template_id, title, content, created_at FROM templates ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	defer rows.Close()

	tpls := []domain.Template{}
	for rows.Next() {
		var tpl domain.Template
		if err := rows.Scan(&tpl.TemplateID, &tpl.Title, &tpl.Content, &tpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		tpls = append(tpls, tpl)
	}
	return tpls, rows.Err()
}

func (s *SQLiteStore) DeleteTemplate(ctx context.Context, templateID string) error {
	return s.deleteByID(ctx, "templates", "template_id", templateID)
}

func (s *SQLiteStore) deleteByID(ctx context.Context, table, column, id string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
