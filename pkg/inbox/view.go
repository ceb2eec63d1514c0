package inbox

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyContent is returned by Send when the trimmed content is empty.
var ErrEmptyContent = errors.New("message content is empty")

const (
	defaultTypingLinger   = 300 * time.Millisecond
	defaultReconcileDelay = time.Second
)

// ViewOption configures a ConversationView.
type ViewOption func(*ConversationView)

// WithTypingLinger sets how long the typing indicator stays visible after
// is_typing goes false.
func WithTypingLinger(d time.Duration) ViewOption {
	return func(v *ConversationView) { v.typingLinger = d }
}

// WithReconcileDelay sets how long after a successful send the view waits
// before refetching the authoritative message list.
func WithReconcileDelay(d time.Duration) ViewOption {
	return func(v *ConversationView) { v.reconcileDelay = d }
}

// WithOnChange sets a callback invoked whenever the view state changes.
func WithOnChange(fn func()) ViewOption {
	return func(v *ConversationView) { v.onChange = fn }
}

// ConversationView holds the renderable state of one lead's conversation:
// the message list (with optimistic entries), the typing indicator, and the
// reconcile behavior after sends. The server's list is always authoritative;
// a refetch replaces the whole list.
type ConversationView struct {
	client *Client
	leadID string

	typingLinger   time.Duration
	reconcileDelay time.Duration
	onChange       func()

	mu          sync.Mutex
	messages    []Message
	typing      bool
	typingName  string
	typingTimer *time.Timer
}

// NewConversationView creates a view for one lead.
func NewConversationView(client *Client, leadID string, opts ...ViewOption) *ConversationView {
	v := &ConversationView{
		client:         client,
		leadID:         leadID,
		typingLinger:   defaultTypingLinger,
		reconcileDelay: defaultReconcileDelay,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Handlers returns stream handlers wired to this view: new messages trigger
// a full refetch, status events patch one message, typing drives the
// indicator. Hand-off and lead-update handling stay with the caller.
func (v *ConversationView) Handlers() Handlers {
	return Handlers{
		OnNewMessage: func() {
			_ = v.Refresh(context.Background())
		},
		OnMessageStatus: v.ApplyStatus,
		OnTyping:        v.SetTyping,
	}
}

// Refresh replaces the message list with the server's, dropping optimistic
// entries. The reload is authoritative: a momentary duplicate between an
// optimistic entry and its server-confirmed copy converges here.
func (v *ConversationView) Refresh(ctx context.Context) error {
	messages, err := v.client.GetMessages(ctx, v.leadID)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.messages = messages
	v.mu.Unlock()
	v.notify()
	return nil
}

// Send appends an optimistic entry immediately, then issues the send. On
// success a reconciling refetch is scheduled after a short delay; on failure
// the entry is marked failed-to-send and kept visible for retry.
func (v *ConversationView) Send(ctx context.Context, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyContent
	}

	provisional := Message{
		MessageID:  "pending_" + uuid.New().String()[:8],
		LeadID:     v.leadID,
		Role:       "assistant",
		SenderType: "seller",
		Content:    content,
		CreatedAt:  time.Now(),
	}

	v.mu.Lock()
	v.messages = append(v.messages, provisional)
	v.mu.Unlock()
	v.notify()

	if _, err := v.client.SendMessage(ctx, v.leadID, content); err != nil {
		v.markFailed(provisional.MessageID)
		return provisional, err
	}

	time.AfterFunc(v.reconcileDelay, func() {
		_ = v.Refresh(context.Background())
	})
	return provisional, nil
}

// Retry re-sends a failed optimistic entry.
func (v *ConversationView) Retry(ctx context.Context, provisionalID string) (Message, error) {
	v.mu.Lock()
	content := ""
	kept := v.messages[:0]
	for _, m := range v.messages {
		if m.MessageID == provisionalID && m.FailedToSend {
			content = m.Content
			continue
		}
		kept = append(kept, m)
	}
	v.messages = kept
	v.mu.Unlock()

	if content == "" {
		return Message{}, errors.New("no failed message with that id")
	}
	v.notify()
	return v.Send(ctx, content)
}

// ApplyStatus patches one message's delivery status by id. Status only moves
// forward; regressions are ignored.
func (v *ConversationView) ApplyStatus(messageID, status string) {
	v.mu.Lock()
	changed := false
	for i := range v.messages {
		if v.messages[i].MessageID != messageID {
			continue
		}
		if statusRank[status] > statusRank[v.messages[i].Status] {
			v.messages[i].Status = status
			changed = true
		}
		break
	}
	v.mu.Unlock()

	if changed {
		v.notify()
	}
}

// SetTyping drives the typing indicator. A true signal shows it immediately;
// a false signal hides it only after the linger interval, so short pauses
// don't make the indicator flicker.
func (v *ConversationView) SetTyping(isTyping bool, senderName string) {
	v.mu.Lock()
	if v.typingTimer != nil {
		v.typingTimer.Stop()
		v.typingTimer = nil
	}

	if isTyping {
		v.typing = true
		v.typingName = senderName
		v.mu.Unlock()
		v.notify()
		return
	}

	v.typingTimer = time.AfterFunc(v.typingLinger, func() {
		v.mu.Lock()
		v.typing = false
		v.typingName = ""
		v.typingTimer = nil
		v.mu.Unlock()
		v.notify()
	})
	v.mu.Unlock()
}

// Messages returns a copy of the current message list.
func (v *ConversationView) Messages() []Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Message, len(v.messages))
	copy(out, v.messages)
	return out
}

// Typing returns the indicator state and the typing party's display name.
func (v *ConversationView) Typing() (bool, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.typing, v.typingName
}

func (v *ConversationView) markFailed(messageID string) {
	v.mu.Lock()
	for i := range v.messages {
		if v.messages[i].MessageID == messageID {
			v.messages[i].FailedToSend = true
			break
		}
	}
	v.mu.Unlock()
	v.notify()
}

func (v *ConversationView) notify() {
	if v.onChange != nil {
		v.onChange()
	}
}
