package inbox

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ConnState is the stream connection health, derived strictly from the
// transport lifecycle: connecting between open and the first success,
// connected after a successful open, disconnected on any error or close.
type ConnState string

const (
	ConnConnecting   ConnState = "connecting"
	ConnConnected    ConnState = "connected"
	ConnDisconnected ConnState = "disconnected"
)

// Handlers receives the typed stream events for one lead. One field per
// event variant; nil fields are skipped. OnConnState observes connection
// health transitions.
type Handlers struct {
	OnNewMessage    func()
	OnMessageStatus func(messageID, status string)
	OnTyping        func(isTyping bool, senderName string)
	OnLeadUpdated   func()
	OnHandoff       func(owner, toUserName string)
	OnConnState     func(state ConnState)
}

// Listener is one live subscription to a lead's event stream. Switching
// leads means closing the old listener and subscribing to the new lead;
// there is no cross-lead multiplexing and no automatic reconnect — a
// disconnected listener stays disconnected until the caller resubscribes.
type Listener struct {
	leadID string
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	state  ConnState
}

// Subscribe opens a persistent event stream for the lead and dispatches
// events to the handlers until the context is cancelled or Close is called.
func (c *Client) Subscribe(ctx context.Context, leadID string, h Handlers) *Listener {
	ctx, cancel := context.WithCancel(ctx)
	l := &Listener{
		leadID: leadID,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	l.setState(h, ConnConnecting)

	go l.run(ctx, c, h)
	return l
}

// State returns the current connection health.
func (l *Listener) State() ConnState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close tears down the subscription. No handler is invoked after Close
// returns; buffered events are dropped, not replayed. Safe to call more
// than once. Close waits for the stream goroutine, so it must not be
// called from inside a handler.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	<-l.done
}

func (l *Listener) run(ctx context.Context, c *Client, h Handlers) {
	defer close(l.done)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/leads/"+l.leadID+"/stream", nil)
	if err != nil {
		l.setState(h, ConnDisconnected)
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		l.setState(h, ConnDisconnected)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.setState(h, ConnDisconnected)
		return
	}

	l.setState(h, ConnConnected)
	l.readEvents(resp.Body, h)
	l.setState(h, ConnDisconnected)
}

// readEvents parses the SSE stream and dispatches each complete event.
func (l *Listener) readEvents(r io.Reader, h Handlers) {
	scanner := bufio.NewScanner(r)
	var event, data string

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line marks end of event
		if line == "" {
			if event != "" || data != "" {
				l.dispatch(h, event, data)
				event, data = "", ""
			}
			continue
		}

		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			if data != "" {
				data += "\n"
			}
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
		// Ignore comments and unknown fields
	}
}

// dispatch routes one wire event to its handler. Unknown event types are
// ignored so the server can grow the union without breaking old clients.
// Handlers run outside the listener mutex so they may call State; the
// Close wait on done keeps the no-invocations-after-Close guarantee.
func (l *Listener) dispatch(h Handlers, event, data string) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}

	switch event {
	case "new_message":
		if h.OnNewMessage != nil {
			h.OnNewMessage()
		}
	case "message_status":
		var p messageStatusPayload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return
		}
		if h.OnMessageStatus != nil {
			h.OnMessageStatus(p.MessageID, p.Status)
		}
	case "typing":
		var p typingPayload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return
		}
		if h.OnTyping != nil {
			h.OnTyping(p.IsTyping, p.SenderName)
		}
	case "lead_updated":
		if h.OnLeadUpdated != nil {
			h.OnLeadUpdated()
		}
	case "handoff":
		var p handoffPayload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return
		}
		if h.OnHandoff != nil {
			h.OnHandoff(p.Owner, p.ToUserName)
		}
	}
}

func (l *Listener) setState(h Handlers, state ConnState) {
	l.mu.Lock()
	if l.closed || l.state == state {
		l.mu.Unlock()
		return
	}
	l.state = state
	l.mu.Unlock()

	if h.OnConnState != nil {
		h.OnConnState(state)
	}
}
