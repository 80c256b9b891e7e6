package errors

import (
	"sync"
	"time"
)

// maxMessages bounds the TUI notice history.
const maxMessages = 50

// TUIHandler keeps notices for display in the status line of the TUI.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	onNotice func(msg Message)
	now      func() time.Time
}

type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeSuccess:
		return "success"
	default:
		return "info"
	}
}

// NewTUIHandler creates a handler. onNotice, when set, is called with every new message.
func NewTUIHandler(onNotice func(msg Message)) *TUIHandler {
	return &TUIHandler{onNotice: onNotice, now: time.Now}
}

func (h *TUIHandler) Error(msg string)   { h.add(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.add(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.add(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.add(msg, MessageTypeSuccess) }

func (h *TUIHandler) add(text string, kind MessageType) {
	h.mu.Lock()
	message := Message{Text: text, Type: kind, Timestamp: h.now()}
	h.messages = append(h.messages, message)
	if over := len(h.messages) - maxMessages; over > 0 {
		h.messages = append([]Message(nil), h.messages[over:]...)
	}
	cb := h.onNotice
	h.mu.Unlock()

	if cb != nil {
		cb(message)
	}
}

// Latest returns the most recent message.
func (h *TUIHandler) Latest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// Clear drops all messages.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

// All returns a copy of the retained messages, oldest first.
func (h *TUIHandler) All() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
