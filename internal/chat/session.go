package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/domain"
)

const (
	DefaultWelcome  = "Hi! I can answer questions about my projects, experience and blog posts. What would you like to know?"
	FallbackMessage = "Sorry, something went wrong while answering. Please try again in a moment."
)

var (
	ErrBusy          = errors.New("a question is already being answered")
	ErrEmptyQuestion = errors.New("question is empty")
)

// Asker sends a question, reports the opened answer stream through onOpen
// and streams the answer into onDelta.
type Asker interface {
	Ask(ctx context.Context, question string, onOpen func(), onDelta func(string)) error
}

type Option func(*Session)

// WithWelcome sets the first assistant message. Empty disables it.
func WithWelcome(text string) Option {
	return func(s *Session) { s.welcome = text }
}

// WithMaxHistory keeps only the last n messages. Zero keeps everything.
func WithMaxHistory(n int) Option {
	return func(s *Session) {
		if n > 0 && n < 2 {
			n = 2
		}
		s.maxHistory = n
	}
}

// WithOnUpdate registers a callback receiving a snapshot of the transcript
// after every change.
func WithOnUpdate(fn func([]domain.ChatMessage)) Option {
	return func(s *Session) { s.onUpdate = fn }
}

// Session is one conversation transcript. Only one question may be in
// flight at a time.
type Session struct {
	asker      Asker
	welcome    string
	maxHistory int
	onUpdate   func([]domain.ChatMessage)
	now        func() time.Time

	mu       sync.Mutex
	messages []domain.ChatMessage
	busy     bool
}

func NewSession(asker Asker, opts ...Option) *Session {
	s := &Session{asker: asker, welcome: DefaultWelcome, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.welcome != "" {
		s.messages = append(s.messages, s.newMessage(domain.RoleAssistant, s.welcome))
	}
	return s
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Submit appends question, then an assistant message once the answer stream
// opens, growing it as deltas arrive. When the answer fails the assistant
// message is replaced by FallbackMessage and the error is returned.
func (s *Session) Submit(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.append(s.newMessage(domain.RoleUser, question))
	s.unlockAndPublish()

	// replyID is guarded by mu.
	replyID := ""
	openReply := func() {
		if replyID == "" {
			reply := s.newMessage(domain.RoleAssistant, "")
			replyID = reply.ID
			s.append(reply)
		}
	}

	err := s.asker.Ask(ctx, question, func() {
		s.mu.Lock()
		openReply()
		s.unlockAndPublish()
	}, func(delta string) {
		s.mu.Lock()
		openReply()
		s.edit(replyID, func(m *domain.ChatMessage) { m.Content += delta })
		s.unlockAndPublish()
	})

	s.mu.Lock()
	openReply()
	if err != nil {
		s.edit(replyID, func(m *domain.ChatMessage) { m.Content = FallbackMessage })
	}
	s.busy = false
	s.unlockAndPublish()
	return err
}

func (s *Session) newMessage(role domain.Role, content string) domain.ChatMessage {
	return domain.ChatMessage{ID: uuid.NewString(), Role: role, Content: content, Timestamp: s.now()}
}

func (s *Session) append(m domain.ChatMessage) {
	s.messages = append(s.messages, m)
	if s.maxHistory > 0 && len(s.messages) > s.maxHistory {
		s.messages = append([]domain.ChatMessage(nil), s.messages[len(s.messages)-s.maxHistory:]...)
	}
}

func (s *Session) edit(id string, fn func(*domain.ChatMessage)) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			fn(&s.messages[i])
			return
		}
	}
}

func (s *Session) snapshot() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// unlockAndPublish must be called with mu held. It releases mu, then
// notifies the update callback.
func (s *Session) unlockAndPublish() {
	snap := s.snapshot()
	s.mu.Unlock()
	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}
