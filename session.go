package assistant

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session states. A session holding an unanswered user turn is awaiting a
// response; appending the matching assistant turn returns it to ready.
const (
	StateEmpty            = "EMPTY"
	StateAwaitingResponse = "AWAITING_RESPONSE"
	StateReady            = "READY"
)

// ErrTurnInFlight reports an attempt to start a new user turn while the
// previous one has not received its assistant turn yet.
var ErrTurnInFlight = errors.New("previous turn is still awaiting a response")

// ConversationTurn represents a single chat turn. Assistant turns carry the
// titles of the passages that grounded the answer.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds an ordered conversation with creation time and state.
type Session struct {
	ID        string             `json:"session_id"`
	CreatedAt time.Time          `json:"created_at"`
	State     string             `json:"state"`
	Turns     []ConversationTurn `json:"turns"`
}

// BeginTurn appends the user turn and moves the session to awaiting. It
// fails when a turn is already in flight so histories never hold two
// consecutive user turns.
func (s *Session) BeginTurn(content string) error {
	if s.State == StateAwaitingResponse {
		return ErrTurnInFlight
	}
	s.Turns = append(s.Turns, ConversationTurn{Role: RoleUser, Content: content, Timestamp: time.Now()})
	s.State = StateAwaitingResponse
	return nil
}

// CompleteTurn appends the assistant turn and returns the session to ready.
// Completing works even on error answers so every user turn gets exactly
// one assistant turn.
func (s *Session) CompleteTurn(content string, sources []string) *ConversationTurn {
	turn := ConversationTurn{Role: RoleAssistant, Content: content, Sources: sources, Timestamp: time.Now()}
	s.Turns = append(s.Turns, turn)
	s.State = StateReady
	return &s.Turns[len(s.Turns)-1]
}

// Clear discards the history and resets the session to empty, keeping the
// same identifier.
func (s *Session) Clear() {
	s.Turns = []ConversationTurn{}
	s.State = StateEmpty
}

// SessionStore is an abstraction for session persistence.
type SessionStore interface {
	Create() *Session
	Get(id string) (*Session, bool)
	Delete(id string) bool
	List() []*Session
	// Update persists the full session after its turns changed.
	Update(s *Session) bool
	// ListRange returns sessions from offset with limit, ordered by recency (desc)
	ListRange(offset, limit int) []*Session
	// Clean keeps at most max sessions (by recency); returns error if failed.
	Clean(max int) error
}

// MemSessionStore manages sessions in memory.
type MemSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{sessions: make(map[string]*Session)}
}

func (m *MemSessionStore) Create() *Session {
	s := &Session{ID: newID(), CreatedAt: time.Now(), State: StateEmpty, Turns: []ConversationTurn{}}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *MemSessionStore) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return s, ok
}

func (m *MemSessionStore) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok { delete(m.sessions, id) }
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) Update(s *Session) bool {
	if s == nil { return false }
	m.mu.Lock()
	_, ok := m.sessions[s.ID]
	if ok { m.sessions[s.ID] = s }
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions { out = append(out, s) }
	m.mu.RUnlock()
	// order by CreatedAt desc for convenience
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MemSessionStore) ListRange(offset, limit int) []*Session {
	list := m.List()
	if offset < 0 { offset = 0 }
	if limit <= 0 { return []*Session{} }
	if offset >= len(list) { return []*Session{} }
	end := offset + limit
	if end > len(list) { end = len(list) }
	return list[offset:end]
}

func (m *MemSessionStore) Clean(max int) error {
	if max <= 0 { return nil }
	m.mu.Lock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions { out = append(out, s) }
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) <= max { m.mu.Unlock(); return nil }
	for _, s := range out[max:] { delete(m.sessions, s.ID) }
	m.mu.Unlock()
	return nil
}

func newID() string { return uuid.New().String() }
