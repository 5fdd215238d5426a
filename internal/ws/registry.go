package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"marketplace-service/internal/observability"
)

// Conn is the transport a Session writes to. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Session is one live connection of a user.
type Session struct {
	ID     string
	UserID string
	Info   ConnInfo

	conn         Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
	closeOnce    sync.Once
}

// Send writes a text frame. Concurrent callers are serialized because the
// underlying transport supports only one writer at a time.
func (s *Session) Send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the transport once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

// Registry indexes the live sessions of every connected user. It is process
// memory only and starts empty.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]map[string]*Session
	writeTimeout time.Duration
}

// NewRegistry creates an empty registry. writeTimeout bounds every Send.
func NewRegistry(writeTimeout time.Duration) *Registry {
	return &Registry{
		sessions:     make(map[string]map[string]*Session),
		writeTimeout: writeTimeout,
	}
}

// Register adds a new session for userID. Earlier sessions of the same user
// are kept.
func (r *Registry) Register(userID string, conn Conn, info ConnInfo) *Session {
	info.ConnID = uuid.NewString()
	info.UserID = userID
	if info.ConnectedAt.IsZero() {
		info.ConnectedAt = time.Now()
	}
	session := &Session{
		ID:           info.ConnID,
		UserID:       userID,
		Info:         info,
		conn:         conn,
		writeTimeout: r.writeTimeout,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[userID]; !ok {
		r.sessions[userID] = make(map[string]*Session)
	}
	r.sessions[userID][session.ID] = session
	observability.IncWSActive()
	return session
}

// Unregister removes one session and drops the user entry once it was the
// last one. It reports whether the session was registered.
func (r *Registry) Unregister(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, ok := r.sessions[userID]
	if !ok {
		return false
	}
	if _, ok := sessions[connID]; !ok {
		return false
	}
	delete(sessions, connID)
	if len(sessions) == 0 {
		delete(r.sessions, userID)
	}
	observability.DecWSActive()
	return true
}

// Lookup returns a snapshot of the user's live sessions, possibly empty.
func (r *Registry) Lookup(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := r.sessions[userID]
	out := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s)
	}
	return out
}

// Users returns how many users currently have at least one session.
func (r *Registry) Users() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close closes every session and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]map[string]*Session)
	r.mu.Unlock()

	for _, sessions := range all {
		for _, s := range sessions {
			_ = s.Close()
			observability.DecWSActive()
		}
	}
}
