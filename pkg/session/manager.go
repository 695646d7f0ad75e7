package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

// Manager handles session lifecycle: creation, retrieval, authentication
// upgrade and destruction.
type Manager struct {
	store        Store
	transport    Transport
	config       Config
	activityChan chan activityUpdate
	done         chan struct{}
}

type activityUpdate struct {
	token string
	time  time.Time
}

// New creates a session manager. Without explicit options it uses an
// in-memory store and an insecure cookie transport, which is only suitable
// for tests.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:       DefaultConfig(),
		activityChan: make(chan activityUpdate, 1000),
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.transport == nil {
		m.transport = NewCookieTransport(m.config.CookieName, m.config.SecureCookies)
	}

	// Background worker keeps activity writes off the request path.
	go m.activityWorker()

	return m
}

// Ensure returns the request's session, creating an anonymous one when none
// exists or the existing one is invalid.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err == nil {
		if m.shouldUpdateActivity(session) {
			m.queueActivityUpdate(session.Token)
		}
		return session, nil
	}
	_ = m.transport.ClearToken(w)

	session, err = m.createSession(ctx, nil)
	if err != nil {
		return nil, err
	}

	idle, _ := m.config.GetTimeouts(false)
	if err := m.transport.SetToken(w, session.Token, idle); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}

	return session, nil
}

// Get retrieves an existing, unexpired session for the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Authenticate binds the user to the request's session. The token is rotated
// to prevent session fixation.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int64) error {
	session, err := m.Get(ctx, r)
	if err != nil {
		session, err = m.createSession(ctx, &userID)
		if err != nil {
			return err
		}
	} else {
		newToken, err := generateToken()
		if err != nil {
			return err
		}

		_ = m.store.Delete(ctx, session.Token)

		session.Token = newToken
		session.UserID = &userID
		idle, max := m.config.GetTimeouts(true)
		session.ExpiresAt = calculateExpiry(session.CreatedAt, time.Now(), idle, max)
		session.Touch()

		if err := m.store.Create(ctx, session); err != nil {
			return err
		}
	}

	idle, _ := m.config.GetTimeouts(true)
	return m.transport.SetToken(w, session.Token, idle)
}

// ClearUser detaches the user from the session without destroying it. The
// identity resolver calls this when the stored user no longer qualifies
// (deactivated or role integrity failure), so the stale binding cannot be
// replayed.
func (m *Manager) ClearUser(ctx context.Context, r *http.Request) error {
	session, err := m.Get(ctx, r)
	if err != nil {
		return err
	}

	session.UserID = nil
	return m.store.Update(ctx, session)
}

// Destroy deletes the session and clears the client token.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}

	return m.transport.ClearToken(w)
}

// DestroyAllForUser deletes every session bound to the user.
func (m *Manager) DestroyAllForUser(ctx context.Context, userID int64) error {
	return m.store.DeleteByUserID(ctx, userID)
}

// Middleware attaches the request's session to the context when one exists.
// Requests without a valid session pass through untouched; downstream
// authentication gates decide whether that is acceptable.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if m.shouldUpdateActivity(session) {
			m.queueActivityUpdate(session.Token)
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// Close gracefully shuts down the activity worker.
func (m *Manager) Close() error {
	select {
	case <-m.done:
		return nil
	default:
		close(m.done)
		return nil
	}
}

func (m *Manager) createSession(ctx context.Context, userID *int64) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	idle, max := m.config.GetTimeouts(userID != nil)
	now := time.Now()
	session := NewSession(token, userID, calculateExpiry(now, now, idle, max).Sub(now))

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (m *Manager) shouldUpdateActivity(session *Session) bool {
	return time.Since(session.LastActivityAt) >= m.config.ActivityUpdateThreshold
}

func (m *Manager) queueActivityUpdate(token string) {
	select {
	case m.activityChan <- activityUpdate{token: token, time: time.Now()}:
	default:
		// Channel full, drop the update rather than block the request.
	}
}

func (m *Manager) activityWorker() {
	for {
		select {
		case update := <-m.activityChan:
			_ = m.store.UpdateActivity(context.Background(), update.token, update.time)
		case <-m.done:
			for {
				select {
				case update := <-m.activityChan:
					_ = m.store.UpdateActivity(context.Background(), update.token, update.time)
				default:
					return
				}
			}
		}
	}
}

// calculateExpiry returns the earlier of the idle expiry and the absolute
// lifetime cap.
func calculateExpiry(createdAt, now time.Time, idle, max time.Duration) time.Time {
	idleExpiry := now.Add(idle)
	maxExpiry := createdAt.Add(max)

	if maxExpiry.Before(idleExpiry) {
		return maxExpiry
	}
	return idleExpiry
}

// generateToken creates a cryptographically secure opaque token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
