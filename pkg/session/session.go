package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// Session holds per-visitor state across requests: persistent values,
// one-request flash data, the CSRF token, and the previously visited URL.
type Session struct {
	CreatedAt    time.Time
	LastActiveAt time.Time
	ExpiresAt    time.Time

	Values    map[string]any // persistent session data
	FlashNow  map[string]any // flash data readable during this request
	FlashNext map[string]any // flash data queued for the next request
	ID        string         // unique identifier (typically UUID)

	token       string // CSRF token, rotated via RegenerateToken
	previousURL string

	dirty bool
	isNew bool
}

// New creates a session with a fresh CSRF token.
func New(id string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Values:       make(map[string]any),
		FlashNow:     make(map[string]any),
		FlashNext:    make(map[string]any),
		token:        randomToken(),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// Put stores a persistent value and marks the session dirty.
func (s *Session) Put(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// Get retrieves a persistent value.
func (s *Session) Get(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// Has reports whether a persistent value exists for key.
func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Forget removes a persistent value. Marks the session dirty only if the
// key existed.
func (s *Session) Forget(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Flash stores a value that is readable during the next request only.
func (s *Session) Flash(key string, val any) {
	if s.FlashNext == nil {
		s.FlashNext = make(map[string]any)
	}
	s.FlashNext[key] = val
	s.dirty = true
}

// GetFlash retrieves a value flashed during the previous request.
func (s *Session) GetFlash(key string) (any, bool) {
	if s.FlashNow == nil {
		return nil, false
	}
	val, ok := s.FlashNow[key]
	return val, ok
}

// PullFlash retrieves and removes a flashed value.
func (s *Session) PullFlash(key string) (any, bool) {
	val, ok := s.GetFlash(key)
	if ok {
		delete(s.FlashNow, key)
		s.dirty = true
	}
	return val, ok
}

// AgeFlash promotes queued flash data so it becomes readable and drops the
// previous request's leftovers. The session manager calls this once at the
// start of each request.
func (s *Session) AgeFlash() {
	if len(s.FlashNow) > 0 || len(s.FlashNext) > 0 {
		s.dirty = true
	}
	s.FlashNow = s.FlashNext
	s.FlashNext = make(map[string]any)
}

// Token returns the session's CSRF token.
func (s *Session) Token() string {
	return s.token
}

// SetToken restores a persisted CSRF token. Used by stores when rehydrating.
func (s *Session) SetToken(token string) {
	s.token = token
}

// RegenerateToken rotates the CSRF token, invalidating outstanding forms.
func (s *Session) RegenerateToken() {
	s.token = randomToken()
	s.dirty = true
}

// PreviousURL returns the last URL recorded for this visitor, used for
// redirect-back responses. Empty when none was recorded.
func (s *Session) PreviousURL() string {
	return s.previousURL
}

// SetPreviousURL records the visitor's current URL for later redirects.
func (s *Session) SetPreviousURL(url string) {
	if s.previousURL == url {
		return
	}
	s.previousURL = url
	s.dirty = true
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as clean (saved).
// Called by the session manager after persisting changes.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// IsNew returns true if the session was just created.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as no longer new.
// Called after the session is first persisted.
func (s *Session) ClearNew() {
	s.isNew = false
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}

	return typed, nil
}

// ValueOr is a typed helper that returns a default value if the key
// doesn't exist or type assertion fails.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}

// randomToken returns a 40-character hex token.
func randomToken() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
