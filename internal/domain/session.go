package domain

import (
	"context"
	"time"
)

type ContextKey string

const SessionContextKey ContextKey = "session_id"

// Selection is the user-driven cart state: chosen size and quantity per product ID.
type Selection struct {
	Sizes      map[string]string `json:"sizes"`
	Quantities map[string]int    `json:"quantities"`
}

// Session is everything one browser session holds between page load and checkout.
// Catalog is the snapshot taken at the last page load; cart events never refetch it.
type Session struct {
	Catalog       []Product `json:"catalog"`
	CatalogLoaded bool      `json:"catalogLoaded"`
	Selection     Selection `json:"selection"`
	Customer      Customer  `json:"customer"`
	PendingOrder  *Order    `json:"pendingOrder,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SessionStore persists sessions. Lock serializes read-modify-write cycles on one session
// and returns the release function; it fails only when ctx ends before the lock is free.
type SessionStore interface {
	Lock(ctx context.Context, id string) (func(), error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session) error
	Delete(ctx context.Context, id string) error
}

// SessionIDFromContext returns the session ID set by the session middleware.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionContextKey).(string)
	return id, ok && id != ""
}
