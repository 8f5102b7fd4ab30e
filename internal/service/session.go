package service

import (
	"sync"
	"time"
)

// State is the position of a session in the login and indexing flow.
type State int

const (
	// StateLoggedOut means no session exists for the id.
	StateLoggedOut State = iota
	// StateUnindexed means the session is logged in and the index is not built yet.
	StateUnindexed
	// StateIndexed means the session is logged in and questions can be answered.
	StateIndexed
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateUnindexed:
		return "unindexed"
	case StateIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// Session is one logged-in browser, identified by the id stored in its cookie.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time

	// ask serializes questions within the session.
	ask sync.Mutex
}
