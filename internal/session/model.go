package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/split"
)

// LiveSession is one in-progress split. The engine is single-threaded, so
// every operation on it runs under mu; a mutation and its triggered
// recalculation complete before the lock is released.
type LiveSession struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu     sync.Mutex
	engine *split.Session
}
