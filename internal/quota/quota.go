// Package quota enforces daily usage ceilings on the backing store.
// Counters roll over at midnight UTC. The guard runs before the
// underlying mutation so a rejected operation never partially writes.
package quota

import (
	"sync"
	"time"

	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

// Operation identifies the kind of store usage being consumed.
type Operation string

const (
	OpRead     Operation = "read"
	OpWrite    Operation = "write"
	OpStorage  Operation = "storage"
	OpDocument Operation = "document"
)

// Guard is the contract library operations call before touching the
// store. Implementations must fail closed: when the ceiling is reached
// the operation is not attempted at all.
type Guard interface {
	CheckAndConsume(op Operation, amount int64) error
}

// Limits holds the per-day ceilings. A zero limit means unlimited for
// that operation.
type Limits struct {
	DailyReads     int64
	DailyWrites    int64
	DailyStorage   int64
	DailyDocuments int64
}

// DailyGuard tracks in-memory usage counters per UTC day.
type DailyGuard struct {
	mu     sync.Mutex
	limits Limits
	day    string
	used   map[Operation]int64

	now func() time.Time
}

// New creates a guard with the given limits.
func New(limits Limits) *DailyGuard {
	return &DailyGuard{
		limits: limits,
		used:   make(map[Operation]int64),
		now:    time.Now,
	}
}

// CheckAndConsume reserves amount units of the operation's daily
// budget. Returns a quota-exceeded error, without consuming anything,
// when the reservation would cross the ceiling.
func (g *DailyGuard) CheckAndConsume(op Operation, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := g.now().UTC().Format("2006-01-02")
	if day != g.day {
		g.day = day
		clear(g.used)
	}

	limit := g.limitFor(op)
	if limit > 0 && g.used[op]+amount > limit {
		return apperrors.QuotaExceeded("daily " + string(op) + " quota reached, try again tomorrow")
	}

	g.used[op] += amount
	return nil
}

func (g *DailyGuard) limitFor(op Operation) int64 {
	switch op {
	case OpRead:
		return g.limits.DailyReads
	case OpWrite:
		return g.limits.DailyWrites
	case OpStorage:
		return g.limits.DailyStorage
	case OpDocument:
		return g.limits.DailyDocuments
	default:
		return 0
	}
}

// Noop is a Guard that never rejects. Used in tests and when quotas
// are disabled.
type Noop struct{}

// CheckAndConsume implements Guard as a no-op.
func (Noop) CheckAndConsume(Operation, int64) error { return nil }

// NewNoop creates a guard with no ceilings.
func NewNoop() Guard { return Noop{} }
