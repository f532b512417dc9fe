// Package tracking mints the two shareable booking identifiers: the
// customer-facing tracking id and the internal booking number. Both are a
// millisecond timestamp combined with a short random suffix, so values
// sort roughly chronologically and need no coordination with the store.
// Collisions inside the same millisecond are possible; the lifecycle
// manager retries against the store's unique constraint.
package tracking

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	trackingPrefix      = "TRK"
	bookingNumberPrefix = "BK"
)

type Generator struct {
	now func() time.Time

	mu   sync.Mutex
	rand *rand.Rand
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewTrackingID returns "TRK" + last 6 digits of the unix-millis timestamp
// + a 4-digit random suffix, always matching TRK\d{10}.
func (g *Generator) NewTrackingID() string {
	millis := g.now().UnixMilli()
	return fmt.Sprintf("%s%06d%04d", trackingPrefix, millis%1_000_000, g.intn(10_000))
}

// NewBookingNumber returns "BK" + the full unix-millis timestamp + a
// 3-digit random suffix.
func (g *Generator) NewBookingNumber() string {
	millis := g.now().UnixMilli()
	return fmt.Sprintf("%s%d%03d", bookingNumberPrefix, millis, g.intn(1_000))
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rand.Intn(n)
}
