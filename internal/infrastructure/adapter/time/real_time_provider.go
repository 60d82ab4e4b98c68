package time

import (
	"sync"
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
)

// RealTimeProvider implements the TimeProvider interface with the wall clock in UTC
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time in UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the time elapsed since t
func (p *RealTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(time.Since(t))
}

// FixedTimeProvider is a manually advanced clock for session expiry and timestamp tests
type FixedTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedTimeProvider creates a clock frozen at now
func NewFixedTimeProvider(now time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{now: now.UTC()}
}

// Now returns the frozen time
func (p *FixedTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Advance moves the clock forward
func (p *FixedTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

// Since returns the time elapsed since t on the frozen clock
func (p *FixedTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.Now().Sub(t))
}
