package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginSuccesses       uint64
	LoginFailures        uint64
	TokenVerifications   map[string]uint64
	LoginDurationCount   uint64
	LoginDurationTotalNs int64
	OTPIssued            uint64
	OTPRateLimited       uint64
	OTPDelivered         map[string]uint64
	AccessGranted        uint64
	AccessDenied         uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	loginSuccesses       uint64
	loginFailures        uint64
	loginDurationCount   uint64
	loginDurationTotalNs int64
	otpIssued            uint64
	otpRateLimited       uint64
	accessGranted        uint64
	accessDenied         uint64

	mu                 sync.Mutex
	tokenVerifications map[string]uint64
	otpDelivered       map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		tokenVerifications: make(map[string]uint64),
		otpDelivered:       make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	verifications := make(map[string]uint64, len(m.tokenVerifications))
	for k, v := range m.tokenVerifications {
		verifications[k] = v
	}
	delivered := make(map[string]uint64, len(m.otpDelivered))
	for k, v := range m.otpDelivered {
		delivered[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		LoginSuccesses:       atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:        atomic.LoadUint64(&m.loginFailures),
		TokenVerifications:   verifications,
		LoginDurationCount:   atomic.LoadUint64(&m.loginDurationCount),
		LoginDurationTotalNs: atomic.LoadInt64(&m.loginDurationTotalNs),
		OTPIssued:            atomic.LoadUint64(&m.otpIssued),
		OTPRateLimited:       atomic.LoadUint64(&m.otpRateLimited),
		OTPDelivered:         delivered,
		AccessGranted:        atomic.LoadUint64(&m.accessGranted),
		AccessDenied:         atomic.LoadUint64(&m.accessDenied),
	}
}

// IncLogin increments login counters per flow outcome.
func (m *InMemoryRecorder) IncLogin(flow, status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncTokenVerification increments the verification counter for a status.
func (m *InMemoryRecorder) IncTokenVerification(status string) {
	m.mu.Lock()
	m.tokenVerifications[status]++
	m.mu.Unlock()
}

// ObserveLoginDuration records a login duration.
func (m *InMemoryRecorder) ObserveLoginDuration(duration time.Duration) {
	atomic.AddUint64(&m.loginDurationCount, 1)
	atomic.AddInt64(&m.loginDurationTotalNs, duration.Nanoseconds())
}

// IncOTPIssued increments the issued-code counter.
func (m *InMemoryRecorder) IncOTPIssued() {
	atomic.AddUint64(&m.otpIssued, 1)
}

// IncOTPRateLimited increments the cooldown-rejection counter.
func (m *InMemoryRecorder) IncOTPRateLimited() {
	atomic.AddUint64(&m.otpRateLimited, 1)
}

// IncOTPDelivered increments the delivery counter for a status.
func (m *InMemoryRecorder) IncOTPDelivered(status string) {
	m.mu.Lock()
	m.otpDelivered[status]++
	m.mu.Unlock()
}

// IncAccessDecision increments authorization outcome counters.
func (m *InMemoryRecorder) IncAccessDecision(resource, outcome string) {
	if outcome == "granted" {
		atomic.AddUint64(&m.accessGranted, 1)
		return
	}
	atomic.AddUint64(&m.accessDenied, 1)
}
