package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(flow, status string) {}

// IncTokenVerification is a no-op.
func (n *NoopRecorder) IncTokenVerification(status string) {}

// ObserveLoginDuration is a no-op.
func (n *NoopRecorder) ObserveLoginDuration(duration time.Duration) {}

// IncOTPIssued is a no-op.
func (n *NoopRecorder) IncOTPIssued() {}

// IncOTPRateLimited is a no-op.
func (n *NoopRecorder) IncOTPRateLimited() {}

// IncOTPDelivered is a no-op.
func (n *NoopRecorder) IncOTPDelivered(status string) {}

// IncAccessDecision is a no-op.
func (n *NoopRecorder) IncAccessDecision(resource, outcome string) {}
