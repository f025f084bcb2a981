// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Authentication metrics
	IncLogin(flow, status string) // flow: "oauth", "password", "otp"; status: "success" or "failure"
	IncTokenVerification(status string)
	ObserveLoginDuration(duration time.Duration)

	// OTP pipeline metrics
	IncOTPIssued()
	IncOTPRateLimited()
	IncOTPDelivered(status string) // status: "success", "retry", "dropped"

	// Authorization metrics
	IncAccessDecision(resource, outcome string) // outcome: "granted" or "denied"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
