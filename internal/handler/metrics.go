package handler

import (
	"fmt"
	"net/http"

	"github.com/agenthub/agenthub/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "agenthub_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "agenthub_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)
	writeMetric(w, "agenthub_login_duration_seconds_count %d\n", snap.LoginDurationCount)
	writeMetric(w, "agenthub_login_duration_seconds_sum %.6f\n", float64(snap.LoginDurationTotalNs)/1e9)

	for status, count := range snap.TokenVerifications {
		writeMetric(w, "agenthub_token_verifications_total{status=%q} %d\n", status, count)
	}

	writeMetric(w, "agenthub_otp_issued_total %d\n", snap.OTPIssued)
	writeMetric(w, "agenthub_otp_rate_limited_total %d\n", snap.OTPRateLimited)
	for status, count := range snap.OTPDelivered {
		writeMetric(w, "agenthub_otp_delivered_total{status=%q} %d\n", status, count)
	}

	writeMetric(w, "agenthub_access_decisions_total{outcome=\"granted\"} %d\n", snap.AccessGranted)
	writeMetric(w, "agenthub_access_decisions_total{outcome=\"denied\"} %d\n", snap.AccessDenied)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
