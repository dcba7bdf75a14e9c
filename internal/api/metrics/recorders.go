package metrics

import "github.com/prospira/edi-portal/internal/core/domain"

// LoginRecorder counts login outcomes. It is installed as a login auditor.
type LoginRecorder struct{}

func (LoginRecorder) Record(e domain.LoginEvent) {
	LoginAttemptsTotal.WithLabelValues(e.Op, string(e.Category), e.Result).Inc()
}

// SessionRecorder counts session refreshes.
type SessionRecorder struct{}

func (SessionRecorder) RefreshResult(result string) {
	SessionRefreshTotal.WithLabelValues(result).Inc()
}

func (SessionRecorder) RefreshShared() {
	SessionRefreshSharedTotal.Inc()
}
