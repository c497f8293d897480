package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuthOutcome labels one doctor gate decision
type AuthOutcome string

const (
	OutcomeAuthorized     AuthOutcome = "authorized"
	OutcomeMissingToken   AuthOutcome = "missing_token"
	OutcomeInvalidToken   AuthOutcome = "invalid_token"
	OutcomeDoctorNotFound AuthOutcome = "doctor_not_found"
	OutcomeInternalError  AuthOutcome = "internal_error"
)

var authOutcomes = []AuthOutcome{
	OutcomeAuthorized,
	OutcomeMissingToken,
	OutcomeInvalidToken,
	OutcomeDoctorNotFound,
	OutcomeInternalError,
}

// AuthMetrics counts gate decisions. A nil *AuthMetrics records nothing.
type AuthMetrics struct {
	decisions *prometheus.CounterVec
}

// NewAuthMetrics registers the gate collectors with reg
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	factory := promauto.With(reg)

	m := &AuthMetrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthbridge",
			Subsystem: "doctor_auth",
			Name:      "decisions_total",
			Help:      "Doctor gate decisions by outcome",
		}, []string{"outcome"}),
	}

	// Pre-create every series so dashboards see zeros instead of gaps
	for _, outcome := range authOutcomes {
		m.decisions.WithLabelValues(string(outcome))
	}
	return m
}

// Record counts one decision
func (m *AuthMetrics) Record(outcome AuthOutcome) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(string(outcome)).Inc()
}
