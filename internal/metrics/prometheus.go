package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FunctionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantsite_function_requests_total",
			Help: "Function endpoint invocations by function and HTTP status",
		},
		[]string{"function", "status"},
	)

	MembershipDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantsite_membership_decisions_total",
			Help: "New memberships created by role and status",
		},
		[]string{"role", "status"},
	)

	SMSSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantsite_sms_total",
			Help: "SMS send attempts by notifier and outcome",
		},
		[]string{"notifier", "outcome"},
	)

	Extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantsite_ai_extractions_total",
			Help: "AI document extractions by parser and outcome",
		},
		[]string{"parser", "outcome"},
	)

	LoginOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantsite_admin_login_total",
			Help: "Admin login attempts by final state and access",
		},
		[]string{"state", "access"},
	)
)

var once sync.Once

// Init registers metrics with Prometheus. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(FunctionRequests)
		prometheus.MustRegister(MembershipDecisions)
		prometheus.MustRegister(SMSSent)
		prometheus.MustRegister(Extractions)
		prometheus.MustRegister(LoginOutcomes)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
