package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_signups_total",
			Help: "Total number of signup attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_tokens_issued_total",
			Help: "Total number of token pairs issued, by flow.",
		},
		[]string{"flow", "result"},
	)

	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_appointments_total",
			Help: "Total number of booking attempts.",
		},
		[]string{"result"},
	)

	AppointmentsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_appointments_purged_total",
			Help: "Total number of appointments removed by retention cleanup.",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		LoginsTotal,
		SignupsTotal,
		TokensIssuedTotal,
		BookingsTotal,
		AppointmentsPurgedTotal,
	)
}
