package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_wizard_transitions_total",
			Help: "Wizard step transitions by mode, direction and outcome",
		},
		[]string{"mode", "direction", "outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_submissions_total",
			Help: "Wizard submissions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	Reviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_reviews_total",
			Help: "Admin review decisions",
		},
		[]string{"decision"},
	)

	SubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "membership_submit_duration_seconds",
			Help:    "Time spent in submit, uploads included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	MailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_mails_sent_total",
			Help: "Notification mails by event type and outcome",
		},
		[]string{"event", "outcome"},
	)
)
