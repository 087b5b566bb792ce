package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BanditFeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_feedback_events_total",
			Help: "Count of bandit feedback events by resolved outcome.",
		},
		[]string{"outcome"},
	)

	BanditUnknownArmFeedbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_unknown_arm_feedback_total",
			Help: "Feedback events for arms that were never offered to the user.",
		},
	)

	BanditArmsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_arms_created_total",
			Help: "Arms lazily created during selection.",
		},
	)

	BanditStateSaveFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_state_save_failures_total",
			Help: "State flushes that failed and left only the in-memory copy.",
		},
	)

	BanditStateLoadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_state_load_failures_total",
			Help: "State loads that failed and fell back to a cold start.",
		},
	)

	BanditArmsEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_arms_evicted_total",
			Help: "Arms evicted by explicit state compaction.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		BanditFeedbackEventsTotal,
		BanditUnknownArmFeedbackTotal,
		BanditArmsCreatedTotal,
		BanditStateSaveFailuresTotal,
		BanditStateLoadFailuresTotal,
		BanditArmsEvictedTotal,
	)
}
