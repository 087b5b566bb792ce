package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of the recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total recommendations served, by meal type
	RecommendServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_served_total",
		Help: "Total recommendation requests served",
	}, []string{"meal_type"})

	// Latency of week plan generation
	WeekPlanLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_week_plan_latency_seconds",
		Help:    "Latency of week plan generation",
		Buckets: prometheus.DefBuckets,
	})

	// Slots the planner could not fill
	WeekPlanUnfilledSlotsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_week_plan_unfilled_slots_total",
		Help: "Week plan slots left unassigned",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendServedTotal,
		WeekPlanLatency,
		WeekPlanUnfilledSlotsTotal,
	)
}
