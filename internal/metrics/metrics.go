package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EntriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "walkin_entries_created_total", Help: "Total queue entries created"},
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "walkin_transitions_total", Help: "Status transitions by target status"},
		[]string{"status"},
	)
	TableConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "walkin_table_conflicts_total", Help: "Assignments rejected because the table was taken"},
	)
	MaintenanceClosed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "walkin_maintenance_closed_total", Help: "Stale entries closed by maintenance"},
	)
	NotificationsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "walkin_notifications_failed_total", Help: "Notifications that could not be queued or delivered"},
	)
	ActiveEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "walkin_active_entries", Help: "Waiting and called entries per outlet after the last refresh"},
		[]string{"outlet"},
	)
)

func Register() {
	prometheus.MustRegister(EntriesCreated, Transitions, TableConflicts, MaintenanceClosed, NotificationsFailed, ActiveEntries)
}
