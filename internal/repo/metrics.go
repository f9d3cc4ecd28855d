package repo

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// journalWrites counts committed writes by journal and operation.
var journalWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "journal_writes_total",
		Help: "Committed journal writes.",
	},
	[]string{"journal", "op"},
)

func init() {
	prometheus.MustRegister(journalWrites)
}

func countWrite(kind domain.Kind, op string) {
	journalWrites.WithLabelValues(string(kind), op).Inc()
}
