package journal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JournalWrites tracks record appends by result
	JournalWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steam_journal_writes_total",
			Help: "Total number of fetch journal writes",
		},
		[]string{"result"}, // "ok", "error"
	)

	// JournalErrors tracks journal operation errors
	JournalErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steam_journal_errors_total",
			Help: "Total number of fetch journal operation errors",
		},
		[]string{"operation"}, // "append", "recent", "clear"
	)
)
