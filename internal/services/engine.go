package services

import (
	"time"

	"studyledger/internal/log"
	"studyledger/internal/storage"
)

// Engine wires every service over one store. The store's owner closes it.
type Engine struct {
	Periods    *PeriodService
	Subjects   *SubjectService
	Ledger     *Ledger
	Aggregator *Aggregator
	Reports    *ReportService
}

func NewEngine(store storage.Store, weekStart time.Weekday, logger *log.Logger) *Engine {
	agg := NewAggregator(store, store, weekStart, logger)
	return &Engine{
		Periods:    NewPeriodService(store, logger),
		Subjects:   NewSubjectService(store, store, logger),
		Ledger:     NewLedger(store, logger),
		Aggregator: agg,
		Reports:    NewReportService(store, agg, logger),
	}
}
