package snapshot

import (
	"context"
	"log/slog"
	"sync"

	"dagforge/internal/evolve"
)

// Writer persists generation records asynchronously off the evolution
// driver's hot path, worker-pool style, grounded on the teacher's
// evo.PopulationMonitor.evaluatePopulation job/result channel shape.
// Per §7's storage-error policy, a failed write is logged and the run
// continues — persistence is best-effort, never a reason to abort a run.
type Writer struct {
	store  Store
	logger *slog.Logger
	runID  string

	jobs    chan GenerationRecord
	lineage chan []evolve.LineageEntry
	wg      sync.WaitGroup
}

// NewWriter starts two background workers — one draining generation
// records, one draining lineage batches — into store. Call Close to drain
// and stop both.
func NewWriter(store Store, runID string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{
		store:   store,
		logger:  logger,
		runID:   runID,
		jobs:    make(chan GenerationRecord, 16),
		lineage: make(chan []evolve.LineageEntry, 16),
	}
	w.wg.Add(2)
	go w.runGenerations()
	go w.runLineage()
	return w
}

func (w *Writer) runGenerations() {
	defer w.wg.Done()
	ctx := context.Background()
	for rec := range w.jobs {
		if err := w.store.SaveGeneration(ctx, rec); err != nil {
			w.logger.Error("snapshot write failed", "run_id", w.runID, "generation", rec.Generation, "err", err)
		}
	}
}

func (w *Writer) runLineage() {
	defer w.wg.Done()
	ctx := context.Background()
	for entries := range w.lineage {
		if err := w.store.SaveLineage(ctx, w.runID, entries); err != nil {
			w.logger.Error("snapshot lineage write failed", "run_id", w.runID, "err", err)
		}
	}
}

// Enqueue submits a generation record for persistence. It never blocks the
// caller on I/O; if the queue is saturated the record is dropped and
// logged rather than stalling the evolution driver.
func (w *Writer) Enqueue(rec GenerationRecord) {
	select {
	case w.jobs <- rec:
	default:
		w.logger.Warn("snapshot writer queue full, dropping record", "run_id", w.runID, "generation", rec.Generation)
	}
}

// EnqueueLineage submits one generation's lineage entries for persistence,
// with the same drop-and-log-on-saturation policy as Enqueue.
func (w *Writer) EnqueueLineage(entries []evolve.LineageEntry) {
	if len(entries) == 0 {
		return
	}
	select {
	case w.lineage <- entries:
	default:
		w.logger.Warn("snapshot writer lineage queue full, dropping entries", "run_id", w.runID)
	}
}

// Close drains both queues and stops the workers.
func (w *Writer) Close() {
	close(w.jobs)
	close(w.lineage)
	w.wg.Wait()
}

// ProgressFn adapts Writer into an evolve.ProgressFn, so a Writer can be
// wired directly into evolve.Options.Progress. Each call persists both the
// generation's distilled statistics and its lineage entries.
func (w *Writer) ProgressFn() evolve.ProgressFn {
	return func(gen int, popn evolve.Population, history evolve.History) {
		if len(history) == 0 {
			return
		}
		d := history[len(history)-1]
		w.Enqueue(GenerationRecord{
			RunID:           w.runID,
			Generation:      d.Generation,
			Min:             d.Min,
			Median:          d.Median,
			Max:             d.Max,
			BestFitness:     d.Best.FitnessOrZero(),
			BestFingerprint: d.Best.Genome.Meta().Fingerprint,
		})
		w.EnqueueLineage(d.Lineage)
	}
}
