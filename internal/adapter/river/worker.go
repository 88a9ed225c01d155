package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/folio-org/mod-translations/internal/domain"
)

// ChangeHandler reacts to a committed record change. It is the extension
// point for downstream consumers such as cache invalidation or search
// indexing; the service itself only logs changes and runs with a nil
// handler.
type ChangeHandler func(ctx context.Context, change domain.Change) error

// ChangeWorker processes record change jobs from the River queue. Every
// change is logged; an optional handler runs after logging and its error
// makes River retry the job.
type ChangeWorker struct {
	river.WorkerDefaults[ChangeJobArgs]

	handle ChangeHandler
}

// NewChangeWorker creates a worker. handle may be nil.
func NewChangeWorker(handle ChangeHandler) *ChangeWorker {
	return &ChangeWorker{handle: handle}
}

// Work processes a single change job.
func (w *ChangeWorker) Work(ctx context.Context, job *river.Job[ChangeJobArgs]) error {
	slog.InfoContext(ctx, "record changed",
		"tenant", job.Args.Tenant,
		"table", job.Args.Table,
		"action", job.Args.Action,
		"record_id", job.Args.RecordID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)

	if w.handle == nil {
		return nil
	}
	return w.handle(ctx, job.Args.Change())
}
