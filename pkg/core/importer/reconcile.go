package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
	"github.com/sewasangat/attendance/pkg/intake"
)

// Store defines the persistence operations the pipeline needs
type Store interface {
	MatchStore
	InsertSewadar(ctx context.Context, s *model.Sewadar) error
	UpdateSewadarByID(ctx context.Context, id string, s *model.Sewadar) error
}

// Pipeline runs sewadar imports: normalize, match, reconcile, row by row in
// file order. One Pipeline value is safe for concurrent Runs; each Run owns
// a distinct job and shares no mutable state with other runs.
type Pipeline struct {
	Store  Store
	Jobs   JobStore
	Logger *zap.Logger
}

// Run processes the rows of one import under the given job identifier and
// returns the batch result. Row-level failures are accumulated in the result
// ledger and never abort the batch; only zero usable input, a lookup-level
// store failure, or context cancellation fail the job as a whole.
func (p *Pipeline) Run(ctx context.Context, jobID string, rows []intake.Row) (*Result, error) {
	job := NewJob(jobID, len(rows))
	p.Jobs.Set(job)

	if len(rows) == 0 {
		return nil, p.fail(&job, "no rows to import")
	}

	p.Logger.Info("Starting sewadar import",
		zap.String("jobId", jobID),
		zap.Int("rows", len(rows)))

	valid := 0
	for _, row := range rows {
		// Cancellation is honored between rows so a stopped import never
		// leaves a half-applied row behind.
		if err := ctx.Err(); err != nil {
			return nil, p.fail(&job, fmt.Sprintf("import cancelled after %d rows", job.Processed))
		}

		importRow, problems := NormalizeRow(row)
		if len(problems) > 0 {
			p.recordError(&job, row.Line, joinProblems(problems), row.Fields)
			continue
		}
		valid++

		decision, err := Match(ctx, p.Store, importRow)
		if err != nil {
			// Lookup failures mean the store itself is unhealthy; carrying on
			// would misclassify every remaining row as CREATE.
			p.Logger.Error("Import aborted on store failure", zap.String("jobId", jobID), zap.Error(err))
			return nil, p.fail(&job, fmt.Sprintf("store failure at row %d: %v", row.Line, err))
		}

		if err := p.apply(ctx, decision); err != nil {
			p.recordError(&job, row.Line, err.Error(), row.Fields)
			continue
		}

		switch decision.Op {
		case OpCreate:
			job.Created++
		case OpUpdate:
			job.Updated++
		}
		job.Processed++
		p.Jobs.Set(job)
	}

	if valid == 0 {
		return nil, p.fail(&job, "no valid rows after normalization")
	}

	job.Status = StatusCompleted
	p.Jobs.Set(job)

	p.Logger.Info("Import completed",
		zap.String("jobId", jobID),
		zap.Int("created", job.Created),
		zap.Int("updated", job.Updated),
		zap.Int("errors", len(job.Errors)))

	return &Result{
		TotalRows: job.Total,
		Created:   job.Created,
		Updated:   job.Updated,
		Errors:    job.Errors,
	}, nil
}

// apply performs the persistence operation for one decision.
func (p *Pipeline) apply(ctx context.Context, d Decision) error {
	switch d.Op {
	case OpUpdate:
		if err := p.Store.UpdateSewadarByID(ctx, d.ExistingID, &d.Row.Sewadar); err != nil {
			return fmt.Errorf("failed to update sewadar %s: %w", d.Row.Sewadar.BadgeNumber, err)
		}
	case OpCreate:
		d.Row.Sewadar.ID = uuid.NewString()
		if err := p.Store.InsertSewadar(ctx, &d.Row.Sewadar); err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				// Raced with another writer on the badge number; a row-level
				// error keeps the rest of the batch moving.
				return fmt.Errorf("badge %s already exists: %w", d.Row.Sewadar.BadgeNumber, err)
			}
			return fmt.Errorf("failed to insert sewadar %s: %w", d.Row.Sewadar.BadgeNumber, err)
		}
	}
	return nil
}

func (p *Pipeline) recordError(job *Job, line int, message string, data map[string]string) {
	job.Errors = append(job.Errors, RowError{Row: line, Message: message, Data: data})
	job.Processed++
	p.Jobs.Set(*job)
}

func (p *Pipeline) fail(job *Job, message string) error {
	job.Status = StatusFailed
	job.Message = message
	p.Jobs.Set(*job)
	return fmt.Errorf("import %s failed: %s", job.ID, message)
}

func joinProblems(problems []string) string {
	msg := problems[0]
	for _, p := range problems[1:] {
		msg += "; " + p
	}
	return msg
}
