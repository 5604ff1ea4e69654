package purge

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"outreach/internal/metrics"
	"outreach/internal/models"
)

// DefaultBatchSize is the number of DELETE requests issued together
const DefaultBatchSize = 50

// Deleter removes contacts and orphaned companies
type Deleter interface {
	DeleteContact(ctx context.Context, id int64) error
	CleanupOrphanedCompanies(ctx context.Context) (int, error)
}

// Progress is reported after every batch
type Progress struct {
	Processed int
	Total     int
	Batch     int
	Batches   int
}

// Message renders the running progress line
func (p Progress) Message() string {
	return fmt.Sprintf("Deleting... %d/%d (batch %d/%d)", p.Processed, p.Total, p.Batch, p.Batches)
}

// Failure records one contact whose DELETE failed
type Failure struct {
	ID  int64
	Err error
}

// Result summarizes an executed deletion
type Result struct {
	Requested      int
	Processed      int
	Deleted        int
	Failures       []Failure
	OrphansDeleted int
	CleanupErr     error
}

// RunOptions tune one execution
type RunOptions struct {
	CleanupOrphans bool
	OnProgress     func(Progress)
}

// Executor deletes contacts in sequential batches of concurrent requests
type Executor struct {
	deleter   Deleter
	batchSize int
	log       *logrus.Entry
}

// NewExecutor creates an executor; batchSize <= 0 selects DefaultBatchSize
func NewExecutor(d Deleter, batchSize int, log *logrus.Entry) *Executor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Executor{deleter: d, batchSize: batchSize, log: log}
}

// Run deletes every contact in matches that has an id. A failed DELETE is
// recorded and counted as processed; it is not retried. Orphan cleanup runs
// last when requested and its failure does not undo the deletions.
func (e *Executor) Run(ctx context.Context, matches []models.Contact, opts RunOptions) (*Result, error) {
	ids := make([]int64, 0, len(matches))
	for _, c := range matches {
		if c.ID != 0 {
			ids = append(ids, c.ID)
		}
	}

	res := &Result{Requested: len(ids)}
	batches := (len(ids) + e.batchSize - 1) / e.batchSize

	var mu sync.Mutex
	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := b * e.batchSize
		end := min(start+e.batchSize, len(ids))

		var g errgroup.Group
		for _, id := range ids[start:end] {
			id := id
			g.Go(func() error {
				err := e.deleter.DeleteContact(ctx, id)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					res.Failures = append(res.Failures, Failure{ID: id, Err: err})
					metrics.ContactsDeleted.WithLabelValues("failed").Inc()
					return nil
				}
				res.Deleted++
				metrics.ContactsDeleted.WithLabelValues("deleted").Inc()
				return nil
			})
		}
		_ = g.Wait()

		res.Processed = end
		p := Progress{Processed: end, Total: len(ids), Batch: b + 1, Batches: batches}
		e.log.WithFields(logrus.Fields{"processed": end, "total": len(ids)}).Debug(p.Message())
		if opts.OnProgress != nil {
			opts.OnProgress(p)
		}
	}

	if len(res.Failures) > 0 {
		e.log.WithField("failed", len(res.Failures)).Warn("some contacts could not be deleted")
	}

	if opts.CleanupOrphans {
		n, err := e.deleter.CleanupOrphanedCompanies(ctx)
		if err != nil {
			e.log.WithError(err).Warn("orphaned company cleanup failed")
			res.CleanupErr = err
		} else {
			res.OrphansDeleted = n
		}
	}
	return res, nil
}
