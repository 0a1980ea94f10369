package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Pipeline orchestrates per-record processing over an incoming batch.
type Pipeline struct {
	store      Store
	quarantine Quarantine
	maxBatch   int
	logger     *zap.Logger
}

// NewPipeline creates a batch ingestion pipeline. maxBatch of zero disables
// the size limit.
func NewPipeline(store Store, quarantine Quarantine, maxBatch int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		quarantine: quarantine,
		maxBatch:   maxBatch,
		logger:     logger,
	}
}

// Run processes the batch sequentially in submission order and returns the
// outcome summary. Data conflicts are quarantined and never abort the batch;
// only infrastructure failures do, in which case no result is returned.
//
// Store state is re-read for every record, so a record repeating a key that an
// earlier record in the same batch just updated sees the incremented version
// and is rejected as version_mismatch rather than duplicate_key.
func (p *Pipeline) Run(ctx context.Context, records []Record) (*BatchResult, error) {
	if p.maxBatch > 0 && len(records) > p.maxBatch {
		return nil, &BatchSizeError{Size: len(records), Max: p.maxBatch}
	}

	agg := newAggregator(len(records))
	g := newGuard()

	for _, rec := range records {
		stored, err := p.store.GetByInternalID(ctx, rec.InternalID)
		if err != nil {
			return nil, &UnavailableError{Op: "read", Err: err}
		}

		dup, err := g.violates(ctx, p.store, rec)
		if err != nil {
			return nil, &UnavailableError{Op: "uniqueness check", Err: err}
		}
		if dup {
			if err := p.reject(ctx, rec, ReasonDuplicateKey, agg); err != nil {
				return nil, err
			}
			continue
		}

		switch Classify(rec, stored) {
		case ClassCreate:
			if err := p.store.Insert(ctx, rec); err != nil {
				// A concurrent request may have claimed the key or tag
				// between our read and the insert.
				if errors.Is(err, ErrDuplicate) {
					if qerr := p.reject(ctx, rec, ReasonDuplicateKey, agg); qerr != nil {
						return nil, qerr
					}
					continue
				}
				return nil, &UnavailableError{Op: "insert", Err: err}
			}
			g.admit(rec, true)
			agg.addCreated(rec.InternalID)

		case ClassAcceptUpdate:
			ok, err := p.store.UpdateVersioned(ctx, rec)
			if err != nil {
				// The payload write can still trip the external tag
				// uniqueness constraint against a row the guard's
				// snapshot predates.
				if errors.Is(err, ErrDuplicate) {
					if qerr := p.reject(ctx, rec, ReasonDuplicateKey, agg); qerr != nil {
						return nil, qerr
					}
					continue
				}
				return nil, &UnavailableError{Op: "update", Err: err}
			}
			if !ok {
				// Lost the compare-and-swap to a concurrent writer.
				if err := p.reject(ctx, rec, ReasonVersionMismatch, agg); err != nil {
					return nil, err
				}
				continue
			}
			g.admit(rec, false)
			agg.addUpdated(rec.InternalID)

		case ClassRejectVersionMismatch:
			if err := p.reject(ctx, rec, ReasonVersionMismatch, agg); err != nil {
				return nil, err
			}
		}
	}

	res := agg.result()
	p.logger.Info("Batch processed",
		zap.Int("records", len(records)),
		zap.Int("created", res.Counts.Created),
		zap.Int("updated", res.Counts.Updated),
		zap.Int("conflicted", res.Counts.Conflicted))

	return res, nil
}

// reject quarantines a record and registers the conflict. A quarantine write
// failure is fatal: dropping a conflicting edit silently is the one outcome
// the engine must never produce.
func (p *Pipeline) reject(ctx context.Context, rec Record, reason Reason, agg *aggregator) error {
	if err := p.quarantine.Record(ctx, rec, reason); err != nil {
		return &UnavailableError{Op: "quarantine", Err: err}
	}

	p.logger.Debug("Record quarantined",
		zap.String("internal_id", rec.InternalID),
		zap.String("reason", string(reason)))

	agg.addConflicted(rec.InternalID, reason)
	return nil
}
