package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/logger"
)

// LoadStats summarises one load phase.
type LoadStats struct {
	// Records is the number of records decoded and merged.
	Records int

	// Replaced is the number of merges that replaced an existing GUID.
	Replaced int

	// Turns is the number of bounded execution turns.
	Turns int

	// Yields is the number of times control went back to the host.
	Yields int

	// Duration is the wall-clock time of the whole phase, yields included.
	Duration time.Duration
}

// PerRecord returns the average wall-clock cost of one record.
func (s LoadStats) PerRecord() time.Duration {
	if s.Records == 0 {
		return 0
	}
	return s.Duration / time.Duration(s.Records)
}

// LoadProgressFunc is told how far the load got before each yield.
type LoadProgressFunc func(processed, total int)

// Loader decodes records into a collection in bounded turns.
//
// A turn processes sub-batches of at most BatchSize records and samples the
// clock only between sub-batches. Once a turn has run for TurnBudget, the
// loader reports progress and yields to the host before continuing.
type Loader struct {
	decoder  driven.RecordDecoder
	yielder  driven.Yielder
	settings domain.LoaderSettings
	now      func() time.Time
}

// NewLoader creates a loader. A nil clock uses time.Now.
func NewLoader(
	decoder driven.RecordDecoder,
	yielder driven.Yielder,
	settings domain.LoaderSettings,
	now func() time.Time,
) *Loader {
	if now == nil {
		now = time.Now
	}
	return &Loader{
		decoder:  decoder,
		yielder:  yielder,
		settings: settings,
		now:      now,
	}
}

// Load decodes every record, in order, and merges it into the collection.
//
// The first record that fails to decode aborts the load. Records merged
// before it stay in the collection; no later record is decoded.
func (l *Loader) Load(
	ctx context.Context,
	records []domain.Record,
	into *domain.Collection,
	progress LoadProgressFunc,
) (LoadStats, error) {
	var stats LoadStats
	total := len(records)
	if total == 0 {
		return stats, nil
	}

	started := l.now()
	i := 0
	for {
		turnStart := l.now()
		stats.Turns++

		for i < total && l.now().Sub(turnStart) < l.settings.TurnBudget {
			end := min(i+l.settings.BatchSize, total)
			for ; i < end; i++ {
				replaced, err := l.mergeOne(records[i], into)
				if err != nil {
					stats.Duration = l.now().Sub(started)
					return stats, &domain.RecordError{Index: i, Origin: records[i].Origin, Err: err}
				}
				stats.Records++
				if replaced {
					stats.Replaced++
				}
			}
		}

		if i == total {
			break
		}

		logger.Debug("Turn %d ended at record %d of %d", stats.Turns, i, total)
		if progress != nil {
			progress(i, total)
		}
		if err := l.yielder.Yield(ctx); err != nil {
			stats.Duration = l.now().Sub(started)
			return stats, fmt.Errorf("yield: %w", err)
		}
		stats.Yields++
	}

	stats.Duration = l.now().Sub(started)
	return stats, nil
}

// mergeOne decodes a record and merges the entity.
func (l *Loader) mergeOne(record domain.Record, into *domain.Collection) (bool, error) {
	entity, err := l.decoder.Decode(record)
	if err != nil {
		return false, err
	}
	if entity == nil || entity.GUID == "" {
		return false, domain.ErrMissingGUID
	}
	return into.Merge(entity), nil
}
