package search

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

// Follow keeps the index in step with store change events until events is
// closed or ctx ends. A changed day is reloaded and upserted, a vanished day
// is removed, and an invalidation triggers a full rebuild. Documents that
// fail to decode are logged and left for the next rebuild.
func (x *Index) Follow(ctx context.Context, events <-chan store.Event, src Source) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := x.apply(ctx, ev, src); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				x.log.Warn("index update failed",
					zap.String("isoDate", ev.ISODate),
					zap.Error(err))
			}
		}
	}
}

func (x *Index) apply(ctx context.Context, ev store.Event, src Source) error {
	switch ev.Type {
	case store.EventInvalidated:
		_, err := x.Rebuild(ctx, src)
		return err
	case store.EventDayChanged:
		// Storage is keyed by iso date alone; the zone comes from the document.
		d, err := src.Load(ctx, daykey.LocalDayKey{ISODate: ev.ISODate})
		if err != nil {
			return err
		}
		if d == nil {
			return x.Remove(ctx, ev.ISODate)
		}
		x.log.Debug("reindexing day", zap.String("isoDate", ev.ISODate))
		return x.Upsert(ctx, d)
	default:
		return nil
	}
}
