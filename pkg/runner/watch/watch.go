// Package watch keeps the search index in step with the store while it runs.
package watch

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/search"
)

type Watch struct {
	Service *app.Service
	Index   *search.Index
	// Schedule is a cron expression for full rebuilds; empty disables them.
	Schedule string
	Log      *zap.Logger
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Service == nil || n.Index == nil {
		return errors.New("can not watch, no service or index")
	}
	log := n.Log
	if log == nil {
		log = zap.NewNop()
	}

	if n.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(n.Schedule, func() {
			res, err := n.Service.Reindex(ctx)
			if err != nil {
				log.Error("scheduled rebuild failed", zap.Error(err))
				return
			}
			log.Info("scheduled rebuild", zap.Int("days", res.Days), zap.Int("skipped", len(res.Errors)))
		}); err != nil {
			return err
		}
		c.Start()
		defer func() {
			<-c.Stop().Done()
		}()
		log.Info("rebuild scheduled", zap.String("schedule", n.Schedule))
	}

	events, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	log.Info("watching journal", zap.String("root", n.Service.Persistence.Layout().Root()))
	err = n.Index.Follow(ctx, events, n.Service.Persistence)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
