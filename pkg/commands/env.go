package commands

import (
	"time"

	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/attachment"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/logging"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/search"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/summary"
)

// env is everything a command needs, built from the loaded config.
type env struct {
	Config  store.Config
	Log     *zap.Logger
	Service *app.Service
	Index   *search.Index
}

func loadEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.Must(cfg.LogLevel(), cfg.LogFormat())

	p, err := store.Load(cfg, store.WithLogger(log.Named("store")))
	if err != nil {
		return nil, err
	}
	idx, err := search.Open(p.Layout(), search.WithLogger(log.Named("search")))
	if err != nil {
		return nil, err
	}
	return &env{
		Config: cfg,
		Log:    log,
		Index:  idx,
		Service: &app.Service{
			Persistence: p,
			Attachments: attachment.New(p.Layout(), attachment.WithLogger(log.Named("attachment"))),
			Index:       idx,
			Summaries:   summary.New(p.Layout(), summary.WithLogger(log.Named("summary"))),
			Log:         log,
		},
	}, nil
}

// Zone is the configured default zone.
func (e *env) Zone() *time.Location {
	return e.Config.TimeZone()
}

func (e *env) Close() {
	_ = e.Log.Sync()
}
