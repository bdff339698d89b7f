// Package info describes where the journal lives and what it holds.
package info

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/search"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Index       *search.Index
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv("ROSEBUD_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(color.Output, "ROSEBUD_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(color.Output, "ROSEBUD_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	source := store.ConfigSource(n.Config)
	if source == "" {
		source = "(defaults)"
	}
	tbl.AddRow(bold.Sprint("config"), source)
	tbl.AddRow(bold.Sprint("root"), n.Config.Root())
	tbl.AddRow(bold.Sprint("time zone"), n.Config.TimeZone().String())
	tbl.AddRow(bold.Sprint("log"), n.Config.LogLevel()+" / "+n.Config.LogFormat())

	res, err := n.Persistence.List(ctx, nil)
	if err != nil {
		return err
	}
	days := fmt.Sprintf("%d", len(res.Days))
	if len(res.Errors) > 0 {
		days += fmt.Sprintf(" (%d unreadable)", len(res.Errors))
	}
	tbl.AddRow(bold.Sprint("days"), days)
	if len(res.Days) > 0 {
		tbl.AddRow(bold.Sprint("first / last"), res.Days[0].DayKey.ISODate+" / "+res.Days[len(res.Days)-1].DayKey.ISODate)
	}
	if n.Index != nil {
		shards, err := n.Index.Len(ctx)
		if err != nil {
			return err
		}
		tbl.AddRow(bold.Sprint("indexed"), fmt.Sprintf("%d", shards))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}
