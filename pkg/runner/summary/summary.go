// Package summary writes and prints stored period digests.
package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
	sum "github.com/markcoleman/rose-bud-thorn-sub001/pkg/summary"
)

// Write generates the digest for a period and stores it.
type Write struct {
	Service  *app.Service
	Period   daykey.Period
	Key      string
	Location *time.Location
	JSON     bool
}

func (n *Write) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not write summary, no service")
	}
	a, skipped, err := n.Service.Summarize(ctx, n.Period, n.Key, n.Location)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(a)
	}
	path := n.Service.Persistence.Layout().SummaryPath(string(a.Period), a.Key)
	_, _ = fmt.Fprintf(color.Output, "wrote %s from %d days\n", path, a.Days)
	pp := printers.PrettyPrint{}
	pp.Skipped(skipped)
	return nil
}

// Show prints a stored digest, or lists the stored keys when Key is empty.
type Show struct {
	Summaries *sum.Store
	Period    daykey.Period
	Key       string
	JSON      bool
}

func (n *Show) Do(ctx context.Context) error {
	if n.Summaries == nil {
		return errors.New("can not show summary, no summary store")
	}
	pp := printers.PrettyPrint{}
	if n.Key == "" {
		keys, err := n.Summaries.List(ctx, n.Period)
		if err != nil {
			return err
		}
		if n.JSON {
			return printers.JSON(keys)
		}
		pp.Title(fmt.Sprintf("%s summaries", n.Period))
		for _, k := range keys {
			_, _ = fmt.Fprintf(color.Output, "  %s\n", k)
		}
		pp.NewLine()
		return nil
	}
	a, err := n.Summaries.Read(ctx, n.Period, n.Key)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(a)
	}
	pp.Summary(a)
	return nil
}
