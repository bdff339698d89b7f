// Package tag edits the day-level fields: tags, mood and favorite.
package tag

import (
	"context"
	"errors"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

type Tag struct {
	Service   *app.Service
	Key       daykey.LocalDayKey
	Add       []string
	Remove    []string
	Mood      *int
	ClearMood bool
	Favorite  *bool
	JSON      bool
}

func (n *Tag) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not tag, no service")
	}
	var results []store.SaveResult
	if len(n.Add) > 0 || len(n.Remove) > 0 {
		res, err := n.Service.SetTags(ctx, n.Key, n.Add, n.Remove)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	if n.Mood != nil || n.ClearMood {
		mood := n.Mood
		if n.ClearMood {
			mood = nil
		}
		res, err := n.Service.SetMood(ctx, n.Key, mood)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	if n.Favorite != nil {
		res, err := n.Service.SetFavorite(ctx, n.Key, *n.Favorite)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return errors.New("nothing to change, give tags, --mood or --favorite")
	}

	last := results[len(results)-1]
	if n.JSON {
		return printers.JSON(last.Day)
	}
	pp := printers.PrettyPrint{}
	for _, res := range results {
		pp.Outcome("day", res)
	}
	pp.NewLine()
	pp.Day(last.Day)
	return nil
}
