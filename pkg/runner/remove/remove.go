// Package remove deletes a day with its attachments.
package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
)

type Remove struct {
	Service *app.Service
	Key     daykey.LocalDayKey
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	d, err := n.Service.Day(ctx, n.Key)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("nothing recorded for %s", n.Key.ISODate)
	}
	if err := n.Service.DeleteDay(ctx, n.Key); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "deleted %s\n", n.Key.ISODate)
	return nil
}
