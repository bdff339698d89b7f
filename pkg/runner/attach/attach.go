// Package attach adds media to and removes media from a day.
package attach

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

var videoExts = map[string]bool{".mp4": true, ".m4v": true, ".mov": true}

// IsVideo guesses the media kind from the file extension.
func IsVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

type Attach struct {
	Service  *app.Service
	Key      daykey.LocalDayKey
	Category entry.Category
	Paths    []string
	JSON     bool
}

func (n *Attach) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not attach, no service")
	}
	pp := printers.PrettyPrint{ShowID: true}
	var refs []interface{}
	for _, src := range n.Paths {
		if IsVideo(src) {
			ref, res, err := n.Service.AttachVideo(ctx, n.Key, n.Category, src)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
			if !n.JSON {
				pp.Outcome("video "+ref.ID.String(), res)
			}
			continue
		}
		ref, res, err := n.Service.AttachPhoto(ctx, n.Key, n.Category, src)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
		if !n.JSON {
			pp.Outcome("photo "+ref.ID.String(), res)
		}
	}
	if n.JSON {
		return printers.JSON(refs)
	}
	return nil
}

type Detach struct {
	Service  *app.Service
	Key      daykey.LocalDayKey
	Category entry.Category
	ID       uuid.UUID
}

// Do removes the photo or video with ID, whichever the facet holds.
func (n *Detach) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not detach, no service")
	}
	d, err := n.Service.Day(ctx, n.Key)
	if err != nil {
		return err
	}
	video := false
	if d != nil {
		for _, v := range d.Item(n.Category).Videos {
			if v.ID == n.ID {
				video = true
			}
		}
	}
	pp := printers.PrettyPrint{}
	if video {
		res, err := n.Service.DetachVideo(ctx, n.Key, n.Category, n.ID)
		if err != nil {
			return err
		}
		pp.Outcome("video "+n.ID.String(), res)
		return nil
	}
	res, err := n.Service.DetachPhoto(ctx, n.Key, n.Category, n.ID)
	if err != nil {
		return err
	}
	pp.Outcome("photo "+n.ID.String(), res)
	return nil
}
