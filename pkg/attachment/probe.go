package attachment

import (
	"errors"
	"io"

	"github.com/abema/go-mp4"
)

// VideoInfo is the metadata an import records on a VideoRef.
type VideoInfo struct {
	Width           int
	Height          int
	DurationSeconds float64
	HasAudio        bool
}

// VideoProber reads VideoInfo from an ISO base media (MP4/QuickTime) stream.
type VideoProber func(r io.ReadSeeker) (VideoInfo, error)

var (
	handlerVideo = [4]byte{'v', 'i', 'd', 'e'}
	handlerSound = [4]byte{'s', 'o', 'u', 'n'}
)

// ProbeMP4 reads the movie header for duration and each track's header and
// handler for pixel size and audio presence. Sample tables are not needed,
// so any codec works.
func ProbeMP4(r io.ReadSeeker) (VideoInfo, error) {
	var info VideoInfo

	mvhds, err := mp4.ExtractBoxWithPayload(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return info, err
	}
	if len(mvhds) == 0 {
		return info, errors.New("no movie header")
	}
	mvhd := mvhds[0].Payload.(*mp4.Mvhd)
	var duration uint64
	if mvhd.GetVersion() == 0 {
		duration = uint64(mvhd.DurationV0)
	} else {
		duration = mvhd.DurationV1
	}
	if mvhd.Timescale > 0 {
		info.DurationSeconds = float64(duration) / float64(mvhd.Timescale)
	}

	traks, err := mp4.ExtractBox(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeTrak()})
	if err != nil {
		return info, err
	}
	var hasVideo bool
	for _, trak := range traks {
		boxes, err := mp4.ExtractBoxesWithPayload(r, trak, []mp4.BoxPath{
			{mp4.BoxTypeTkhd()},
			{mp4.BoxTypeMdia(), mp4.BoxTypeHdlr()},
		})
		if err != nil {
			return info, err
		}
		var tkhd *mp4.Tkhd
		var handler [4]byte
		for _, b := range boxes {
			switch p := b.Payload.(type) {
			case *mp4.Tkhd:
				tkhd = p
			case *mp4.Hdlr:
				handler = p.HandlerType
			}
		}
		switch handler {
		case handlerSound:
			info.HasAudio = true
		case handlerVideo:
			hasVideo = true
			// Track dimensions are 16.16 fixed point.
			if tkhd != nil && info.Width == 0 {
				info.Width = int(tkhd.Width >> 16)
				info.Height = int(tkhd.Height >> 16)
			}
		}
	}
	if !hasVideo {
		return info, errors.New("no video track")
	}
	return info, nil
}
