package renderer

import (
	"context"
	"image"

	"github.com/nfnt/resize"
)

// Progress is reported after every iteration of IterativeRender
type Progress struct {
	Iteration  int         // 1-based
	Iterations int
	Preview    *image.RGBA // gamma corrected mean of every pixel
	Pass       RenderStats // the iteration just finished
	Total      RenderStats // all iterations so far
}

// ProgressSink receives progress notifications. Implementations must not
// retain Preview across calls.
type ProgressSink interface {
	Update(p Progress)
}

// ProgressFunc adapts a function to ProgressSink
type ProgressFunc func(p Progress)

func (f ProgressFunc) Update(p Progress) {
	f(p)
}

// ImageSink persists the final image
type ImageSink interface {
	Save(ctx context.Context, img image.Image) error
}

// ThumbnailSink shrinks each preview to fit MaxWidth×MaxHeight, keeping
// the aspect ratio, before handing it on
type ThumbnailSink struct {
	MaxWidth, MaxHeight uint
	Next                func(thumbnail image.Image, p Progress)
}

func (t *ThumbnailSink) Update(p Progress) {
	if t.Next == nil || p.Preview == nil {
		return
	}
	thumb := resize.Thumbnail(t.MaxWidth, t.MaxHeight, p.Preview, resize.Bilinear)
	t.Next(thumb, p)
}

// multiProgress fans one update out to several sinks
type multiProgress []ProgressSink

func (m multiProgress) Update(p Progress) {
	for _, s := range m {
		s.Update(p)
	}
}

// MultiProgress combines sinks; nil entries are skipped
func MultiProgress(sinks ...ProgressSink) ProgressSink {
	var m multiProgress
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}
