package compress

import (
	"errors"
	"fmt"
	"image"

	"github.com/backmassage/webpdrop/internal/codec"
	"go.uber.org/zap"
)

// ErrEmptyImage is returned for an image with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Attempt is one encode in the search. Attempts are appended in order and
// never rewritten.
type Attempt struct {
	Quality      int
	AlphaQuality int
	Scale        int // Percent of the original dimensions.
	Width        int
	Height       int
	Size         int64
}

// Stats describes the final encode returned by [Engine.Compress].
type Stats struct {
	Quality   int // Quality of the returned buffer.
	Scale     int // Scale percent of the returned buffer.
	Attempts  int
	FinalSize int64
	BudgetMet bool
	Width     int
	Height    int
	History   []Attempt
}

// Engine runs the size-targeting search with a fixed encoder and settings.
// It holds no per-image state and may be reused across images.
type Engine struct {
	enc codec.Encoder
	set Settings
	log *zap.Logger
}

// New returns an Engine. A nil logger discards attempt logs.
func New(enc codec.Encoder, set Settings, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{enc: enc, set: set, log: log}
}

// Settings returns the engine's configuration.
func (e *Engine) Settings() Settings { return e.set }

// Compress encodes img until the result fits the budget or the attempt
// limit is hit, and returns the last encoded buffer. meta is attached to
// every attempt unchanged. sourceSize (bytes on disk) selects the starting
// tier. Missing the budget is reported through Stats.BudgetMet, not as an
// error; an encoder error aborts the search.
func (e *Engine) Compress(img image.Image, meta []byte, sourceSize int64) ([]byte, Stats, error) {
	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()
	if origW <= 0 || origH <= 0 {
		return nil, Stats{}, ErrEmptyImage
	}

	st := newSearchState(e.set.TierFor(sourceSize))
	work := img
	w, h := origW, origH
	if st.Scale != 100 {
		w, h = st.dims(origW, origH)
		work = codec.Resize(img, w, h)
	}

	var stats Stats
	for {
		p := codec.EncodeParams{
			Quality:      st.Quality,
			AlphaQuality: st.AlphaQuality(),
			Method:       codec.MethodBest,
			MinimizeSize: true,
			KMin:         codec.KMin,
			KMax:         codec.KMax,
			Metadata:     meta,
		}
		data, err := e.enc.Encode(work, p)
		if err != nil {
			return nil, stats, fmt.Errorf("attempt %d (q=%d, scale=%d%%): %w",
				len(stats.History)+1, st.Quality, st.Scale, err)
		}

		size := int64(len(data))
		stats.History = append(stats.History, Attempt{
			Quality:      st.Quality,
			AlphaQuality: p.AlphaQuality,
			Scale:        st.Scale,
			Width:        w,
			Height:       h,
			Size:         size,
		})
		stats.Quality, stats.Scale = st.Quality, st.Scale
		stats.Width, stats.Height = w, h
		stats.Attempts = len(stats.History)
		stats.FinalSize = size

		e.log.Debug("encode attempt",
			zap.Int("attempt", stats.Attempts),
			zap.Int("quality", st.Quality),
			zap.Int("scale", st.Scale),
			zap.Int64("size", size),
			zap.Int64("budget", e.set.BudgetBytes),
		)

		if size <= e.set.BudgetBytes {
			stats.BudgetMet = true
			return data, stats, nil
		}

		more, rescale := st.Advance(size, e.set)
		if !more {
			return data, stats, nil
		}
		if rescale {
			w, h = st.dims(origW, origH)
			work = codec.Resize(img, w, h)
		}
	}
}
