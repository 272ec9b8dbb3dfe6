package compress

// searchState tracks the working quality and scale across encode attempts
// for a single image.
type searchState struct {
	Attempt     int
	MaxAttempts int

	Quality int
	Scale   int  // Percent of the original dimensions; never increases.
	Resized bool // Any resize has been applied.
}

func newSearchState(t Tier) *searchState {
	s := &searchState{
		MaxAttempts: MaxAttempts,
		Quality:     t.Quality,
		Scale:       100,
	}
	if t.Resize {
		s.Scale = InitialScale
		s.Resized = true
	}
	return s
}

// AlphaQuality is the alpha-plane quality for the current attempt.
func (s *searchState) AlphaQuality() int {
	return max(s.Quality-5, AlphaQualityMin)
}

// Advance records an over-budget attempt of the given size and moves to
// the next parameters. It returns false once the attempt limit is reached.
// The returned scaleChanged reports whether the working pixels must be
// regenerated from the original.
//
// Order: the forced resize on the second attempt (when nothing was resized
// yet) takes the place of a quality step; otherwise quality drops by a
// size-dependent step to the floor, and at the floor a resized image
// shrinks by ScaleFactor with quality reset.
func (s *searchState) Advance(size int64, set Settings) (more, scaleChanged bool) {
	s.Attempt++
	if s.Attempt >= s.MaxAttempts {
		return false, false
	}

	if s.Attempt == 2 && !s.Resized {
		s.Scale = InitialScale
		s.Resized = true
		s.Quality = QualityAfterFit
		return true, true
	}

	s.Quality = max(s.Quality-set.qualityStep(size), QualityFloor)
	if s.Quality <= QualityFloor && s.Resized {
		s.Scale = max(int(float64(s.Scale)*ScaleFactor), 1)
		s.Quality = QualityAfterStep
		return true, true
	}
	return true, false
}

// dims returns the working dimensions for the current scale: the floor of
// the scaled size, never below one pixel.
func (s *searchState) dims(w, h int) (int, int) {
	return max(w*s.Scale/100, 1), max(h*s.Scale/100, 1)
}
