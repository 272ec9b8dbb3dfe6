// Package compress searches for encoder settings that bring an image under
// a byte budget. The search lowers quality in steps sized by how far the
// last attempt overshot, and shrinks the pixels once quality reaches its
// floor, for at most MaxAttempts encodes.
package compress

// Fixed search constants.
const (
	MaxAttempts = 10

	QualityFloor     = 25
	QualityAfterFit  = 60 // Quality after the forced resize on the second attempt.
	QualityAfterStep = 50 // Quality after a scale step-down at the floor.
	AlphaQualityMin  = 60

	InitialScale = 60   // Percent, applied to tiered sources and on the second attempt.
	ScaleFactor  = 0.85 // Compounding scale step-down.
)

// Settings are the configurable parts of the search.
type Settings struct {
	BudgetBytes int64

	// Source size thresholds in MiB, ascending.
	TierLowMB  float64
	TierMidMB  float64
	TierHighMB float64
}

// Tier is the starting point chosen from the source file size.
type Tier struct {
	Quality int
	Resize  bool // Start at InitialScale instead of 100%.
}

// TierFor picks the starting quality by source byte size. Sizes are
// compared in fractional MiB with strict greater-than, so a source of
// exactly TierLowMB stays in the lowest tier.
//
//	> high: 45, resized
//	> mid:  55, resized
//	> low:  65, resized
//	else:   70
func (s Settings) TierFor(sourceSize int64) Tier {
	mb := float64(sourceSize) / 1024 / 1024
	switch {
	case mb > s.TierHighMB:
		return Tier{Quality: 45, Resize: true}
	case mb > s.TierMidMB:
		return Tier{Quality: 55, Resize: true}
	case mb > s.TierLowMB:
		return Tier{Quality: 65, Resize: true}
	default:
		return Tier{Quality: 70}
	}
}

// qualityStep is how much to lower quality after an attempt of the given
// size: further over budget means a bigger step.
func (s Settings) qualityStep(size int64) int {
	switch {
	case size > 2*s.BudgetBytes:
		return 10
	case float64(size) > 1.5*float64(s.BudgetBytes):
		return 8
	default:
		return 5
	}
}
