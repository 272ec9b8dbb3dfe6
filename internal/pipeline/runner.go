package pipeline

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/backmassage/webpdrop/internal/display"
	"github.com/backmassage/webpdrop/internal/metrics"
	"github.com/backmassage/webpdrop/internal/naming"
)

// Runner processes batches of files strictly in order: no file starts
// before the previous file's conversion has returned.
type Runner struct {
	conv   Converter
	router *naming.Router
	rec    *metrics.Recorder
	log    *zap.Logger
	budget int64
}

// NewRunner wires a Runner. rec may be nil.
func NewRunner(conv Converter, router *naming.Router, rec *metrics.Recorder, budgetBytes int64, log *zap.Logger) *Runner {
	return &Runner{conv: conv, router: router, rec: rec, budget: budgetBytes, log: log}
}

// ProcessBatch converts each file and moves failures to the quarantine
// folder. One file's failure never stops the batch.
func (r *Runner) ProcessBatch(files []string) RunStats {
	var stats RunStats
	if len(files) == 0 {
		return stats
	}

	r.log.Info("found images to convert", zap.Int("count", len(files)))
	for i, path := range files {
		r.log.Info("converting",
			zap.Int("n", i+1),
			zap.Int("of", len(files)),
			zap.String("file", filepath.Base(path)),
		)

		res := r.conv.Convert(path)
		if !res.Succeeded() {
			dest, err := r.router.Quarantine(path)
			if err != nil {
				stats.QuarantineErrors++
				r.rec.ObserveQuarantineError()
				r.log.Error("cannot move to failed folder, source left in place",
					zap.String("file", res.Name), zap.Error(err))
			} else {
				res.QuarantinePath = dest
			}
		}

		r.report(res)
		stats.Add(res)
		r.rec.ObserveConversion(metrics.Conversion{
			Success:           res.Succeeded(),
			Kind:              res.Kind.String(),
			Duration:          res.Duration,
			Attempts:          res.Attempts,
			InputBytes:        res.SourceSize,
			OutputBytes:       res.FinalSize,
			BudgetMet:         res.BudgetMet,
			HasMetadata:       res.HasMetadata,
			MetadataPreserved: res.MetadataPreserved,
		})
	}

	r.log.Info("batch complete",
		zap.Int("converted", stats.Succeeded),
		zap.Int("failed", stats.Failed),
	)
	return stats
}

// report logs the per-file outcome: sizes, reduction, scale, quality,
// attempts and metadata status for a success; the error and quarantine
// destination for a failure.
func (r *Runner) report(res Result) {
	if !res.Succeeded() {
		fields := []zap.Field{
			zap.String("file", res.Name),
			zap.Stringer("kind", res.Kind),
			zap.Error(res.Err),
		}
		if res.QuarantinePath != "" {
			fields = append(fields, zap.String("moved_to", filepath.Base(res.QuarantinePath)))
		}
		r.log.Error("conversion failed", fields...)
		return
	}

	metaStatus := "none"
	if res.HasMetadata {
		metaStatus = "lost"
		if res.MetadataPreserved {
			metaStatus = "preserved"
		}
	}
	r.log.Info("converted",
		zap.String("file", res.Name),
		zap.String("output", res.OutputPath),
		zap.String("size", display.FormatKB(res.SourceSize)+" -> "+display.FormatKB(res.FinalSize)),
		zap.String("reduction", formatPercent(res.Reduction())),
		zap.String("dimensions", dims(res.SourceW, res.SourceH)+" -> "+dims(res.FinalW, res.FinalH)),
		zap.Int("scale", res.Scale),
		zap.Int("quality", res.Quality),
		zap.Int("attempts", res.Attempts),
		zap.String("metadata", metaStatus),
		zap.Duration("took", res.Duration),
	)
	if !res.BudgetMet {
		r.log.Warn("output exceeds size budget",
			zap.String("file", res.Name),
			zap.String("size", display.FormatKB(res.FinalSize)),
			zap.String("budget", display.FormatKB(r.budget)),
		)
	}
	if res.HasMetadata && !res.MetadataPreserved {
		r.log.Warn("EXIF not preserved in output", zap.String("file", res.Name))
	}
}

// LogTotals prints the cumulative statistics, as on shutdown.
func LogTotals(log *zap.Logger, stats RunStats) {
	log.Info("total statistics",
		zap.Int("converted", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("over_budget", stats.BudgetUnmet),
		zap.Int("metadata_preserved", stats.MetadataPreserved),
		zap.Int("metadata_lost", stats.MetadataLost),
	)
	if stats.Succeeded == 0 {
		return
	}
	saved := stats.SpaceSaved()
	log.Info("space saved",
		zap.String("saved", display.FormatBytesWithSign(saved)),
		zap.String("input", display.FormatBytes(stats.TotalInputBytes)),
		zap.String("output", display.FormatBytes(stats.TotalOutputBytes)),
	)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func dims(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
