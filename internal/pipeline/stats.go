package pipeline

// RunStats tracks aggregate counters and byte totals across batches.
type RunStats struct {
	Total             int // Files processed.
	Succeeded         int
	Failed            int
	BudgetUnmet       int // Successes whose output is over budget.
	MetadataPreserved int
	MetadataLost      int // Sources with metadata whose output lacks it.
	QuarantineErrors  int // Failures left in the source folder.
	TotalInputBytes   int64
	TotalOutputBytes  int64
}

// Add folds one result into the totals.
func (s *RunStats) Add(r Result) {
	s.Total++
	if !r.Succeeded() {
		s.Failed++
		return
	}
	s.Succeeded++
	s.TotalInputBytes += r.SourceSize
	s.TotalOutputBytes += r.FinalSize
	if !r.BudgetMet {
		s.BudgetUnmet++
	}
	if r.HasMetadata {
		if r.MetadataPreserved {
			s.MetadataPreserved++
		} else {
			s.MetadataLost++
		}
	}
}

// Merge adds the counters of o into s.
func (s *RunStats) Merge(o RunStats) {
	s.Total += o.Total
	s.Succeeded += o.Succeeded
	s.Failed += o.Failed
	s.BudgetUnmet += o.BudgetUnmet
	s.MetadataPreserved += o.MetadataPreserved
	s.MetadataLost += o.MetadataLost
	s.QuarantineErrors += o.QuarantineErrors
	s.TotalInputBytes += o.TotalInputBytes
	s.TotalOutputBytes += o.TotalOutputBytes
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
