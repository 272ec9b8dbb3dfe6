package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/backmassage/webpdrop/internal/metrics"
)

// State is the supervisory loop's current phase.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateProcessing
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateProcessing:
		return "processing"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Supervisor polls the source folder and feeds what it finds to a Runner.
type Supervisor struct {
	sourceDir   string
	interval    time.Duration
	runner      *Runner
	rec         *metrics.Recorder
	metricsFile string
	log         *zap.Logger

	state  State
	totals RunStats

	// observe, when set, sees every state transition.
	observe func(State)
}

// NewSupervisor wires a Supervisor. rec may be nil; metricsFile may be
// empty.
func NewSupervisor(sourceDir string, interval time.Duration, runner *Runner, rec *metrics.Recorder, metricsFile string, log *zap.Logger) *Supervisor {
	return &Supervisor{
		sourceDir:   sourceDir,
		interval:    interval,
		runner:      runner,
		rec:         rec,
		metricsFile: metricsFile,
		log:         log,
	}
}

// State returns the current phase.
func (s *Supervisor) State() State { return s.state }

// Totals returns the statistics accumulated so far.
func (s *Supervisor) Totals() RunStats { return s.totals }

// Run polls until ctx is cancelled and returns the accumulated totals.
// Cancellation is checked once per iteration, before each scan and while
// waiting for the next tick, never during a batch: a quit request that
// arrives mid-batch takes effect when the batch is done.
func (s *Supervisor) Run(ctx context.Context) RunStats {
	for {
		if ctx.Err() != nil {
			return s.cancel()
		}
		s.tick()

		wait := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return s.cancel()
		case <-wait.C:
		}
	}
}

// RunOnce scans and processes the current backlog a single time.
func (s *Supervisor) RunOnce() RunStats {
	s.tick()
	LogTotals(s.log, s.totals)
	return s.totals
}

func (s *Supervisor) cancel() RunStats {
	s.setState(StateCancelled)
	s.log.Info("stopping converter")
	LogTotals(s.log, s.totals)
	return s.totals
}

// tick is one Idle -> Scanning -> (Processing ->) Idle cycle.
func (s *Supervisor) tick() {
	s.setState(StateScanning)
	files, err := Discover(s.sourceDir)
	if err != nil {
		s.log.Error("scan source folder", zap.String("dir", s.sourceDir), zap.Error(err))
		s.setState(StateIdle)
		return
	}
	s.rec.ObserveScan(len(files))

	if len(files) > 0 {
		s.setState(StateProcessing)
		s.totals.Merge(s.runner.ProcessBatch(files))
		if err := s.rec.WriteTextfile(s.metricsFile); err != nil {
			s.log.Warn("write metrics file", zap.String("path", s.metricsFile), zap.Error(err))
		}
	}
	s.setState(StateIdle)
}

func (s *Supervisor) setState(st State) {
	if st != s.state {
		s.log.Debug("state", zap.Stringer("from", s.state), zap.Stringer("to", st))
	}
	s.state = st
	if s.observe != nil {
		s.observe(st)
	}
}
