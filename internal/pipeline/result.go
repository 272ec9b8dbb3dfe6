package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/webpdrop/internal/compress"
	"github.com/backmassage/webpdrop/internal/probe"
)

// Outcome is the terminal state of one conversion.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// ErrorKind classifies a conversion error.
type ErrorKind int

const (
	KindNone       ErrorKind = iota
	KindDecode               // Source bytes are not a readable image.
	KindEncode               // The encoder rejected the pixels or parameters.
	KindMetadata             // EXIF extraction or reattachment failed (never fatal).
	KindFilesystem           // Read, write, create, move or delete failed.
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindMetadata:
		return "metadata"
	case KindFilesystem:
		return "filesystem"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ConversionError tags an error with its kind and the step that failed.
type ConversionError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first ConversionError in err's chain, or
// KindNone.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindNone
}

func convErr(kind ErrorKind, op string, err error) error {
	return &ConversionError{Kind: kind, Op: op, Err: err}
}

// Job is the working state of one file while it is converted.
type Job struct {
	ID         uuid.UUID
	Source     *probe.SourceImage
	OutputPath string
	History    []compress.Attempt
}

// Result is what a conversion reports back to the runner.
type Result struct {
	JobID   uuid.UUID
	Path    string // Source path.
	Name    string
	Outcome Outcome
	Kind    ErrorKind // KindNone on success, KindMetadata for a non-fatal metadata problem.
	Err     error

	SourceSize int64
	SourceW    int
	SourceH    int
	FinalSize  int64
	FinalW     int
	FinalH     int
	Scale      int
	Quality    int
	Attempts   int
	BudgetMet  bool

	HasMetadata       bool
	MetadataPreserved bool

	OutputPath     string
	QuarantinePath string // Set by the runner after a failure was quarantined.
	Duration       time.Duration
}

// Succeeded reports whether the outcome is Success.
func (r *Result) Succeeded() bool { return r.Outcome == OutcomeSuccess }

// Reduction returns the size reduction in percent (negative when the
// output grew).
func (r *Result) Reduction() float64 {
	if r.SourceSize <= 0 {
		return 0
	}
	return (1 - float64(r.FinalSize)/float64(r.SourceSize)) * 100
}
