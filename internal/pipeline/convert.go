package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/compress"
	"github.com/backmassage/webpdrop/internal/metadata"
	"github.com/backmassage/webpdrop/internal/naming"
	"github.com/backmassage/webpdrop/internal/probe"
)

// Converter converts one source file. Implementations never return an
// error: every failure is reported inside the Result.
type Converter interface {
	Convert(path string) Result
}

// FileConverter is the production Converter.
type FileConverter struct {
	engine *compress.Engine
	enc    codec.Encoder
	router *naming.Router
	log    *zap.Logger
}

// NewFileConverter wires a converter. The engine must have been built
// with enc, whose Extension names the output files.
func NewFileConverter(engine *compress.Engine, enc codec.Encoder, router *naming.Router, log *zap.Logger) *FileConverter {
	return &FileConverter{engine: engine, enc: enc, router: router, log: log}
}

// Convert runs one file through the pipeline. On success the output is in
// today's dated folder and the source is gone. On failure the source is
// untouched and no output file is left behind; routing the source to the
// quarantine folder is the caller's job.
func (c *FileConverter) Convert(path string) Result {
	start := time.Now()
	job := &Job{ID: uuid.New()}
	res := Result{JobID: job.ID, Path: path, Name: filepath.Base(path), Outcome: OutcomeFailure}
	log := c.log.With(zap.String("job", job.ID.String()), zap.String("file", res.Name))

	fail := func(err error) Result {
		res.Kind = KindOf(err)
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(convErr(KindFilesystem, "read source", err))
	}
	src, err := probe.FromBytes(path, data)
	if err != nil {
		return fail(convErr(KindDecode, "read header", err))
	}
	job.Source = src
	res.SourceSize, res.SourceW, res.SourceH = src.Size, src.Width, src.Height
	res.HasMetadata = src.HasMetadata()
	if src.MetadataErr != nil {
		res.Kind = KindMetadata
		log.Warn("EXIF unreadable, converting without metadata", zap.Error(src.MetadataErr))
	}

	img, err := codec.Decode(data)
	if err != nil {
		return fail(convErr(KindDecode, "decode", err))
	}
	img, mode := codec.Normalize(img)
	log.Debug("decoded",
		zap.String("format", src.Format),
		zap.String("dimensions", src.Dimensions()),
		zap.Stringer("source_mode", src.Mode),
		zap.Stringer("mode", mode),
		zap.Bool("exif", res.HasMetadata),
	)

	dir, err := c.router.OutputFolderForToday()
	if err != nil {
		return fail(convErr(KindFilesystem, "output folder", err))
	}
	job.OutputPath = naming.OutputPath(dir, src.Name, c.enc.Extension())

	encoded, st, err := c.engine.Compress(img, src.Metadata, src.Size)
	job.History = st.History
	if err != nil {
		return fail(convErr(KindEncode, "encode", err))
	}

	if err := naming.WriteFileAtomic(job.OutputPath, encoded); err != nil {
		return fail(convErr(KindFilesystem, "write output", err))
	}

	if res.HasMetadata {
		ok, err := metadata.Reattach(job.OutputPath, src.Metadata)
		if err != nil {
			res.Kind = KindMetadata
			log.Warn("EXIF reattach failed", zap.Error(err))
		}
		res.MetadataPreserved = ok
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		// The source stays, so the output must go: a source exists iff the
		// conversion failed.
		if rmErr := os.Remove(job.OutputPath); rmErr != nil {
			log.Error("cannot remove output after failed source delete", zap.Error(rmErr))
		}
		return fail(convErr(KindFilesystem, "delete source", err))
	}

	res.Outcome = OutcomeSuccess
	if res.Kind != KindMetadata {
		res.Kind = KindNone
	}
	res.OutputPath = job.OutputPath
	res.FinalSize = st.FinalSize
	res.FinalW, res.FinalH = st.Width, st.Height
	res.Scale, res.Quality = st.Scale, st.Quality
	res.Attempts = st.Attempts
	res.BudgetMet = st.BudgetMet
	res.Duration = time.Since(start)
	if res.HasMetadata && res.MetadataPreserved {
		if info, err := os.Stat(job.OutputPath); err == nil {
			res.FinalSize = info.Size()
		}
	}
	return res
}
