package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-et-stats/internal/metrics"
	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/parser"
)

// FileError is a file that could not be decoded at all.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// DecodeAll decodes every path on a pool of at most workers goroutines. A
// failing file never stops its siblings; only context cancellation does.
// Decoded files are returned in input order.
func DecodeAll(ctx context.Context, paths []string, workers int, m *metrics.Metrics) ([]*model.RoundFile, []FileError, error) {
	if workers < 1 {
		workers = 1
	}

	decoded := make([]*model.RoundFile, len(paths))
	failed := make([]error, len(paths))

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		errGroup.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			start := time.Now()
			rf, errParse := parser.ParseFile(path)
			if errParse != nil {
				m.FileFailed()
				failed[i] = errParse
				slog.Warn("Failed to decode stats file", slog.String("path", path), slog.String("reason", errParse.Error()))
				return nil
			}
			m.FileDecoded(time.Since(start).Seconds())

			for _, le := range rf.LineErrors {
				m.LineRejected(lineErrorKind(le.Err))
				slog.Debug("Rejected player line", slog.String("path", path), slog.Int("line", le.Line),
					slog.String("reason", le.Err.Error()))
			}
			decoded[i] = rf
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, nil, fmt.Errorf("decode files: %w", err)
	}

	var (
		files    []*model.RoundFile
		fileErrs []FileError
	)
	for i, path := range paths {
		switch {
		case failed[i] != nil:
			fileErrs = append(fileErrs, FileError{Path: path, Err: failed[i]})
		case decoded[i] != nil:
			files = append(files, decoded[i])
		}
	}
	return files, fileErrs, nil
}

func lineErrorKind(err error) string {
	switch {
	case errors.Is(err, parser.ErrFieldCountMismatch):
		return "field_count"
	case errors.Is(err, parser.ErrNumericParse):
		return "numeric"
	case errors.Is(err, parser.ErrMissingExtendedBlock):
		return "missing_extended"
	default:
		return "malformed"
	}
}
