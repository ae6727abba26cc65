// Package seed loads a catalog document and writes it to the database.
package seed

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// maxDocumentSize bounds how much a loader will read from one document.
const maxDocumentSize = 16 << 20

// Loader fetches a raw seed document.
type Loader interface {
	// Load returns the document bytes, decompressed when path ends in ".gz".
	Load(ctx context.Context, path string) ([]byte, error)
}

// fileLoader implements Loader for the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", path).Msg("loading seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	data, err := readDocument(file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read seed file")
		return nil, err
	}

	l.logger.Info().Str("file", path).Int("bytes", len(data)).Msg("seed file loaded")
	return data, nil
}

// readDocument reads r fully, unwrapping gzip when name ends in ".gz".
func readDocument(r io.Reader, name string) ([]byte, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("seed document %s exceeds %d bytes", name, maxDocumentSize)
	}
	return data, nil
}
