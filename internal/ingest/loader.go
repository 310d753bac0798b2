package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ppiankov/sharechart/internal/cache"
)

// Loader reads, decodes and parses source files. Decoded contents are
// memoized in the given cache keyed by path and encoding; entries live until
// the process exits.
type Loader struct {
	cache    cache.Cache
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// NewLoader creates a loader backed by c. A nil cache disables memoization.
func NewLoader(c cache.Cache, logger *slog.Logger) *Loader {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		cache:    c,
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// Load returns the parsed table for path. Failures are *MissingFileError or
// *ParseError.
func (l *Loader) Load(ctx context.Context, path string, enc Encoding) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.decoded(path, enc)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

func (l *Loader) decoded(path string, enc Encoding) ([]byte, error) {
	key := cache.Key(path) + ":" + string(enc)
	if data, ok := l.cache.Get(key); ok {
		l.logger.Debug("cache hit", "path", path)
		return data, nil
	}

	raw, err := l.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	data, err := Decode(raw, enc)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	l.logger.Debug("loaded file", "path", path, "bytes", len(raw), "encoding", string(enc))
	l.cache.Set(key, data)
	return data, nil
}
