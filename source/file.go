package source

import (
	"context"
	"fmt"
	"iter"
	"os"

	"github.com/hupe1980/kmergraph/blobstore"
)

// Options configures text sources.
type Options struct {
	// Format forces a layout instead of detecting it.
	Format Format
}

// DefaultOptions detects the format.
var DefaultOptions = Options{Format: FormatAuto}

func applyOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

type fileSource struct {
	path string
	opts Options
}

// File returns a Source that parses the file at path on every replay.
func File(path string, optFns ...func(o *Options)) Source {
	return &fileSource{path: path, opts: applyOptions(optFns)}
}

func (s *fileSource) Sequences(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() { _ = f.Close() }()

		stopped := false
		err = Parse(ctx, f, s.opts.Format, func(seq []byte) bool {
			if !yield(seq, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf("source: %s: %w", s.path, err))
		}
	}
}

type blobSource struct {
	store blobstore.Store
	name  string
	opts  Options
}

// Blob returns a Source that parses a blob on every replay.
func Blob(store blobstore.Store, name string, optFns ...func(o *Options)) Source {
	return &blobSource{store: store, name: name, opts: applyOptions(optFns)}
}

func (s *blobSource) Sequences(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		b, err := s.store.Open(ctx, s.name)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() { _ = b.Close() }()

		stopped := false
		err = Parse(ctx, blobstore.NewReader(ctx, b), s.opts.Format, func(seq []byte) bool {
			if !yield(seq, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf("source: blob %s: %w", s.name, err))
		}
	}
}
