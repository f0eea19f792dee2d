// Package linefile reads headlines from a text source, one headline per line.
package linefile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

// maxLineBytes bounds a single headline line.
const maxLineBytes = 1 << 20

// Reader yields numbered headlines in file order. Every line produces a
// headline, blank ones included; a trailing newline at end of input does not.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	done    bool
}

// NewReader wraps r. The caller keeps ownership of r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: s}
}

// Open opens a headline file. Close releases it.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open headline file: %w", err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// ExtractBatch returns up to batchSize headlines. Once the input is
// exhausted it returns io.EOF with no headlines.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawHeadline, error) {
	if r.done {
		return nil, io.EOF
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	batch := make([]domain.RawHeadline, 0, batchSize)
	for len(batch) < batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.scanner.Scan() {
			r.done = true
			if err := r.scanner.Err(); err != nil {
				return nil, fmt.Errorf("read line %d: %w", r.line+1, err)
			}
			break
		}
		r.line++
		batch = append(batch, domain.RawHeadline{Line: r.line, Text: r.scanner.Text()})
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Lines returns the number of lines read so far.
func (r *Reader) Lines() int {
	return r.line
}

// Close closes the underlying file when the Reader opened it.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
