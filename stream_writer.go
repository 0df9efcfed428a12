// stream_writer.go
// ----------------
// Persistence of a drained stream as newline-delimited JSON, either to a
// single file or chunked into time-stamped files of a fixed size.
package searchtweets

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

const fileTimeLayout = "2006-01-02T15_04_05"

// StreamWriter writes records from an iterator to ndjson files. Files
// already written are kept when the stream fails mid-way, so a failed run
// still leaves the partial results on disk.
type StreamWriter struct {
	// Prefix is the base name for output files. Defaults to
	// "twitter_search_results".
	Prefix string

	// ResultsPerFile, when positive, chunks the output into files named
	// "<prefix>_<timestamp>.json" holding at most that many records each.
	// Zero writes a single "<prefix>.json".
	ResultsPerFile int

	Logger *zap.Logger
}

// Write drains the iterator to disk and returns the number of records
// written.
func (w *StreamWriter) Write(ctx context.Context, it Iterator[*Tweet]) (int, error) {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := w.Prefix
	if prefix == "" {
		prefix = "twitter_search_results"
	}

	written := 0
	for chunk := 1; ; chunk++ {
		name := prefix + ".json"
		if w.ResultsPerFile > 0 {
			// The sequence number keeps chunks written within the same
			// second from clobbering each other.
			name = fmt.Sprintf("%s_%s_%04d.json", prefix, time.Now().UTC().Format(fileTimeLayout), chunk)
		}
		n, err := w.writeFile(ctx, name, it, logger)
		written += n
		if err != nil {
			return written, err
		}
		// A short (or empty) chunk means the stream is drained.
		if w.ResultsPerFile == 0 || n < w.ResultsPerFile {
			return written, nil
		}
	}
}

func (w *StreamWriter) writeFile(ctx context.Context, name string, it Iterator[*Tweet], logger *zap.Logger) (int, error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, err
	}
	logger.Info("writing results", zap.String("file", name))

	buf := bufio.NewWriter(f)
	n := 0
	for w.ResultsPerFile == 0 || n < w.ResultsPerFile {
		t, err := it.Next(ctx)
		if err != nil {
			flushErr := closeFile(buf, f)
			if errors.Is(err, ErrStreamDone) {
				return n, flushErr
			}
			return n, err
		}
		if err := writeNDJSONLine(buf, t); err != nil {
			f.Close()
			return n, err
		}
		n++
	}
	return n, closeFile(buf, f)
}

// WriteNDJSON drains the iterator to w, one JSON record per line, and
// returns the number of records written.
func WriteNDJSON(ctx context.Context, w io.Writer, it Iterator[*Tweet]) (int, error) {
	buf := bufio.NewWriter(w)
	n := 0
	for {
		t, err := it.Next(ctx)
		if err != nil {
			flushErr := buf.Flush()
			if errors.Is(err, ErrStreamDone) {
				return n, flushErr
			}
			return n, err
		}
		if err := writeNDJSONLine(buf, t); err != nil {
			return n, err
		}
		n++
	}
}

func writeNDJSONLine(buf *bufio.Writer, t *Tweet) error {
	if _, err := buf.Write(t.Raw()); err != nil {
		return err
	}
	return buf.WriteByte('\n')
}

func closeFile(buf *bufio.Writer, f *os.File) error {
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
