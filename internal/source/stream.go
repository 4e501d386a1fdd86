// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/afero"

	"parun/internal/ctxlog"
	"parun/internal/model"
)

// ErrSource wraps any failure opening or reading one input stream. Per §7
// "SourceError on one input aborts that input only; subsequent inputs are
// still read", a wrapped error here never aborts the whole Source.Run.
var ErrSource = errors.New("source error")

// StreamInput names one input-stream-mode source: "-" for stdin, or a path
// resolved against Fs.
type StreamInput struct {
	Name string
}

// dropCR drops a trailing '\r' byte, mirroring bufio.ScanLines so that
// CRLF-terminated input files behave the same as the default newline split.
func dropCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}

	return data
}

// scanNull is a bufio.SplitFunc that splits on NUL bytes, the §6
// "--null-separator" record format.
func scanNull(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// readStream reads one input to completion, emitting one InvocationRecord
// per non-skipped record onto out. Empty records and records beginning
// with '#' are skipped per §4.1's comment policy; skipped records do not
// consume an InvocationID.
//
// nextID is called to mint the next ID for every record that is NOT
// skipped; it must be safe to call sequentially from this one goroutine.
func readStream(
	ctx context.Context,
	r io.Reader,
	in StreamInput,
	nullSeparator bool,
	nextID func() model.InvocationID,
	out chan<- model.InvocationRecord,
) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if nullSeparator {
		scanner.Split(scanNull)
	} else {
		scanner.Split(bufio.ScanLines)
	}

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		text := string(dropCR(scanner.Bytes()))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec := model.InvocationRecord{
			ID:        nextID(),
			RawFields: []string{text},
			Origin:    model.Origin{SourceName: in.Name, LineNumber: lineNo},
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		ctxlog.Logger(ctx).Warn("source error reading input",
			"source", in.Name, "error", errors.Join(ErrSource, err))
	}
}

// openStreamInput opens one StreamInput for reading. "-" reads from stdin;
// anything else is resolved against fs, so tests can use afero.NewMemMapFs
// without touching the real filesystem (§E.1 "Test tooling").
func openStreamInput(fs afero.Fs, stdin io.Reader, in StreamInput) (io.ReadCloser, error) {
	if in.Name == "-" {
		if rc, ok := stdin.(io.ReadCloser); ok {
			return rc, nil
		}

		return nopCloser{stdin}, nil
	}

	f, err := fs.Open(in.Name)
	if err != nil {
		return nil, errors.Join(ErrSource, err)
	}

	return f, nil
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }
