package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each line.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	midline bool
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements the io.Writer interface. The prefix is emitted at the
// start of every line, including a line split across multiple writes.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		if !pw.midline {
			if _, err := pw.writer.Write(pw.prefix); err != nil {
				return total - len(p), err
			}
			pw.midline = true
		}

		chunk := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			chunk = p[:i+1]
			pw.midline = false
		}
		n, err := pw.writer.Write(chunk)
		p = p[n:]
		if err != nil {
			return total - len(p), err
		}
		if pw.midline {
			break // no newline left, wait for more data
		}
	}
	return total, nil
}
