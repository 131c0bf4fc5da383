package feed

import (
	"bufio"
	"bytes"
	"context"
	"io"
)

const maxLine = 4 << 20

// LineReader reads one JSON message per line, e.g. from a FIFO or a pipe.
type LineReader struct {
	R io.Reader
}

func (l LineReader) Run(ctx context.Context, deliver func([]byte)) error {
	sc := bufio.NewScanner(l.R)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		msg := make([]byte, len(line))
		copy(msg, line)
		deliver(msg)
	}
	return sc.Err()
}
