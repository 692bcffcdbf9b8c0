package hal

import (
	"bytes"
	"sync"
)

// LineWriter adapts a Logger to io.Writer. Each complete line written is
// forwarded without its trailing newline; a partial line is held until the
// rest arrives.
type LineWriter struct {
	mu  sync.Mutex
	l   Logger
	buf []byte
}

// NewLineWriter returns a writer feeding l. A nil l discards everything.
func NewLineWriter(l Logger) *LineWriter {
	return &LineWriter{l: l}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(p)
	if w.l == nil {
		return n, nil
	}
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.buf = append(w.buf, p...)
			break
		}
		if len(w.buf) > 0 {
			w.buf = append(w.buf, p[:i]...)
			w.l.WriteLineBytes(w.buf)
			w.buf = w.buf[:0]
		} else {
			w.l.WriteLineBytes(p[:i])
		}
		p = p[i+1:]
	}
	return n, nil
}
