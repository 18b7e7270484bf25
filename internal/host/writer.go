package host

import (
	"io"
	"strconv"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/spanlab/spanedit/internal/engine/span"
)

// Writer is a Host that encodes every committed span set as a single
// JSON array and writes it as one line to the underlying writer. Layout
// pings are ignored; they carry no data a stream consumer needs.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// SpansChanged encodes and writes the span set. Write errors are sticky:
// after the first failure all further emissions are dropped.
func (wr *Writer) SpansChanged(spans []span.Span) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.err != nil {
		return
	}
	line := EncodeSpans(spans)
	_, wr.err = wr.w.Write(append(line, '\n'))
}

// LayoutChanged is a no-op for stream output.
func (wr *Writer) LayoutChanged(width, height int) {}

// Err returns the first write error, if any.
func (wr *Writer) Err() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	return wr.err
}

// EncodeSpans renders the span list as a JSON array in host order.
func EncodeSpans(spans []span.Span) []byte {
	out := []byte("[]")
	for i, sp := range spans {
		p := strconv.Itoa(i)
		out, _ = sjson.SetBytes(out, p+".start", sp.Start)
		out, _ = sjson.SetBytes(out, p+".end", sp.End)
		out, _ = sjson.SetBytes(out, p+".label", sp.Label)
	}
	return out
}
